package cmd

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jahirul76/reliefweb-mcp/internal/cmd/output"
)

type OutputFormat string

type OutputFormats []OutputFormat

const (
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
	FormatText OutputFormat = "text"
)

// AllowedOutputFormats returns the supported output formats in lexicographical order.
func AllowedOutputFormats() OutputFormats {
	formats := []OutputFormat{
		FormatJSON,
		FormatText,
		FormatYAML,
	}

	slices.Sort(formats)

	return formats
}

// String implements fmt.Stringer for a collection of output formats,
// converting them to a comma separated string.
func (f *OutputFormats) String() string {
	out := make([]string, len(*f))
	for i, v := range *f {
		out[i] = v.String()
	}
	return strings.Join(out, ", ")
}

// String implements fmt.Stringer, it is also required by Cobra as part of implementing flag.Value.
func (f *OutputFormat) String() string {
	return strings.ToLower(string(*f))
}

// Set is used by Cobra to set the output format value from a string.
func (f *OutputFormat) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	allowed := AllowedOutputFormats()

	if slices.Contains(allowed, OutputFormat(v)) {
		*f = OutputFormat(v)
		return nil
	}

	return fmt.Errorf("invalid format '%s', must be one of %v", v, allowed.String())
}

// Type is used by Cobra to get the 'type' of an output format for display purposes.
func (f *OutputFormat) Type() string {
	return "format"
}

// FormatHandler returns the output.Handler for the requested format.
// render is only used for FormatText.
func FormatHandler[T any](
	w io.Writer,
	format OutputFormat,
	render func(w io.Writer, item T) error,
) (output.Handler[T], error) {
	switch format {
	case FormatJSON:
		return output.NewJSONHandler[T](w, 2), nil
	case FormatYAML:
		return output.NewYAMLHandler[T](w, 2), nil
	case FormatText:
		return output.NewTextHandler(w, render), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format.String())
	}
}
