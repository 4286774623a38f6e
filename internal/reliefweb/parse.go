package reliefweb

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jahirul76/reliefweb-mcp/internal/errors"
)

// searchResponse is the subset of a search response the adapter reads.
type searchResponse struct {
	Data []json.RawMessage `json:"data"`
}

type searchItem struct {
	Href any `json:"href"`
}

// ExtractHrefs returns the document hrefs listed under the top-level "data" field of a search
// response, in order of appearance.
//
// A body without "data" (for example an error object) yields an empty list.
// Entries that are not objects, or that have a missing, empty or non-string href, are skipped.
// ErrMalformedResponse is returned only when the body is not a JSON object.
func ExtractHrefs(body string) ([]string, error) {
	var resp searchResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrMalformedResponse, err)
	}

	hrefs := make([]string, 0, len(resp.Data))
	for _, raw := range resp.Data {
		var item searchItem
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}

		href, ok := item.Href.(string)
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}

		hrefs = append(hrefs, href)
	}

	return hrefs, nil
}
