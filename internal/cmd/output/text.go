package output

import (
	"io"
)

// TextHandler renders items with a caller supplied function, errors are returned unchanged.
type TextHandler[T any] struct {
	out    io.Writer
	render func(w io.Writer, item T) error
}

func NewTextHandler[T any](w io.Writer, render func(w io.Writer, item T) error) *TextHandler[T] {
	return &TextHandler[T]{
		out:    w,
		render: render,
	}
}

// Writer returns the underlying io.Writer where text will be written.
func (h *TextHandler[T]) Writer() io.Writer {
	return h.out
}

func (h *TextHandler[T]) HandleResult(item T) error {
	return h.render(h.out, item)
}

func (h *TextHandler[T]) HandleError(err error) error {
	return err
}
