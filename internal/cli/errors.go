package cli

import "fmt"

type readonlyError struct {
	colID string
}

func (e readonlyError) Error() string {
	return fmt.Sprintf("column %s is readonly", e.colID)
}

func errReadonly(colID string) error {
	return readonlyError{colID: colID}
}

// nothingToPasteError reports pasted text that left no value after filtering.
type nothingToPasteError struct {
	rowID string
	colID string
	text  string
}

func (e nothingToPasteError) Error() string {
	return fmt.Sprintf("nothing to paste into %s/%s from %q; cell unchanged", e.rowID, e.colID, e.text)
}

type invalidValueError struct {
	colID string
	kind  string
	value string
}

func (e invalidValueError) Error() string {
	return fmt.Sprintf("column %s expects a %s, got %q", e.colID, e.kind, e.value)
}
