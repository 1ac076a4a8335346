package compose

import "fmt"

// Renderer errors are detected eagerly at the offending block and abort the
// whole render; no partial Document is ever returned.  Each error carries the
// zero-based block index so callers can reproduce the failure.

// UnsupportedBlockKindError reports a block whose type tag is not one of the
// recognized kinds.
type UnsupportedBlockKindError struct {
	Index int    // position of the offending block in the input
	Kind  string // the unrecognized tag
}

func (e *UnsupportedBlockKindError) Error() string {
	return fmt.Sprintf("block %d: unsupported block kind %q", e.Index, e.Kind)
}

// InvalidHeadingLevelError reports a heading whose level is outside 1-6.
type InvalidHeadingLevelError struct {
	Index int
	Level int
}

func (e *InvalidHeadingLevelError) Error() string {
	return fmt.Sprintf("block %d: invalid heading level %d (must be 1-6)", e.Index, e.Level)
}

// RowLengthMismatchError reports a table row whose length differs from the
// header row.  Short rows only trigger this when Options.PadShortRows is
// false; rows longer than the header always do.
type RowLengthMismatchError struct {
	Index int // block index of the table
	Row   int // zero-based data row within the table
	Got   int
	Want  int
}

func (e *RowLengthMismatchError) Error() string {
	return fmt.Sprintf("block %d: table row %d has %d values, header has %d", e.Index, e.Row, e.Got, e.Want)
}

// SerializationError wraps a failure from an output serializer so callers can
// distinguish it from renderer validation errors.
type SerializationError struct {
	Format string // "docx", "xlsx", "html"
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serializing %s: %v", e.Format, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
