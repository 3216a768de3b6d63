package mapfile

import "fmt"

// Error kinds per §7 of the specification. Each is a named struct with
// its own Error() implementation, following the pattern of
// internal/parser/errors.go's ErrInvalidCoordinate / ErrInvalidGeometry:
// one struct per failure mode instead of sentinel errors.New values, so
// callers can type-switch on kind and still get a formatted message.

// ErrInvalidMagic indicates the 20-byte magic prefix did not match.
type ErrInvalidMagic struct {
	Got string
}

func (e *ErrInvalidMagic) Error() string {
	return fmt.Sprintf("invalid magic byte: %s", e.Got)
}

// ErrUnsupportedVersion indicates the fileVersion field was not 3.
type ErrUnsupportedVersion struct {
	Version int32
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported file version: %d", e.Version)
}

// ErrInvalidHeaderSize indicates the remaining-header-size field was
// out of the [70, 1_000_000] range.
type ErrInvalidHeaderSize struct {
	Size int32
}

func (e *ErrInvalidHeaderSize) Error() string {
	return fmt.Sprintf("invalid remaining header size: %d", e.Size)
}

// ErrInvalidFileSize indicates the header's declared file size did not
// match the actual file length.
type ErrInvalidFileSize struct {
	Declared int64
}

func (e *ErrInvalidFileSize) Error() string {
	return fmt.Sprintf("invalid file size: %d", e.Declared)
}

// ErrInvalidMapDate indicates mapDate was before 2008-01-10 (the
// 1_200_000_000_000 ms epoch floor).
type ErrInvalidMapDate struct {
	MapDate int64
}

func (e *ErrInvalidMapDate) Error() string {
	return fmt.Sprintf("invalid map date: %d", e.MapDate)
}

// ErrInvalidBoundingBox indicates a coordinate fell outside its valid
// range, or min > max on an axis.
type ErrInvalidBoundingBox struct {
	Reason string
}

func (e *ErrInvalidBoundingBox) Error() string {
	return fmt.Sprintf("invalid bounding box: %s", e.Reason)
}

// ErrInvalidTilePixelSize indicates tilePixelSize was not 256.
type ErrInvalidTilePixelSize struct {
	Size int16
}

func (e *ErrInvalidTilePixelSize) Error() string {
	return fmt.Sprintf("unsupported tile pixel size: %d", e.Size)
}

// ErrUnsupportedProjection indicates projectionName was not "Mercator".
type ErrUnsupportedProjection struct {
	Name string
}

func (e *ErrUnsupportedProjection) Error() string {
	return fmt.Sprintf("unsupported projection: %s", e.Name)
}

// ErrInvalidTagCount indicates a POI/way tag count field was negative,
// or a tile record referenced a tag id at or beyond the length of the
// tag table (Count then holds that id).
type ErrInvalidTagCount struct {
	Kind  string // "POI" or "way"
	Count int16
}

func (e *ErrInvalidTagCount) Error() string {
	return fmt.Sprintf("invalid number of %s tags: %d", e.Kind, e.Count)
}

// ErrNullTag indicates a tag string at a given index was absent.
type ErrNullTag struct {
	Kind  string
	Index int
}

func (e *ErrNullTag) Error() string {
	return fmt.Sprintf("%s tag must not be null: %d", e.Kind, e.Index)
}

// ErrBufferUnderflow indicates a read would have exceeded the active
// buffer or the configured maximum refill size.
type ErrBufferUnderflow struct {
	Requested int
	Available int
	Reason    string
}

func (e *ErrBufferUnderflow) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("buffer underflow: %s (requested %d, available %d)", e.Reason, e.Requested, e.Available)
	}
	return fmt.Sprintf("buffer underflow: requested %d, available %d", e.Requested, e.Available)
}

// ErrTruncatedTileBlock indicates a tile's structured payload ended
// before all POI/way records implied by the zoom table were decoded.
type ErrTruncatedTileBlock struct {
	Reason string
}

func (e *ErrTruncatedTileBlock) Error() string {
	return fmt.Sprintf("truncated tile block: %s", e.Reason)
}

// ErrIOError wraps an underlying I/O failure (file open, seek, read).
type ErrIOError struct {
	Op  string
	Err error
}

func (e *ErrIOError) Error() string {
	return fmt.Sprintf("io error during %s: %v", e.Op, e.Err)
}

func (e *ErrIOError) Unwrap() error {
	return e.Err
}
