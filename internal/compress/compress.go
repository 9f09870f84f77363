package compress

// Compress encodes and decodes study content at rest.
type Compress interface {
	// Name is the codec name stored alongside encoded content.
	Name() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// Codec names stored in the studies.compression column.
const (
	CodecNop    = "nop"
	CodecGZip   = "gzip"
	CodecLZ4    = "lz4"
	CodecBrotli = "brotli"
)

// ByName returns the codec for a stored compression name. Unknown or empty
// names decode as plain text.
func ByName(name string) Compress {
	switch name {
	case CodecGZip:
		return NewGZip()
	case CodecLZ4:
		return NewLZ4()
	case CodecBrotli:
		return NewBrotli()
	default:
		return NewNop()
	}
}
