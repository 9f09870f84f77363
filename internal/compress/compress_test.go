package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodecRoundTrip(t *testing.T) {
	codecs := map[string]Compress{
		CodecNop:    NewNop(),
		CodecGZip:   NewGZip(),
		CodecLZ4:    NewLZ4(),
		CodecBrotli: NewBrotli(),
	}

	content := []byte(`{"type":"doc","content":[{"type":"text","text":"No princípio criou Deus os céus e a terra."}]}`)

	for name, codec := range codecs {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, codec.Name())

			encoded, err := codec.Encode(content)
			assert.NoError(t, err)

			decoded, err := codec.Decode(encoded)
			assert.NoError(t, err)
			assert.Equal(t, content, decoded)
		})
	}
}

func TestByName(t *testing.T) {
	assert.IsType(t, GZip{}, ByName(CodecGZip))
	assert.IsType(t, LZ4{}, ByName(CodecLZ4))
	assert.IsType(t, Brotli{}, ByName(CodecBrotli))
	assert.IsType(t, Nop{}, ByName(""))
	assert.IsType(t, Nop{}, ByName("zstd"))
}
