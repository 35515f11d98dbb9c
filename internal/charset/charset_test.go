package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeWindows1252(t *testing.T) {
	decoded, err := Decode([]byte{'c', 'a', 'f', 0xE9}, "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, "café", string(decoded))
}

func TestEncodeWindows1252(t *testing.T) {
	encoded, err := Encode([]byte("café"), "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, []byte{'c', 'a', 'f', 0xE9}, encoded)
}

func TestRoundTripIdempotentForASCII(t *testing.T) {
	original := []byte("SELECT * FROM users; -- plain ascii\n")

	encoded, err := Encode(original, "windows-1252")
	require.NoError(t, err)
	decoded, err := Decode(encoded, "windows-1252")
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestMySQLAliases(t *testing.T) {
	for _, name := range []string{"utf8", "utf8mb3", "utf8mb4", "UTF8MB4"} {
		decoded, err := Decode([]byte("héllo"), name)
		require.NoError(t, err, name)
		assert.Equal(t, "héllo", string(decoded), name)
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, "utf-8", Detect([]byte("plain ascii")))
	assert.Equal(t, "utf-8", Detect([]byte("héllo")))
	assert.Equal(t, "windows-1252", Detect([]byte{'c', 'a', 'f', 0xE9}))
}

func TestDecodeAutoDetects(t *testing.T) {
	decoded, err := Decode([]byte{'c', 'a', 'f', 0xE9}, Auto)
	require.NoError(t, err)
	assert.Equal(t, "café", string(decoded))
}

func TestUnknownEncoding(t *testing.T) {
	_, err := Decode([]byte("x"), "ebcdic-37")
	assert.Error(t, err)
}
