package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := map[string]string{
		"```json\n[{\"label\":\"a\"}]\n```": `[{"label":"a"}]`,
		"```\n[1]\n```":                     `[1]`,
		"```JSON\n[]```":                    `[]`,
		"```[2]```":                         `[2]`,
		"  [3]  ":                           `[3]`,
	}
	for in, want := range tests {
		assert.Equal(t, want, StripCodeFences(in), "input %q", in)
	}
}

func TestExtractJSONArray(t *testing.T) {
	assert.Equal(t, `[{"a":1}]`, ExtractJSONArray(`Here you go: [{"a":1}] hope it helps`))
	assert.Equal(t, "no array", ExtractJSONArray("no array"))
}

func TestDataURLRoundTrip(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 1, 2, 3}
	u := MakeDataURL("image/jpeg", data)
	assert.Equal(t, "data:image/jpeg;base64,/9j/4AECAw==", u)

	got, mime, err := ParseDataURL(u)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.Equal(t, data, got)
}

func TestParseDataURLRejectsOtherSchemes(t *testing.T) {
	_, _, err := ParseDataURL("https://example.com/leaf.jpg")
	assert.ErrorIs(t, err, ErrNotDataURL)

	_, _, err = ParseDataURL("data:text/plain,hello")
	assert.ErrorIs(t, err, ErrNotDataURL)
}

func TestPickMIME(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}
	assert.Equal(t, "image/png", PickMIME("", png))
	assert.Equal(t, "image/png", PickMIME("application/octet-stream", png))
	assert.Equal(t, "image/webp", PickMIME("IMAGE/WEBP", png))
	assert.Equal(t, "application/octet-stream", PickMIME("", nil))
}
