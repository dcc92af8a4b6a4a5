package intake

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/util"
)

func leafPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{G: uint8(100 + x%100), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateAcceptsImage(t *testing.T) {
	data := leafPNG(t, 32, 32)
	p, err := Validate(Upload{Filename: "leaf.png", MIME: "image/png", Data: data})
	require.NoError(t, err)

	assert.Equal(t, "image/png", p.MIME)
	assert.Equal(t, int64(len(data)), p.Size)
	assert.Contains(t, p.DataURI, "data:image/png;base64,")
}

func TestValidateSniffsMissingMIME(t *testing.T) {
	p, err := Validate(Upload{Data: leafPNG(t, 8, 8)})
	require.NoError(t, err)
	assert.Equal(t, "image/png", p.MIME)
}

func TestValidateRejectsNonImage(t *testing.T) {
	_, err := Validate(Upload{Filename: "notes.pdf", MIME: "application/pdf", Data: []byte("%PDF-1.4")})
	require.ErrorIs(t, err, ErrInvalidFileType)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestValidateRejectsOversize(t *testing.T) {
	data := make([]byte, MaxUploadBytes+1)
	_, err := Validate(Upload{MIME: "image/jpeg", Data: data})
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Equal(t, "File too large. Maximum size is 10MB.", UserMessage(err))
}

func TestValidateAcceptsExactLimit(t *testing.T) {
	data := make([]byte, MaxUploadBytes)
	_, err := Validate(Upload{MIME: "image/jpeg", Data: data})
	require.NoError(t, err)
}

func TestValidateRejectsEmpty(t *testing.T) {
	_, err := Validate(Upload{MIME: "image/jpeg"})
	require.ErrorIs(t, err, ErrUnreadableImage)
}

func TestThumbnailDownscales(t *testing.T) {
	p, err := Validate(Upload{MIME: "image/png", Data: leafPNG(t, 800, 600)})
	require.NoError(t, err)

	uri, err := Thumbnail(p)
	require.NoError(t, err)

	data, mime, err := util.ParseDataURL(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestThumbnailKeepsSmallImages(t *testing.T) {
	p, err := Validate(Upload{MIME: "image/png", Data: leafPNG(t, 120, 80)})
	require.NoError(t, err)

	uri, err := Thumbnail(p)
	require.NoError(t, err)
	data, _, err := util.ParseDataURL(uri)
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Width)
}

func TestThumbnailUndecodable(t *testing.T) {
	_, err := Thumbnail(Payload{MIME: "image/heic", Data: []byte("not really an image")})
	require.Error(t, err)
}

func TestThumbnailDecodesWebP(t *testing.T) {
	// 1x1 lossless WebP
	data, err := base64.StdEncoding.DecodeString("UklGRhoAAABXRUJQVlA4TA0AAAAvAAAAEAcQERGIiP4HAA==")
	require.NoError(t, err)

	uri, err := Thumbnail(Payload{MIME: "image/webp", Data: data})
	require.NoError(t, err)
	jpg, mime, err := util.ParseDataURL(uri)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(jpg))
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Width)
}
