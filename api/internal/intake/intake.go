// Package intake validates uploaded plant photos and prepares the preview
// and thumbnail representations.
package intake

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"agrisakhi/api/internal/errors"
	"agrisakhi/api/internal/util"
)

// MaxUploadBytes is the largest accepted photo.
const MaxUploadBytes = 10 * 1024 * 1024

const (
	thumbWidth   = 400
	thumbHeight  = 300
	thumbQuality = 70
)

var (
	ErrInvalidFileType = stderrors.New("invalid file type")
	ErrFileTooLarge    = stderrors.New("file too large")
	ErrUnreadableImage = stderrors.New("unreadable image")
)

// UserMessage returns the text shown to the user for a validation error.
func UserMessage(err error) string {
	switch {
	case stderrors.Is(err, ErrInvalidFileType):
		return "Invalid file type. Please upload an image."
	case stderrors.Is(err, ErrFileTooLarge):
		return "File too large. Maximum size is 10MB."
	case stderrors.Is(err, ErrUnreadableImage):
		return "Could not read the image. Please try another photo."
	default:
		return "Invalid image."
	}
}

// Upload is a photo as received from a transport.
type Upload struct {
	Filename string
	MIME     string
	Data     []byte
}

// Payload is a validated upload. DataURI is the preview shown back to the user.
type Payload struct {
	Data    []byte
	MIME    string
	Size    int64
	DataURI string
}

func Validate(up Upload) (Payload, error) {
	if len(up.Data) == 0 {
		return Payload{}, validationError(ErrUnreadableImage, up)
	}
	mime := util.PickMIME(up.MIME, up.Data)
	if !strings.HasPrefix(mime, "image/") {
		return Payload{}, validationError(ErrInvalidFileType, up)
	}
	size := int64(len(up.Data))
	if size > MaxUploadBytes {
		return Payload{}, validationError(ErrFileTooLarge, up)
	}
	return Payload{
		Data:    up.Data,
		MIME:    mime,
		Size:    size,
		DataURI: util.MakeDataURL(mime, up.Data),
	}, nil
}

func validationError(err error, up Upload) error {
	return errors.New(err).
		Component("intake").
		Category(errors.CategoryValidation).
		Context("filename", up.Filename).
		Context("size", len(up.Data)).
		Context("mime", up.MIME).
		Build()
}

// Thumbnail fits the image into 400x300 and re-encodes it as JPEG (quality 70)
// for the history copy. Formats without a registered decoder return an error.
func Thumbnail(p Payload) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(p.Data))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", p.MIME, err)
	}
	b := img.Bounds()
	if b.Dx() > thumbWidth || b.Dy() > thumbHeight {
		img = imaging.Fit(img, thumbWidth, thumbHeight, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return util.MakeDataURL("image/jpeg", buf.Bytes()), nil
}
