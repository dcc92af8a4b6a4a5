package util

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var ErrNotDataURL = errors.New("not a base64 data URL")

// SniffMIME detects the content type from the leading bytes.
func SniffMIME(b []byte) string {
	if len(b) == 0 {
		return "application/octet-stream"
	}
	ct := http.DetectContentType(b)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(ct)
}

// PickMIME prefers a declared type and sniffs only when none was given.
func PickMIME(declared string, data []byte) string {
	if d := strings.TrimSpace(declared); d != "" && d != "application/octet-stream" {
		return strings.ToLower(d)
	}
	return SniffMIME(data)
}

func MakeDataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURL decodes data:<mime>;base64,<payload>. URL-safe base64 is accepted too.
func ParseDataURL(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return nil, "", ErrNotDataURL
	}
	idx := strings.IndexByte(s, ',')
	if idx < 0 {
		return nil, "", ErrNotDataURL
	}
	meta := s[len("data:"):idx]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", ErrNotDataURL
	}
	mime := strings.TrimSuffix(meta, ";base64")
	if semi := strings.IndexByte(mime, ';'); semi >= 0 {
		mime = mime[:semi]
	}
	payload := s[idx+1:]
	if b, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return b, mime, nil
	}
	b, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return b, mime, nil
}
