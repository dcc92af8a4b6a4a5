package logger

import (
	"log/slog"
	"strings"
)

var sensitiveKeys = []string{"api_key", "apikey", "token", "password", "secret", "dsn"}

// Redact keeps enough of a credential to recognise it in logs.
func Redact(v string) string {
	v = strings.TrimSpace(v)
	switch {
	case v == "":
		return ""
	case len(v) <= 8:
		return "****"
	default:
		return v[:4] + "****"
	}
}

func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	key := strings.ToLower(a.Key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return slog.String(a.Key, Redact(a.Value.String()))
		}
	}
	return a
}
