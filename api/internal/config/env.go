package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type envBinding struct {
	key  string
	envs []string
}

// The first variable in each list wins; the NEXT_PUBLIC_ names are what the
// web front end used for the same keys.
var envBindings = []envBinding{
	{"server.port", []string{"PORT"}},
	{"gemini.apikey", []string{"GEMINI_API_KEY", "NEXT_PUBLIC_GEMINI_API_KEY"}},
	{"gemini.visionmodel", []string{"GEMINI_VISION_MODEL"}},
	{"gemini.chatmodel", []string{"GEMINI_MODEL"}},
	{"huggingface.apikey", []string{"HF_API_KEY", "NEXT_PUBLIC_HF_API_KEY"}},
	{"huggingface.model", []string{"HF_MODEL"}},
	{"huggingface.baseurl", []string{"HF_BASE_URL"}},
	{"classifier.timeout", []string{"CLASSIFIER_TIMEOUT"}},
	{"classifier.demodelay", []string{"CLASSIFIER_DEMO_DELAY"}},
	{"history.backend", []string{"HISTORY_BACKEND"}},
	{"history.cap", []string{"HISTORY_CAP"}},
	{"history.sqlitepath", []string{"HISTORY_SQLITE_PATH"}},
	{"database.url", []string{"DATABASE_URL"}},
	{"telegram.token", []string{"TELEGRAM_BOT_TOKEN"}},
	{"telegram.webhookurl", []string{"WEBHOOK_URL"}},
	{"mqtt.broker", []string{"MQTT_BROKER"}},
	{"mqtt.username", []string{"MQTT_USERNAME"}},
	{"mqtt.password", []string{"MQTT_PASSWORD"}},
	{"mqtt.topic", []string{"MQTT_TOPIC"}},
	{"sentry.dsn", []string{"SENTRY_DSN"}},
	{"log.level", []string{"LOG_LEVEL"}},
	{"log.format", []string{"LOG_FORMAT"}},
	{"report.theme", []string{"REPORT_THEME"}},
}

func bindEnv(v *viper.Viper) error {
	for _, b := range envBindings {
		args := append([]string{b.key}, b.envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("bind env for %s: %w", b.key, err)
		}
	}
	return nil
}

// ResolveDSN builds a Postgres DSN from DATABASE_URL or the POSTGRES_*/PG* variables.
func ResolveDSN() string {
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		return v
	}
	pass := os.Getenv("POSTGRES_PASSWORD")
	if pass == "" && os.Getenv("PGHOST") == "" {
		return ""
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(getenvDefault("POSTGRES_USER", "agrisakhi"), pass),
		Host:     net.JoinHostPort(getenvDefault("PGHOST", "db"), getenvDefault("PGPORT", "5432")),
		Path:     "/" + getenvDefault("POSTGRES_DB", "agrisakhi"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// SafeDSNSummary describes a DSN without its password.
func SafeDSNSummary(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "dsn: parse error"
	}
	host, port := u.Host, ""
	if h, p, err := net.SplitHostPort(u.Host); err == nil {
		host, port = h, p
	}
	db := strings.TrimPrefix(u.Path, "/")
	if port == "" {
		return fmt.Sprintf("host=%s db=%s user=%s", host, db, u.User.Username())
	}
	return fmt.Sprintf("host=%s port=%s db=%s user=%s", host, port, db, u.User.Username())
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
