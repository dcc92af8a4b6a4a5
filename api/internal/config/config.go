package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      Server      `mapstructure:"server"`
	Gemini      Gemini      `mapstructure:"gemini"`
	HuggingFace HuggingFace `mapstructure:"huggingface"`
	Classifier  Classifier  `mapstructure:"classifier"`
	History     History     `mapstructure:"history"`
	Database    Database    `mapstructure:"database"`
	Telegram    Telegram    `mapstructure:"telegram"`
	MQTT        MQTT        `mapstructure:"mqtt"`
	Sentry      Sentry      `mapstructure:"sentry"`
	Log         Log         `mapstructure:"log"`
	Report      Report      `mapstructure:"report"`
}

type Server struct {
	Port           string        `mapstructure:"port"`
	BodyLimit      string        `mapstructure:"bodylimit"`
	RequestTimeout time.Duration `mapstructure:"requesttimeout"`
}

type Gemini struct {
	APIKey      string `mapstructure:"apikey"`
	VisionModel string `mapstructure:"visionmodel"`
	ChatModel   string `mapstructure:"chatmodel"`
}

type HuggingFace struct {
	APIKey  string `mapstructure:"apikey"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"baseurl"`
}

type Classifier struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	DemoDelay time.Duration `mapstructure:"demodelay"`
}

type History struct {
	Backend       string `mapstructure:"backend"` // memory|postgres|sqlite
	Cap           int    `mapstructure:"cap"`
	MaxValueBytes int    `mapstructure:"maxvaluebytes"`
	SQLitePath    string `mapstructure:"sqlitepath"`
}

type Database struct {
	URL string `mapstructure:"url"`
}

type Telegram struct {
	Token      string `mapstructure:"token"`
	WebhookURL string `mapstructure:"webhookurl"`
}

type MQTT struct {
	Enabled  bool   `mapstructure:"enabled"`
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"clientid"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Topic    string `mapstructure:"topic"`
	QoS      byte   `mapstructure:"qos"`
}

type Sentry struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Report struct {
	Theme string `mapstructure:"theme"`
}

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// Load reads .env (if present), an optional config file and the environment.
// configFile may be empty, in which case config.yaml is looked up in the
// working directory and ./config.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.bodylimit", "12M")
	v.SetDefault("server.requesttimeout", 60*time.Second)

	v.SetDefault("gemini.visionmodel", "gemini-1.5-flash")
	v.SetDefault("gemini.chatmodel", "gemini-2.5-flash")

	v.SetDefault("huggingface.model", "linkanjarad/mobilenet_v2_1.0_224-plant-disease-identification")
	v.SetDefault("huggingface.baseurl", "https://api-inference.huggingface.co/models")

	v.SetDefault("classifier.timeout", 10*time.Second)
	v.SetDefault("classifier.demodelay", 1500*time.Millisecond)

	v.SetDefault("history.backend", BackendMemory)
	v.SetDefault("history.cap", 50)
	v.SetDefault("history.maxvaluebytes", 5*1024*1024)
	v.SetDefault("history.sqlitepath", "agrisakhi.db")

	v.SetDefault("mqtt.clientid", "agrisakhi")
	v.SetDefault("mqtt.topic", "agrisakhi/detections/{user_id}")
	v.SetDefault("mqtt.qos", 1)

	v.SetDefault("sentry.environment", "production")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("report.theme", "green")
}

func (c *Config) normalize() {
	c.Server.Port = strings.TrimSpace(c.Server.Port)
	if c.Server.Port == "" {
		c.Server.Port = "8000"
	}
	c.Gemini.APIKey = strings.TrimSpace(c.Gemini.APIKey)
	c.HuggingFace.APIKey = strings.TrimSpace(c.HuggingFace.APIKey)
	c.HuggingFace.BaseURL = strings.TrimRight(c.HuggingFace.BaseURL, "/")
	c.History.Backend = strings.ToLower(strings.TrimSpace(c.History.Backend))
	if c.Database.URL == "" && c.History.Backend == BackendPostgres {
		c.Database.URL = ResolveDSN()
	}
	if c.MQTT.Broker != "" {
		c.MQTT.Enabled = true
	}
}

// Validate rejects configurations the service cannot start with.
// Missing provider keys are not errors: the classifier degrades to demo mode.
func (c *Config) Validate() error {
	var errs []error
	switch c.History.Backend {
	case BackendMemory, BackendSQLite:
	case BackendPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("history.backend=postgres requires DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown history backend %q", c.History.Backend))
	}
	if c.History.Cap <= 0 {
		errs = append(errs, fmt.Errorf("history.cap must be > 0, got %d", c.History.Cap))
	}
	if c.Classifier.Timeout <= 0 {
		errs = append(errs, errors.New("classifier.timeout must be > 0"))
	}
	if c.Classifier.DemoDelay < 0 {
		errs = append(errs, errors.New("classifier.demodelay must not be negative"))
	}
	if c.MQTT.QoS > 2 {
		errs = append(errs, fmt.Errorf("mqtt.qos must be 0, 1 or 2, got %d", c.MQTT.QoS))
	}
	return errors.Join(errs...)
}

func (c *Config) GeminiConfigured() bool { return c.Gemini.APIKey != "" }

func (c *Config) HuggingFaceConfigured() bool { return c.HuggingFace.APIKey != "" }
