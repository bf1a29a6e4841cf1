package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all orderflow configuration. It is loaded once and passed to
// each stage's entry point.
type Config struct {
	API       APIConfig
	Archive   ArchiveConfig
	DB        DBConfig
	Transform TransformConfig
	Output    OutputConfig
	Metrics   MetricsConfig
	Log       LogConfig
}

// APIConfig holds the Cartpanda orders API settings.
type APIConfig struct {
	Token      string        `env:"CARTPANDA_API_KEY" validate:"required"`
	BaseURL    string        `env:"CARTPANDA_API_URL" validate:"required,url"`
	Shop       string        `env:"CARTPANDA_SHOP" validate:"required"`
	Include    string        `env:"CARTPANDA_INCLUDE"`
	Timeout    time.Duration `env:"CARTPANDA_TIMEOUT" validate:"gt=0"`
	MaxRetries int           `env:"CARTPANDA_MAX_RETRIES" validate:"gte=0,lte=10"`
}

// ArchiveConfig holds archiver loop settings.
type ArchiveConfig struct {
	Source     string        `env:"ORDERFLOW_SOURCE" validate:"required"`
	FixtureDir string        `env:"ORDERFLOW_FIXTURE_DIR" validate:"required_if=Source fixture"`
	PageDelay  time.Duration `env:"ORDERFLOW_PAGE_DELAY" validate:"gte=0"`
	StartPage  int           `env:"ORDERFLOW_START_PAGE" validate:"gte=1"`
	MaxPages   int           `env:"ORDERFLOW_MAX_PAGES" validate:"gte=0"`
}

// DBConfig holds the shared store settings.
type DBConfig struct {
	DSN      string `env:"DATABASE_URL" validate:"required"`
	RawTable string `env:"ORDERFLOW_RAW_TABLE" validate:"required"`
}

// TransformConfig holds transformer settings.
type TransformConfig struct {
	Table   string `env:"ORDERFLOW_TARGET_TABLE" validate:"required"`
	Mapping string `env:"ORDERFLOW_MAPPING" validate:"required"`
}

// OutputConfig holds reject report sink settings.
type OutputConfig struct {
	Rejects     []string `env:"ORDERFLOW_REJECTS" validate:"dive,oneof=stdout file webhook none"`
	RejectsFile string   `env:"ORDERFLOW_REJECTS_FILE"`
	MaxBytes    int64    `env:"ORDERFLOW_REJECTS_MAX_BYTES" validate:"gte=0"`
	Pretty      bool     `env:"ORDERFLOW_REJECTS_PRETTY"`
	Verbosity   string   `env:"ORDERFLOW_REJECTS_VERBOSITY" validate:"oneof=minimal full"`
	WebhookURL  string   `env:"ORDERFLOW_REJECTS_WEBHOOK_URL" validate:"omitempty,url"`
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	Textfile string `env:"ORDERFLOW_METRICS_FILE"`
}

// LogConfig holds slog settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"`
	Format string `env:"LOG_FORMAT" validate:"omitempty,oneof=text json"`
}

// LoadDotenv seeds the environment from .env files (default "./.env").
// Variables already set win. A missing file is not an error.
func LoadDotenv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: load dotenv: %w", err)
	}
	return nil
}

// Load reads configuration from environment variables with defaults.
// Malformed numbers and durations are errors rather than silent defaults.
func Load() (Config, error) {
	p := &parser{}
	cfg := Config{
		API: APIConfig{
			Token:      os.Getenv("CARTPANDA_API_KEY"),
			BaseURL:    getenv("CARTPANDA_API_URL", "https://accounts.cartpanda.com/api/v3"),
			Shop:       getenv("CARTPANDA_SHOP", "aya-marketing"),
			Include:    getenvRaw("CARTPANDA_INCLUDE", "items,transactions,customer"),
			Timeout:    p.getDuration("CARTPANDA_TIMEOUT", 30*time.Second),
			MaxRetries: p.getInt("CARTPANDA_MAX_RETRIES", 0),
		},
		Archive: ArchiveConfig{
			Source:     getenv("ORDERFLOW_SOURCE", "cartpanda"),
			FixtureDir: os.Getenv("ORDERFLOW_FIXTURE_DIR"),
			PageDelay:  p.getDuration("ORDERFLOW_PAGE_DELAY", 500*time.Millisecond),
			StartPage:  p.getInt("ORDERFLOW_START_PAGE", 1),
			MaxPages:   p.getInt("ORDERFLOW_MAX_PAGES", 0),
		},
		DB: DBConfig{
			DSN:      databaseURL(),
			RawTable: getenv("ORDERFLOW_RAW_TABLE", "raw.orders"),
		},
		Transform: TransformConfig{
			Table:   getenv("ORDERFLOW_TARGET_TABLE", "data.orders_10001"),
			Mapping: getenv("ORDERFLOW_MAPPING", "v2"),
		},
		Output: OutputConfig{
			Rejects:     splitCSV(getenv("ORDERFLOW_REJECTS", "stdout")),
			RejectsFile: getenv("ORDERFLOW_REJECTS_FILE", "rejects.jsonl"),
			MaxBytes:    int64(p.getInt("ORDERFLOW_REJECTS_MAX_BYTES", 0)),
			Pretty:      p.getBool("ORDERFLOW_REJECTS_PRETTY", false),
			Verbosity:   getenv("ORDERFLOW_REJECTS_VERBOSITY", "full"),
			WebhookURL:  os.Getenv("ORDERFLOW_REJECTS_WEBHOOK_URL"),
		},
		Metrics: MetricsConfig{
			Textfile: os.Getenv("ORDERFLOW_METRICS_FILE"),
		},
		Log: LogConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "text"),
		},
	}
	if len(p.errs) > 0 {
		return Config{}, fmt.Errorf("config: %s", strings.Join(p.errs, "; "))
	}
	return cfg, nil
}

// ValidateArchive checks the sections the archiver needs. The API section is
// only required when pages come from the remote API.
func (c Config) ValidateArchive() error {
	sections := []any{c.Archive, c.DB, c.Log}
	if c.Archive.Source == "cartpanda" {
		sections = append(sections, c.API)
	}
	return validateAll(sections...)
}

// ValidateTransform checks the sections the transformer needs.
func (c Config) ValidateTransform() error {
	if err := validateAll(c.DB, c.Transform, c.Output, c.Log); err != nil {
		return err
	}
	for _, sink := range c.Output.Rejects {
		if sink == "file" && c.Output.RejectsFile == "" {
			return errors.New("config: ORDERFLOW_REJECTS_FILE is required when ORDERFLOW_REJECTS includes file")
		}
		if sink == "webhook" && c.Output.WebhookURL == "" {
			return errors.New("config: ORDERFLOW_REJECTS_WEBHOOK_URL is required when ORDERFLOW_REJECTS includes webhook")
		}
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("env"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

// validateAll validates each section and joins every failure into one message
// phrased in terms of environment variables.
func validateAll(sections ...any) error {
	var msgs []string
	for _, s := range sections {
		err := validate.Struct(s)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config: %w", err)
		}
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
	}
	if len(msgs) > 0 {
		return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
	}
	return nil
}

func describe(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "required_if":
		return name + " is required when " + fe.Param()
	case "url":
		return name + " must be a URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", name, fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s must satisfy %s=%s", name, fe.Tag(), fe.Param())
	}
}

// databaseURL returns DATABASE_URL or builds one from the DB_* variables.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(getenv("DB_HOST", "localhost"), getenv("DB_PORT", "5432")),
		Path:   "/" + getenv("DB_NAME", "postgres"),
	}
	user := getenv("DB_USER", "postgres")
	if pw := os.Getenv("DB_PASSWORD"); pw != "" {
		u.User = url.UserPassword(user, pw)
	} else {
		u.User = url.User(user)
	}
	return u.String()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getenvRaw is getenv, except an explicitly empty value is kept.
func getenvRaw(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trim := strings.TrimSpace(p); trim != "" {
			out = append(out, trim)
		}
	}
	return out
}

// parser collects conversion errors so Load reports all of them at once.
type parser struct {
	errs []string
}

func (p *parser) getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("parse %s: %v", key, err))
		return fallback
	}
	return d
}

func (p *parser) getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("parse %s: %v", key, err))
		return fallback
	}
	return n
}

func (p *parser) getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Sprintf("parse %s: %v", key, err))
		return fallback
	}
	return b
}
