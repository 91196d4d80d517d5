package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// APIKeyEnv is the environment variable holding the OpenWeatherMap API key.
const APIKeyEnv = "OPENWEATHER_API_KEY"

var (
	ErrAPIKeyMissing = errors.New(APIKeyEnv + " environment variable not set")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds every setting the weather station needs, resolved once at startup.
type Config struct {
	APIKey          string
	APIURL          string
	HTTPTimeout     time.Duration
	RateLimit       float64
	RateBurst       int
	RedisAddr       string
	CacheExpiration time.Duration
	Color           bool
	LogLevel        zapcore.Level
}

// NewFlagSet returns the command line flags understood by Load.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (default: config.yaml in the working directory or project root)")
	fs.Bool("no-color", false, "disable colored output")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	return fs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("openweathermap.api_url", "https://api.openweathermap.org/data/2.5/weather")
	v.SetDefault("openweathermap.units", "metric")
	v.SetDefault("http.timeout", "0s")
	v.SetDefault("rate_limiter.rate", 0)
	v.SetDefault("rate_limiter.burst", 1)
	v.SetDefault("redis.addr", "")
	v.SetDefault("cache.expiration", "10m")
	v.SetDefault("display.color", true)
	v.SetDefault("log.level", "warn")
}

// Load parses args, reads the optional config file and the environment,
// and returns the resolved configuration.
func Load(args []string) (*Config, error) {
	fs := NewFlagSet("weather-station")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, fs); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("log.level", fs.Lookup("log-level")); err != nil {
		return nil, err
	}
	// --no-color is inverted relative to display.color, so it cannot be bound directly
	if fs.Changed("no-color") {
		noColor, _ := fs.GetBool("no-color")
		v.Set("display.color", !noColor)
	}

	return fromViper(v, GetOpenWeatherAPIKey())
}

func readConfigFile(v *viper.Viper, fs *pflag.FlagSet) error {
	v.SetConfigType("yaml")
	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if root, err := getProjectRoot(); err == nil {
		v.AddConfigPath(root)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func fromViper(v *viper.Viper, apiKey string) (*Config, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	timeout, err := parseDuration(v, "http.timeout")
	if err != nil {
		return nil, err
	}
	expiration, err := parseDuration(v, "cache.expiration")
	if err != nil {
		return nil, err
	}

	// temperatures are rendered in Celsius, so only metric lookups are supported
	if units := v.GetString("openweathermap.units"); units != "metric" {
		return nil, fmt.Errorf("%w: openweathermap.units must be %q, got %q", ErrInvalidConfig, "metric", units)
	}

	rate := v.GetFloat64("rate_limiter.rate")
	if rate < 0 {
		return nil, fmt.Errorf("%w: rate_limiter.rate must not be negative, got %v", ErrInvalidConfig, rate)
	}
	burst := v.GetInt("rate_limiter.burst")
	if burst < 1 {
		burst = 1
	}

	level, err := zapcore.ParseLevel(v.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}

	return &Config{
		APIKey:          apiKey,
		APIURL:          v.GetString("openweathermap.api_url"),
		HTTPTimeout:     timeout,
		RateLimit:       rate,
		RateBurst:       burst,
		RedisAddr:       v.GetString("redis.addr"),
		CacheExpiration: expiration,
		Color:           v.GetBool("display.color"),
		LogLevel:        level,
	}, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, key)
	}
	return d, nil
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// GetOpenWeatherAPIKey loads .env if present and returns the API key from the environment.
func GetOpenWeatherAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv(APIKeyEnv)
}

// NewLogger builds the development logger used across the app. It writes to stderr.
func NewLogger(level zapcore.Level) (*zap.SugaredLogger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
