package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/Veraticus/smsguard/internal/api"
	"github.com/Veraticus/smsguard/internal/common"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyAPIURL           = "api.url"
	KeyAPITimeout       = "api.timeout"
	KeyTheme            = "ui.theme"
	KeyLogFile          = "ui.log_file"
	KeyBatchConcurrency = "batch.concurrency"
	KeyLogLevel         = "logging.level"
	KeyLogFormat        = "logging.format"

	// EnvPrefix prefixes every environment override, e.g. SMSGUARD_API_URL.
	EnvPrefix = "SMSGUARD"

	defaultBatchConcurrency = 4
	maxBatchConcurrency     = 32
)

// Settings is the resolved configuration, computed once at startup and passed down explicitly.
type Settings struct {
	APIURL           string
	Theme            string
	LogFile          string
	LogLevel         string
	LogFormat        string
	APITimeout       time.Duration
	BatchConcurrency int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, api.DefaultBaseURL)
	v.SetDefault(KeyAPITimeout, time.Duration(0))
	v.SetDefault(KeyTheme, "default")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyBatchConcurrency, defaultBatchConcurrency)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// BindEnv makes SMSGUARD_* environment variables override config keys.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads KEY=VALUE files into the process environment.
// Missing files are skipped; variables already set are not overwritten.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(ExpandPath(path)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Load resolves and validates the settings held by v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		APIURL:           strings.TrimSpace(v.GetString(KeyAPIURL)),
		APITimeout:       v.GetDuration(KeyAPITimeout),
		Theme:            v.GetString(KeyTheme),
		LogFile:          ExpandPath(v.GetString(KeyLogFile)),
		LogLevel:         v.GetString(KeyLogLevel),
		LogFormat:        v.GetString(KeyLogFormat),
		BatchConcurrency: v.GetInt(KeyBatchConcurrency),
	}

	if s.APIURL == "" {
		s.APIURL = api.DefaultBaseURL
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	return s, nil
}

// Validate checks the settings for values the rest of the program cannot use.
func (s Settings) Validate() error {
	u, err := url.Parse(s.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL, got %q", common.ErrInvalidConfig, KeyAPIURL, s.APIURL)
	}

	if s.APITimeout < 0 {
		return fmt.Errorf("%w: %s must not be negative", common.ErrInvalidConfig, KeyAPITimeout)
	}

	if s.BatchConcurrency < 1 || s.BatchConcurrency > maxBatchConcurrency {
		return fmt.Errorf("%w: %s must be between 1 and %d, got %d",
			common.ErrInvalidConfig, KeyBatchConcurrency, maxBatchConcurrency, s.BatchConcurrency)
	}

	return nil
}
