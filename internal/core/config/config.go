package config

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/viper"
)

// AppConfig holds the configuration for the rating service.
// Tags used:
// - mapstructure: used by viper to unmarshal
// - default: default value to set if missing
// - required: if "true", error if missing
type AppConfig struct {
	// Environment specifies the runtime environment (e.g., development, production).
	Environment string `mapstructure:"APP_ENV" default:"development"`
	// LogLevel defines the logging verbosity (e.g., debug, info, error).
	LogLevel string `mapstructure:"LOG_LEVEL" default:"info"`
	// ServerPort is the port where the server will listen.
	ServerPort int `mapstructure:"SERVER_PORT" default:"8080"`

	// Cache holds the channel snapshot cache configuration.
	Cache CacheConfig `mapstructure:",squash"`

	// ChannelAPI holds the configuration-management API connection details.
	ChannelAPI ChannelAPIConfig `mapstructure:",squash"`

	// Rating holds the engine defaults.
	Rating RatingConfig `mapstructure:",squash"`
}

// CacheConfig holds Redis connection details for channel snapshots.
type CacheConfig struct {
	// RedisURL is redis://[:password@]host[:port][/database].
	RedisURL string `mapstructure:"REDIS_URL" default:"redis://localhost:6379/0"`
	// ChannelTTL is how long a channel snapshot is cached, in seconds. 0 keeps it until invalidated.
	ChannelTTL int `mapstructure:"CHANNEL_CACHE_TTL" default:"300"`
}

// ChannelAPIConfig holds the credentials for the channel configuration API.
type ChannelAPIConfig struct {
	// URL is the base URL of the API.
	URL string `mapstructure:"CHANNEL_API_URL" required:"true"`
	// Token is sent as a bearer token when set.
	Token string `mapstructure:"CHANNEL_API_TOKEN"`
	// Timeout is the request timeout in seconds.
	Timeout int `mapstructure:"CHANNEL_API_TIMEOUT" default:"10"`
}

// RatingConfig holds the defaults a channel may leave unset.
type RatingConfig struct {
	DefaultCurrency    string  `mapstructure:"DEFAULT_CURRENCY" default:"CNY"`
	DefaultVolRatio    float64 `mapstructure:"DEFAULT_VOL_RATIO" default:"6000"`
	MaxExpressionDepth int     `mapstructure:"EXPRESSION_MAX_DEPTH" default:"64"`
	// Workers bounds concurrent ratings in a batch or estimate.
	Workers int `mapstructure:"RATING_WORKERS" default:"8"`
}

// ChannelCacheTTL returns the channel cache TTL as a duration.
func (c CacheConfig) ChannelCacheTTL() time.Duration {
	return time.Duration(c.ChannelTTL) * time.Second
}

// RequestTimeout returns the API timeout as a duration.
func (c ChannelAPIConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// Load loads configuration from .env files and environment variables.
func Load(path string) (*AppConfig, error) {
	v := viper.New()

	v.AutomaticEnv()

	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config AppConfig

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			v.BindEnv(key)
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		required := field.Tag.Get("required")
		if required == "true" {
			value := val.Field(i)
			if isZero(value) {
				key := field.Tag.Get("mapstructure")
				return fmt.Errorf("missing required configuration: %s", key)
			}
		}
	}
	return nil
}

// isZero checks if a reflect.Value is the zero value for its type.
func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.String() == ""
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	default:
		return v.IsZero()
	}
}
