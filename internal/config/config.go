// README: Config loader with env defaults for Telegram, API keys, polling, storage and logging.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"taxiwatch/internal/types"
)

const (
	GeocoderYandex = "yandex"
	GeocoderGoogle = "google"
)

type WatchConfig struct {
	Interval   time.Duration
	FirstDelay time.Duration
}

type Config struct {
	Telegram struct {
		Token string
		Debug bool
	}
	Geocoder struct {
		Provider      string
		YandexKey     string
		GoogleMapsKey string
	}
	Taxi struct {
		ClientID  string
		APIKey    string
		Class     string
		RateLimit float64
	}
	HTTP struct {
		Addr       string
		AdminToken string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr string
	}
	Log struct {
		File  string
		Debug bool
	}
	Watch WatchConfig
}

// Load reads .env (if present) and the process environment. Missing required
// keys are reported together in one error wrapping types.ErrConfig.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.Telegram.Token = required("TG_TOKEN")
	cfg.Telegram.Debug = envOrDefaultBool("TAXIWATCH_TG_DEBUG", false)
	cfg.Geocoder.Provider = strings.ToLower(envOrDefault("TAXIWATCH_GEOCODER", GeocoderYandex))
	cfg.Taxi.ClientID = required("TAXI_CLIENT_ID")
	cfg.Taxi.APIKey = required("TAXI_API_KEY")
	cfg.Taxi.Class = envOrDefault("TAXIWATCH_TAXI_CLASS", "econom")
	cfg.Taxi.RateLimit = envOrDefaultFloat("TAXIWATCH_QUOTE_RPS", 5)

	switch cfg.Geocoder.Provider {
	case GeocoderYandex:
		cfg.Geocoder.YandexKey = required("GEOCODER_API_KEY")
	case GeocoderGoogle:
		cfg.Geocoder.GoogleMapsKey = required("GOOGLE_MAPS_API_KEY")
	default:
		return cfg, fmt.Errorf("%w: unknown TAXIWATCH_GEOCODER %q", types.ErrConfig, cfg.Geocoder.Provider)
	}

	cfg.HTTP.Addr = envOrDefault("TAXIWATCH_HTTP_ADDR", ":8080")
	if cfg.HTTP.Addr == "off" {
		cfg.HTTP.Addr = ""
	}
	cfg.HTTP.AdminToken = os.Getenv("TAXIWATCH_ADMIN_TOKEN")
	cfg.DB.DSN = os.Getenv("TAXIWATCH_DB_DSN")
	cfg.Redis.Addr = os.Getenv("TAXIWATCH_REDIS_ADDR")
	cfg.Log.File = os.Getenv("TAXIWATCH_LOG_FILE")
	cfg.Log.Debug = envOrDefaultBool("TAXIWATCH_DEBUG", false)
	cfg.Watch.Interval = envOrDefaultDuration("TAXIWATCH_POLL_INTERVAL", 31*time.Second)
	cfg.Watch.FirstDelay = envOrDefaultDuration("TAXIWATCH_POLL_FIRST_DELAY", time.Second)

	if len(missing) > 0 {
		return cfg, fmt.Errorf("%w: missing environment variables %s", types.ErrConfig, strings.Join(missing, ", "))
	}
	if cfg.Watch.Interval <= 0 {
		return cfg, fmt.Errorf("%w: TAXIWATCH_POLL_INTERVAL must be positive", types.ErrConfig)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

// envOrDefaultDuration accepts Go durations ("45s") or a plain number of seconds.
func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(n * float64(time.Second))
	}
	return def
}
