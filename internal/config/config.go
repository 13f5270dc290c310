package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything one sentinel instance needs. The two instances
// (RFID and RTLS) share the same surface and differ only in defaults.
type Config struct {
	HTTP struct {
		Addr string
	}
	Upstream struct {
		BaseURL string
		Timeout time.Duration
	}
	Cache struct {
		TTL time.Duration
	}
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
	}
	CORS struct {
		Origins []string
	}
	Log struct {
		Level  string
		Format string
	}
}

// Load reads the environment, falling back to the per-instance defaults.
func Load(defaultAddr, defaultBaseURL string) *Config {
	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", defaultAddr)

	cfg.Upstream.BaseURL = getEnv("API_BASE_URL", defaultBaseURL)
	cfg.Upstream.Timeout = parseDuration(getEnv("FETCH_TIMEOUT", "5s"), 5*time.Second)

	cfg.Cache.TTL = parseDuration(getEnv("CACHE_TTL", "5m"), 5*time.Minute)

	// Redis is optional: the default cache is in-process. Enabling it lets
	// both instances behind one deployment share cached collections.
	cfg.Redis.Enabled = getEnv("REDIS_ENABLED", "false") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.CORS.Origins = splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3030,http://127.0.0.1:3030"))

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
