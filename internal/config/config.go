package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load(".env")
}

func Get(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// GetDefault returns the trimmed value of key, or defaultVal when unset or blank.
func GetDefault(key, defaultVal string) string {
	if v := Get(key); v != "" {
		return v
	}
	return defaultVal
}

func GetBool(key, defaultVal string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		v = defaultVal
	}
	return v == "1" || v == "true" || v == "yes"
}

// GetInt parses key as an int. Unset, malformed or non-positive values yield defaultVal.
func GetInt(key string, defaultVal int) int {
	v := Get(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

// GetFloat parses key as a float64. Unset, malformed or non-positive values yield defaultVal.
func GetFloat(key string, defaultVal float64) float64 {
	v := Get(key)
	if v == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return defaultVal
	}
	return f
}

var (
	Host = Get("GAINPLOT_HOST")
	Port = GetDefault("PORT", "8000")

	DefaultX = GetDefault("GAINPLOT_DEFAULT_X", "10,20,30,40,50,60")
	DefaultY = GetDefault("GAINPLOT_DEFAULT_Y", "12,23,36,41,58,61")

	ChartWidth  = GetInt("GAINPLOT_CHART_WIDTH", 1000)
	ChartHeight = GetInt("GAINPLOT_CHART_HEIGHT", 600)

	CacheSize       = GetInt("GAINPLOT_CACHE_SIZE", 256)
	CacheTTLSeconds = GetInt("GAINPLOT_CACHE_TTL_SECONDS", 600)

	ChartRPS   = GetFloat("GAINPLOT_CHART_RPS", 5)
	ChartBurst = GetInt("GAINPLOT_CHART_BURST", 10)

	LogLevel = GetDefault("GAINPLOT_LOG_LEVEL", "info")
	LogJSON  = GetBool("GAINPLOT_LOG_JSON", "false")
	Trace    = GetBool("GAINPLOT_TRACE", "false")
)
