package shared

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"toilanguoisaigon/internal/domain"
)

// Bounds is the operating bounding box around the city. Coordinates the
// model returns outside of it are discarded as hallucinated.
type Bounds struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

func (b Bounds) Contains(lat, lng float64) bool {
	return lat > b.MinLat && lat < b.MaxLat && lng > b.MinLng && lng < b.MaxLng
}

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string

	MySQLDSN  string
	RedisAddr string
	RedisDB   int
	RedisPass string

	GeminiBase  string
	GeminiModel string
	GeminiKey   string

	// Ho Chi Minh City center, used as the retrieval bias point.
	CityLat float64
	CityLng float64
	CityBox Bounds

	QueryCount int           // pool queries sampled per crawl run
	BatchSize  int           // locations per enrich run
	CallDelay  time.Duration // minimum gap between provider calls
	Retries    int           // extra attempts on 429/5xx; 0 = skip on first failure
	Workers    int           // concurrent crawl queries; 1 = sequential

	RecentQueryTTL time.Duration // how long a pool query is considered "recently run"
	CacheTTL       time.Duration
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/saigon?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		GeminiBase:  env("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiModel: env("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiKey:   env("GEMINI_API_KEY", ""),
		CityLat:     atof("CITY_LAT", 10.7769),
		CityLng:     atof("CITY_LNG", 106.7009),
		CityBox: Bounds{
			MinLat: atof("CITY_MIN_LAT", 8),
			MaxLat: atof("CITY_MAX_LAT", 13),
			MinLng: atof("CITY_MIN_LNG", 104),
			MaxLng: atof("CITY_MAX_LNG", 110),
		},
		QueryCount:     atoi("CRAWL_QUERY_COUNT", 3),
		BatchSize:      atoi("ENRICH_BATCH_SIZE", 10),
		CallDelay:      time.Duration(atoi("CALL_DELAY_MS", 2000)) * time.Millisecond,
		Retries:        atoi("PROVIDER_RETRIES", 0),
		Workers:        atoi("CRAWL_WORKERS", 1),
		RecentQueryTTL: time.Duration(atoi("RECENT_QUERY_TTL_HOURS", 72)) * time.Hour,
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	return c
}

// Validate is the only fatal check in the pipeline: without credentials
// there is no point starting a run.
func (c Config) Validate() error {
	if c.GeminiKey == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY", domain.ErrMissingConfig)
	}
	if c.MySQLDSN == "" {
		return fmt.Errorf("%w: MYSQL_DSN", domain.ErrMissingConfig)
	}
	return nil
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
