package config

import "time"

// defaultAPIBaseURL can be replaced at link time with
// -ldflags "-X github.com/dmitrijs2005/hoteldesk/internal/client/config.defaultAPIBaseURL=https://...".
var defaultAPIBaseURL = "http://localhost:5000/api"

const (
	DocumentStoreAPI = "api"
	DocumentStoreS3  = "s3"
)

// Config holds runtime settings for the desk console.
type Config struct {
	APIBaseURL        string
	RequestTimeout    time.Duration
	AuthCheckInterval time.Duration
	MaxSessionAge     time.Duration
	DatabasePath      string
	LogLevel          string
	DocumentStore     string
	S3                S3Config
	Records           RecordsConfig
}

// S3Config configures the optional S3-compatible document store.
// Endpoint is only needed for non-AWS providers (MinIO, R2 ...).
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// RecordsConfig tunes the booking list coordinator.
type RecordsConfig struct {
	PageSize            int
	SearchPageSize      int
	ServerSearchAbove   int
	Freshness           time.Duration
	CacheTTL            time.Duration
	CacheSize           int
	SearchDebounce      time.Duration
	ClearSearchDebounce time.Duration
	IdleRefetch         time.Duration
}

// LoadDefaults populates c with the defaults used by the front desk.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = defaultAPIBaseURL
	c.RequestTimeout = 30 * time.Second
	c.AuthCheckInterval = 5 * time.Minute
	c.MaxSessionAge = 72 * time.Hour
	c.DatabasePath = "deskkeeper.db"
	c.LogLevel = "info"
	c.DocumentStore = DocumentStoreAPI
	c.S3 = S3Config{}
	c.Records = RecordsConfig{
		PageSize:            50,
		SearchPageSize:      300,
		ServerSearchAbove:   500,
		Freshness:           30 * time.Second,
		CacheTTL:            5 * time.Minute,
		CacheSize:           20,
		SearchDebounce:      1200 * time.Millisecond,
		ClearSearchDebounce: 200 * time.Millisecond,
		IdleRefetch:         time.Minute,
	}
}

// LoadConfig applies defaults, then the environment, then JSON and finally
// command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
