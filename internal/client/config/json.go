package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/hoteldesk/internal/flagx"
	"github.com/dmitrijs2005/hoteldesk/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Zero values leave the
// corresponding Config field untouched.
type JsonConfig struct {
	APIBaseURL        string            `json:"api_base_url"`
	RequestTimeout    timex.Duration    `json:"request_timeout"`
	AuthCheckInterval timex.Duration    `json:"auth_check_interval"`
	MaxSessionAge     timex.Duration    `json:"max_session_age"`
	DatabasePath      string            `json:"database_path"`
	LogLevel          string            `json:"log_level"`
	DocumentStore     string            `json:"document_store"`
	S3                JsonS3Config      `json:"s3"`
	Records           JsonRecordsConfig `json:"records"`
}

type JsonS3Config struct {
	Bucket        string `json:"bucket"`
	Region        string `json:"region"`
	Endpoint      string `json:"endpoint"`
	AccessKey     string `json:"access_key"`
	SecretKey     string `json:"secret_key"`
	PublicBaseURL string `json:"public_base_url"`
}

type JsonRecordsConfig struct {
	PageSize            int            `json:"page_size"`
	SearchPageSize      int            `json:"search_page_size"`
	ServerSearchAbove   int            `json:"server_search_above"`
	Freshness           timex.Duration `json:"freshness"`
	CacheTTL            timex.Duration `json:"cache_ttl"`
	CacheSize           int            `json:"cache_size"`
	SearchDebounce      timex.Duration `json:"search_debounce"`
	ClearSearchDebounce timex.Duration `json:"clear_search_debounce"`
	IdleRefetch         timex.Duration `json:"idle_refetch"`
}

// parseJson overlays cfg with the file named by -c/-config, if any.
// Read or decode errors panic; LoadConfig runs once at startup.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.AuthCheckInterval, jc.AuthCheckInterval)
	setDuration(&cfg.MaxSessionAge, jc.MaxSessionAge)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.DocumentStore, jc.DocumentStore)

	setString(&cfg.S3.Bucket, jc.S3.Bucket)
	setString(&cfg.S3.Region, jc.S3.Region)
	setString(&cfg.S3.Endpoint, jc.S3.Endpoint)
	setString(&cfg.S3.AccessKey, jc.S3.AccessKey)
	setString(&cfg.S3.SecretKey, jc.S3.SecretKey)
	setString(&cfg.S3.PublicBaseURL, jc.S3.PublicBaseURL)

	r := &cfg.Records
	setInt(&r.PageSize, jc.Records.PageSize)
	setInt(&r.SearchPageSize, jc.Records.SearchPageSize)
	setInt(&r.ServerSearchAbove, jc.Records.ServerSearchAbove)
	setDuration(&r.Freshness, jc.Records.Freshness)
	setDuration(&r.CacheTTL, jc.Records.CacheTTL)
	setInt(&r.CacheSize, jc.Records.CacheSize)
	setDuration(&r.SearchDebounce, jc.Records.SearchDebounce)
	setDuration(&r.ClearSearchDebounce, jc.Records.ClearSearchDebounce)
	setDuration(&r.IdleRefetch, jc.Records.IdleRefetch)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
