package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is read when present; values already set in the process
// environment win over it.
var envFile = ".env"

func parseEnv(cfg *Config) {
	fileVals, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVals[key]
		return v, ok
	}

	if v, ok := lookup("HOTEL_DESK_API_URL"); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup("HOTEL_DESK_REQUEST_TIMEOUT"); ok && v != "" {
		d, err := parseSecondsOrDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookup("HOTEL_DESK_DB"); ok && v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup("HOTEL_DESK_DOCUMENT_STORE"); ok && v != "" {
		cfg.DocumentStore = v
	}

	s3 := map[string]*string{
		"HOTEL_DESK_S3_BUCKET":          &cfg.S3.Bucket,
		"HOTEL_DESK_S3_REGION":          &cfg.S3.Region,
		"HOTEL_DESK_S3_ENDPOINT":        &cfg.S3.Endpoint,
		"HOTEL_DESK_S3_ACCESS_KEY":      &cfg.S3.AccessKey,
		"HOTEL_DESK_S3_SECRET_KEY":      &cfg.S3.SecretKey,
		"HOTEL_DESK_S3_PUBLIC_BASE_URL": &cfg.S3.PublicBaseURL,
	}
	for key, dst := range s3 {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
}

// parseSecondsOrDuration accepts "45" (seconds) or a Go duration ("45s").
func parseSecondsOrDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
