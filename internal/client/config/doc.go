// Package config loads runtime configuration for the desk console.
//
// # Sources and precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then the process environment.
//  3. Optional JSON file selected with -c or -config.
//  4. Command-line flags.
//
// # Flags
//
//	-a string          backend base URL, e.g. http://localhost:5000/api
//	-t int             per-request timeout (seconds)
//	-i int             session re-validation interval (seconds)
//	-d string          path of the local session database
//	-s string          document store: "api" or "s3"
//	-log-level string  debug, info, warn or error
//
// # JSON schema
//
// Durations accept strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://desk.example.com/api",
//	  "request_timeout": "30s",
//	  "auth_check_interval": "5m",
//	  "max_session_age": "72h",
//	  "database_path": "desk.db",
//	  "log_level": "info",
//	  "document_store": "s3",
//	  "s3": {"bucket": "ids", "region": "ap-south-1"},
//	  "records": {"page_size": 50, "cache_ttl": "5m"}
//	}
package config
