// Package kv stores small string values under string keys in the local
// database. The session store keeps its token, user and login time here.
package kv

import "context"

// Repository is a string key/value store. Get reports ok=false for a
// missing key rather than an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	GetMany(ctx context.Context, keys ...string) (map[string]string, error)
	Clear(ctx context.Context) error
}
