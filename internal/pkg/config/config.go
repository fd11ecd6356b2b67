// Package config reads service configuration. Keys are dotted paths
// ("modules.notification.retry.max_attempts").
package config

import (
	"io"
	"time"
)

// Config is read-only access to configuration values. Missing keys yield the
// zero value of the requested type.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetFloat64(key string) float64

	// GetSecond reads an integer as seconds.
	GetSecond(key string) time.Duration
	// GetMillisecond reads an integer as milliseconds.
	GetMillisecond(key string) time.Duration

	// GetBinary decodes a base64 value.
	GetBinary(key string) []byte

	// GetArray splits "a,b,c", trimming blanks. An empty value yields nil.
	GetArray(key string) []string

	// GetMap parses "k1:v1,k2:v2".
	GetMap(key string) map[string]string

	// GetStringMap returns the nested string values under key.
	GetStringMap(key string) map[string]string

	// IsSet reports whether key has a value in the file or environment.
	IsSet(key string) bool
}
