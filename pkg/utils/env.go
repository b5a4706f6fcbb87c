// Package utils reads typed settings from the environment. Every getter
// trims whitespace and falls back to its default when the variable is unset,
// blank, or does not parse.
package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func GetEnvTrimmed(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvTrimmedOrDefault(key, defaultValue string) string {
	if v := GetEnvTrimmed(key); v != "" {
		return v
	}
	return defaultValue
}

func GetEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(GetEnvTrimmed(key))
	if err != nil {
		return defaultValue
	}
	return b
}

// GetEnvInt ignores values below one.
func GetEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(GetEnvTrimmed(key))
	if err != nil || n < 1 {
		return defaultValue
	}
	return n
}

func GetEnvInt64(key string, defaultValue int64) int64 {
	n, err := strconv.ParseInt(GetEnvTrimmed(key), 10, 64)
	if err != nil || n < 1 {
		return defaultValue
	}
	return n
}

// GetEnvDuration accepts time.ParseDuration syntax and ignores non-positive values.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(GetEnvTrimmed(key))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

// GetEnvList splits a comma-separated value, dropping empty items.
func GetEnvList(key string) []string {
	return SplitList(os.Getenv(key))
}

func SplitList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
