package utils

import (
	"os"
	"strings"
)

// ParseWithFallback reads envName, treating unset and blank values alike.
func ParseWithFallback(envName, fallback string) string {
	value, ok := os.LookupEnv(envName)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}

	return strings.TrimSpace(value)
}
