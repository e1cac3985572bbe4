// FILE: env.go
// Package main – Environment helpers.
//
// This file provides:
//   1) Small helpers to read environment variables with defaults
//      (strings, ints, floats, bools).
//   2) loadDotEnv, which hydrates the process env from a .env file without
//      overriding keys that are already exported.
//
// Every GAP_* key read here overrides the matching config file value (see
// config.go applyEnv).

package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
func getEnvFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
func getEnvBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "1", "true", "y", "yes":
		return true
	case "0", "false", "n", "no":
		return false
	default:
		return def
	}
}
func getEnvInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return i
}
func getEnvUint64(key string, def uint64) uint64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	u, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return def
	}
	return u
}

// loadDotEnv reads path (".env" when empty). A missing file is not an error;
// the process env is used as is.
func loadDotEnv(path string) {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if !os.IsNotExist(err) {
			configLog.Warnf("env: %s unreadable: %v", path, err)
		} else {
			configLog.Debugf("env: %s not found, relying on process env", path)
		}
		return
	}
	configLog.Debugf("env: loaded %s", path)
}
