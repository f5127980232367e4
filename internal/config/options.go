package config

import (
	"strings"
	"time"
)

// Option describes a single configuration entry: its viper key, the
// corresponding CLI flag name, the compiled default, and a
// human-readable description shown in --help output.
type Option struct {
	Key         string
	Flag        string
	Default     any
	Description string
}

// GlobalOptions apply to every command.
var GlobalOptions = []Option{
	{Key: keyLogLevel, Flag: toFlag(keyLogLevel), Default: "info", Description: "Log level (debug, info, warn, error)"},
	{Key: keyLogFormat, Flag: toFlag(keyLogFormat), Default: "text", Description: "Log format (text or json)"},
}

// WatchOptions configure the connection to the API server and what is
// done with the events it sends.
var WatchOptions = []Option{
	{Key: keyHost, Flag: toFlag(keyHost), Default: "http://127.0.0.1:8080", Description: "API server address"},
	{Key: keyInCluster, Flag: toFlag(keyInCluster), Default: false, Description: "Use the in-cluster service account instead of --host"},
	{Key: keyTokenFile, Flag: toFlag(keyTokenFile), Default: "", Description: "File holding a bearer token, re-read when it changes"},
	{Key: keyCAFile, Flag: toFlag(keyCAFile), Default: "", Description: "PEM file of CA certificates to trust"},
	{Key: keyNamespace, Flag: toFlag(keyNamespace), Default: "", Description: "Namespace to watch, all namespaces if empty"},
	{Key: keyAPIVersion, Flag: toFlag(keyAPIVersion), Default: "v1", Description: "API version of the resource, eg v1 or apps/v1"},
	{Key: keyOutput, Flag: toFlag(keyOutput), Default: "name", Description: "Output format (name or json)"},
	{Key: keyReconnect, Flag: toFlag(keyReconnect), Default: false, Description: "Re-establish the watch when it ends"},
	{Key: keyReconnectMaxInterval, Flag: toFlag(keyReconnectMaxInterval), Default: 30 * time.Second, Description: "Longest wait between reconnection attempts"},
}

// toFlag converts a viper key like "reconnect.max_interval" into a CLI
// flag like "reconnect-max-interval". The ".enabled" suffix is dropped
// so boolean sections read naturally, eg --reconnect.
func toFlag(key string) string {
	flag := strings.ToLower(key)
	flag = strings.TrimSuffix(flag, ".enabled")
	flag = strings.ReplaceAll(flag, ".", "-")
	flag = strings.ReplaceAll(flag, "_", "-")
	return flag
}
