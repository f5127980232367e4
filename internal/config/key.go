// Package config provides configuration loading for the kubewatch
// command from files, environment variables and CLI flags using viper
// and pflag.
//
// Resolution order (highest wins):
//  1. CLI flags
//  2. Environment variables (prefix KUBEWATCH_)
//  3. Config file (kubewatch.yaml in . or $HOME/.kube/)
//  4. Compiled defaults
package config

const (
	keyHost       = "host"
	keyInCluster  = "in_cluster"
	keyTokenFile  = "token_file"
	keyCAFile     = "ca_file"
	keyNamespace  = "namespace"
	keyAPIVersion = "api_version"
	keyOutput     = "output"
)

const (
	keyReconnect            = "reconnect.enabled"
	keyReconnectMaxInterval = "reconnect.max_interval"
)

const (
	keyLogLevel  = "log.level"
	keyLogFormat = "log.format"
)
