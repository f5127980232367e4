package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	v *viper.Viper
}

func New() (*Config, error) {
	v := viper.New()

	for _, o := range GlobalOptions {
		v.SetDefault(o.Key, o.Default)
	}
	for _, o := range WatchOptions {
		v.SetDefault(o.Key, o.Default)
	}

	v.SetConfigName("kubewatch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.kube")

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !(errors.As(err, &notFoundErr) || errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("KUBEWATCH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return &Config{v: v}, nil
}

func (c *Config) BindFlags(fs *pflag.FlagSet, options []Option) error {
	for _, o := range options {
		switch v := o.Default.(type) {
		case string:
			fs.String(o.Flag, v, o.Description)
		case bool:
			fs.Bool(o.Flag, v, o.Description)
		case time.Duration:
			fs.Duration(o.Flag, v, o.Description)
		default:
			return fmt.Errorf("unsupported flag type for key: %s", o.Key)
		}

		if err := c.v.BindPFlag(o.Key, fs.Lookup(o.Flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", o.Flag, err)
		}
	}

	return nil
}

func (c *Config) Host() string {
	return c.v.GetString(keyHost) // KUBEWATCH_HOST
}

func (c *Config) InCluster() bool {
	return c.v.GetBool(keyInCluster) // KUBEWATCH_IN_CLUSTER
}

func (c *Config) TokenFile() string {
	return c.v.GetString(keyTokenFile) // KUBEWATCH_TOKEN_FILE
}

func (c *Config) CAFile() string {
	return c.v.GetString(keyCAFile) // KUBEWATCH_CA_FILE
}

func (c *Config) Namespace() string {
	return c.v.GetString(keyNamespace) // KUBEWATCH_NAMESPACE
}

func (c *Config) APIVersion() string {
	return c.v.GetString(keyAPIVersion) // KUBEWATCH_API_VERSION
}

func (c *Config) Output() string {
	return c.v.GetString(keyOutput) // KUBEWATCH_OUTPUT
}

func (c *Config) Reconnect() bool {
	return c.v.GetBool(keyReconnect) // KUBEWATCH_RECONNECT_ENABLED
}

func (c *Config) ReconnectMaxInterval() time.Duration {
	return c.v.GetDuration(keyReconnectMaxInterval) // KUBEWATCH_RECONNECT_MAX_INTERVAL
}

func (c *Config) LogLevel() string {
	return c.v.GetString(keyLogLevel) // KUBEWATCH_LOG_LEVEL
}

func (c *Config) LogFormat() string {
	return c.v.GetString(keyLogFormat) // KUBEWATCH_LOG_FORMAT
}
