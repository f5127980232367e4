package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFlag(t *testing.T) {
	assert.Equal(t, "host", toFlag(keyHost))
	assert.Equal(t, "token-file", toFlag(keyTokenFile))
	assert.Equal(t, "reconnect", toFlag(keyReconnect))
	assert.Equal(t, "reconnect-max-interval", toFlag(keyReconnectMaxInterval))
	assert.Equal(t, "log-level", toFlag(keyLogLevel))
}

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	conf, err := New()
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080", conf.Host())
	assert.Equal(t, "v1", conf.APIVersion())
	assert.Equal(t, "name", conf.Output())
	assert.False(t, conf.Reconnect())
	assert.Equal(t, 30*time.Second, conf.ReconnectMaxInterval())
	assert.Equal(t, "info", conf.LogLevel())
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KUBEWATCH_HOST", "http://from-env:8080")
	t.Setenv("KUBEWATCH_NAMESPACE", "kube-system")

	conf, err := New()
	require.NoError(t, err)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	require.NoError(t, conf.BindFlags(fs, WatchOptions))
	require.NoError(t, fs.Parse([]string{"--host", "http://from-flag:8080", "--reconnect"}))

	assert.Equal(t, "http://from-flag:8080", conf.Host())
	assert.Equal(t, "kube-system", conf.Namespace())
	assert.True(t, conf.Reconnect())
}

func TestBindFlagsUnsupportedType(t *testing.T) {
	t.Chdir(t.TempDir())

	conf, err := New()
	require.NoError(t, err)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	err = conf.BindFlags(fs, []Option{{Key: "n", Flag: "n", Default: 1}})
	assert.Error(t, err)
}
