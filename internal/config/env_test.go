package config

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type envTestConfig struct {
	Workers int           `env:"GOKANCP_TEST_WORKERS" envDefault:"3"`
	Sizes   []int         `env:"GOKANCP_TEST_SIZES" envDefault:"4,8"`
	Timeout time.Duration `env:"GOKANCP_TEST_TIMEOUT" envDefault:"2s"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	require.NoError(t, ParseEnv(&cfg))
	require.Equal(t, 3, cfg.Workers)
	require.Equal(t, []int{4, 8}, cfg.Sizes)
	require.Equal(t, 2*time.Second, cfg.Timeout)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("GOKANCP_TEST_SIZES", "5,6,7")
	t.Setenv("GOKANCP_TEST_TIMEOUT", "150ms")
	var cfg envTestConfig
	require.NoError(t, ParseEnv(&cfg))
	require.Equal(t, []int{5, 6, 7}, cfg.Sizes)
	require.Equal(t, 150*time.Millisecond, cfg.Timeout)
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("GOKANCP_TEST_WORKERS", "not-an-int")
	var cfg envTestConfig
	err := ParseEnv(&cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse env:")
}

func TestParseConfigRequiresTarget(t *testing.T) {
	require.Error(t, ParseConfig[envTestConfig](nil))
	require.Error(t, ParseArgs(nil, nil))

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	n := fs.Int("n", 1, "")
	require.NoError(t, ParseArgs(fs, nil))
	require.Equal(t, 1, *n)
}
