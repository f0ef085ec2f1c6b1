package cpdemo

import (
	"context"
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("cpdemo", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	require.NoError(t, err)
	require.Equal(t, []int{6, 8}, cfg.Queens)
	require.True(t, cfg.JobShop)
	require.Equal(t, time.Minute, cfg.Timeout)
	require.Zero(t, cfg.Workers)
}

func TestParseConfigEnvThenFlags(t *testing.T) {
	t.Setenv("GOKANCP_WORKERS", "4")
	t.Setenv("GOKANCP_QUEENS", "5")
	fs := flag.NewFlagSet("cpdemo", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-queens", "4, 7", "-jobshop=false", "-monitor"})
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, []int{4, 7}, cfg.Queens)
	require.False(t, cfg.JobShop)
	require.True(t, cfg.Monitor)
}

func TestParseConfigRejectsBadSizes(t *testing.T) {
	for _, arg := range []string{"x", "0", "4,-1"} {
		fs := flag.NewFlagSet("cpdemo", flag.ContinueOnError)
		_, err := ParseConfig(fs, []string{"-queens", arg})
		require.Error(t, err, arg)
	}
}

func TestJobs(t *testing.T) {
	jobs := Jobs(Config{Queens: []int{4}, JobShop: true, Monitor: true})
	require.Len(t, jobs, 2)
	require.Equal(t, "queens-4", jobs[0].Name)
	require.Equal(t, "jobshop", jobs[1].Name)

	out, err := jobs[0].Run(context.Background())
	require.NoError(t, err)
	require.Contains(t, out, "solutions=2")
	require.Contains(t, out, "completed=true")

	out, err = jobs[1].Run(context.Background())
	require.NoError(t, err)
	require.Contains(t, out, "makespan: 11")
}

func TestRun(t *testing.T) {
	t.Setenv("GOKANCP_OTEL_ENDPOINT", "")
	require.NoError(t, Run(context.Background(), Config{Workers: 2, Queens: []int{4, 5}, SolutionLimit: 1}))
	require.Error(t, Run(context.Background(), Config{}))
}
