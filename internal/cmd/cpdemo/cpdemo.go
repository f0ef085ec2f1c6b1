// Package cpdemo parses cpdemo command flags and runs the demo models.
package cpdemo

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gitrdm/gokancp/internal/config"
	"github.com/gitrdm/gokancp/internal/models"
	"github.com/gitrdm/gokancp/internal/parallel"
	"github.com/gitrdm/gokancp/internal/telemetry"
	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/search"
)

// ServiceName identifies the command in traces and logs.
const ServiceName = "cpdemo"

// Config holds cpdemo command configuration.
type Config struct {
	Workers       int           `env:"GOKANCP_WORKERS"`
	Queens        []int         `env:"GOKANCP_QUEENS" envDefault:"6,8"`
	JobShop       bool          `env:"GOKANCP_JOBSHOP" envDefault:"true"`
	SolutionLimit int           `env:"GOKANCP_SOLUTION_LIMIT"`
	Timeout       time.Duration `env:"GOKANCP_TIMEOUT" envDefault:"1m"`
	Monitor       bool          `env:"GOKANCP_MONITOR"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of models solved concurrently (0 = one per CPU)")
	fs.Func("queens", "Comma-separated board sizes for n-queens (empty disables)", func(s string) error {
		sizes, err := parseSizes(s)
		if err != nil {
			return err
		}
		cfg.Queens = sizes
		return nil
	})
	fs.BoolVar(&cfg.JobShop, "jobshop", cfg.JobShop, "Optimize the built-in job-shop instance")
	fs.IntVar(&cfg.SolutionLimit, "limit", cfg.SolutionLimit, "Stop each n-queens run after this many solutions (0 = all)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Overall time budget")
	fs.BoolVar(&cfg.Monitor, "monitor", cfg.Monitor, "Report propagation statistics per model")
	if err := config.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseSizes(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("queens size %q: %w", p, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("queens size %d must be > 0", n)
		}
		out = append(out, n)
	}
	return out, nil
}

// Jobs turns cfg into the independent model runs handed to the pool.
func Jobs(cfg Config) []parallel.Job {
	var limit search.Limit
	if cfg.SolutionLimit > 0 {
		limit = search.LimitSolutions(cfg.SolutionLimit)
	}
	var jobs []parallel.Job
	for _, n := range cfg.Queens {
		jobs = append(jobs, parallel.Job{
			Name: fmt.Sprintf("queens-%d", n),
			Run: func(ctx context.Context) (string, error) {
				mon, opts := monitorOptions(cfg.Monitor)
				m, err := models.NewQueens(n, opts...)
				if err != nil {
					return "", err
				}
				res, err := m.Solve(ctx, limit)
				if err != nil {
					return "", err
				}
				out := res.Stats.String()
				if mon != nil {
					out += "\n" + mon.Stats().String()
				}
				if res.First != nil {
					out += "\n" + models.FormatBoard(res.First)
				}
				return out, nil
			},
		})
	}
	if cfg.JobShop {
		jobs = append(jobs, parallel.Job{
			Name: "jobshop",
			Run: func(ctx context.Context) (string, error) {
				mon, opts := monitorOptions(cfg.Monitor)
				m, err := models.NewJobShopModel(models.SmallJobShop, opts...)
				if err != nil {
					return "", err
				}
				res, err := m.Optimize(ctx, nil)
				if err != nil {
					return "", err
				}
				out := res.Stats.String()
				if mon != nil {
					out += "\n" + mon.Stats().String()
				}
				if res.Best != nil {
					out += "\n" + res.Best.Format(models.SmallJobShop)
				}
				return out, nil
			},
		})
	}
	return jobs
}

func monitorOptions(enabled bool) (*cp.Monitor, []cp.Option) {
	if !enabled {
		return nil, nil
	}
	mon := cp.NewMonitor()
	return mon, []cp.Option{cp.WithMonitor(mon)}
}

// Run solves every configured model on a worker pool and logs the results.
func Run(ctx context.Context, cfg Config) error {
	return telemetry.Run(ctx, ServiceName, func(ctx context.Context) error {
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
			defer cancel()
		}
		jobs := Jobs(cfg)
		if len(jobs) == 0 {
			return errors.New("no models selected")
		}
		pool := parallel.NewWorkerPool(cfg.Workers)
		defer pool.Shutdown()

		log.Printf("solving %d models on %d workers", len(jobs), pool.Size())
		var errs []error
		for _, r := range pool.RunJobs(ctx, jobs) {
			if r.Err != nil {
				log.Printf("%s failed after %v: %v", r.Name, r.Duration, r.Err)
				errs = append(errs, fmt.Errorf("%s: %w", r.Name, r.Err))
				continue
			}
			log.Printf("%s (%v)\n%s", r.Name, r.Duration.Round(time.Microsecond), strings.TrimRight(r.Output, "\n"))
		}
		return errors.Join(errs...)
	})
}
