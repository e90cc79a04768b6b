// README: Smoke and load runner against a live guardian API; exits non-zero when a check fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/viper"
)

type benchConfig struct {
	BaseURL        string
	DSN            string
	RedisAddr      string
	MigrationPath  string
	ApplyMigration bool
	// Strict turns degraded checks (optional dependency missing) into failures.
	Strict      bool
	Timeout     time.Duration
	Concurrency int
	Duration    time.Duration
}

func loadBenchConfig(args []string) (benchConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("GUARDIAN_BENCH")
	v.AutomaticEnv()
	v.SetDefault("base_url", "http://localhost:8080")
	v.SetDefault("migration", "migrations/0001_analysis_history.sql")
	v.SetDefault("timeout", 60*time.Second)
	v.SetDefault("concurrency", 20)
	v.SetDefault("duration", 10*time.Second)
	_ = v.BindEnv("dsn", "GUARDIAN_DB_DSN")
	_ = v.BindEnv("redis", "GUARDIAN_REDIS_ADDR")

	var cfg benchConfig
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	fs.StringVar(&cfg.BaseURL, "base-url", v.GetString("base_url"), "API base URL")
	fs.StringVar(&cfg.DSN, "dsn", v.GetString("dsn"), "Postgres DSN, empty skips database checks")
	fs.StringVar(&cfg.RedisAddr, "redis", v.GetString("redis"), "Redis address, empty skips cache checks")
	fs.StringVar(&cfg.MigrationPath, "migration", v.GetString("migration"), "history migration file")
	fs.BoolVar(&cfg.ApplyMigration, "apply-migration", v.GetBool("apply_migration"), "apply the migration before checking")
	fs.BoolVar(&cfg.Strict, "strict", v.GetBool("strict"), "treat degraded checks as failures")
	fs.DurationVar(&cfg.Timeout, "timeout", v.GetDuration("timeout"), "overall deadline")
	fs.IntVar(&cfg.Concurrency, "concurrency", v.GetInt("concurrency"), "workers for the load check")
	fs.DurationVar(&cfg.Duration, "duration", v.GetDuration("duration"), "length of the load check")
	if err := fs.Parse(args); err != nil {
		return benchConfig{}, err
	}
	if cfg.Concurrency < 1 || cfg.Duration <= 0 {
		return benchConfig{}, fmt.Errorf("concurrency and duration must be positive")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg, nil
}

func main() {
	cfg, err := loadBenchConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	env := connect(ctx, cfg)
	defer env.close()

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	tally := map[state]int{}
	for _, c := range checks(cfg) {
		o := c.run(ctx, env)
		tally[o.state]++
		took := "-"
		if o.took > 0 {
			took = o.took.Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", o.state, c.name, took, o.detail)
	}
	_ = tw.Flush()

	fmt.Printf("\nok=%d fail=%d degraded=%d skipped=%d\n", tally[stateOK], tally[stateFail], tally[stateDegraded], tally[stateSkipped])
	if tally[stateFail] > 0 || (cfg.Strict && tally[stateDegraded] > 0) {
		os.Exit(1)
	}
}
