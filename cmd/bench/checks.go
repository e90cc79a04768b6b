package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"guardian/internal/infra"
)

type state string

const (
	stateOK       state = "ok"
	stateFail     state = "FAIL"
	stateDegraded state = "degraded"
	stateSkipped  state = "skipped"
)

type outcome struct {
	state  state
	took   time.Duration
	detail string
}

func failed(err error) outcome { return outcome{state: stateFail, detail: err.Error()} }

type check struct {
	name string
	run  func(ctx context.Context, e *benchEnv) outcome
}

// benchEnv holds the clients shared by all checks. db and rdb stay nil when
// not configured or unreachable; connErr explains why.
type benchEnv struct {
	cfg     benchConfig
	client  *http.Client
	db      *pgxpool.Pool
	rdb     *redis.Client
	connErr map[string]error
}

func connect(ctx context.Context, cfg benchConfig) *benchEnv {
	e := &benchEnv{cfg: cfg, client: &http.Client{Timeout: 90 * time.Second}, connErr: map[string]error{}}
	if cfg.DSN != "" {
		if db, err := infra.NewDB(ctx, cfg.DSN); err != nil {
			e.connErr["db"] = err
		} else {
			e.db = db
		}
	}
	if cfg.RedisAddr != "" {
		if rdb, err := infra.NewRedis(ctx, cfg.RedisAddr, "", 0); err != nil {
			e.connErr["redis"] = err
		} else {
			e.rdb = rdb
		}
	}
	return e
}

func (e *benchEnv) close() {
	if e.db != nil {
		e.db.Close()
	}
	if e.rdb != nil {
		_ = e.rdb.Close()
	}
}

const lisbonReply = "Here is your day! ```json\n" +
	`{"type":"itinerary","title":"Lisbon day","destination":"Lisbon","days":[{"day_number":1,"activities":[` +
	`{"time":"09:00","title":"Belém Tower","type":"attraction"},` +
	`{"time":"13:00","title":"Time Out Market","type":"restaurant"},` +
	`{"time":"18:00","title":"Tram 28","type":"transport","location":"Martim Moniz"}]}]}` +
	"\n``` Have fun!"

func checks(cfg benchConfig) []check {
	api := func(path string) string { return cfg.BaseURL + path }
	return []check{
		{name: "postgres reachable", run: dependencyCheck("db", func(e *benchEnv) bool { return e.db != nil })},
		{name: "redis reachable", run: dependencyCheck("redis", func(e *benchEnv) bool { return e.rdb != nil })},
		{name: "history migration", run: migrationCheck},
		getStatus("health", api("/health"), http.StatusOK),
		getStatus("metrics", api("/metrics"), http.StatusOK),
		postExpect("analyze rejects empty input", api("/api/analyze"), map[string]any{}, want{status: http.StatusBadRequest, kind: "invalid_input"}),
		postExpect("analyze text message", api("/api/analyze"),
			map[string]any{"text": "Your parcel is held. Pay 1.99 EUR at http://post-delivery.example to release it."},
			want{status: http.StatusOK, degradedOn: []int{http.StatusServiceUnavailable}}),
		postExpect("analyze trip document", api("/api/documents/analyze"),
			map[string]any{"text": "I hold an Indian passport and plan 5 days in France then 3 days in Japan for tourism."},
			want{status: http.StatusOK, degradedOn: []int{http.StatusServiceUnavailable}}),
		postExpect("extract plain reply", api("/api/itinerary/extract"),
			map[string]any{"text": "Lisbon is hilly, bring good shoes."}, want{status: http.StatusOK}),
		postExpect("extract ignores unrelated json", api("/api/itinerary/extract"),
			map[string]any{"text": `Try this config: {"port":8080}`}, want{status: http.StatusOK}),
		postExpect("extract and enrich", api("/api/itinerary/extract"),
			map[string]any{"text": lisbonReply, "enrich": true}, want{status: http.StatusOK}),
		postExpect("enrich payload", api("/api/itinerary/enrich"),
			map[string]any{"type": "itinerary", "destination": "Lisbon", "days": []any{}},
			want{status: http.StatusOK, degradedOn: []int{http.StatusServiceUnavailable}}),
		getExpect("history unknown id", api("/api/analyses/"+uuid.NewString()),
			want{status: http.StatusNotFound, kind: "not_found", degradedOn: []int{http.StatusServiceUnavailable}}),
		getExpect("history recent", api("/api/analyses?limit=5"),
			want{status: http.StatusOK, degradedOn: []int{http.StatusServiceUnavailable}}),
		{name: "extract under load", run: func(ctx context.Context, e *benchEnv) outcome {
			return loadCheck(ctx, e, api("/api/itinerary/extract"), map[string]any{"text": lisbonReply})
		}},
	}
}

func dependencyCheck(name string, present func(*benchEnv) bool) func(context.Context, *benchEnv) outcome {
	return func(_ context.Context, e *benchEnv) outcome {
		if err := e.connErr[name]; err != nil {
			return failed(err)
		}
		if !present(e) {
			return outcome{state: stateSkipped, detail: name + " not configured"}
		}
		return outcome{state: stateOK}
	}
}

func migrationCheck(ctx context.Context, e *benchEnv) outcome {
	if e.db == nil {
		return outcome{state: stateSkipped, detail: "db not configured"}
	}
	sql, err := os.ReadFile(e.cfg.MigrationPath)
	if err != nil {
		return failed(err)
	}
	if e.cfg.ApplyMigration {
		for _, stmt := range splitSQL(string(sql)) {
			if _, err := e.db.Exec(ctx, stmt); err != nil {
				return failed(err)
			}
		}
	}
	tables := tablesIn(string(sql))
	for _, tbl := range tables {
		var exists bool
		if err := e.db.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, tbl).Scan(&exists); err != nil {
			return failed(err)
		}
		if !exists {
			return outcome{state: stateFail, detail: "missing table " + tbl}
		}
	}
	return outcome{state: stateOK, detail: strings.Join(tables, ",")}
}

// want describes the acceptable answer of an HTTP check. degradedOn lists
// statuses that mean an optional dependency is not configured.
type want struct {
	status     int
	kind       string
	degradedOn []int
}

func getStatus(name, url string, status int) check {
	return getExpect(name, url, want{status: status})
}

func getExpect(name, url string, w want) check {
	return httpCheck(name, http.MethodGet, url, nil, w)
}

func postExpect(name, url string, body any, w want) check {
	return httpCheck(name, http.MethodPost, url, body, w)
}

func httpCheck(name, method, url string, body any, w want) check {
	return check{name: name, run: func(ctx context.Context, e *benchEnv) outcome {
		var payload io.Reader
		if body != nil {
			b, err := json.Marshal(body)
			if err != nil {
				return failed(err)
			}
			payload = bytes.NewReader(b)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, payload)
		if err != nil {
			return failed(err)
		}
		req.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := e.client.Do(req)
		if err != nil {
			return failed(err)
		}
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		took := time.Since(start)

		detail := fmt.Sprintf("status=%d", resp.StatusCode)
		switch {
		case resp.StatusCode == w.status:
			if w.kind != "" {
				if got := errorKind(raw); got != w.kind {
					return outcome{state: stateFail, took: took, detail: fmt.Sprintf("%s kind=%q want %q", detail, got, w.kind)}
				}
			}
			return outcome{state: stateOK, took: took, detail: detail}
		case slices.Contains(w.degradedOn, resp.StatusCode):
			return outcome{state: stateDegraded, took: took, detail: detail + " kind=" + errorKind(raw)}
		default:
			return outcome{state: stateFail, took: took, detail: detail}
		}
	}}
}

func errorKind(body []byte) string {
	var resp struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.Error.Kind
}

// loadCheck hammers one endpoint for the configured duration and reports
// throughput and tail latency.
func loadCheck(ctx context.Context, e *benchEnv, url string, body any) outcome {
	b, err := json.Marshal(body)
	if err != nil {
		return failed(err)
	}
	deadline := time.Now().Add(e.cfg.Duration)

	var (
		mu        sync.Mutex
		latencies []time.Duration
		errs      int
	)
	g, gctx := errgroup.WithContext(ctx)
	for range e.cfg.Concurrency {
		g.Go(func() error {
			for time.Now().Before(deadline) && gctx.Err() == nil {
				req, err := http.NewRequestWithContext(gctx, http.MethodPost, url, bytes.NewReader(b))
				if err != nil {
					return err
				}
				req.Header.Set("Content-Type", "application/json")
				start := time.Now()
				resp, err := e.client.Do(req)
				took := time.Since(start)

				mu.Lock()
				if err != nil || resp.StatusCode >= 500 {
					errs++
				} else {
					latencies = append(latencies, took)
				}
				mu.Unlock()
				if resp != nil {
					_, _ = io.Copy(io.Discard, resp.Body)
					resp.Body.Close()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return failed(err)
	}

	if len(latencies) == 0 {
		return outcome{state: stateFail, detail: fmt.Sprintf("no successful requests, errors=%d", errs)}
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	rps := float64(len(latencies)) / e.cfg.Duration.Seconds()
	return outcome{
		state: stateOK,
		took:  percentile(latencies, 0.50),
		detail: fmt.Sprintf("rps=%.1f p95=%s errors=%d",
			rps, percentile(latencies, 0.95).Round(time.Millisecond), errs),
	}
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	i := int(float64(len(sorted)-1) * p)
	return sorted[i]
}

var reCreateTable = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)

func tablesIn(sql string) []string {
	var tables []string
	for _, m := range reCreateTable.FindAllStringSubmatch(sql, -1) {
		tables = append(tables, m[1])
	}
	return tables
}

// splitSQL drops comment lines and splits on ';'. The migrations never put a
// semicolon inside a literal.
func splitSQL(sql string) []string {
	var kept []string
	for _, line := range strings.Split(sql, "\n") {
		if l := strings.TrimSpace(line); l == "" || strings.HasPrefix(l, "--") {
			continue
		}
		kept = append(kept, line)
	}
	var stmts []string
	for _, part := range strings.Split(strings.Join(kept, "\n"), ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
