package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQL(t *testing.T) {
	stmts := splitSQL("-- comment\nCREATE TABLE a (id int);\n\nCREATE INDEX i ON a (id);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id int)", "CREATE INDEX i ON a (id)"}, stmts)
}

func TestTablesIn(t *testing.T) {
	sql := "create table if not exists analysis_history (id text);\nCREATE INDEX IF NOT EXISTS x ON analysis_history (id);"
	assert.Equal(t, []string{"analysis_history"}, tablesIn(sql))
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "not_found", errorKind([]byte(`{"error":{"kind":"not_found","detail":"no analysis"}}`)))
	assert.Equal(t, "", errorKind([]byte(`OK`)))
}

func TestPercentile(t *testing.T) {
	d := []time.Duration{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.Equal(t, time.Duration(5), percentile(d, 0.5))
	assert.Equal(t, time.Duration(9), percentile(d, 0.95))
	assert.Equal(t, time.Duration(0), percentile(nil, 0.5))
}

func TestLoadBenchConfig(t *testing.T) {
	t.Setenv("GUARDIAN_BENCH_CONCURRENCY", "4")
	cfg, err := loadBenchConfig([]string{"-base-url", "http://api:9090/", "-duration", "2s"})
	require.NoError(t, err)
	assert.Equal(t, "http://api:9090", cfg.BaseURL)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 2*time.Second, cfg.Duration)

	_, err = loadBenchConfig([]string{"-concurrency", "0"})
	assert.Error(t, err)
}

func TestHTTPCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"kind":"not_found","detail":"x"}}`))
		case "/off":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"kind":"not_configured","detail":"x"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`404 page not found`))
		}
	}))
	t.Cleanup(srv.Close)
	e := &benchEnv{client: srv.Client()}
	ctx := context.Background()

	w := want{status: http.StatusNotFound, kind: "not_found", degradedOn: []int{http.StatusServiceUnavailable}}
	assert.Equal(t, stateOK, getExpect("ok", srv.URL+"/missing", w).run(ctx, e).state)
	assert.Equal(t, stateDegraded, getExpect("off", srv.URL+"/off", w).run(ctx, e).state)
	// A router 404 without the error body is not the API answering.
	assert.Equal(t, stateFail, getExpect("route", srv.URL+"/nope", w).run(ctx, e).state)
}
