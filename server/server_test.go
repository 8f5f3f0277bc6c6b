package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgedlt/tpsreport"
)

func makeResult(t *testing.T, root, dir, report string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	if report != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, dir, report), []byte("<html>"+dir+"</html>"), 0o644))
	}
}

func testRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	makeResult(t, root, "eth_20240701_123005", "report_eth.html")
	makeResult(t, root, "ava_20240702_080000", "report_ava.html")
	makeResult(t, root, "klay_20240630_235959", "report_klay.html")
	makeResult(t, root, "klay_20240630_235959_2", "report_klay.html")
	makeResult(t, root, "klay_20240703_000000", "")        // no report yet
	makeResult(t, root, "styles", "style.css")             // not a result dir
	makeResult(t, root, "eth_2024_bad", "report_eth.html") // bad timestamp
	return root
}

// TestListReports tests directory discovery and ordering.
func TestListReports(t *testing.T) {
	reports, err := ListReports(testRoot(t))
	require.NoError(t, err)
	require.Len(t, reports, 4)

	assert.Equal(t, "ava_20240702_080000", reports[0].Name)
	assert.Equal(t, "eth_20240701_123005", reports[1].Name)
	assert.Equal(t, "klay_20240630_235959", reports[2].Name)
	assert.Equal(t, "klay_20240630_235959_2", reports[3].Name)
	assert.Equal(t, "/klay_20240630_235959_2/report_klay.html", reports[3].Report)

	assert.Equal(t, "eth", reports[1].Chain)
	assert.Equal(t, "/eth_20240701_123005/report_eth.html", reports[1].Report)
	assert.Equal(t, time.Date(2024, 7, 1, 12, 30, 5, 0, time.UTC), reports[1].GeneratedAt)

	_, err = ListReports(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

// TestHandleReports tests the report listing endpoint.
func TestHandleReports(t *testing.T) {
	s := New(testRoot(t), tpsreport.DefaultRegistry(), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var got []ReportEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 4)
	assert.Equal(t, "ava", got[0].Chain)

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reports", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// TestHandleReportsEmpty tests that an empty root lists as [].
func TestHandleReportsEmpty(t *testing.T) {
	s := New(t.TempDir(), tpsreport.DefaultRegistry(), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

// TestHandleReportsMissingRoot tests the error response.
func TestHandleReportsMissingRoot(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "gone"), tpsreport.DefaultRegistry(), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

// TestHandleChains tests the chain listing endpoint.
func TestHandleChains(t *testing.T) {
	s := New(t.TempDir(), tpsreport.DefaultRegistry(), nil)

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chains", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []ChainEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []ChainEntry{
		{ID: "ava", Network: "avalanchego/1.11.8", TheoreticalTPS: 4500},
		{ID: "eth", Network: "geth/1.14.6", TheoreticalTPS: 50},
		{ID: "klay", Network: "klaytn/0.9.2", TheoreticalTPS: 4000},
	}, got)
}

// TestStaticFiles tests that report files are served from the root.
func TestStaticFiles(t *testing.T) {
	ts := httptest.NewServer(New(testRoot(t), tpsreport.DefaultRegistry(), nil))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/eth_20240701_123005/report_eth.html")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "<html>eth_20240701_123005</html>", string(body))

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/reports", nil)
	require.NoError(t, err)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

// TestListenAndServeShutdown tests graceful shutdown on cancel.
func TestListenAndServeShutdown(t *testing.T) {
	s := New(t.TempDir(), tpsreport.DefaultRegistry(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
