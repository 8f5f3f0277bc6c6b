// Package server serves generated reports over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/edgedlt/tpsreport"
	"github.com/edgedlt/tpsreport/pipeline"
)

const shutdownTimeout = 5 * time.Second

// resultDirPattern matches "<chain>_<YYYYmmdd_HHMMSS>" with an optional "_<n>"
// suffix for runs that share a timestamp.
var resultDirPattern = regexp.MustCompile(`^([A-Za-z0-9]+)_(\d{8}_\d{6})(?:_\d+)?$`)

// ReportEntry describes one result directory.
type ReportEntry struct {
	Name        string    `json:"name"`
	Chain       string    `json:"chain"`
	GeneratedAt time.Time `json:"generated_at"`
	Report      string    `json:"report"`
}

// ChainEntry describes one registered chain.
type ChainEntry struct {
	ID             string `json:"id"`
	Network        string `json:"network"`
	TheoreticalTPS int64  `json:"theoretical_tps"`
}

// Server is an http.Handler that lists and serves the result directories
// under one output root.
type Server struct {
	root     string
	registry *tpsreport.Registry
	logger   *zap.Logger
	mux      *http.ServeMux
}

// New creates a server for the result directories under root.
func New(root string, registry *tpsreport.Registry, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		root:     root,
		registry: registry,
		logger:   logger.Named("server"),
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/api/reports", s.handleReports)
	s.mux.HandleFunc("/api/chains", s.handleChains)

	s.mux.Handle("/", http.FileServer(http.Dir(s.root)))
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving reports", zap.String("addr", addr), zap.String("root", s.root))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// ListReports returns the result directories under root, newest first.
// Directories that do not hold a report are skipped.
func ListReports(root string) ([]ReportEntry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var reports []ReportEntry
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := resultDirPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		ts, err := time.Parse(pipeline.DirTimeLayout, m[2])
		if err != nil {
			continue
		}
		reportFile := "report_" + m[1] + ".html"
		if _, err := os.Stat(filepath.Join(root, e.Name(), reportFile)); err != nil {
			continue
		}
		reports = append(reports, ReportEntry{
			Name:        e.Name(),
			Chain:       m[1],
			GeneratedAt: ts,
			Report:      "/" + e.Name() + "/" + reportFile,
		})
	}

	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].GeneratedAt.Equal(reports[j].GeneratedAt) {
			return reports[i].GeneratedAt.After(reports[j].GeneratedAt)
		}
		return reports[i].Name < reports[j].Name
	})
	return reports, nil
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reports, err := ListReports(s.root)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if reports == nil {
		reports = []ReportEntry{}
	}
	s.writeJSON(w, reports)
}

func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	profiles := s.registry.Profiles()
	chains := make([]ChainEntry, 0, len(profiles))
	for _, p := range profiles {
		chains = append(chains, ChainEntry{ID: p.ID, Network: p.NetworkLabel, TheoreticalTPS: p.TheoreticalTPS})
	}
	s.writeJSON(w, chains)
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode JSON response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
