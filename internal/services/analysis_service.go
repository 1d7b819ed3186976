package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"hrpulse/internal/analysis"
	"hrpulse/internal/config"
)

// ErrSessionNotFound is returned when no session exists for an id, or
// the session has expired.
var ErrSessionNotFound = errors.New("analysis session not found")

// ErrReportNotFound is returned when a session has no generated report
// of the requested kind.
var ErrReportNotFound = errors.New("report not found")

// Preview holds the first rows of one uploaded file, echoed back in
// the upload response.
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Session is one completed analysis run kept in memory until its TTL
// elapses. Reports generated for the session are tracked by kind
// ("csv", "json") so downloads can be served later.
type Session struct {
	ID        string
	CreatedAt time.Time
	Result    *analysis.Result
	Previews  map[string]Preview

	mu      sync.RWMutex
	reports map[string]string
}

// SetReport records the path of a generated report file.
func (s *Session) SetReport(kind, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[kind] = path
}

// Report returns the path of a generated report file.
func (s *Session) Report(kind string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	path, ok := s.reports[kind]
	if !ok {
		return "", ErrReportNotFound
	}
	return path, nil
}

// AnalysisService owns analysis sessions: it runs the engine over
// decoded sources, keeps results in memory for the configured TTL and
// hands out session state to the transport layer.
type AnalysisService struct {
	cfg      config.AnalysisConfig
	analyzer *analysis.Analyzer
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewAnalysisService creates an analysis service
func NewAnalysisService(cfg config.AnalysisConfig, analyzer *analysis.Analyzer, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   logger.With("service", "analysis"),
		sessions: make(map[string]*Session),
	}
}

// Run analyzes the given sources and stores the result as a new
// session. The engine's no-usable-data error passes through untouched
// so the transport layer can map it.
func (s *AnalysisService) Run(ctx context.Context, sources []analysis.Source) (*Session, error) {
	s.pruneExpired()

	result, err := s.analyzer.Analyze(ctx, sources)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Result:    result,
		Previews:  buildPreviews(sources, s.cfg.PreviewRows),
		reports:   make(map[string]string),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "analysis session created",
		"session_id", session.ID,
		"files", result.Summary.TotalFiles,
		"rows", result.Summary.TotalRows)

	return session, nil
}

// Get returns the session for id, or ErrSessionNotFound when it does
// not exist or has expired.
func (s *AnalysisService) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(session) {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// SessionCount reports the number of live sessions.
func (s *AnalysisService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartEviction runs a background janitor removing expired sessions
// until ctx is cancelled.
func (s *AnalysisService) StartEviction(ctx context.Context) {
	interval := s.cfg.SessionTTL / 4
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.pruneExpired()
			}
		}
	}()
}

func (s *AnalysisService) expired(session *Session) bool {
	if s.cfg.SessionTTL <= 0 {
		return false
	}
	return time.Since(session.CreatedAt) > s.cfg.SessionTTL
}

func (s *AnalysisService) pruneExpired() {
	if s.cfg.SessionTTL <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, session := range s.sessions {
		if time.Since(session.CreatedAt) > s.cfg.SessionTTL {
			delete(s.sessions, id)
			s.logger.Info("session expired", "session_id", id)
		}
	}
}

// buildPreviews extracts the first previewRows rows of every sheet,
// keyed by "file.xlsx/Sheet".
func buildPreviews(sources []analysis.Source, previewRows int) map[string]Preview {
	previews := make(map[string]Preview)
	for _, source := range sources {
		for _, sheet := range source.Sheets {
			n := previewRows
			if n > len(sheet.Rows) {
				n = len(sheet.Rows)
			}
			rows := make([][]string, n)
			copy(rows, sheet.Rows[:n])
			previews[source.Name+"/"+sheet.Name] = Preview{
				Columns: sheet.Columns,
				Rows:    rows,
			}
		}
	}
	return previews
}
