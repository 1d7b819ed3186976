// Package http contains the chi HTTP handlers for the analysis API.
// Handlers translate between the wire format and the service layer;
// business rules live below.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"hrpulse/internal/analysis"
	apierrors "hrpulse/internal/errors"
	"hrpulse/internal/exporter"
	"hrpulse/internal/infrastructure"
	"hrpulse/internal/ingest"
	"hrpulse/internal/services"
)

type contextKey string

const sessionContextKey contextKey = "analysis-session"

func contextWithSession(ctx context.Context, session *services.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

func sessionFromContext(ctx context.Context) *services.Session {
	session, _ := ctx.Value(sessionContextKey).(*services.Session)
	return session
}

// AnalysisHandler handles the analysis API endpoints
type AnalysisHandler struct {
	service        *services.AnalysisService
	reports        *exporter.ReportWriter
	maxUploadBytes int64
	metrics        *infrastructure.PipelineMetrics
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	validate       *validator.Validate
}

// NewAnalysisHandler creates an analysis handler
func NewAnalysisHandler(
	service *services.AnalysisService,
	reports *exporter.ReportWriter,
	maxUploadBytes int64,
	metrics *infrastructure.PipelineMetrics,
	logger *slog.Logger,
	errorHandler *apierrors.ErrorHandler,
) *AnalysisHandler {
	return &AnalysisHandler{
		service:        service,
		reports:        reports,
		maxUploadBytes: maxUploadBytes,
		metrics:        metrics,
		logger:         logger.With(slog.String("component", "analysis_handler")),
		errorHandler:   errorHandler,
		validate:       validator.New(),
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.CreateAnalysis)

	r.Route("/{analysisID}", func(r chi.Router) {
		r.Use(h.AnalysisCtx)
		r.Get("/", h.GetAnalysis)
		r.Get("/insights", h.GetInsights)
		r.Post("/reports", h.GenerateReports)
		r.Get("/download/{kind}", h.DownloadReport)
	})

	return r
}

// AnalysisCtx loads the session for {analysisID} into the request
// context.
func (h *AnalysisHandler) AnalysisCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "analysisID")
		if id == "" {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("analysisID", "Analysis id is required"))
			return
		}

		session, err := h.service.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				h.errorHandler.HandleError(w, r, apierrors.ErrAnalysisNotFound)
				return
			}
			h.errorHandler.HandleError(w, r, err)
			return
		}

		ctx := contextWithSession(r.Context(), session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// uploadResponse is the response body for POST /api/analysis
type uploadResponse struct {
	AnalysisID string                      `json:"analysis_id"`
	Summary    analysis.Summary            `json:"summary"`
	Overview   []analysis.FileOverview     `json:"data_overview"`
	Previews   map[string]services.Preview `json:"previews"`
	Insights   []string                    `json:"insights"`
}

// CreateAnalysis handles POST /api/analysis: accepts a multipart
// upload of .xlsx/.csv files, runs the analysis pipeline and responds
// with the new session.
func (h *AnalysisHandler) CreateAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoFilesUploaded)
		return
	}

	sources := h.decodeUploads(r, files)

	session, err := h.service.Run(ctx, sources)
	if err != nil {
		if errors.Is(err, analysis.ErrNoData) {
			h.recordRun(ctx, sources, nil, start, "no_data")
			h.errorHandler.HandleError(w, r, apierrors.ErrNoUsableData)
			return
		}
		h.recordRun(ctx, sources, nil, start, "error")
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.recordRun(ctx, sources, session.Result, start, "success")

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, uploadResponse{
		AnalysisID: session.ID,
		Summary:    session.Result.Summary,
		Overview:   session.Result.DataOverview,
		Previews:   session.Previews,
		Insights:   session.Result.Insights,
	})
}

// decodeUploads decodes each uploaded file part, skipping files that
// fail to decode. The engine reports no-usable-data if nothing
// survives.
func (h *AnalysisHandler) decodeUploads(r *http.Request, files []*multipart.FileHeader) []analysis.Source {
	var sources []analysis.Source
	for _, header := range files {
		source, err := h.decodeUpload(header)
		if err != nil {
			h.logger.WarnContext(r.Context(), "skipping uploaded file",
				slog.String("file", header.Filename),
				slog.String("error", err.Error()))
			continue
		}
		sources = append(sources, *source)
	}
	return sources
}

func (h *AnalysisHandler) decodeUpload(header *multipart.FileHeader) (*analysis.Source, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return ingest.LoadExcelReader(file, name)
	case ".csv":
		return ingest.LoadCSVReader(file, name)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", name)
	}
}

func (h *AnalysisHandler) recordRun(ctx context.Context, sources []analysis.Source, result *analysis.Result, start time.Time, status string) {
	if h.metrics == nil {
		return
	}
	rows := 0
	if result != nil {
		rows = result.Summary.TotalRows
	}
	h.metrics.RecordAnalysis(ctx, len(sources), rows, time.Since(start).Seconds(), status)
}

// GetAnalysis handles GET /api/analysis/{analysisID}
func (h *AnalysisHandler) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	render.JSON(w, r, session.Result)
}

// GetInsights handles GET /api/analysis/{analysisID}/insights
func (h *AnalysisHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	render.JSON(w, r, map[string]any{
		"analysis_id": session.ID,
		"insights":    session.Result.Insights,
	})
}

// reportRequest is the request body for POST .../reports
type reportRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Company string `json:"company_name" validate:"required,max=200"`
}

// reportResponse lists the generated report files by kind.
type reportResponse struct {
	AnalysisID string            `json:"analysis_id"`
	Reports    map[string]string `json:"reports"`
}

// GenerateReports handles POST /api/analysis/{analysisID}/reports:
// exports the result to CSV and JSON report files on disk.
func (h *AnalysisHandler) GenerateReports(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	session := sessionFromContext(ctx)

	var req reportRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, validationAPIError(err))
		return
	}

	meta := exporter.Metadata{Title: req.Title, Company: req.Company}

	csvPath, err := h.reports.WriteCSV(ctx, session.ID, session.Result, meta)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	session.SetReport("csv", csvPath)

	jsonPath, err := h.reports.WriteJSON(ctx, session.ID, session.Result)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	session.SetReport("json", jsonPath)

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, reportResponse{
		AnalysisID: session.ID,
		Reports: map[string]string{
			"csv":  "/api/analysis/" + session.ID + "/download/csv",
			"json": "/api/analysis/" + session.ID + "/download/json",
		},
	})
}

// DownloadReport handles GET .../download/{kind}
func (h *AnalysisHandler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	kind := chi.URLParam(r, "kind")
	if kind != "csv" && kind != "json" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("kind", fmt.Sprintf("Unknown report kind: %s", kind)))
		return
	}

	path, err := session.Report(kind)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrReportNotFound)
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "analysis-report."+kind))
	http.ServeFile(w, r, path)
}

// validationAPIError converts validator errors into field-level API
// errors.
func validationAPIError(err error) *apierrors.APIError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return apierrors.ErrValidation(first.Field(),
			fmt.Sprintf("failed %s validation", first.Tag()))
	}
	return apierrors.InvalidRequestWithError(err)
}
