package errors

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAppErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("open report.csv: permission denied")
	err := NewStorageError("failed to write report", cause)

	assert.Equal(t, "[STORAGE] failed to write report: open report.csv: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewAppValidationError("title too long")
	assert.Equal(t, "[VALIDATION] title too long", bare.Error())
}

func TestAppErrorWithContext(t *testing.T) {
	err := NewParsingError("unreadable sheet", nil).
		WithContext("sheet", "Summary").
		WithContext("file", "q1.xlsx")

	assert.Equal(t, "Summary", err.Context["sheet"])
	assert.Equal(t, "q1.xlsx", err.Context["file"])
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrNoUsableData)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "NO_USABLE_DATA")
}

func TestErrorHandlerMapsAppErrors(t *testing.T) {
	handler := NewErrorHandler(testLogger())

	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"api error passes through", ErrAnalysisNotFound, http.StatusNotFound},
		{"no data maps to 422", NewNoDataError("nothing usable", nil), http.StatusUnprocessableEntity},
		{"parsing maps to 400", NewParsingError("bad sheet", nil), http.StatusBadRequest},
		{"storage maps to 500", NewStorageError("disk", nil), http.StatusInternalServerError},
		{"unknown maps to opaque 500", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/analysis/x", nil)
			handler.HandleError(rec, req, tt.err)
			require.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
