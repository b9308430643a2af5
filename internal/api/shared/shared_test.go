package shared

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/exitcheck/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	traced := SetTraceID(ctx)
	traceID := GetTraceID(traced)
	assert.Len(t, traceID, 32)
	_, err := hex.DecodeString(traceID)
	assert.NoError(t, err)

	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(ctx)))
	assert.Empty(t, GetTraceID(context.WithValue(ctx, TraceIDKey, 123)))
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var body struct {
		Title string `json:"title"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Keys"}`))
	require.NoError(t, DecodeJSON(r, &body))
	assert.Equal(t, "Keys", body.Title)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Keys","extra":1}`))
	assert.Error(t, DecodeJSON(r, &body))
}

type selfValidating struct{ ok bool }

func (s selfValidating) Validate() error {
	if !s.ok {
		return errors.New("invalid")
	}
	return nil
}

func TestValidateRequest(t *testing.T) {
	type req struct {
		Title string `validate:"required"`
	}
	assert.Error(t, ValidateRequest(req{}))
	assert.NoError(t, ValidateRequest(req{Title: "Keys"}))

	assert.Error(t, ValidateRequest(selfValidating{}))
	assert.NoError(t, ValidateRequest(selfValidating{ok: true}))
}

func TestRespondWithErrorAndLog_DoesNotLeakError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/home", nil)
	log, logBuf := logger.GetTestLogger(t)
	r = r.WithContext(logger.WithLogger(SetTraceID(r.Context()), log))

	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "An unexpected error occurred",
		errors.New("dial postgres://exitcheck:secret@db:5432/exitcheck failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotContains(t, w.Body.String(), "secret")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "An unexpected error occurred", resp.Error)
	assert.Equal(t, GetTraceID(r.Context()), resp.TraceID)

	entry := logger.FindLogEntry(t, logBuf, "API error response")
	require.NotNil(t, entry)
	assert.Equal(t, "ERROR", entry["level"])
	assert.NotContains(t, logBuf.String(), "secret")
	logger.AssertLogContains(t, logBuf, "[REDACTED_CREDENTIAL]")
}
