package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/harshgurla/codeassess/internal/dto"
	"github.com/harshgurla/codeassess/internal/service"
)

func TestWriteErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err        error
		wantStatus int
		wantReason string
	}{
		{fmt.Errorf("%w: duration out of range", service.ErrValidation), http.StatusBadRequest, "validation"},
		{service.ErrBadCredentials, http.StatusUnauthorized, "bad_credentials"},
		{service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{service.ErrNotFound, http.StatusNotFound, "not_found"},
		{service.ErrEmailTaken, http.StatusConflict, "email_taken"},
		{service.ErrTimeLimitExceeded, http.StatusConflict, "time_limit_exceeded"},
		{fmt.Errorf("%w: already completed", service.ErrStateConflict), http.StatusConflict, "state_conflict"},
		{service.ErrEvaluatorUnavailable, http.StatusServiceUnavailable, "evaluator_unavailable"},
		{errors.New("database exploded"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.wantReason, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(rec)

			WriteError(ctx, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if body.Reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", body.Reason, tt.wantReason)
			}
		})
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	WriteError(ctx, errors.New("pq: connection refused host=10.0.0.3"))

	var body dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Message != "Internal server error" {
		t.Errorf("message = %q, internal detail must not leak", body.Message)
	}
}
