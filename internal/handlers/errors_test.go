package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/site_workflow_app/internal/apperrors"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation list", apperrors.NewValidationErrors("a", "b"), http.StatusBadRequest, `"details":["a","b"]`},
		{"validation sentinel", apperrors.NewValidationFailedError("invalid nextToken"), http.StatusBadRequest, "invalid nextToken"},
		{"hidden existence", &apperrors.AccessDeniedError{Code: "not_found", Reason: "no such task"}, http.StatusNotFound, "Resource not found"},
		{"invalid id", &apperrors.AccessDeniedError{Code: "invalid_id", Reason: "malformed"}, http.StatusNotFound, "Resource not found"},
		{"denied", &apperrors.AccessDeniedError{Code: "forbidden", Reason: "not assigned"}, http.StatusForbidden, `"code":"forbidden"`},
		{"forbidden sentinel", fmt.Errorf("wrap: %w", apperrors.ErrForbidden), http.StatusForbidden, "Forbidden"},
		{"invalid transition", &apperrors.InvalidTransitionError{TaskID: "t1", Status: "DONE", Event: "approve"}, http.StatusConflict, `"status":"DONE"`},
		{"lost race", apperrors.NewConflictError("task is DONE, expected REVIEW"), http.StatusConflict, "expected REVIEW"},
		{"duplicate", fmt.Errorf("append: %w", apperrors.ErrDuplicate), http.StatusConflict, "already exists"},
		{"timeout", apperrors.NewAppError(http.StatusServiceUnavailable, "list tasks", context.DeadlineExceeded), http.StatusServiceUnavailable, "temporarily unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Failed to do thing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err, "to do thing")

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.body)
			assert.NotContains(t, w.Body.String(), "boom")
		})
	}
}
