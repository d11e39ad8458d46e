package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/cuetrack/pool-league/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_StatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantStatus string
	}{
		{"invalid input", fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"out of range", fmt.Errorf("%w: difference 99", usecase.ErrOutOfRange), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"not found", fmt.Errorf("%w: match m1", usecase.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"unauthorized", fmt.Errorf("%w: bad token", usecase.ErrUnauthorized), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"not team member", fmt.Errorf("%w: team t1", usecase.ErrNotTeamMember), http.StatusForbidden, "PERMISSION_DENIED"},
		{"stale write", fmt.Errorf("%w: lineup l1", usecase.ErrStaleWrite), http.StatusConflict, "ABORTED"},
		{"lineup locked", fmt.Errorf("%w: lineup l1", usecase.ErrLineupLocked), http.StatusConflict, "FAILED_PRECONDITION"},
		{"incomplete lineup", fmt.Errorf("%w: 3 of 5", usecase.ErrIncompleteLineup), http.StatusUnprocessableEntity, "FAILED_PRECONDITION"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(context.Background(), rec, tc.err)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected status %d, got %d", tc.wantCode, rec.Code)
			}

			var body map[string]any
			if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response body: %v", err)
			}
			errorObj, ok := body["error"].(map[string]any)
			if !ok {
				t.Fatalf("expected error object in response")
			}
			if got, _ := errorObj["status"].(string); got != tc.wantStatus {
				t.Fatalf("expected error status %s, got %v", tc.wantStatus, errorObj["status"])
			}
		})
	}
}
