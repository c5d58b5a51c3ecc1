package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

func renderError(t *testing.T, err error) (int, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/magazines", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not the error envelope: %v", err)
	}
	return rec.Code, body.Error
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"expired token", domain.ErrTokenExpired, http.StatusUnauthorized},
		{"invalid token", domain.ErrTokenInvalid, http.StatusUnauthorized},
		{"malformed token", domain.ErrTokenMalformed, http.StatusUnauthorized},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"already published", domain.ErrAlreadyPublished, http.StatusConflict},
		{"already assigned", domain.ErrAlreadyAssigned, http.StatusConflict},
		{"invalid state", domain.ErrInvalidSubmissionState, http.StatusConflict},
		{"submission missing", domain.ErrSubmissionNotFound, http.StatusNotFound},
		{"magazine missing", domain.ErrMagazineNotFound, http.StatusNotFound},
		{"user missing", domain.ErrUserNotFound, http.StatusNotFound},
		{"duplicate user", domain.ErrUserExists, http.StatusConflict},
		{"storage unavailable", domain.ErrUnavailable, http.StatusServiceUnavailable},
		{"storage deadline", context.DeadlineExceeded, http.StatusServiceUnavailable},
		{"wrapped sentinel", fmt.Errorf("publish issue m1: %w", domain.ErrAlreadyPublished), http.StatusConflict},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := renderError(t, tc.err)
			if code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, code)
			}
		})
	}
}

func TestHTTPErrorHandler_TokenFailuresShareOneMessage(t *testing.T) {
	want := "please sign in again"
	for _, err := range []error{domain.ErrTokenExpired, domain.ErrTokenInvalid, domain.ErrTokenMalformed} {
		_, msg := renderError(t, err)
		if msg != want {
			t.Fatalf("token error %v leaked its kind: %q", err, msg)
		}
	}
}

func TestHTTPErrorHandler_UnexpectedErrorHidesCause(t *testing.T) {
	code, msg := renderError(t, errors.New("pq: relation does not exist"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal cause leaked to the client: %q", msg)
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, msg := renderError(t, echo.NewHTTPError(http.StatusUnprocessableEntity, "title is required"))
	if code != http.StatusUnprocessableEntity || msg != "title is required" {
		t.Fatalf("echo error mangled: %d %q", code, msg)
	}
}
