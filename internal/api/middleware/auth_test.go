package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/communityzine/magazine-system/internal/core/domain"
	"github.com/communityzine/magazine-system/internal/core/ports"
)

// fakeTokenService resolves tokens from a fixed map; unknown tokens fail
// with the configured error.
type fakeTokenService struct {
	valid map[string]*ports.Claims
	err   error
}

func (f *fakeTokenService) Issue(context.Context, *domain.User) (*ports.TokenPair, error) {
	panic("not used")
}

func (f *fakeTokenService) VerifyAccess(token string) (*ports.Claims, error) {
	if claims, ok := f.valid[token]; ok {
		return claims, nil
	}
	if f.err != nil {
		return nil, f.err
	}
	return nil, domain.ErrTokenInvalid
}

func (f *fakeTokenService) Rotate(context.Context, string) (*ports.TokenPair, error) {
	panic("not used")
}

func (f *fakeTokenService) Revoke(context.Context, string) error {
	panic("not used")
}

func modClaims() *ports.Claims {
	return &ports.Claims{UserID: "u1", Role: domain.RoleModerator}
}

func TestAuth_CookieCarrier(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "good"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(&fakeTokenService{valid: map[string]*ports.Claims{"good": modClaims()}})
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get(CtxUserID) != "u1" {
			t.Fatalf("user_id not set")
		}
		if c.Get(CtxRole) != domain.RoleModerator {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestAuth_BearerFallback(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(&fakeTokenService{valid: map[string]*ports.Claims{"good": modClaims()}})
	handler := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestAuth_MissingToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(&fakeTokenService{})
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

// Every token failure kind yields the same 401 body: clients must not learn
// which check failed.
func TestAuth_FailureKindsAreIndistinguishable(t *testing.T) {
	for _, tokenErr := range []error{
		domain.ErrTokenExpired,
		domain.ErrTokenInvalid,
		domain.ErrTokenMalformed,
	} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: AccessCookieName, Value: "bad"})
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		mw := Auth(&fakeTokenService{err: tokenErr})
		handler := mw(func(c echo.Context) error {
			t.Fatalf("should not reach next handler")
			return nil
		})

		err := handler(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Fatalf("%v: expected 401, got %v", tokenErr, err)
		}
		if he.Message != "please sign in again" {
			t.Fatalf("%v: leaked failure kind: %v", tokenErr, he.Message)
		}
	}
}
