package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/harshgurla/codeassess/config"
)

func testTokenManager() *TokenManager {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	return NewTokenManager(cfg)
}

func TestIssueParseRoundTrip(t *testing.T) {
	tm := testTokenManager()

	token, err := tm.Issue(42, "student@example.com", "student")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AccountID != 42 {
		t.Errorf("accountID = %d, want 42", claims.AccountID)
	}
	if claims.Email != "student@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
	if claims.Role != "student" {
		t.Errorf("role = %q", claims.Role)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Error("token has no future expiry")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := testTokenManager().Issue(1, "a@example.com", "teacher")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "different-secret"
	if _, err := NewTokenManager(cfg).Parse(token); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := testTokenManager().Parse("not.a.token"); err == nil {
		t.Error("garbage token was accepted")
	}
}

func middlewareRequest(t *testing.T, tm *TokenManager, authHeader string, handlers ...gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	chain := append([]gin.HandlerFunc{Middleware(tm)}, handlers...)
	chain = append(chain, func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	router.GET("/probe", chain...)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareAcceptsValidBearer(t *testing.T) {
	tm := testTokenManager()
	token, err := tm.Issue(1, "a@example.com", "teacher")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec := middlewareRequest(t, tm, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestMiddlewareRejectsMissingAndInvalidTokens(t *testing.T) {
	tm := testTokenManager()
	for name, header := range map[string]string{
		"no header":     "",
		"wrong scheme":  "Basic abc",
		"invalid token": "Bearer bogus",
	} {
		if rec := middlewareRequest(t, tm, header); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestRequireRole(t *testing.T) {
	tm := testTokenManager()
	studentToken, err := tm.Issue(2, "s@example.com", "student")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if rec := middlewareRequest(t, tm, "Bearer "+studentToken, RequireRole("student")); rec.Code != http.StatusOK {
		t.Errorf("matching role: status = %d, want 200", rec.Code)
	}
	if rec := middlewareRequest(t, tm, "Bearer "+studentToken, RequireRole("teacher")); rec.Code != http.StatusForbidden {
		t.Errorf("mismatched role: status = %d, want 403", rec.Code)
	}
}

func TestClaimsFromWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	if claims := ClaimsFrom(ctx); claims != nil {
		t.Errorf("claims = %+v, want nil on unauthenticated context", claims)
	}
}
