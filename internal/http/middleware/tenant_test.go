package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brightfold/content-backend/internal/pkg/ctxutil"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequireTenantAcceptsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	tm := NewTenantMiddleware(log, testSecret)

	tenantID := uuid.New()
	learnerID := uuid.New()

	var captured *ctxutil.TenantContext
	r := gin.New()
	r.GET("/probe", tm.RequireTenant(), func(c *gin.Context) {
		captured = ctxutil.GetTenantContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	token := signToken(t, testSecret, jwt.MapClaims{
		"tenant_id":  tenantID.String(),
		"role":       "teacher",
		"learner_id": learnerID.String(),
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if captured == nil {
		t.Fatalf("expected tenant context attached")
	}
	if captured.TenantID != tenantID || captured.Role != "teacher" || captured.LearnerID != learnerID {
		t.Fatalf("unexpected tenant context: %+v", captured)
	}
}

func TestRequireTenantRejectsBadSignature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := logger.New("test")
	tm := NewTenantMiddleware(log, testSecret)

	r := gin.New()
	r.GET("/probe", tm.RequireTenant(), func(c *gin.Context) { c.Status(http.StatusOK) })

	token := signToken(t, "wrong-secret", jwt.MapClaims{
		"tenant_id": uuid.New().String(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireTenantRejectsMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := logger.New("test")
	tm := NewTenantMiddleware(log, testSecret)

	r := gin.New()
	r.GET("/probe", tm.RequireTenant(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireTenantRejectsMissingTenantClaim(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := logger.New("test")
	tm := NewTenantMiddleware(log, testSecret)

	r := gin.New()
	r.GET("/probe", tm.RequireTenant(), func(c *gin.Context) { c.Status(http.StatusOK) })

	token := signToken(t, testSecret, jwt.MapClaims{
		"role": "teacher",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireTenantAcceptsQueryToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, _ := logger.New("test")
	tm := NewTenantMiddleware(log, testSecret)

	r := gin.New()
	r.GET("/probe", tm.RequireTenant(), func(c *gin.Context) { c.Status(http.StatusOK) })

	token := signToken(t, testSecret, jwt.MapClaims{
		"tenant_id": uuid.New().String(),
		"exp":       time.Now().Add(time.Hour).Unix(),
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe?token="+token, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 via query token, got %d", w.Code)
	}
}
