package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/brightfold/content-backend/internal/pkg/ctxutil"
	"github.com/brightfold/content-backend/internal/pkg/logger"
)

// TenantMiddleware reads the tenant/learner identity the auth collaborator
// minted into a bearer token and attaches it to the request context. The
// core never authenticates identity itself; it only verifies the token
// signature and trusts the claims.
type TenantMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewTenantMiddleware(log *logger.Logger, secret string) *TenantMiddleware {
	return &TenantMiddleware{
		log:    log.With("middleware", "TenantMiddleware"),
		secret: []byte(secret),
	}
}

type tenantClaims struct {
	TenantID  string `json:"tenant_id"`
	Role      string `json:"role"`
	LearnerID string `json:"learner_id,omitempty"`
	jwt.RegisteredClaims
}

func (tm *TenantMiddleware) RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "missing or invalid token", "code": "unauthorized"},
			})
			return
		}

		tc, err := tm.parse(tokenString)
		if err != nil {
			tm.log.Debug("token rejected", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": err.Error(), "code": "unauthorized"},
			})
			return
		}

		ctx := ctxutil.WithTenantContext(c.Request.Context(), tc)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (tm *TenantMiddleware) parse(tokenString string) (*ctxutil.TenantContext, error) {
	var claims tenantClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, fmt.Errorf("token carries no tenant id")
	}
	tc := &ctxutil.TenantContext{TenantID: tenantID, Role: claims.Role}
	if claims.LearnerID != "" {
		if learnerID, err := uuid.Parse(claims.LearnerID); err == nil {
			tc.LearnerID = learnerID
		}
	}
	return tc, nil
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return c.Query("token")
}
