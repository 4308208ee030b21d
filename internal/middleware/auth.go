package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/petcare-scheduler/internal/config"
	"github.com/BruksfildServices01/petcare-scheduler/internal/httperr"
)

const (
	ContextProfileID      = "profileID"
	ContextOrganizationID = "organizationID"
	ContextRequestID      = "requestID"
)

const claimOrganization = "organizationId"

// AuthMiddleware accepts HMAC bearer tokens whose "sub" is the caller's
// profile id and whose "organizationId" claim is the organization. Both may
// be JSON numbers or decimal strings.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	key := func(*jwt.Token) (interface{}, error) { return []byte(cfg.JWTSecret), nil }

	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "invalid_authorization_header")
			return
		}

		claims := jwt.MapClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, key); err != nil {
			unauthorized(c, "invalid_token")
			return
		}

		profileID, ok1 := claimID(claims["sub"])
		organizationID, ok2 := claimID(claims[claimOrganization])
		if !ok1 || !ok2 || profileID == 0 {
			unauthorized(c, "invalid_token_payload")
			return
		}

		c.Set(ContextProfileID, profileID)
		c.Set(ContextOrganizationID, organizationID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func claimID(v any) (uint, bool) {
	switch id := v.(type) {
	case float64:
		if id < 0 || id != float64(uint(id)) {
			return 0, false
		}
		return uint(id), true
	case string:
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return 0, false
		}
		return uint(n), true
	default:
		return 0, false
	}
}

func unauthorized(c *gin.Context, code string) {
	c.Abort()
	httperr.Unauthorized(c, code, "authentication required")
}
