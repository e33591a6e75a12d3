package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	appErrors "github.com/gymstack/studio-ops-api/pkg/errors"
	"github.com/gymstack/studio-ops-api/pkg/response"
)

// ContextStudioKey is the gin context key storing the resolved studio ID.
const ContextStudioKey = "currentStudio"

// Resolver extracts a studio ID from an incoming request. Resolvers are
// tried in order; the first non-empty result wins.
type Resolver interface {
	Resolve(c *gin.Context) string
}

// HeaderResolver reads the studio ID from a request header.
type HeaderResolver struct {
	Header string
}

// Resolve returns the header value, trimmed.
func (r HeaderResolver) Resolve(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(r.Header))
}

// TokenResolver reads the studio ID from a bearer token's studio_id claim.
type TokenResolver struct {
	Secret string
}

type studioClaims struct {
	StudioID string `json:"studio_id"`
	jwt.RegisteredClaims
}

// Resolve parses the Authorization bearer token and returns its
// studio_id claim, or empty when absent or invalid.
func (r TokenResolver) Resolve(c *gin.Context) string {
	if r.Secret == "" {
		return ""
	}
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	claims := &studioClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.ErrUnauthorized
		}
		return []byte(r.Secret), nil
	})
	if err != nil || !token.Valid {
		return ""
	}
	return claims.StudioID
}

// Tenant requires a studio ID on every request and stores it in the
// context for downstream handlers.
func Tenant(resolvers ...Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, r := range resolvers {
			if studioID := r.Resolve(c); studioID != "" {
				c.Set(ContextStudioKey, studioID)
				c.Next()
				return
			}
		}
		response.Error(c, appErrors.ErrStudioRequired)
		c.Abort()
	}
}

// StudioID returns the studio ID resolved for the current request.
func StudioID(c *gin.Context) string {
	value, ok := c.Get(ContextStudioKey)
	if !ok {
		return ""
	}
	studioID, _ := value.(string)
	return studioID
}
