package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AdminClaims are the privilege flags carried by bearer tokens.
type AdminClaims struct {
	IsStaff     bool `json:"is_staff"`
	IsSuperuser bool `json:"is_superuser"`
	jwt.RegisteredClaims
}

// Admin reports whether the token grants write access.
func (c *AdminClaims) Admin() bool {
	return c.IsStaff || c.IsSuperuser
}

// RequireAdmin rejects requests without a valid HS256 bearer token (401) or
// whose token carries neither is_staff nor is_superuser (403).
func RequireAdmin(secret, issuer string) fiber.Handler {
	key := []byte(secret)
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)

	return func(c *fiber.Ctx) error {
		if len(key) == 0 {
			return errUnauthorized(c, "authentication is not configured")
		}

		raw := bearerFromHeader(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return errUnauthorized(c, "missing bearer token")
		}

		claims := &AdminClaims{}
		token, err := parser.ParseWithClaims(raw, claims, func(_ *jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			return errUnauthorized(c, "invalid bearer token")
		}
		if !claims.Admin() {
			return errForbidden(c, "you do not have permission to perform this action")
		}

		c.Locals("user_id", claims.Subject)
		return c.Next()
	}
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
