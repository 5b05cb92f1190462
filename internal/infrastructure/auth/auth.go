package auth

import (
	"context"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/janhq/commerce-api/internal/config"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

const (
	// TenantHeader carries the tenant when token validation is disabled.
	TenantHeader = "X-Tenant-ID"

	contextKeyToken  = "auth_token"
	contextKeyTenant = "tenant_id"
)

// Validator validates JWTs using JWKS and resolves the tenant of each request.
type Validator struct {
	enabled     bool
	issuer      string
	audience    string
	tenantClaim string
	keyfunc     jwt.Keyfunc
	jwks        *keyfunc.JWKS
	log         zerolog.Logger
}

// NewValidator initializes JWKS fetching when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	v := &Validator{
		enabled:     cfg.AuthEnabled,
		issuer:      strings.TrimSpace(cfg.AuthIssuer),
		audience:    strings.TrimSpace(cfg.AuthAudience),
		tenantClaim: cfg.AuthTenantClaim,
		log:         log.With().Str("component", "auth").Logger(),
	}
	if v.tenantClaim == "" {
		v.tenantClaim = "tenant_id"
	}
	if !v.enabled {
		return v, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}
	v.jwks = jwks
	v.keyfunc = jwks.Keyfunc
	return v, nil
}

// Middleware enforces JWT auth when enabled and stores the tenant on the request.
func (v *Validator) Middleware() gin.HandlerFunc {
	if !v.Enabled() {
		return func(c *gin.Context) {
			tenantID := strings.TrimSpace(c.GetHeader(TenantHeader))
			if tenantID == "" {
				platformerrors.WriteValidationError(c, "missing "+TenantHeader+" header")
				return
			}
			setTenant(c, tenantID)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			platformerrors.WriteUnauthorized(c, "missing bearer token")
			return
		}

		opts := []jwt.ParserOption{
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
			jwt.WithExpirationRequired(),
		}
		if v.issuer != "" {
			opts = append(opts, jwt.WithIssuer(v.issuer))
		}
		if v.audience != "" {
			opts = append(opts, jwt.WithAudience(v.audience))
		}

		token, err := jwt.Parse(tokenString, v.keyfunc, opts...)
		if err != nil || !token.Valid {
			v.log.Debug().Err(err).Msg("rejected token")
			platformerrors.WriteUnauthorized(c, "invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			platformerrors.WriteUnauthorized(c, "invalid token claims")
			return
		}
		tenantID, _ := claims[v.tenantClaim].(string)
		if strings.TrimSpace(tenantID) == "" {
			platformerrors.WriteUnauthorized(c, "token has no tenant")
			return
		}

		c.Set(contextKeyToken, token)
		setTenant(c, tenantID)
		c.Next()
	}
}

func setTenant(c *gin.Context, tenantID string) {
	c.Set(contextKeyTenant, tenantID)
	c.Request = c.Request.WithContext(platformerrors.WithTenantID(c.Request.Context(), tenantID))
}

// TenantID returns the tenant resolved by Middleware.
func TenantID(c *gin.Context) string {
	return c.GetString(contextKeyTenant)
}

// Ready indicates if the validator is prepared.
func (v *Validator) Ready() bool {
	if v == nil || !v.enabled {
		return true
	}
	return v.keyfunc != nil
}

// Enabled reports whether tokens are validated.
func (v *Validator) Enabled() bool {
	return v != nil && v.enabled
}

// Close stops the background JWKS refresh.
func (v *Validator) Close() {
	if v != nil && v.jwks != nil {
		v.jwks.EndBackground()
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
