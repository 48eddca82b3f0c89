package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/SAP-F-2025/course-service/internal/config"
	"github.com/SAP-F-2025/course-service/internal/models"
	"github.com/SAP-F-2025/course-service/internal/utils"
	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextKeyUserID    = utils.UserIDKey
	ContextKeyPrincipal = "principal"
)

var (
	ErrTokenRequired = errors.New("authorization token required")
	ErrTokenInvalid  = errors.New("invalid or expired token")
)

// Principal is the authenticated caller; UserID is the Firebase UID
type Principal struct {
	UserID string
	Email  string
	Roles  []models.UserRole
}

func (p *Principal) HasAnyRole(roles ...models.UserRole) bool {
	for _, have := range p.Roles {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Authenticator turns a bearer token into a Principal
type Authenticator interface {
	Authenticate(token string) (*Principal, error)
}

// NewAuthenticator picks the token validator named by AUTH_PROVIDER
func NewAuthenticator(cfg config.AuthConfig) (Authenticator, error) {
	switch cfg.Provider {
	case config.AuthProviderJWT:
		return NewJWTAuthenticator(cfg.JWTSecret), nil
	case config.AuthProviderCasdoor:
		return NewCasdoorAuthenticator(cfg.Casdoor), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}

// ===== JWT =====

// Claims extends the registered claims; Subject carries the Firebase UID
type Claims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// JWTAuthenticator validates HMAC signed tokens
type JWTAuthenticator struct {
	secret []byte
}

func NewJWTAuthenticator(secret string) *JWTAuthenticator {
	return &JWTAuthenticator{secret: []byte(secret)}
}

func (a *JWTAuthenticator) Authenticate(tokenStr string) (*Principal, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return &Principal{
		UserID: claims.Subject,
		Email:  claims.Email,
		Roles:  toRoles(claims.Roles),
	}, nil
}

// Sign issues a token for the given principal; used by tooling and tests
func (a *JWTAuthenticator) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// ===== CASDOOR =====

// CasdoorAuthenticator validates tokens issued by a Casdoor application
type CasdoorAuthenticator struct {
	client *casdoorsdk.Client
}

func NewCasdoorAuthenticator(cfg config.CasdoorConfig) *CasdoorAuthenticator {
	return &CasdoorAuthenticator{
		client: casdoorsdk.NewClient(
			cfg.Endpoint,
			cfg.ClientID,
			cfg.ClientSecret,
			cfg.Certificate,
			cfg.OrganizationName,
			cfg.ApplicationName,
		),
	}
}

func (a *CasdoorAuthenticator) Authenticate(token string) (*Principal, error) {
	claims, err := a.client.ParseJwtToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	names := make([]string, 0, len(claims.User.Roles))
	for _, role := range claims.User.Roles {
		if role != nil {
			names = append(names, role.Name)
		}
	}
	if claims.User.IsAdmin {
		names = append(names, string(models.RoleAdmin))
	}

	userID := claims.User.Id
	if userID == "" {
		userID = claims.User.Name
	}

	return &Principal{
		UserID: userID,
		Email:  claims.User.Email,
		Roles:  toRoles(names),
	}, nil
}

// ===== GIN MIDDLEWARE =====

// Authenticate rejects requests without a valid bearer token
func Authenticate(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := bearerToken(c)
		if err != nil {
			abort(c, http.StatusUnauthorized, err)
			return
		}

		principal, err := authenticator.Authenticate(tokenStr)
		if err != nil {
			abort(c, http.StatusUnauthorized, ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyUserID, principal.UserID)
		c.Set(ContextKeyPrincipal, principal)
		c.Next()
	}
}

// RequireRoles lets the request through when the caller has any of roles
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			abort(c, http.StatusUnauthorized, ErrTokenRequired)
			return
		}
		if !principal.HasAnyRole(roles...) {
			abort(c, http.StatusForbidden, errors.New("insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil
func GetPrincipal(c *gin.Context) *Principal {
	val, exists := c.Get(ContextKeyPrincipal)
	if !exists {
		return nil
	}
	principal, _ := val.(*Principal)
	return principal
}

func bearerToken(c *gin.Context) (string, error) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", ErrTokenRequired
	}
	return strings.TrimSpace(parts[1]), nil
}

func abort(c *gin.Context, status int, err error) {
	c.AbortWithStatusJSON(status, gin.H{"message": err.Error()})
}

// toRoles keeps the roles this service knows; anything else the identity
// provider issues is ignored
func toRoles(names []string) []models.UserRole {
	roles := make([]models.UserRole, 0, len(names))
	for _, name := range names {
		role := models.UserRole(strings.ToLower(strings.TrimSpace(name)))
		if slices.Contains(models.UserRoles(), role) && !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}
	return roles
}
