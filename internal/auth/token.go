package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/config"
	"ms-eventplatform/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

// ClaimsCache remembers claims of tokens that already passed verification.
type ClaimsCache interface {
	Get(ctx context.Context, token string) (jwt.MapClaims, bool, error)
	Set(ctx context.Context, token string, claims jwt.MapClaims, ttl time.Duration) error
}

// Gate verifies HMAC-signed bearer tokens against the shared secret.
type Gate struct {
	secret   []byte
	method   jwt.SigningMethod
	cache    ClaimsCache
	cacheTTL time.Duration
	Logger   *logger.Logger
}

func NewGate(cfg config.AuthConfig, cache ClaimsCache, log *logger.Logger) (*Gate, error) {
	method, err := hmacMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if cfg.Secret == "" {
		return nil, errors.New("auth: empty secret")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Gate{
		secret:   []byte(cfg.Secret),
		method:   method,
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		Logger:   log,
	}, nil
}

func hmacMethod(alg string) (jwt.SigningMethod, error) {
	switch strings.ToUpper(alg) {
	case "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("auth: unsupported algorithm %q", alg)
	}
}

// Verify checks the signature with exactly the configured algorithm and, when present,
// the exp and nbf claims. Every failure is Unauthenticated.
func (g *Gate) Verify(ctx context.Context, raw string) (jwt.MapClaims, error) {
	if raw == "" {
		return nil, apperr.Unauthenticated("missing bearer token")
	}

	if g.cache != nil {
		claims, ok, err := g.cache.Get(ctx, raw)
		if err != nil {
			g.Logger.Warn("AUTH", fmt.Sprintf("Claims cache lookup failed: %v", err))
		} else if ok {
			return claims, nil
		}
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{g.method.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Unauthenticated("token has expired")
		}
		g.Logger.Debug("AUTH", fmt.Sprintf("Token rejected: %v", err))
		return nil, apperr.Unauthenticated("could not validate credentials")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthenticated("could not validate credentials")
	}

	if g.cache != nil {
		if ttl := g.ttlFor(claims); ttl > 0 {
			if err := g.cache.Set(ctx, raw, claims, ttl); err != nil {
				g.Logger.Warn("AUTH", fmt.Sprintf("Claims cache write failed: %v", err))
			}
		}
	}
	return claims, nil
}

// ttlFor never lets a cached entry outlive the token itself.
func (g *Gate) ttlFor(claims jwt.MapClaims) time.Duration {
	ttl := g.cacheTTL
	exp, err := claims.GetExpirationTime()
	if err == nil && exp != nil {
		if remaining := time.Until(exp.Time); remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperr.Unauthenticated("missing Authorization header")
	}

	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", apperr.Unauthenticated("authorization header format must be 'Bearer {token}'")
	}
	return strings.TrimSpace(token), nil
}

// SubjectID returns the numeric "sub" claim, if the token carries one.
func SubjectID(claims jwt.MapClaims) (int64, bool) {
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IssueToken mints a token the Gate will accept. Used by the devtoken command and tests.
func IssueToken(cfg config.AuthConfig, subject string, extra map[string]interface{}, ttl time.Duration) (string, error) {
	method, err := hmacMethod(cfg.Algorithm)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": subject,
		"iat": now.Unix(),
	}
	if ttl > 0 {
		claims["exp"] = now.Add(ttl).Unix()
	}
	for k, v := range extra {
		claims[k] = v
	}

	return jwt.NewWithClaims(method, claims).SignedString([]byte(cfg.Secret))
}
