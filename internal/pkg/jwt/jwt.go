package jwt

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"racefinder/internal/pkg/apperr"
)

// Verification failures. Expired and malformed tokens share a public code
// but stay distinct values so callers can log them apart.
var (
	ErrMissingHeader       = apperr.New(apperr.KindAuthentication, "missing_header", "authorization header is required")
	ErrMissingToken        = apperr.New(apperr.KindAuthentication, "missing_token", "bearer token is required")
	ErrTokenExpired        = apperr.New(apperr.KindAuthentication, "invalid_or_expired_token", "token expired")
	ErrTokenInvalid        = apperr.New(apperr.KindAuthentication, "invalid_or_expired_token", "token invalid")
	ErrNoEmailClaim        = apperr.New(apperr.KindAuthentication, "no_email_claim", "token carries no email claim")
	ErrKeyUnresolvable     = apperr.New(apperr.KindAuthentication, "token_refresh_required", "token signing key cannot be resolved, refresh credentials")
	ErrProviderUnavailable = apperr.New(apperr.KindStorage, "identity_provider_unavailable", "identity provider unavailable")
)

// Subject is the verified identity extracted from a bearer token.
type Subject struct {
	UID           string `json:"uid"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Claims mirrors the payload issued by the identity provider.
type Claims struct {
	UserID        string `json:"user_id,omitempty"`
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	jwtlib.RegisteredClaims
}

type Options struct {
	Audience string
	Issuer   string
	Leeway   time.Duration
}

// Verifier checks bearer tokens against a KeySet. It performs no retries.
type Verifier struct {
	keys   KeySet
	parser *jwtlib.Parser
}

func NewVerifier(keys KeySet, opts Options) *Verifier {
	parserOpts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodRS256.Alg(), jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
	}
	if opts.Leeway > 0 {
		parserOpts = append(parserOpts, jwtlib.WithLeeway(opts.Leeway))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwtlib.WithAudience(opts.Audience))
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwtlib.WithIssuer(opts.Issuer))
	}

	return &Verifier{
		keys:   keys,
		parser: jwtlib.NewParser(parserOpts...),
	}
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingHeader
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingToken
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// VerifyHeader is ParseBearer followed by Verify.
func (v *Verifier) VerifyHeader(ctx context.Context, header string) (*Subject, error) {
	token, err := ParseBearer(header)
	if err != nil {
		return nil, err
	}
	return v.Verify(ctx, token)
}

func (v *Verifier) Verify(ctx context.Context, raw string) (*Subject, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(t *jwtlib.Token) (any, error) {
		return v.resolveKey(ctx, t)
	})
	if err != nil {
		return nil, classify(err)
	}

	uid := claims.UserID
	if uid == "" {
		uid = claims.Subject
	}
	if uid == "" {
		return nil, ErrTokenInvalid
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email == "" {
		return nil, ErrNoEmailClaim
	}

	return &Subject{
		UID:           uid,
		Email:         email,
		EmailVerified: claims.EmailVerified,
	}, nil
}

func (v *Verifier) resolveKey(ctx context.Context, t *jwtlib.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, ErrKeyUnresolvable
	}

	key, err := v.keys.Key(ctx, kid)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, ErrKeyUnresolvable
		}
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	switch key.(type) {
	case []byte:
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
	case *rsa.PublicKey:
		if _, ok := t.Method.(*jwtlib.SigningMethodRSA); !ok {
			return nil, ErrTokenInvalid
		}
	default:
		return nil, ErrTokenInvalid
	}
	return key, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrKeyUnresolvable):
		return ErrKeyUnresolvable
	case errors.Is(err, ErrProviderUnavailable):
		log.WithError(err).Warn("identity provider key fetch failed")
		return ErrProviderUnavailable
	case errors.Is(err, jwtlib.ErrTokenExpired):
		log.Debug("bearer token expired")
		return ErrTokenExpired
	default:
		log.WithError(err).Debug("bearer token rejected")
		return ErrTokenInvalid
	}
}
