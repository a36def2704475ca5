package auth

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"summarylab/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
)

// Resolver resolves the caller's user identifier from an inbound request.
type Resolver interface {
	ResolveIdentity(r *http.Request) (string, error)
}

type claims struct {
	jwt.RegisteredClaims
	AuthorizedParty string `json:"azp,omitempty"`
}

// JWTResolver verifies HS256 bearer tokens and returns their subject.
type JWTResolver struct {
	secret            []byte
	audience          string
	authorizedParties []string
	parser            *jwt.Parser
}

func NewJWTResolver(secret string, audience string, authorizedParties []string) (*JWTResolver, error) {
	if secret == "" {
		return nil, errors.New("secret is empty")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	var parties []string
	for _, p := range authorizedParties {
		if p = strings.TrimSpace(p); p != "" {
			parties = append(parties, p)
		}
	}

	return &JWTResolver{
		secret:            []byte(secret),
		audience:          audience,
		authorizedParties: parties,
		parser:            jwt.NewParser(opts...),
	}, nil
}

// ResolveIdentity returns the token subject or an auth error naming the reason.
func (j *JWTResolver) ResolveIdentity(r *http.Request) (string, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return "", apperr.Auth("missing bearer token")
	}

	var c claims
	_, err := j.parser.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return j.secret, nil
	})
	if err != nil {
		return "", apperr.Auth(reason(err))
	}

	if len(j.authorizedParties) > 0 && !slices.Contains(j.authorizedParties, c.AuthorizedParty) {
		return "", apperr.Auth("token-invalid-authorized-parties")
	}

	if strings.TrimSpace(c.Subject) == "" {
		return "", apperr.Auth("token-missing-subject")
	}

	return c.Subject, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token-expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "token-not-active-yet"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "token-invalid-audience"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "token-invalid-signature"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "token-missing-claim"
	default:
		return "token-invalid"
	}
}
