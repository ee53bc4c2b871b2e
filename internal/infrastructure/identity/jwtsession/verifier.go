package jwtsession

import (
	"context"
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/riskibarqy/carelink/internal/domain/user"
	"github.com/riskibarqy/carelink/internal/usecase"
)

// Verifier validates HS256 access tokens locally so the access check does not
// need an introspection round trip per request.
type Verifier struct {
	secret []byte
	issuer string
	leeway time.Duration
}

func NewVerifier(secret, issuer string, leeway time.Duration) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if len(secret) < 16 {
		return nil, fmt.Errorf("jwt secret must be at least 16 characters")
	}
	return &Verifier{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		leeway: leeway,
	}, nil
}

func (v *Verifier) GetSession(_ context.Context, accessToken string) (user.Session, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return user.Session{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwtv5.WithIssuer(v.issuer))
	}

	tk, err := jwtv5.Parse(accessToken, func(*jwtv5.Token) (any, error) { return v.secret, nil }, opts...)
	if err != nil {
		return user.Session{}, fmt.Errorf("%w: %v", usecase.ErrUnauthorized, err)
	}
	claims, ok := tk.Claims.(jwtv5.MapClaims)
	if !ok {
		return user.Session{}, fmt.Errorf("%w: unexpected claims type", usecase.ErrUnauthorized)
	}

	subject, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(subject) == "" {
		return user.Session{}, fmt.Errorf("%w: sub claim is required", usecase.ErrUnauthorized)
	}

	session := user.Session{
		UserID:      subject,
		Email:       stringClaim(claims, "email"),
		AccessToken: accessToken,
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.UTC()
	}
	return session, nil
}

func stringClaim(claims jwtv5.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
