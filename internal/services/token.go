package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yoockh/resumeprep/internal/utils"
)

const (
	tokenIssuer   = "resumeprep"
	tokenAudience = "interview"
)

// TokenIssuer signs the HS256 bearer token handed out when an interview
// starts. The subject is the session id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 3 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (t *TokenIssuer) Issue(sessionID string) (string, time.Time, error) {
	const op = "TokenIssuer.Issue"

	if sessionID == "" {
		return "", time.Time{}, utils.E(utils.CodeInvalidArgument, op, "session_id is required", nil)
	}

	now := t.now().UTC()
	exp := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   sessionID,
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, utils.E(utils.CodeInternal, op, "failed to sign token", err)
	}
	return signed, exp, nil
}

// Parse validates raw and returns the session id it was issued for.
func (t *TokenIssuer) Parse(raw string) (string, error) {
	const op = "TokenIssuer.Parse"

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || tok == nil || !tok.Valid {
		msg := "invalid token"
		if errors.Is(err, jwt.ErrTokenExpired) {
			msg = "token expired"
		}
		return "", utils.E(utils.CodeUnauthorized, op, msg, err)
	}
	if claims.Subject == "" {
		return "", utils.E(utils.CodeUnauthorized, op, "missing subject", nil)
	}
	return claims.Subject, nil
}
