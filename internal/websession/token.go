package websession

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "studyhub/pkg/domain"
)

// Claims is the payload of a session token. The token only names the session;
// the session record is the source of truth for who is logged in.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 session tokens.
type Tokens struct {
	signingKey []byte
	issuer     string
}

func NewTokens(signingKey, issuer string) *Tokens {
	return &Tokens{signingKey: []byte(signingKey), issuer: issuer}
}

func (t *Tokens) Issue(sessionID id.SessionID, issuedAt time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionID: sessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    t.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(t.signingKey)
}

var errInvalidToken = errors.New("invalid session token")

// Parse verifies the signature and expiry and returns the session the token names.
func (t *Tokens) Parse(raw string, now time.Time) (id.SessionID, error) {
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return t.signingKey, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil || !parsed.Valid {
		return id.SessionID{}, errInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return id.SessionID{}, errInvalidToken
	}
	sid, err := id.ParseSessionID(claims.SessionID)
	if err != nil {
		return id.SessionID{}, errInvalidToken
	}
	return sid, nil
}
