package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenIssuer signs and verifies the HS256 bearer tokens handed out at
// register/login time. The subject claim is the user's ObjectID hex.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

// NewTokenIssuer constructs a TokenIssuer with the given signing secret
// and token lifetime.
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry}
}

// Issue creates a signed token for the given user.
func (t *TokenIssuer) Issue(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.Hex(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(t.expiry).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.secret)
}

// Verify validates the token signature and expiry and returns the subject
// user id.
func (t *TokenIssuer) Verify(raw string) (primitive.ObjectID, error) {
	tok, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || !tok.Valid {
		return primitive.NilObjectID, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return primitive.NilObjectID, errors.New("missing subject")
	}
	return primitive.ObjectIDFromHex(sub)
}
