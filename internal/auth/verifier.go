package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the verified output of the identity provider: who the bearer
// token belongs to, plus the name/email claims it carried.
type Identity struct {
	UID   string
	Name  string
	Email string
}

// TokenVerifier maps a bearer credential to a verified identity. The concrete
// provider is swappable; the rest of the service only sees this interface.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

var ErrInvalidToken = errors.New("invalid or expired token")

// JWTVerifier validates HS256-signed tokens carrying uid/name/email claims.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	uid, _ := claims["uid"].(string)
	if uid == "" {
		return nil, ErrInvalidToken
	}
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return &Identity{UID: uid, Name: name, Email: email}, nil
}

// IssueToken mints a signed token for the given identity. Used by the dev
// token CLI and by tests; production tokens come from the external provider.
func IssueToken(secret string, identity Identity, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   identity.UID,
		"name":  identity.Name,
		"email": identity.Email,
		"jti":   uuid.New().String(),
		"exp":   time.Now().Add(ttl).Unix(),
		"iat":   time.Now().Unix(),
	})
	return token.SignedString([]byte(secret))
}
