package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrScopeMissing = errors.New("token lacks required scope")
)

// Token scopes. Reading the cheat library needs no token at all, so Login
// only ever issues ScopeWrite; ScopeRead exists for tokens minted by other
// tooling that should not be allowed to mutate the library.
const (
	ScopeRead  = "read"
	ScopeWrite = "write"
)

const issuer = "cheatvault"

// Claims carries the authenticated user and what the token lets them do.
type Claims struct {
	Username string `json:"username"`
	Scope    string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTAuth issues and checks HS256 tokens.
type JWTAuth struct {
	secret     []byte
	expiration time.Duration
}

// NewJWTAuth creates a new JWT auth handler
func NewJWTAuth(secret string, expiration time.Duration) *JWTAuth {
	return &JWTAuth{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// GenerateToken creates a token for username carrying the given scope.
func (j *JWTAuth) GenerateToken(username, scope string) (string, error) {
	claims := Claims{
		Username: username,
		Scope:    scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ValidateToken checks signature, expiry and issuer and returns the claims.
func (j *JWTAuth) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return j.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Authorize validates the token and requires the given scope. A write token
// also satisfies read; a read token never satisfies write.
func (j *JWTAuth) Authorize(tokenString, scope string) (*Claims, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != scope && !(scope == ScopeRead && claims.Scope == ScopeWrite) {
		return nil, ErrScopeMissing
	}
	return claims, nil
}
