package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNotAdmin     = errors.New("token has no admin scope")
	ErrShortSecret  = errors.New("secret key must be at least 32 bytes")
)

const issuer = "arches-terrain"

// ScopeAdmin разрешает операции над кэшем тайлов
const ScopeAdmin = "admin"

// Claims represents JWT claims
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenIssuer выпускает и проверяет HS256 токены служебных операций
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer принимает секрет в base64 (не менее 32 байт после декодирования)
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	decoded, err := base64.StdEncoding.DecodeString(secret)
	if err != nil {
		return nil, err
	}
	if len(decoded) < 32 {
		return nil, ErrShortSecret
	}
	return &TokenIssuer{secret: decoded, now: time.Now}, nil
}

// Generate creates a token for subject with the given scope and lifetime
func (ti *TokenIssuer) Generate(subject, scope string, ttl time.Duration) (string, error) {
	now := ti.now()
	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.secret)
}

// Validate checks token validity and returns its claims
func (ti *TokenIssuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return ti.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(ti.now))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAdmin проверяет токен и наличие admin scope
func (ti *TokenIssuer) ValidateAdmin(tokenString string) (*Claims, error) {
	claims, err := ti.Validate(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Scope != ScopeAdmin {
		return nil, ErrNotAdmin
	}
	return claims, nil
}

// GenerateSecureSecret generates a new secure secret key
func GenerateSecureSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(b)
}
