package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"plume/internal/config"
)

var (
	// ErrTokenExpired means the signature checked out but the token is past
	// its expiry.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenMalformed covers everything else: bad structure, bad signature,
	// wrong signing method, missing subject.
	ErrTokenMalformed = errors.New("token is malformed")
)

// TokenService issues and validates the bearer tokens used for
// authentication. It is stateless; the token itself carries the subject and
// the expiry. Rotating the secret invalidates every outstanding token.
type TokenService struct {
	secret     []byte
	algorithm  string
	ttlMinutes int
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.SecretKey),
		algorithm:  cfg.Algorithm,
		ttlMinutes: cfg.AccessTokenExpireMinutes,
	}
}

// CreateAccessToken signs a token whose subject is the user's email and whose
// expiry is now plus the configured TTL. A non-positive TTL yields a token
// that is already expired, which the tests lean on.
func (s *TokenService) CreateAccessToken(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(time.Duration(s.ttlMinutes) * time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.GetSigningMethod(s.algorithm), claims)
	return token.SignedString(s.secret)
}

// ParseSubject validates the token and returns its subject. Failures collapse
// into exactly two cases: ErrTokenExpired when the signature is valid but the
// expiry has passed, ErrTokenMalformed for everything else.
func (s *TokenService) ParseSubject(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrTokenMalformed
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", ErrTokenMalformed
	}
	return sub, nil
}
