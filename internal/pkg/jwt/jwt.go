package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/homecare-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const tokenTypeAccess = "access"

var ErrInvalidTokenClaims = errors.New("invalid token claims")

type Service interface {
	GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error)
	ParseAccessToken(tokenString string) (user.Identity, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration %q: %w", accessTokenExpirationTime, err)
	}

	return &JWTService{
		accessTokenExpiration: expiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, role user.Role) (token string, expiresAt int64, err error) {
	if !role.Valid() {
		return "", 0, user.ErrInvalidRole
	}

	expiresAt = time.Now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    tokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// ParseAccessToken verifies tokenString and returns the caller it names.
func (j *JWTService) ParseAccessToken(tokenString string) (user.Identity, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Identity{}, err
	}
	claims, err := token.AsMap(context.Background())
	if err != nil {
		return user.Identity{}, err
	}
	return IdentityFromClaims(claims)
}

// IdentityFromClaims reads an access token's claims.
func IdentityFromClaims(claims map[string]interface{}) (user.Identity, error) {
	if tokenType, _ := claims["type"].(string); tokenType != tokenTypeAccess {
		return user.Identity{}, ErrInvalidTokenClaims
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return user.Identity{}, ErrInvalidTokenClaims
	}

	role, _ := claims["role"].(string)
	if !user.Role(role).Valid() {
		return user.Identity{}, user.ErrInvalidRole
	}

	return user.Identity{UserID: userID, Role: user.Role(role)}, nil
}
