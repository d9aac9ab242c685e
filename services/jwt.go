package services

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/alphabatem/common/context"
	"github.com/luminax-app/luminax_api/dto"
)

type JWTService struct {
	context.DefaultService

	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	jwtSecretKey         string
}

type CustomClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // access or refresh
	jwt.RegisteredClaims
}

const JWT_SVC = "jwt_svc"

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

func (svc JWTService) Id() string {
	return JWT_SVC
}

func (svc *JWTService) Configure(ctx *context.Context) error {
	svc.AccessTokenDuration = 15 * time.Minute
	svc.RefreshTokenDuration = 7 * 24 * time.Hour
	svc.jwtSecretKey = os.Getenv("JWT_SECRET")
	return svc.DefaultService.Configure(ctx)
}

func (svc *JWTService) Start() error {
	if svc.jwtSecretKey == "" {
		return errors.New("JWT_SECRET is not set")
	}
	return nil
}

// VerifyJWTToken validates an access token and returns the user ID.
func (svc *JWTService) VerifyJWTToken(jwtToken string) (string, error) {
	claims, err := svc.parse(jwtToken, tokenTypeAccess)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// ParseRefreshToken validates a refresh token and returns its claims,
// including the token ID used for revocation.
func (svc *JWTService) ParseRefreshToken(jwtToken string) (*CustomClaims, error) {
	return svc.parse(jwtToken, tokenTypeRefresh)
}

func (svc *JWTService) parse(jwtToken, wantType string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(jwtToken, &CustomClaims{}, svc.getJWTKey)
	if err == nil && token.Valid {
		claims, ok := token.Claims.(*CustomClaims)
		if ok && claims != nil {
			if claims.TokenType != wantType {
				return nil, errors.New("unexpected token type")
			}

			expTime, err := claims.GetExpirationTime()
			if err != nil {
				return nil, fmt.Errorf("failed to get expiration time: %v", err)
			}
			if expTime.Unix() < time.Now().Unix() {
				return nil, errors.New("token has expired")
			}

			return claims, nil
		}
	}

	return nil, errors.New("unsupported JWT format")
}

func (svc *JWTService) getJWTKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}

	return []byte(svc.jwtSecretKey), nil
}

func (svc *JWTService) GenerateTokenPair(userID string) (*dto.TokenPair, error) {
	accessToken, err := svc.sign(userID, tokenTypeAccess, svc.AccessTokenDuration)
	if err != nil {
		return nil, err
	}

	refreshToken, err := svc.sign(userID, tokenTypeRefresh, svc.RefreshTokenDuration)
	if err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(svc.AccessTokenDuration.Seconds()),
	}, nil
}

func (svc *JWTService) sign(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	jti, _ := uuid.NewV7()

	claims := &CustomClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "Luminax",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(svc.jwtSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}

	return tokenString, nil
}

func (svc *JWTService) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("authorization header is missing")
	}

	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return "", errors.New("invalid authorization header format")
	}

	return authHeader[7:], nil
}
