package services

import (
	"errors"
	"fmt"
	"time"

	"donation-service/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type JWTService struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret:   []byte(secret),
		tokenTTL: 24 * time.Hour,
	}
}

func (s *JWTService) GenerateToken(admin *models.Admin) (string, error) {
	now := time.Now()
	claims := models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Subject:   fmt.Sprintf("%d", admin.ID),
		},
		AdminID:  admin.ID,
		Email:    admin.Email,
		FullName: admin.FullName,
		Role:     string(admin.Role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) VerifyToken(tokenString string) (*models.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
