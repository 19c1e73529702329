package util

import (
	"errors"
	"time"

	"github.com/codewithsuzan/Momento/config"

	"github.com/dgrijalva/jwt-go"
)

func GenerateToken(userID int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func ValidateToken(tokenString string) (int, error) {
	if tokenString == "" {
		return 0, errors.New("empty token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return 0, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userID, ok := claims["user_id"].(float64)
		if !ok {
			return 0, errors.New("invalid user id in token")
		}
		return int(userID), nil
	}

	return 0, errors.New("invalid token")
}

func RefreshToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		// purpose-bound tokens (password reset) share the signing key but
		// must never mint a session
		if tokenType, ok := claims["type"].(string); ok && tokenType != "" {
			return "", errors.New("invalid token")
		}
		userID, ok := claims["user_id"].(float64)
		if !ok {
			return "", errors.New("invalid user id in token")
		}
		newToken, err := GenerateToken(int(userID))
		if err != nil {
			return "", err
		}
		return newToken, nil
	}

	return "", errors.New("invalid token")
}
