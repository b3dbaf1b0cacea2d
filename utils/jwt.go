package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateDeviceJWT signs a long-lived token for a registered device. The
// app holds exactly one token per installation, so the lifetime is generous.
func GenerateDeviceJWT(deviceID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"deviceId": deviceID,
		"exp":      time.Now().Add(time.Hour * 24 * 180).Unix(),
	})

	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}
