package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
)

const (
	otpMin = 100000
	otpMax = 999999

	tokenBytes = 32
)

// GenerateOTP returns a uniformly random 6-digit code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", fmt.Errorf("error generating otp: %w", err)
	}

	return strconv.FormatInt(n.Int64()+otpMin, 10), nil
}

// GenerateHexToken returns 32 random bytes encoded as 64 hex characters.
func GenerateHexToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating token: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
