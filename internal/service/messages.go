package service

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-rental-market/models"
)

const (
	verificationSubject  = "Verify your email"
	passwordResetSubject = "Your password reset token (valid for 10 min)"
)

func verificationBody(otp string) string {
	return fmt.Sprintf(
		"Your verification code is %s.\n\nThe code is valid for %d minutes. "+
			"If you did not sign up, you can ignore this email.\n",
		otp, int(SecretTTL.Minutes()),
	)
}

// resetLink builds the link mailed by ForgotPassword.
func resetLink(baseURL string, kind models.Kind, token string) string {
	return fmt.Sprintf("%s/api/v1/auth/%s/resetpassword/%s", strings.TrimRight(baseURL, "/"), kind, token)
}

func passwordResetBody(link string) string {
	return fmt.Sprintf(
		"Forgot your password? Submit a POST request with your new password and passwordConfirm to: %s.\n"+
			"If you didn't forget your password, please ignore this email!\n",
		link,
	)
}
