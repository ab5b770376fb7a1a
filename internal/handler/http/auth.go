package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/models"
	"github.com/go-chi/chi/v5"
)

const (
	msgOTPSentToEmail   = "OTP sent to email successfully!"
	msgEmailVerified    = "Email verified! You can now complete your profile."
	msgLoggedIn         = "Logged in successfully"
	msgOTPSentToPhone   = "OTP sent successfully to the provided phone number."
	msgLoggedOut        = "Logged out successfully"
	msgResetTokenSent   = "Token sent to email"
	msgPasswordReset    = "Password reset successfully"
	msgPasswordUpdated  = "Password updated successfully"
	msgVendorApproved   = "Vendor approved successfully."
	msgDeletionAccepted = "Account deletion requested. Log in before %s to cancel it."
)

// decodeJSON reads the request body into dst. Decoding failures are client
// errors.
func decodeJSON(r *http.Request, dst any) error {
	if err := utils.DecodeJSON(r, dst); err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("invalid JSON body")
		return ErrInvalidJSON
	}
	return nil
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var request models.SignupRequest
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.Signup(r.Context(), kindFromContext(r.Context()), request); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgOTPSentToEmail, nil)
}

func (h *Handler) resendEmailVerification(w http.ResponseWriter, r *http.Request) {
	var request models.EmailRequest
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.ResendVerification(r.Context(), request.Email); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgOTPSentToEmail, nil)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var request models.VerifyEmailRequest
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.services.AuthService.VerifyEmail(r.Context(), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.session(w, r, msgEmailVerified, result)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var request models.LoginRequest
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.services.AuthService.Login(r.Context(), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.session(w, r, msgLoggedIn, result)
}

func (h *Handler) loginMobile(w http.ResponseWriter, r *http.Request) {
	var request models.MobileOTPRequest
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.SendMobileOTP(r.Context(), request); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgOTPSentToPhone, nil)
}

func (h *Handler) verifyOTPLogin(w http.ResponseWriter, r *http.Request) {
	var request models.MobileOTPRequest
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.services.AuthService.VerifyMobileOTP(r.Context(), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.session(w, r, msgLoggedIn, result)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	h.success(w, r, http.StatusOK, msgLoggedOut, nil)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var request models.EmailRequest
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.services.AuthService.ForgotPassword(r.Context(), kindFromContext(r.Context()), request.Email); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgResetTokenSent, nil)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var request models.PasswordResetRequest
	if err := decodeJSON(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.services.AuthService.ResetPassword(r.Context(), chi.URLParam(r, "token"), request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.session(w, r, msgPasswordReset, result)
}

func (h *Handler) updateMyPassword(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var request models.PasswordUpdateRequest
	if err = decodeJSON(r, &request); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.services.AuthService.UpdatePassword(r.Context(), identity, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.session(w, r, msgPasswordUpdated, result)
}

func (h *Handler) requestAccountDeletion(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	expiresAt, err := h.services.AuthService.RequestAccountDeletion(r.Context(), identity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK,
		fmt.Sprintf(msgDeletionAccepted, expiresAt.UTC().Format(time.RFC3339)),
		map[string]any{"deletionExpires": expiresAt.UTC()},
	)
}

func (h *Handler) approveVendor(w http.ResponseWriter, r *http.Request) {
	if err := h.services.AuthService.ApproveVendor(r.Context(), chi.URLParam(r, "vendorId")); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgVendorApproved, nil)
}
