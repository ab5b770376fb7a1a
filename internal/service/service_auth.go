package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/adapter"
	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/store"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/internal/validators"
	"github.com/MKhiriev/go-rental-market/models"
)

// authService is the concrete implementation of AuthService.
// It moves identities through the unverified, verified and deletion-requested
// states, delivering secrets by email or SMS and compensating partial writes
// when delivery fails.
type authService struct {
	// identities is the data-access layer for users and vendors.
	identities store.IdentityRepository

	// tokens issues sessions and the OTPs and reset tokens sent to clients.
	tokens TokenService

	// mailer delivers verification codes and reset links.
	mailer adapter.Mailer

	// sms publishes mobile login codes.
	sms adapter.SMSPublisher

	// objects is used to remove stored files when an account is hard-deleted
	// at login.
	objects adapter.ObjectStorage

	validator validators.Validator

	// deletionGrace is how long a deletion request can be rescinded.
	deletionGrace time.Duration

	// publicBaseURL prefixes the password reset link.
	publicBaseURL string

	now func() time.Time

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService. The returned service is safe
// for concurrent use; all state is read-only after construction.
func NewAuthService(
	identities store.IdentityRepository,
	tokens TokenService,
	adapters *adapter.Adapters,
	validator validators.Validator,
	cfg config.App,
	logger *logger.Logger,
) AuthService {
	return &authService{
		identities:    identities,
		tokens:        tokens,
		mailer:        adapters.Mailer,
		sms:           adapters.SMS,
		objects:       adapters.Objects,
		validator:     validator,
		deletionGrace: cfg.DeletionGracePeriod,
		publicBaseURL: cfg.PublicBaseURL,
		now:           time.Now,
		logger:        logger,
	}
}

// Signup registers a new identity of the given kind and mails it an email
// confirmation code.
//
// An unverified identity already holding the email is removed first, so an
// abandoned signup never blocks a new one. A verified identity of either kind
// yields store.ErrDuplicateEmail.
//
// When the mail cannot be sent the signup is rolled back: a vendor record is
// deleted, a user record keeps its row but loses the confirmation secret.
func (a *authService) Signup(ctx context.Context, kind models.Kind, request models.SignupRequest) error {
	log := logger.FromContext(ctx)

	if err := a.validator.Validate(ctx, request); err != nil {
		return err
	}
	email := models.NormalizeEmail(request.Email)

	existing, err := a.identities.FindByEmail(ctx, email, store.IncludeInactive)
	switch {
	case err == nil && existing.IsVerified:
		return store.ErrDuplicateEmail
	case err == nil:
		log.Debug().Str("email", email).Msg("removing abandoned unverified signup")
		if err = a.identities.DeleteUnverifiedByEmail(ctx, email); err != nil {
			return fmt.Errorf("error removing unverified signup: %w", err)
		}
	case !errors.Is(err, store.ErrIdentityNotFound):
		return fmt.Errorf("error looking up email: %w", err)
	}

	hash, err := utils.HashPassword(request.Password)
	if err != nil {
		return err
	}

	identity := models.NewIdentity(models.VariantOf(kind), email)
	identity.SetPassword(hash, a.now())

	secret, err := a.tokens.IssueSecret(models.SecretOTP)
	if err != nil {
		return err
	}
	identity.EmailConfirm.Set(secret)

	if err = a.identities.Create(ctx, identity, store.PartialValidation); err != nil {
		log.Err(err).Str("email", email).Msg("identity creation ended with error")
		return fmt.Errorf("identity creation ended with error: %w", err)
	}

	if err = a.mailer.Send(ctx, email, verificationSubject, verificationBody(secret.Plain)); err != nil {
		a.rollbackSignup(ctx, identity, err)
		return fmt.Errorf("%w: %w", ErrEmailDeliveryFailed, err)
	}

	return nil
}

func (a *authService) rollbackSignup(ctx context.Context, identity *models.Identity, cause error) {
	var err error
	if identity.Kind == models.KindVendor {
		err = a.identities.Delete(ctx, identity.ID)
	} else {
		identity.EmailConfirm.Clear()
		err = a.identities.Save(ctx, identity, store.PartialValidation)
	}
	if err != nil {
		logger.FromContext(ctx).Err(errors.Join(cause, err)).
			Str("id", identity.ID).
			Msg("signup rollback failed")
	}
}

// ResendVerification re-issues the email confirmation code.
func (a *authService) ResendVerification(ctx context.Context, email string) error {
	identity, err := a.identities.FindByEmail(ctx, models.NormalizeEmail(email), store.IncludeInactive)
	if err != nil {
		return err
	}
	if identity.IsVerified {
		return ErrAlreadyVerified
	}

	secret, err := a.tokens.IssueSecret(models.SecretOTP)
	if err != nil {
		return err
	}
	identity.EmailConfirm.Set(secret)
	if err = a.identities.Save(ctx, identity, store.PartialValidation); err != nil {
		return err
	}

	if err = a.mailer.Send(ctx, identity.Email, verificationSubject, verificationBody(secret.Plain)); err != nil {
		a.clearSecret(ctx, identity, models.SecretEmailConfirm, err)
		return fmt.Errorf("%w: %w", ErrEmailDeliveryFailed, err)
	}

	return nil
}

// VerifyEmail marks the identity holding a live confirmation code as verified
// and opens a session for it.
func (a *authService) VerifyEmail(ctx context.Context, request models.VerifyEmailRequest) (*models.AuthResult, error) {
	if request.Email == "" || request.OTP == "" {
		return nil, ErrInvalidOrExpiredOTP
	}

	identity, err := a.identities.FindByEmailAndSecret(ctx,
		models.NormalizeEmail(request.Email),
		models.SecretEmailConfirm,
		a.tokens.DigestSecret(request.OTP),
		a.now(),
		store.IncludeInactive,
	)
	if errors.Is(err, store.ErrIdentityNotFound) {
		return nil, ErrInvalidOrExpiredOTP
	}
	if err != nil {
		return nil, err
	}
	if identity.IsVerified {
		return nil, ErrAlreadyVerified
	}

	identity.IsVerified = true
	identity.EmailConfirm.Clear()
	if err = a.identities.Save(ctx, identity, store.PartialValidation); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, ErrInvalidOrExpiredOTP
		}
		return nil, err
	}

	return a.session(ctx, identity)
}

// Login authenticates by email and password across both kinds.
//
// A pending deletion request is rescinded when its grace period is still
// running; once it has elapsed the account is removed on the spot and
// ErrAccountDeleted is returned.
func (a *authService) Login(ctx context.Context, request models.LoginRequest) (*models.AuthResult, error) {
	log := logger.FromContext(ctx)

	if request.Email == "" || request.Password == "" {
		return nil, ErrMissingCredentials
	}

	identity, err := a.identities.FindByEmail(ctx, models.NormalizeEmail(request.Email), store.IncludeInactive)
	if errors.Is(err, store.ErrIdentityNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !utils.ComparePassword(identity.PasswordHash, request.Password) {
		log.Debug().Str("id", identity.ID).Msg("wrong password")
		return nil, ErrInvalidCredentials
	}
	if !identity.IsVerified {
		return nil, ErrEmailNotVerified
	}

	if identity.DeletionRequested {
		if identity.DeletionElapsed(a.now()) {
			a.hardDelete(ctx, identity)
			return nil, ErrAccountDeleted
		}

		identity.RescindDeletion()
		if err = a.identities.Save(ctx, identity, store.PartialValidation); err != nil {
			return nil, err
		}
		log.Info().Str("id", identity.ID).Msg("account deletion rescinded by login")
	}

	return a.session(ctx, identity)
}

func (a *authService) hardDelete(ctx context.Context, identity *models.Identity) {
	log := logger.FromContext(ctx)

	if files := identity.StoredFiles(); len(files) > 0 {
		if err := a.objects.DeleteObjects(ctx, files); err != nil {
			log.Err(err).Str("id", identity.ID).Msg("error deleting stored files of expired account")
		}
	}
	if err := a.identities.Delete(ctx, identity.ID); err != nil && !errors.Is(err, store.ErrIdentityNotFound) {
		log.Err(err).Str("id", identity.ID).Msg("error deleting expired account")
	}
}

// SendMobileOTP publishes a login code to the phone of an active identity.
func (a *authService) SendMobileOTP(ctx context.Context, request models.MobileOTPRequest) error {
	if err := a.validator.Validate(ctx, request, validators.FieldPhone); err != nil {
		return err
	}

	identity, err := a.identities.FindByPhone(ctx, request.PhoneNumber, store.ActiveOnly)
	if err != nil {
		return err
	}

	secret, err := a.tokens.IssueSecret(models.SecretOTP)
	if err != nil {
		return err
	}
	identity.MobileOTP.Set(secret)
	if err = a.identities.Save(ctx, identity, store.PartialValidation); err != nil {
		return err
	}

	if err = a.sms.PublishOTP(ctx, request.PhoneNumber, secret.Plain); err != nil {
		a.clearSecret(ctx, identity, models.SecretMobileOTP, err)
		return fmt.Errorf("%w: %w", ErrSMSDeliveryFailed, err)
	}

	return nil
}

// VerifyMobileOTP consumes a mobile login code and opens a session. The code
// is cleared by a version-guarded write, so it can be used only once.
func (a *authService) VerifyMobileOTP(ctx context.Context, request models.MobileOTPRequest) (*models.AuthResult, error) {
	if err := a.validator.Validate(ctx, request, validators.FieldPhone, validators.FieldOTP); err != nil {
		return nil, err
	}

	identity, err := a.identities.FindByPhone(ctx, request.PhoneNumber, store.ActiveOnly)
	if errors.Is(err, store.ErrIdentityNotFound) {
		return nil, ErrInvalidOrExpiredOTP
	}
	if err != nil {
		return nil, err
	}

	if !a.tokens.VerifySecret(request.OTP, identity.MobileOTP.Hash, identity.MobileOTP.ExpiresAt) {
		return nil, ErrInvalidOrExpiredOTP
	}

	identity.MobileOTP.Clear()
	if err = a.identities.Save(ctx, identity, store.PartialValidation); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, ErrInvalidOrExpiredOTP
		}
		return nil, err
	}

	return a.session(ctx, identity)
}

// ForgotPassword mails a password reset link to the identity holding email.
func (a *authService) ForgotPassword(ctx context.Context, kind models.Kind, email string) error {
	identity, err := a.identities.FindByEmail(ctx, models.NormalizeEmail(email), store.IncludeInactive)
	if err != nil {
		return err
	}

	secret, err := a.tokens.IssueSecret(models.SecretToken)
	if err != nil {
		return err
	}
	identity.PasswordReset.Set(secret)
	if err = a.identities.Save(ctx, identity, store.PartialValidation); err != nil {
		return err
	}

	link := resetLink(a.publicBaseURL, kind, secret.Plain)
	if err = a.mailer.Send(ctx, identity.Email, passwordResetSubject, passwordResetBody(link)); err != nil {
		a.clearSecret(ctx, identity, models.SecretPasswordReset, err)
		return fmt.Errorf("%w: %w", ErrEmailDeliveryFailed, err)
	}

	return nil
}

// ResetPassword sets a new password for the identity holding a live reset
// token. Any password in the identity's history is rejected.
func (a *authService) ResetPassword(ctx context.Context, secret string, request models.PasswordResetRequest) (*models.AuthResult, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	identity, err := a.identities.FindBySecret(ctx,
		models.SecretPasswordReset,
		a.tokens.DigestSecret(secret),
		a.now(),
		store.IncludeInactive,
	)
	if errors.Is(err, store.ErrIdentityNotFound) {
		return nil, ErrInvalidOrExpiredToken
	}
	if err != nil {
		return nil, err
	}

	if err = a.validator.Validate(ctx, request); err != nil {
		return nil, err
	}
	if err = a.changePassword(ctx, identity, request.Password); err != nil {
		return nil, err
	}

	return a.session(ctx, identity)
}

// UpdatePassword changes the password of an authenticated identity after
// checking its current one.
func (a *authService) UpdatePassword(ctx context.Context, identity *models.Identity, request models.PasswordUpdateRequest) (*models.AuthResult, error) {
	if err := a.validator.Validate(ctx, request); err != nil {
		return nil, err
	}
	if !utils.ComparePassword(identity.PasswordHash, request.PasswordCurrent) {
		return nil, ErrIncorrectPassword
	}
	if err := a.changePassword(ctx, identity, request.Password); err != nil {
		return nil, err
	}

	return a.session(ctx, identity)
}

// changePassword rejects reuse, rotates the hash into history, clears any
// pending reset token and writes with full validation.
func (a *authService) changePassword(ctx context.Context, identity *models.Identity, password string) error {
	if utils.MatchesAnyPassword(identity.KnownPasswordHashes(), password) {
		return ErrPasswordReused
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	identity.SetPassword(hash, a.now())
	identity.PasswordReset.Clear()

	return a.identities.Save(ctx, identity, store.FullValidation)
}

// RequestAccountDeletion deactivates the identity and schedules its removal
// after the grace period.
func (a *authService) RequestAccountDeletion(ctx context.Context, identity *models.Identity) (time.Time, error) {
	if identity.DeletionRequested && identity.DeletionExpires != nil {
		return time.Time{}, fmt.Errorf("%w, it expires at %s",
			ErrDeletionAlreadyRequested, identity.DeletionExpires.UTC().Format(time.RFC3339))
	}

	expires := a.now().Add(a.deletionGrace).UTC()
	identity.RequestDeletion(expires)
	if err := a.identities.Save(ctx, identity, store.PartialValidation); err != nil {
		return time.Time{}, err
	}

	logger.FromContext(ctx).Info().
		Str("id", identity.ID).
		Time("expires", expires).
		Msg("account deletion requested")

	return expires, nil
}

// Authenticate resolves a raw session token to the identity it was issued
// for. Identities with a pending deletion request are still resolved.
func (a *authService) Authenticate(ctx context.Context, raw string) (*models.Identity, models.Token, error) {
	if raw == "" || raw == models.LoggedOutToken {
		return nil, models.Token{}, ErrUnauthenticated
	}

	token, err := a.tokens.VerifySession(ctx, raw)
	if err != nil {
		return nil, models.Token{}, err
	}

	identity, err := a.identities.FindByID(ctx, token.IdentityID(), store.IncludeInactive)
	if errors.Is(err, store.ErrIdentityNotFound) {
		return nil, models.Token{}, ErrIdentityGone
	}
	if err != nil {
		return nil, models.Token{}, err
	}

	if identity.PasswordChangedAfter(token.IssuedTime()) {
		return nil, models.Token{}, ErrStalePassword
	}

	return identity, token, nil
}

// ApproveVendor marks a vendor as approved by an administrator.
func (a *authService) ApproveVendor(ctx context.Context, vendorID string) error {
	if err := a.identities.ApproveVendor(ctx, vendorID); err != nil {
		return err
	}
	logger.FromContext(ctx).Info().Str("vendor_id", vendorID).Msg("vendor approved")
	return nil
}

func (a *authService) session(ctx context.Context, identity *models.Identity) (*models.AuthResult, error) {
	token, err := a.tokens.IssueSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{Identity: identity, Token: token}, nil
}

// clearSecret undoes a secret write after its delivery failed.
func (a *authService) clearSecret(ctx context.Context, identity *models.Identity, purpose models.SecretPurpose, cause error) {
	identity.Secret(purpose).Clear()
	if err := a.identities.Save(ctx, identity, store.PartialValidation); err != nil {
		logger.FromContext(ctx).Err(errors.Join(cause, err)).
			Str("id", identity.ID).
			Str("purpose", string(purpose)).
			Msg("error clearing undelivered secret")
	}
}
