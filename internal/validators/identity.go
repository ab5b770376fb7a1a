package validators

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/MKhiriev/go-rental-market/models"
)

const (
	// MinPasswordLength is the shortest password accepted at signup, reset
	// and change.
	MinPasswordLength = 8

	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldEmail           = "email"
	FieldKind            = "kind"
	FieldRole            = "role"
	FieldPasswordHash    = "password_hash"
	FieldPasswordHistory = "password_history"
	FieldPhone           = "phone"
	FieldAddresses       = "addresses"

	FieldPassword = "password"
	FieldNames    = "names"
	FieldCompany  = "company"

	FieldAddressType     = "address_type"
	FieldAddressLines    = "address_lines"
	FieldCurrentLocation = "current_location"

	FieldOTP = "otp"

	FieldProductName  = "product_name"
	FieldProductPrice = "product_price"
	FieldLocation     = "location"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// IdentityValidator validates identity records before they are persisted and
// the account-related requests that produce them.
type IdentityValidator struct{}

// NewIdentityValidator constructs a new IdentityValidator and returns it as
// the Validator interface.
func NewIdentityValidator() Validator {
	return &IdentityValidator{}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms are accepted.
//
// Supported types:
//   - models.Identity
//   - models.SignupRequest
//   - models.PasswordResetRequest
//   - models.PasswordUpdateRequest
//   - models.MobileOTPRequest
//   - models.CompleteProfileRequest
//   - models.AddressInput
//   - models.CreateProductRequest
func (v *IdentityValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Identity:
		return v.validateIdentity(value, fields...)
	case *models.Identity:
		return v.validateIdentity(*value, fields...)

	case models.SignupRequest:
		return v.validateSignup(value, fields...)
	case *models.SignupRequest:
		return v.validateSignup(*value, fields...)

	case models.PasswordResetRequest:
		return validateNewPassword(value.Password, value.PasswordConfirm)
	case *models.PasswordResetRequest:
		return validateNewPassword(value.Password, value.PasswordConfirm)

	case models.PasswordUpdateRequest:
		if value.PasswordCurrent == "" {
			return ErrMissingPassword
		}
		return validateNewPassword(value.Password, value.PasswordConfirm)
	case *models.PasswordUpdateRequest:
		return v.Validate(ctx, *value, fields...)

	case models.MobileOTPRequest:
		return v.validateMobileOTP(value, fields...)
	case *models.MobileOTPRequest:
		return v.validateMobileOTP(*value, fields...)

	case models.CompleteProfileRequest:
		return v.validateCompleteProfile(value, fields...)
	case *models.CompleteProfileRequest:
		return v.validateCompleteProfile(*value, fields...)

	case models.AddressInput:
		return v.validateAddressInput(value, fields...)
	case *models.AddressInput:
		return v.validateAddressInput(*value, fields...)

	case models.CreateProductRequest:
		return v.validateProduct(value, fields...)
	case *models.CreateProductRequest:
		return v.validateProduct(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// ValidEmail reports whether s is a bare RFC 5322 address without a display name.
func ValidEmail(s string) bool {
	if s == "" || strings.TrimSpace(s) != s {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@"):], ".")
}

// ValidPhone reports whether s looks like an international phone number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// validateIdentity checks the record invariants enforced on full-validation saves.
//
// Default validated fields: email, kind, role, password hash, password
// history, phone, addresses.
func (v *IdentityValidator) validateIdentity(identity models.Identity, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldKind, FieldRole, FieldPasswordHash, FieldPasswordHistory, FieldPhone, FieldAddresses}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !ValidEmail(identity.Email) {
				return ErrInvalidEmail
			}
		case FieldKind:
			if _, ok := models.ParseKind(string(identity.Kind)); !ok {
				return ErrInvalidKind
			}
		case FieldRole:
			if !identity.Role.Valid() {
				return ErrInvalidRole
			}
		case FieldPasswordHash:
			if identity.PasswordHash == "" {
				return ErrMissingPassword
			}
		case FieldPasswordHistory:
			if len(identity.PasswordHistory) > models.MaxPasswordHistory {
				return ErrPasswordHistory
			}
		case FieldPhone:
			if identity.PhoneNumber != nil && !ValidPhone(*identity.PhoneNumber) {
				return ErrInvalidPhone
			}
		case FieldAddresses:
			seen := make(map[string]struct{}, len(identity.Addresses))
			for i, a := range identity.Addresses {
				if _, dup := seen[a.ID]; dup {
					return fmt.Errorf("address at index %d: %w", i, ErrDuplicateAddressID)
				}
				seen[a.ID] = struct{}{}
				if !a.Type.Valid() {
					return fmt.Errorf("address at index %d: %w", i, ErrInvalidAddressType)
				}
				if !a.Location.Valid() {
					return fmt.Errorf("address at index %d: %w", i, ErrInvalidCoordinates)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *IdentityValidator) validateSignup(request models.SignupRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !ValidEmail(models.NormalizeEmail(request.Email)) {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if err := validateNewPassword(request.Password, request.PasswordConfirm); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func validateNewPassword(password, confirm string) error {
	switch {
	case password == "":
		return ErrMissingPassword
	case len([]rune(password)) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordBytes:
		return ErrPasswordTooLong
	case password != confirm:
		return ErrPasswordMismatch
	}
	return nil
}

// validateMobileOTP checks the phone number and, when FieldOTP is requested,
// the code.
//
// Default validated fields: phone.
func (v *IdentityValidator) validateMobileOTP(request models.MobileOTPRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPhone}
	}

	for _, f := range fields {
		switch f {
		case FieldPhone:
			if !ValidPhone(request.PhoneNumber) {
				return ErrInvalidPhone
			}
		case FieldOTP:
			if strings.TrimSpace(request.OTP) == "" {
				return ErrMissingOTP
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateCompleteProfile checks names, phone and every submitted address.
// Pass FieldCompany for vendors. Terms and documents are workflow checks and
// belong to the caller.
func (v *IdentityValidator) validateCompleteProfile(request models.CompleteProfileRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldNames, FieldPhone, FieldAddresses}
	}

	for _, f := range fields {
		switch f {
		case FieldNames:
			if strings.TrimSpace(request.FirstName) == "" || strings.TrimSpace(request.LastName) == "" {
				return ErrMissingName
			}
		case FieldCompany:
			if strings.TrimSpace(request.CompanyName) == "" {
				return ErrMissingCompany
			}
		case FieldPhone:
			if request.PhoneNumber != "" && !ValidPhone(request.PhoneNumber) {
				return ErrInvalidPhone
			}
		case FieldAddresses:
			for i, a := range request.Addresses {
				if err := v.validateAddressInput(a); err != nil {
					return fmt.Errorf("address at index %d: %w", i, err)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateAddressInput checks a submitted address.
//
// Default validated fields: type, lines, current location. Pass only
// FieldCurrentLocation (and optionally FieldAddressType) for partial updates.
func (v *IdentityValidator) validateAddressInput(input models.AddressInput, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAddressType, FieldAddressLines, FieldCurrentLocation}
	}

	for _, f := range fields {
		switch f {
		case FieldAddressType:
			if input.Type != "" && !input.Type.Valid() {
				return ErrInvalidAddressType
			}
		case FieldAddressLines:
			if strings.TrimSpace(input.AddressLine1) == "" ||
				strings.TrimSpace(input.City) == "" ||
				strings.TrimSpace(input.Country) == "" {
				return ErrIncompleteAddress
			}
		case FieldCurrentLocation:
			if input.CurrentLocation != nil && !input.CurrentLocation.Valid() {
				return ErrInvalidCoordinates
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *IdentityValidator) validateProduct(request models.CreateProductRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldProductName, FieldProductPrice, FieldLocation}
	}

	for _, f := range fields {
		switch f {
		case FieldProductName:
			if strings.TrimSpace(request.ModelName) == "" {
				return ErrInvalidProductName
			}
		case FieldProductPrice:
			if request.PricePerDay <= 0 {
				return ErrInvalidProductPrice
			}
		case FieldLocation:
			if request.Location != nil && !request.Location.Valid() {
				return ErrInvalidCoordinates
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
