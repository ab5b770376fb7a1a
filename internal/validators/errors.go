package validators

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every input validation failure. Handlers map
// anything wrapping it to 400 Bad Request.
var ErrValidation = errors.New("validation failed")

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEmail         = fmt.Errorf("%w: please provide a valid email", ErrValidation)
	ErrPasswordTooShort     = fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	ErrPasswordTooLong      = fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, MaxPasswordBytes)
	ErrPasswordMismatch     = fmt.Errorf("%w: passwords are not the same", ErrValidation)
	ErrMissingPassword      = fmt.Errorf("%w: password is required", ErrValidation)
	ErrInvalidKind          = fmt.Errorf("%w: invalid account kind", ErrValidation)
	ErrInvalidRole          = fmt.Errorf("%w: invalid role", ErrValidation)
	ErrPasswordHistory      = fmt.Errorf("%w: password history too long", ErrValidation)
	ErrMissingName          = fmt.Errorf("%w: first name and last name are required", ErrValidation)
	ErrMissingCompany       = fmt.Errorf("%w: company name is required", ErrValidation)
	ErrInvalidPhone         = fmt.Errorf("%w: invalid phone number", ErrValidation)
	ErrInvalidAddressType   = fmt.Errorf("%w: address type must be home, work or other", ErrValidation)
	ErrIncompleteAddress    = fmt.Errorf("%w: address line, city and country are required", ErrValidation)
	ErrInvalidCoordinates   = fmt.Errorf("%w: coordinates out of range", ErrValidation)
	ErrDuplicateAddressID   = fmt.Errorf("%w: duplicate address id", ErrValidation)
	ErrInvalidProductName   = fmt.Errorf("%w: model name is required", ErrValidation)
	ErrInvalidProductPrice  = fmt.Errorf("%w: price per day must be positive", ErrValidation)
	ErrMissingOTP           = fmt.Errorf("%w: otp is required", ErrValidation)
	ErrMissingFieldsToPatch = fmt.Errorf("%w: at least one field must be provided for update", ErrValidation)
)
