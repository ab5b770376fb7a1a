package models

import (
	"strings"
	"time"
)

// MaxPasswordHistory is the number of previous password hashes retained per
// identity. Older entries are evicted first.
const MaxPasswordHistory = 10

// passwordChangedSkew is subtracted from the write time when stamping
// PasswordChangedAt so that a token issued in the same second as the write
// is still accepted.
const passwordChangedSkew = time.Second

// Kind discriminates the two identity variants stored in the identities table.
type Kind string

const (
	KindUser   Kind = "user"
	KindVendor Kind = "vendor"
)

// ParseKind converts a raw path segment into a Kind.
// The second return value is false for anything other than "user" or "vendor".
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindUser:
		return KindUser, true
	case KindVendor:
		return KindVendor, true
	default:
		return "", false
	}
}

func (k Kind) String() string {
	return string(k)
}

// Role is the authorization tag carried by an identity and its session token.
type Role string

const (
	RoleUser       Role = "user"
	RoleVendor     Role = "vendor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleVendor, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Identity is a user or vendor account record.
//
// Credential and secret fields are never serialized to clients. The Version
// field guards optimistic updates in the store and is likewise hidden.
type Identity struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Email string `json:"email"`

	// PhoneNumber is optional, but no two identities may share a non-nil value.
	PhoneNumber *string `json:"phoneNumber,omitempty"`

	PasswordHash      string     `json:"-"`
	PasswordHistory   []string   `json:"-"`
	PasswordChangedAt *time.Time `json:"-"`

	Role             Role `json:"role"`
	IsVerified       bool `json:"isVerified"`
	IsApproved       bool `json:"isApproved"`
	Active           bool `json:"-"`
	ProfileCompleted bool `json:"profileCompleted"`
	TermsAccepted    bool `json:"termsAndConditions"`

	FirstName         string `json:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty"`
	CompanyName       string `json:"companyName,omitempty"`
	AdditionalRemarks string `json:"additionalRemarks,omitempty"`

	Avatar               string   `json:"avatar,omitempty"`
	ProofOfOwnership     string   `json:"proofOfOwnership,omitempty"`
	InsuranceCertificate string   `json:"insuranceCertificate,omitempty"`
	ComplianceDocuments  []string `json:"complianceDocuments,omitempty"`

	Addresses []Address `json:"addresses"`

	EmailConfirm  SecretState `json:"-"`
	PasswordReset SecretState `json:"-"`
	MobileOTP     SecretState `json:"-"`

	DeletionRequested bool       `json:"deletionRequested"`
	DeletionExpires   *time.Time `json:"deletionExpires,omitempty"`

	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewIdentity returns an unverified, active identity of the given variant with
// its default role preset. The caller assigns ID and credentials.
func NewIdentity(variant Variant, email string) *Identity {
	return &Identity{
		Kind:      variant.Kind(),
		Email:     NormalizeEmail(email),
		Role:      variant.DefaultRole(),
		Active:    true,
		Addresses: []Address{},
	}
}

// NormalizeEmail lower-cases and trims an email address. Every write and
// lookup goes through it so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsNew reports whether the identity has never been persisted.
func (i *Identity) IsNew() bool {
	return i.Version == 0
}

// Variant returns the capability set selected by the identity's kind.
func (i *Identity) Variant() Variant {
	return VariantOf(i.Kind)
}

// SetPassword replaces the stored password hash.
//
// For pre-existing records the previous hash is appended to PasswordHistory,
// which is then trimmed from the front to MaxPasswordHistory entries, and
// PasswordChangedAt is stamped slightly before now.
func (i *Identity) SetPassword(hash string, now time.Time) {
	if !i.IsNew() && i.PasswordHash != "" {
		i.PasswordHistory = append(i.PasswordHistory, i.PasswordHash)
		if over := len(i.PasswordHistory) - MaxPasswordHistory; over > 0 {
			i.PasswordHistory = append([]string(nil), i.PasswordHistory[over:]...)
		}

		changedAt := now.Add(-passwordChangedSkew)
		i.PasswordChangedAt = &changedAt
	}

	i.PasswordHash = hash
}

// PasswordChangedAfter reports whether the password was changed after t.
// Identities that never changed their password always return false.
func (i *Identity) PasswordChangedAfter(t time.Time) bool {
	if i.PasswordChangedAt == nil {
		return false
	}
	return i.PasswordChangedAt.After(t)
}

// KnownPasswordHashes returns every hash a new password must not match:
// the history followed by the current hash.
func (i *Identity) KnownPasswordHashes() []string {
	hashes := make([]string, 0, len(i.PasswordHistory)+1)
	hashes = append(hashes, i.PasswordHistory...)
	if i.PasswordHash != "" {
		hashes = append(hashes, i.PasswordHash)
	}
	return hashes
}

// RequestDeletion marks the identity for deletion after the grace period and
// deactivates it.
func (i *Identity) RequestDeletion(expires time.Time) {
	i.DeletionRequested = true
	i.DeletionExpires = &expires
	i.Active = false
}

// RescindDeletion clears a pending deletion request and reactivates the identity.
func (i *Identity) RescindDeletion() {
	i.DeletionRequested = false
	i.DeletionExpires = nil
	i.Active = true
}

// DeletionElapsed reports whether a pending deletion request has passed its
// grace period at now.
func (i *Identity) DeletionElapsed(now time.Time) bool {
	return i.DeletionRequested && i.DeletionExpires != nil && !now.Before(*i.DeletionExpires)
}

// Phone returns the phone number or an empty string.
func (i *Identity) Phone() string {
	if i.PhoneNumber == nil {
		return ""
	}
	return *i.PhoneNumber
}

// StoredFiles returns every object reference held by the identity: the avatar
// plus, for vendors, the documents listed by the variant.
func (i *Identity) StoredFiles() []string {
	files := make([]string, 0, 3+len(i.ComplianceDocuments))
	if i.Avatar != "" {
		files = append(files, i.Avatar)
	}
	if i.Kind == KindVendor {
		if i.ProofOfOwnership != "" {
			files = append(files, i.ProofOfOwnership)
		}
		if i.InsuranceCertificate != "" {
			files = append(files, i.InsuranceCertificate)
		}
		files = append(files, i.ComplianceDocuments...)
	}
	return files
}

// FindAddress returns the index of the address with the given id, or -1.
func (i *Identity) FindAddress(id string) int {
	for idx := range i.Addresses {
		if i.Addresses[idx].ID == id {
			return idx
		}
	}
	return -1
}
