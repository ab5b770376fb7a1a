package models

// Document names a vendor upload slot.
type Document string

const (
	DocumentProofOfOwnership     Document = "proofOfOwnership"
	DocumentInsuranceCertificate Document = "insuranceCertificate"
	DocumentCompliance           Document = "complianceDocuments"
)

// Profile field names accepted by the self-service update endpoint.
const (
	FieldFirstName         = "firstName"
	FieldLastName          = "lastName"
	FieldEmail             = "email"
	FieldPhoneNumber       = "phoneNumber"
	FieldCompanyName       = "companyName"
	FieldAdditionalRemarks = "additionalRemarks"
)

// Variant is the capability set that differs between users and vendors.
// It is selected once from the identity kind via VariantOf.
type Variant interface {
	Kind() Kind
	DefaultRole() Role
	// AllowedUpdateFields lists the profile fields the owner may change
	// through the self-service update endpoint.
	AllowedUpdateFields() []string
	// RequiredDocuments lists the uploads profile completion demands.
	RequiredDocuments() []Document
	// AvatarPrefix and DocumentPrefix are object-storage key prefixes.
	AvatarPrefix() string
	DocumentPrefix() string
	// RequiresCompany reports whether a company name is mandatory.
	RequiresCompany() bool
}

type userVariant struct{}

func (userVariant) Kind() Kind        { return KindUser }
func (userVariant) DefaultRole() Role { return RoleUser }
func (userVariant) AllowedUpdateFields() []string {
	return []string{FieldFirstName, FieldLastName, FieldEmail, FieldPhoneNumber}
}
func (userVariant) RequiredDocuments() []Document { return nil }
func (userVariant) AvatarPrefix() string          { return "avatars" }
func (userVariant) DocumentPrefix() string        { return "" }
func (userVariant) RequiresCompany() bool         { return false }

type vendorVariant struct{}

func (vendorVariant) Kind() Kind        { return KindVendor }
func (vendorVariant) DefaultRole() Role { return RoleVendor }
func (vendorVariant) AllowedUpdateFields() []string {
	return []string{FieldFirstName, FieldLastName, FieldEmail, FieldPhoneNumber, FieldCompanyName, FieldAdditionalRemarks}
}
func (vendorVariant) RequiredDocuments() []Document {
	return []Document{DocumentProofOfOwnership, DocumentInsuranceCertificate}
}
func (vendorVariant) AvatarPrefix() string   { return "avatars" }
func (vendorVariant) DocumentPrefix() string { return "vendor-files" }
func (vendorVariant) RequiresCompany() bool  { return true }

// VariantOf returns the variant for kind. Unknown kinds fall back to the
// user variant, which grants the narrowest capabilities.
func VariantOf(kind Kind) Variant {
	if kind == KindVendor {
		return vendorVariant{}
	}
	return userVariant{}
}
