// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/MKhiriev/go-rental-market/models"
)

const (
	identitiesTable = "identities"
	productsTable   = "products"
)

// psql builds statements with PostgreSQL $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var identityColumns = []string{
	"id",
	"kind",
	"email",
	"phone_number",
	"password_hash",
	"password_history",
	"password_changed_at",
	"role",
	"is_verified",
	"is_approved",
	"active",
	"profile_completed",
	"terms_accepted",
	"first_name",
	"last_name",
	"company_name",
	"additional_remarks",
	"avatar",
	"proof_of_ownership",
	"insurance_certificate",
	"compliance_documents",
	"addresses",
	"email_confirm_hash",
	"email_confirm_expires",
	"password_reset_hash",
	"password_reset_expires",
	"mobile_otp_hash",
	"mobile_otp_expires",
	"deletion_requested",
	"deletion_expires",
	"version",
	"created_at",
	"updated_at",
}

var productColumns = []string{
	"id",
	"vendor_id",
	"model_name",
	"description",
	"price_per_day",
	"approved",
	"longitude",
	"latitude",
	"created_at",
}

// secretColumns returns the digest and expiry columns of purpose.
func secretColumns(purpose models.SecretPurpose) (hashCol, expiresCol string) {
	switch purpose {
	case models.SecretPasswordReset:
		return "password_reset_hash", "password_reset_expires"
	case models.SecretMobileOTP:
		return "mobile_otp_hash", "mobile_otp_expires"
	default:
		return "email_confirm_hash", "email_confirm_expires"
	}
}

func selectIdentities(scope Scope) sq.SelectBuilder {
	builder := psql.Select(identityColumns...).From(identitiesTable)
	if scope == ActiveOnly {
		builder = builder.Where(sq.Eq{"active": true})
	}
	return builder
}

func buildFindIdentityQuery(where sq.Sqlizer, scope Scope) (string, []any, error) {
	query, args, err := selectIdentities(scope).Where(where).Limit(1).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildFindBySecretQuery(email string, purpose models.SecretPurpose, hash string, now time.Time, scope Scope) (string, []any, error) {
	hashCol, expiresCol := secretColumns(purpose)

	where := sq.And{
		sq.Eq{hashCol: hash},
		sq.Gt{expiresCol: now},
	}
	if email != "" {
		where = append(where, sq.Eq{"email": email})
	}

	return buildFindIdentityQuery(where, scope)
}

func buildInsertIdentityQuery(identity *models.Identity) (string, []any, error) {
	values, err := identityValues(identity)
	if err != nil {
		return "", nil, err
	}

	query, args, err := psql.Insert(identitiesTable).SetMap(values).ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// buildSaveIdentityQuery writes every mutable column, bumps the version and
// guards on the version that was read.
func buildSaveIdentityQuery(identity *models.Identity) (string, []any, error) {
	values, err := identityValues(identity)
	if err != nil {
		return "", nil, err
	}
	delete(values, "id")
	delete(values, "created_at")
	values["version"] = sq.Expr("version + 1")

	query, args, err := psql.Update(identitiesTable).
		SetMap(values).
		Where(sq.Eq{"id": identity.ID, "version": identity.Version}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

func buildExpiredDeletionsQuery(now time.Time) (string, []any, error) {
	query, args, err := selectIdentities(IncludeInactive).
		Where(sq.Eq{"deletion_requested": true}).
		Where(sq.LtOrEq{"deletion_expires": now}).
		OrderBy("deletion_expires").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return query, args, nil
}

// identityValues maps an identity onto its columns. Empty secrets and a nil
// phone are written as NULL so the unique and partial indexes ignore them.
func identityValues(identity *models.Identity) (map[string]any, error) {
	history, err := encodeJSON(nonNilStrings(identity.PasswordHistory))
	if err != nil {
		return nil, err
	}
	documents, err := encodeJSON(nonNilStrings(identity.ComplianceDocuments))
	if err != nil {
		return nil, err
	}
	addresses := identity.Addresses
	if addresses == nil {
		addresses = []models.Address{}
	}
	addressesJSON, err := encodeJSON(addresses)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"id":                     identity.ID,
		"kind":                   string(identity.Kind),
		"email":                  identity.Email,
		"phone_number":           nullString(identity.Phone()),
		"password_hash":          identity.PasswordHash,
		"password_history":       history,
		"password_changed_at":    nullTime(identity.PasswordChangedAt),
		"role":                   string(identity.Role),
		"is_verified":            identity.IsVerified,
		"is_approved":            identity.IsApproved,
		"active":                 identity.Active,
		"profile_completed":      identity.ProfileCompleted,
		"terms_accepted":         identity.TermsAccepted,
		"first_name":             identity.FirstName,
		"last_name":              identity.LastName,
		"company_name":           identity.CompanyName,
		"additional_remarks":     identity.AdditionalRemarks,
		"avatar":                 identity.Avatar,
		"proof_of_ownership":     identity.ProofOfOwnership,
		"insurance_certificate":  identity.InsuranceCertificate,
		"compliance_documents":   documents,
		"addresses":              addressesJSON,
		"email_confirm_hash":     nullString(identity.EmailConfirm.Hash),
		"email_confirm_expires":  nullTime(identity.EmailConfirm.ExpiresAt),
		"password_reset_hash":    nullString(identity.PasswordReset.Hash),
		"password_reset_expires": nullTime(identity.PasswordReset.ExpiresAt),
		"mobile_otp_hash":        nullString(identity.MobileOTP.Hash),
		"mobile_otp_expires":     nullTime(identity.MobileOTP.ExpiresAt),
		"deletion_requested":     identity.DeletionRequested,
		"deletion_expires":       nullTime(identity.DeletionExpires),
		"version":                identity.Version,
		"created_at":             identity.CreatedAt,
		"updated_at":             identity.UpdatedAt,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanIdentity reads one row selected with identityColumns.
func scanIdentity(row rowScanner) (*models.Identity, error) {
	var (
		identity models.Identity

		kind, role                        string
		phone                             sql.NullString
		history, documents, addresses     []byte
		passwordChangedAt                 sql.NullTime
		confirmHash, resetHash, otpHash   sql.NullString
		confirmExp, resetExp, otpExp, del sql.NullTime
	)

	err := row.Scan(
		&identity.ID,
		&kind,
		&identity.Email,
		&phone,
		&identity.PasswordHash,
		&history,
		&passwordChangedAt,
		&role,
		&identity.IsVerified,
		&identity.IsApproved,
		&identity.Active,
		&identity.ProfileCompleted,
		&identity.TermsAccepted,
		&identity.FirstName,
		&identity.LastName,
		&identity.CompanyName,
		&identity.AdditionalRemarks,
		&identity.Avatar,
		&identity.ProofOfOwnership,
		&identity.InsuranceCertificate,
		&documents,
		&addresses,
		&confirmHash,
		&confirmExp,
		&resetHash,
		&resetExp,
		&otpHash,
		&otpExp,
		&identity.DeletionRequested,
		&del,
		&identity.Version,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	identity.Kind = models.Kind(kind)
	identity.Role = models.Role(role)
	if phone.Valid {
		identity.PhoneNumber = &phone.String
	}
	identity.PasswordChangedAt = timePtr(passwordChangedAt)
	identity.EmailConfirm = models.SecretState{Hash: confirmHash.String, ExpiresAt: timePtr(confirmExp)}
	identity.PasswordReset = models.SecretState{Hash: resetHash.String, ExpiresAt: timePtr(resetExp)}
	identity.MobileOTP = models.SecretState{Hash: otpHash.String, ExpiresAt: timePtr(otpExp)}
	identity.DeletionExpires = timePtr(del)

	if err = decodeJSON(history, &identity.PasswordHistory); err != nil {
		return nil, err
	}
	if err = decodeJSON(documents, &identity.ComplianceDocuments); err != nil {
		return nil, err
	}
	if err = decodeJSON(addresses, &identity.Addresses); err != nil {
		return nil, err
	}
	if identity.Addresses == nil {
		identity.Addresses = []models.Address{}
	}

	return &identity, nil
}

func scanProduct(row rowScanner) (models.Product, error) {
	var (
		p        models.Product
		lng, lat float64
	)
	err := row.Scan(&p.ID, &p.VendorID, &p.ModelName, &p.Description, &p.PricePerDay, &p.Approved, &lng, &lat, &p.CreatedAt)
	if err != nil {
		return models.Product{}, err
	}
	p.Location = models.NewPoint(lng, lat)
	return p, nil
}

func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}
	return string(data), nil
}

func decodeJSON(data []byte, dst any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingColumn, err)
	}
	return nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
