package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/MKhiriev/go-rental-market/internal/adapter"
	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/geo"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/store"
	"github.com/MKhiriev/go-rental-market/internal/utils"
	"github.com/MKhiriev/go-rental-market/internal/validators"
	"github.com/MKhiriev/go-rental-market/models"
)

// profileService completes and edits profiles. File replacements always save
// the new references before the old objects are removed, so a failed write
// never leaves the identity pointing at deleted files.
type profileService struct {
	identities store.IdentityRepository
	objects    adapter.ObjectStorage
	resolver   *geo.Resolver
	validator  validators.Validator

	// defaultAvatar is stored when a profile is completed without an avatar.
	defaultAvatar string

	logger *logger.Logger
}

func NewProfileService(
	identities store.IdentityRepository,
	objects adapter.ObjectStorage,
	resolver *geo.Resolver,
	validator validators.Validator,
	cfg config.App,
	logger *logger.Logger,
) ProfileService {
	return &profileService{
		identities:    identities,
		objects:       objects,
		resolver:      resolver,
		validator:     validator,
		defaultAvatar: cfg.DefaultAvatarURL,
		logger:        logger,
	}
}

// CompleteProfile stores names, phone, addresses and files of a verified
// identity and marks its profile completed.
//
// Addresses are geocoded concurrently; one that cannot be resolved is stored
// at [0, 0]. Uploaded files are removed again when any later step fails.
func (p *profileService) CompleteProfile(ctx context.Context, identity *models.Identity, request models.CompleteProfileRequest) (*models.Identity, error) {
	log := logger.FromContext(ctx)
	variant := identity.Variant()

	if !identity.IsVerified {
		return nil, ErrEmailNotVerified
	}
	if !request.TermsAndConditions {
		return nil, ErrTermsNotAccepted
	}

	fields := []string{validators.FieldNames, validators.FieldPhone, validators.FieldAddresses}
	if variant.RequiresCompany() {
		fields = append(fields, validators.FieldCompany)
	}
	if err := p.validator.Validate(ctx, request, fields...); err != nil {
		return nil, err
	}
	for _, doc := range variant.RequiredDocuments() {
		if len(request.Documents[doc]) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingDocuments, doc)
		}
	}

	if err := p.checkPhone(ctx, identity, request.PhoneNumber); err != nil {
		return nil, err
	}

	points, err := p.resolver.ResolveAll(ctx, request.Addresses, true)
	if err != nil {
		return nil, err
	}
	addresses := make([]models.Address, len(request.Addresses))
	for i, input := range request.Addresses {
		addresses[i] = input.ToAddress(utils.NewID(), points[i])
	}

	updated := *identity
	updated.FirstName = strings.TrimSpace(request.FirstName)
	updated.LastName = strings.TrimSpace(request.LastName)
	updated.PhoneNumber = optionalPhone(request.PhoneNumber)
	updated.Addresses = addresses
	updated.TermsAccepted = true
	updated.ProfileCompleted = true
	if variant.RequiresCompany() {
		updated.CompanyName = strings.TrimSpace(request.CompanyName)
		updated.AdditionalRemarks = request.AdditionalRemarks
	}

	batch := p.newUploadBatch(identity)
	if err = batch.apply(ctx, &updated, request); err != nil {
		batch.rollback(ctx, err)
		return nil, err
	}
	if updated.Avatar == "" {
		updated.Avatar = p.defaultAvatar
	}

	if err = p.identities.Save(ctx, &updated, store.PartialValidation); err != nil {
		batch.rollback(ctx, err)
		return nil, err
	}
	batch.commit(ctx)

	log.Info().Str("id", updated.ID).Msg("profile completed")

	*identity = updated
	return identity, nil
}

// UpdateProfilePic replaces the avatar and returns its new URL.
func (p *profileService) UpdateProfilePic(ctx context.Context, identity *models.Identity, avatar *models.Upload) (string, error) {
	if avatar == nil || avatar.Body == nil {
		return "", ErrMissingAvatar
	}

	updated := *identity
	batch := p.newUploadBatch(identity)
	if err := batch.apply(ctx, &updated, models.CompleteProfileRequest{Avatar: avatar}); err != nil {
		batch.rollback(ctx, err)
		return "", err
	}

	if err := p.identities.Save(ctx, &updated, store.PartialValidation); err != nil {
		batch.rollback(ctx, err)
		return "", err
	}
	batch.commit(ctx)

	*identity = updated
	return identity.Avatar, nil
}

// UpdateMe applies the self-service profile fields allowed for the identity's
// kind. Unknown fields are ignored; password fields are rejected.
func (p *profileService) UpdateMe(ctx context.Context, identity *models.Identity, fields map[string]any) (*models.Identity, error) {
	if _, ok := fields["password"]; ok {
		return nil, ErrPasswordUpdateNotAllowed
	}
	if _, ok := fields["passwordConfirm"]; ok {
		return nil, ErrPasswordUpdateNotAllowed
	}

	values := make(map[string]string)
	for _, name := range identity.Variant().AllowedUpdateFields() {
		raw, ok := fields[name]
		if !ok {
			continue
		}
		value, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidUpdateValue, name)
		}
		values[name] = strings.TrimSpace(value)
	}
	if len(values) == 0 {
		return nil, validators.ErrMissingFieldsToPatch
	}

	updated := *identity
	for name, value := range values {
		switch name {
		case models.FieldFirstName:
			updated.FirstName = value
		case models.FieldLastName:
			updated.LastName = value
		case models.FieldEmail:
			updated.Email = models.NormalizeEmail(value)
		case models.FieldPhoneNumber:
			updated.PhoneNumber = optionalPhone(value)
		case models.FieldCompanyName:
			updated.CompanyName = value
		case models.FieldAdditionalRemarks:
			updated.AdditionalRemarks = value
		}
	}

	if err := p.validator.Validate(ctx, &updated, validators.FieldEmail, validators.FieldPhone); err != nil {
		return nil, err
	}
	if phone, ok := values[models.FieldPhoneNumber]; ok {
		if err := p.checkPhone(ctx, identity, phone); err != nil {
			return nil, err
		}
	}

	if err := p.identities.Save(ctx, &updated, store.PartialValidation); err != nil {
		return nil, err
	}

	*identity = updated
	return identity, nil
}

func (p *profileService) checkPhone(ctx context.Context, identity *models.Identity, phone string) error {
	if phone == "" || phone == identity.Phone() {
		return nil
	}
	taken, err := p.identities.PhoneTaken(ctx, phone, identity.ID)
	if err != nil {
		return err
	}
	if taken {
		return store.ErrDuplicatePhone
	}
	return nil
}

func optionalPhone(phone string) *string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}
	return &phone
}

// uploadBatch tracks the objects written and replaced by one request.
type uploadBatch struct {
	objects  adapter.ObjectStorage
	id       string
	uploaded []string
	replaced []string
}

func (p *profileService) newUploadBatch(identity *models.Identity) *uploadBatch {
	return &uploadBatch{objects: p.objects, id: identity.ID}
}

// apply uploads the avatar and documents of request and points dst at them.
func (b *uploadBatch) apply(ctx context.Context, dst *models.Identity, request models.CompleteProfileRequest) error {
	variant := dst.Variant()

	if request.Avatar != nil {
		url, err := b.upload(ctx, variant.AvatarPrefix(), *request.Avatar)
		if err != nil {
			return err
		}
		b.replace(dst.Avatar)
		dst.Avatar = url
	}

	if variant.DocumentPrefix() == "" {
		return nil
	}

	if files := request.Documents[models.DocumentProofOfOwnership]; len(files) > 0 {
		url, err := b.upload(ctx, variant.DocumentPrefix(), files[0])
		if err != nil {
			return err
		}
		b.replace(dst.ProofOfOwnership)
		dst.ProofOfOwnership = url
	}

	if files := request.Documents[models.DocumentInsuranceCertificate]; len(files) > 0 {
		url, err := b.upload(ctx, variant.DocumentPrefix(), files[0])
		if err != nil {
			return err
		}
		b.replace(dst.InsuranceCertificate)
		dst.InsuranceCertificate = url
	}

	if files := request.Documents[models.DocumentCompliance]; len(files) > 0 {
		urls := make([]string, 0, len(files))
		for _, file := range files {
			url, err := b.upload(ctx, variant.DocumentPrefix(), file)
			if err != nil {
				return err
			}
			urls = append(urls, url)
		}
		b.replace(dst.ComplianceDocuments...)
		dst.ComplianceDocuments = urls
	}

	return nil
}

func (b *uploadBatch) upload(ctx context.Context, prefix string, file models.Upload) (string, error) {
	url, err := b.objects.Upload(ctx, path.Join(prefix, b.id), file)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorageFailed, err)
	}
	b.uploaded = append(b.uploaded, url)
	return url, nil
}

func (b *uploadBatch) replace(urls ...string) {
	for _, url := range urls {
		if url != "" {
			b.replaced = append(b.replaced, url)
		}
	}
}

// rollback removes everything uploaded by the batch.
func (b *uploadBatch) rollback(ctx context.Context, cause error) {
	if len(b.uploaded) == 0 {
		return
	}
	if err := b.objects.DeleteObjects(ctx, b.uploaded); err != nil {
		logger.FromContext(ctx).Err(errors.Join(cause, err)).
			Str("id", b.id).
			Strs("urls", b.uploaded).
			Msg("error removing uploads of failed request")
	}
}

// commit removes the objects the batch replaced. Failures only leave orphans
// behind and are logged.
func (b *uploadBatch) commit(ctx context.Context) {
	if len(b.replaced) == 0 {
		return
	}
	if err := b.objects.DeleteObjects(ctx, b.replaced); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("id", b.id).
			Strs("urls", b.replaced).
			Msg("error removing replaced files")
	}
}
