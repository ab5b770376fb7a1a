package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/models"
)

const (
	msgProfileCompleted = "Profile completed successfully."
	msgAvatarUpdated    = "Profile picture updated successfully."
	msgProfileUpdated   = "Profile updated successfully."
)

// avatarField is the multipart file field carrying a profile picture.
const avatarField = "avatar"

var documentFields = []models.Document{
	models.DocumentProofOfOwnership,
	models.DocumentInsuranceCertificate,
	models.DocumentCompliance,
}

func (h *Handler) completeProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	form, err := parseMultipart(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer form.cleanup(r)

	request, err := form.profileRequest()
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.services.ProfileService.CompleteProfile(r.Context(), identity, request)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgProfileCompleted, map[string]any{"user": updated})
}

func (h *Handler) updateProfilePic(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	form, err := parseMultipart(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer form.cleanup(r)

	avatar, err := form.file(avatarField)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	url, err := h.services.ProfileService.UpdateProfilePic(r.Context(), identity, avatar)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgAvatarUpdated, map[string]any{"avatar": url})
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	fields := make(map[string]any)
	if err = decodeJSON(r, &fields); err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.services.ProfileService.UpdateMe(r.Context(), identity, fields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.success(w, r, http.StatusOK, msgProfileUpdated, map[string]any{"user": updated})
}

// multipartForm wraps a parsed form and the files opened from it.
type multipartForm struct {
	*multipart.Form
	opened []io.Closer
}

func parseMultipart(w http.ResponseWriter, r *http.Request) (*multipartForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("invalid multipart form")
		return nil, ErrInvalidForm
	}
	return &multipartForm{Form: r.MultipartForm}, nil
}

func (f *multipartForm) cleanup(r *http.Request) {
	var errs []error
	for _, c := range f.opened {
		errs = append(errs, c.Close())
	}
	errs = append(errs, f.RemoveAll())
	if err := errors.Join(errs...); err != nil {
		logger.FromRequest(r).Warn().Err(err).Msg("error releasing multipart files")
	}
}

func (f *multipartForm) value(name string) string {
	if values := f.Value[name]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

// files opens every file sent under name.
func (f *multipartForm) files(name string) ([]models.Upload, error) {
	headers := f.File[name]
	uploads := make([]models.Upload, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, ErrInvalidForm
		}
		f.opened = append(f.opened, file)

		uploads = append(uploads, models.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
	}
	return uploads, nil
}

// file returns the first file sent under name or nil.
func (f *multipartForm) file(name string) (*models.Upload, error) {
	uploads, err := f.files(name)
	if err != nil || len(uploads) == 0 {
		return nil, err
	}
	return &uploads[0], nil
}

func (f *multipartForm) profileRequest() (models.CompleteProfileRequest, error) {
	request := models.CompleteProfileRequest{
		FirstName:         f.value("firstName"),
		LastName:          f.value("lastName"),
		PhoneNumber:       f.value("phoneNumber"),
		CompanyName:       f.value("companyName"),
		AdditionalRemarks: f.value("additionalRemarks"),
		Documents:         make(map[models.Document][]models.Upload),
	}

	if raw := f.value("termsAndConditions"); raw != "" {
		accepted, err := strconv.ParseBool(raw)
		if err != nil {
			return request, ErrInvalidForm
		}
		request.TermsAndConditions = accepted
	}

	if raw := f.value("addresses"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &request.Addresses); err != nil {
			return request, ErrInvalidAddresses
		}
	}

	avatar, err := f.file(avatarField)
	if err != nil {
		return request, err
	}
	request.Avatar = avatar

	for _, doc := range documentFields {
		uploads, err := f.files(string(doc))
		if err != nil {
			return request, err
		}
		if len(uploads) > 0 {
			request.Documents[doc] = uploads
		}
	}

	return request, nil
}
