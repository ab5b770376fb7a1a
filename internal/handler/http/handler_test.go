// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/MKhiriev/go-rental-market/internal/mock"
	"github.com/MKhiriev/go-rental-market/internal/service"
	"github.com/MKhiriev/go-rental-market/internal/store"
	"github.com/MKhiriev/go-rental-market/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type mocks struct {
	auth     *mock.MockAuthService
	profile  *mock.MockProfileService
	address  *mock.MockAddressService
	product  *mock.MockProductService
	appInfo  *mock.MockAppInfoService
	services *service.Services
}

func newMocks(t *testing.T) *mocks {
	ctrl := gomock.NewController(t)
	m := &mocks{
		auth:    mock.NewMockAuthService(ctrl),
		profile: mock.NewMockProfileService(ctrl),
		address: mock.NewMockAddressService(ctrl),
		product: mock.NewMockProductService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
	}
	m.services = &service.Services{
		AuthService:    m.auth,
		ProfileService: m.profile,
		AddressService: m.address,
		ProductService: m.product,
		AppInfoService: m.appInfo,
	}
	return m
}

func newTestRouter(t *testing.T, env string) (http.Handler, *mocks) {
	t.Helper()
	m := newMocks(t)
	h := NewHandler(m.services, config.App{Env: env, CookieExpiryDays: 90}, logger.Nop())
	return h.Init(), m
}

func do(router http.Handler, method, target string, body io.Reader, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) models.Response {
	t.Helper()
	var resp models.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func jwtCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "jwt" {
			return c
		}
	}
	return nil
}

func identity(kind models.Kind, role models.Role) *models.Identity {
	return &models.Identity{ID: "id-1", Kind: kind, Role: role, Email: "a@b.co", Addresses: []models.Address{}}
}

func authResult(kind models.Kind) *models.AuthResult {
	return &models.AuthResult{
		Identity: identity(kind, models.Role(kind)),
		Token:    models.Token{SignedString: "signed.jwt.token"},
	}
}

// authenticateAs makes every bearer token "tok" resolve to id.
func authenticateAs(m *mocks, id *models.Identity) {
	m.auth.EXPECT().Authenticate(gomock.Any(), "tok").Return(id, models.Token{}, nil).AnyTimes()
}

var bearer = []string{"Authorization", "Bearer tok"}

// ---------------------------------------------------------------------------
// Account workflow
// ---------------------------------------------------------------------------

func TestSignup(t *testing.T) {
	router, m := newTestRouter(t, "development")

	request := models.SignupRequest{Email: "v@b.co", Password: "secret123", PasswordConfirm: "secret123"}
	m.auth.EXPECT().Signup(gomock.Any(), models.KindVendor, request).Return(nil)

	rec := do(router, http.MethodPost, "/api/v1/auth/vendor/signup", jsonBody(t, request))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, models.StatusSuccess, resp.Status)
	assert.Equal(t, msgOTPSentToEmail, resp.Message)
}

func TestSignup_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "invalid json", body: "{", wantStatus: http.StatusBadRequest},
		{name: "duplicate email", body: `{"email":"a@b.co"}`, err: store.ErrDuplicateEmail, wantStatus: http.StatusBadRequest},
		{name: "mail failure", body: `{"email":"a@b.co"}`, err: service.ErrEmailDeliveryFailed, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t, "development")
			if tt.err != nil {
				m.auth.EXPECT().Signup(gomock.Any(), models.KindUser, gomock.Any()).Return(tt.err)
			}

			rec := do(router, http.MethodPost, "/api/v1/auth/user/signup", strings.NewReader(tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestUnknownKind(t *testing.T) {
	router, _ := newTestRouter(t, "development")

	rec := do(router, http.MethodPost, "/api/v1/auth/admin/signup", strings.NewReader(`{}`))

	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, models.StatusFail, resp.Status)
	assert.Equal(t, "Can't find /api/v1/auth/admin/signup on this server!", resp.Message)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	router, _ := newTestRouter(t, "development")

	rec := do(router, http.MethodGet, "/api/v1/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, http.MethodDelete, "/api/v1/products/nearby", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeResponse(t, rec).Message, "/api/v1/products/nearby")
}

func TestVerifyEmail_SetsSession(t *testing.T) {
	router, m := newTestRouter(t, "development")

	m.auth.EXPECT().
		VerifyEmail(gomock.Any(), models.VerifyEmailRequest{Email: "a@b.co", OTP: "123456"}).
		Return(authResult(models.KindUser), nil)

	rec := do(router, http.MethodPost, "/api/v1/auth/user/verifyEmail", strings.NewReader(`{"email":"a@b.co","otp":"123456"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, msgEmailVerified, resp.Message)
	assert.Equal(t, "signed.jwt.token", resp.Token)

	cookie := jwtCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, "signed.jwt.token", cookie.Value)
}

func TestLogin_Cookie(t *testing.T) {
	for _, env := range []string{"development", config.EnvProduction} {
		t.Run(env, func(t *testing.T) {
			router, m := newTestRouter(t, env)
			m.auth.EXPECT().Login(gomock.Any(), models.LoginRequest{Email: "a@b.co", Password: "pw"}).
				Return(authResult(models.KindUser), nil)

			rec := do(router, http.MethodPost, "/api/v1/auth/user/login", strings.NewReader(`{"email":"a@b.co","password":"pw"}`))

			require.Equal(t, http.StatusOK, rec.Code)
			cookie := jwtCookie(rec)
			require.NotNil(t, cookie)
			assert.True(t, cookie.HttpOnly)
			assert.Equal(t, "/", cookie.Path)
			assert.Equal(t, env == config.EnvProduction, cookie.Secure)
			assert.Equal(t, 90*24*60*60, cookie.MaxAge)

			resp := decodeResponse(t, rec)
			user := resp.Data.(map[string]any)["user"].(map[string]any)
			assert.Equal(t, "id-1", user["id"])
			assert.NotContains(t, user, "PasswordHash")
		})
	}
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		err         error
		wantStatus  int
		wantStatusS string
		wantMessage string
	}{
		{
			name:        "bad credentials",
			err:         service.ErrInvalidCredentials,
			wantStatus:  http.StatusUnauthorized,
			wantStatusS: models.StatusFail,
			wantMessage: service.ErrInvalidCredentials.Error(),
		},
		{
			name:        "missing credentials",
			err:         service.ErrMissingCredentials,
			wantStatus:  http.StatusBadRequest,
			wantStatusS: models.StatusFail,
			wantMessage: service.ErrMissingCredentials.Error(),
		},
		{
			name:        "unverified",
			err:         service.ErrEmailNotVerified,
			wantStatus:  http.StatusUnauthorized,
			wantStatusS: models.StatusFail,
			wantMessage: service.ErrEmailNotVerified.Error(),
		},
		{
			name:        "internal error shown in development",
			env:         "development",
			err:         errors.New("db down"),
			wantStatus:  http.StatusInternalServerError,
			wantStatusS: models.StatusError,
			wantMessage: "db down",
		},
		{
			name:        "internal error hidden in production",
			env:         config.EnvProduction,
			err:         errors.New("db down"),
			wantStatus:  http.StatusInternalServerError,
			wantStatusS: models.StatusError,
			wantMessage: genericServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t, tt.env)
			m.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := do(router, http.MethodPost, "/api/v1/auth/user/login", strings.NewReader(`{}`))

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeResponse(t, rec)
			assert.Equal(t, tt.wantStatusS, resp.Status)
			assert.Equal(t, tt.wantMessage, resp.Message)
			assert.Nil(t, jwtCookie(rec))
		})
	}
}

func TestLogout(t *testing.T) {
	router, _ := newTestRouter(t, "development")

	rec := do(router, http.MethodGet, "/api/v1/auth/vendor/logout", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := jwtCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, models.LoggedOutToken, cookie.Value)
	assert.Equal(t, 10, cookie.MaxAge)
	assert.Equal(t, msgLoggedOut, decodeResponse(t, rec).Message)
}

func TestMobileOTP(t *testing.T) {
	router, m := newTestRouter(t, "development")

	m.auth.EXPECT().SendMobileOTP(gomock.Any(), models.MobileOTPRequest{PhoneNumber: "+15550001111"}).Return(nil)
	m.auth.EXPECT().VerifyMobileOTP(gomock.Any(), models.MobileOTPRequest{PhoneNumber: "+15550001111", OTP: "111111"}).
		Return(authResult(models.KindUser), nil)

	rec := do(router, http.MethodPost, "/api/v1/auth/user/loginmobile", strings.NewReader(`{"phoneNumber":"+15550001111"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgOTPSentToPhone, decodeResponse(t, rec).Message)

	rec = do(router, http.MethodPost, "/api/v1/auth/user/verifyotplogin", strings.NewReader(`{"phoneNumber":"+15550001111","otp":"111111"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, jwtCookie(rec))
}

func TestPasswordReset(t *testing.T) {
	router, m := newTestRouter(t, "development")

	m.auth.EXPECT().ForgotPassword(gomock.Any(), models.KindVendor, "v@b.co").Return(nil)
	m.auth.EXPECT().
		ResetPassword(gomock.Any(), "abc123", models.PasswordResetRequest{Password: "newpass123", PasswordConfirm: "newpass123"}).
		Return(authResult(models.KindVendor), nil)

	rec := do(router, http.MethodPost, "/api/v1/auth/vendor/forgotpassword", strings.NewReader(`{"email":"v@b.co"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, msgResetTokenSent, decodeResponse(t, rec).Message)

	rec = do(router, http.MethodPost, "/api/v1/auth/vendor/resetpassword/abc123",
		strings.NewReader(`{"password":"newpass123","passwordConfirm":"newpass123"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, jwtCookie(rec))
}

func TestResetPassword_ExpiredToken(t *testing.T) {
	router, m := newTestRouter(t, "development")
	m.auth.EXPECT().ResetPassword(gomock.Any(), "old", gomock.Any()).Return(nil, service.ErrInvalidOrExpiredToken)

	rec := do(router, http.MethodPost, "/api/v1/auth/user/resetpassword/old", strings.NewReader(`{}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---------------------------------------------------------------------------
// Authorization gate
// ---------------------------------------------------------------------------

func TestProtect(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		m.auth.EXPECT().Authenticate(gomock.Any(), "").Return(nil, models.Token{}, service.ErrUnauthenticated)

		rec := do(router, http.MethodPatch, "/api/v1/auth/user/updatemypassword", strings.NewReader(`{}`))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("stale password", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		m.auth.EXPECT().Authenticate(gomock.Any(), "tok").Return(nil, models.Token{}, service.ErrStalePassword)

		rec := do(router, http.MethodPatch, "/api/v1/auth/user/updatemypassword", strings.NewReader(`{}`), bearer...)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("cookie fallback", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		user := identity(models.KindUser, models.RoleUser)
		authenticateAs(m, user)
		m.auth.EXPECT().UpdatePassword(gomock.Any(), user, gomock.Any()).Return(authResult(models.KindUser), nil)

		req := httptest.NewRequest(http.MethodPatch, "/api/v1/auth/user/updatemypassword", strings.NewReader(`{}`))
		req.AddCookie(&http.Cookie{Name: "jwt", Value: "tok"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("kind mismatch", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		authenticateAs(m, identity(models.KindUser, models.RoleUser))

		rec := do(router, http.MethodPatch, "/api/v1/auth/vendor/updatemypassword", strings.NewReader(`{}`), bearer...)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestTokenFromRequest(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{name: "bearer", header: "Bearer abc", want: "abc"},
		{name: "bearer wins over cookie", header: "Bearer abc", cookie: "def", want: "abc"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "other scheme falls back to cookie", header: "Basic xyz", cookie: "def", want: "def"},
		{name: "cookie only", cookie: "def", want: "def"},
		{name: "nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "jwt", Value: tt.cookie})
			}
			assert.Equal(t, tt.want, tokenFromRequest(req))
		})
	}
}

func TestApproveVendor(t *testing.T) {
	t.Run("admin", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		authenticateAs(m, identity(models.KindUser, models.RoleAdmin))
		m.auth.EXPECT().ApproveVendor(gomock.Any(), "vendor-1").Return(nil)

		rec := do(router, http.MethodPatch, "/api/v1/auth/user/vendor-1/approve", nil, bearer...)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, msgVendorApproved, decodeResponse(t, rec).Message)
	})

	t.Run("plain user is forbidden", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		authenticateAs(m, identity(models.KindUser, models.RoleUser))

		rec := do(router, http.MethodPatch, "/api/v1/auth/user/vendor-1/approve", nil, bearer...)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown vendor", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		authenticateAs(m, identity(models.KindUser, models.RoleSuperAdmin))
		m.auth.EXPECT().ApproveVendor(gomock.Any(), "missing").Return(store.ErrIdentityNotFound)

		rec := do(router, http.MethodPatch, "/api/v1/auth/user/missing/approve", nil, bearer...)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRequestAccountDeletion(t *testing.T) {
	router, m := newTestRouter(t, "development")
	user := identity(models.KindUser, models.RoleUser)
	authenticateAs(m, user)

	expires := time.Date(2026, 11, 16, 10, 0, 0, 0, time.UTC)
	m.auth.EXPECT().RequestAccountDeletion(gomock.Any(), user).Return(expires, nil)

	rec := do(router, http.MethodPost, "/api/v1/auth/user/requestAccountDeletion", nil, bearer...)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeResponse(t, rec).Message, "2026-11-16T10:00:00Z")
}

// ---------------------------------------------------------------------------
// Profile
// ---------------------------------------------------------------------------

type formFile struct {
	field, name, content string
}

func multipartBody(t *testing.T, values map[string]string, files ...formFile) (io.Reader, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+f.field+`"; filename="`+f.name+`"`)
		header.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestCompleteProfile(t *testing.T) {
	router, m := newTestRouter(t, "development")
	vendor := identity(models.KindVendor, models.RoleVendor)
	authenticateAs(m, vendor)

	body, contentType := multipartBody(t,
		map[string]string{
			"firstName":          "Ada",
			"lastName":           "Lovelace",
			"companyName":        "Engines Ltd",
			"termsAndConditions": "true",
			"addresses":          `[{"type":"work","addressLine1":"Main 1","city":"Berlin","country":"DE"}]`,
		},
		formFile{field: "avatar", name: "me.png", content: "png"},
		formFile{field: "proofOfOwnership", name: "deed.pdf", content: "deed"},
		formFile{field: "complianceDocuments", name: "c1.pdf", content: "c1"},
		formFile{field: "complianceDocuments", name: "c2.pdf", content: "c2"},
	)

	m.profile.EXPECT().CompleteProfile(gomock.Any(), vendor, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *models.Identity, request models.CompleteProfileRequest) (*models.Identity, error) {
			assert.Equal(t, "Ada", request.FirstName)
			assert.Equal(t, "Engines Ltd", request.CompanyName)
			assert.True(t, request.TermsAndConditions)
			require.Len(t, request.Addresses, 1)
			assert.Equal(t, models.AddressWork, request.Addresses[0].Type)

			require.NotNil(t, request.Avatar)
			assert.Equal(t, "me.png", request.Avatar.Filename)
			content, err := io.ReadAll(request.Avatar.Body)
			require.NoError(t, err)
			assert.Equal(t, "png", string(content))

			assert.Len(t, request.Documents[models.DocumentProofOfOwnership], 1)
			assert.Len(t, request.Documents[models.DocumentCompliance], 2)
			assert.NotContains(t, request.Documents, models.DocumentInsuranceCertificate)

			return vendor, nil
		})

	rec := do(router, http.MethodPut, "/api/v1/auth/vendor/complete-profile", body, append(bearer, "Content-Type", contentType)...)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, msgProfileCompleted, decodeResponse(t, rec).Message)
}

func TestCompleteProfile_BadForm(t *testing.T) {
	t.Run("not multipart", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		authenticateAs(m, identity(models.KindUser, models.RoleUser))

		rec := do(router, http.MethodPut, "/api/v1/auth/user/complete-profile", strings.NewReader(`{}`), bearer...)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("addresses not json", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		authenticateAs(m, identity(models.KindUser, models.RoleUser))
		body, contentType := multipartBody(t, map[string]string{"addresses": "home"})

		rec := do(router, http.MethodPut, "/api/v1/auth/user/complete-profile", body, append(bearer, "Content-Type", contentType)...)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, ErrInvalidAddresses.Error(), decodeResponse(t, rec).Message)
	})
}

func TestUpdateProfilePic(t *testing.T) {
	router, m := newTestRouter(t, "development")
	user := identity(models.KindUser, models.RoleUser)
	authenticateAs(m, user)

	body, contentType := multipartBody(t, nil, formFile{field: "avatar", name: "new.png", content: "x"})
	m.profile.EXPECT().UpdateProfilePic(gomock.Any(), user, gomock.Not(gomock.Nil())).Return("https://cdn/avatars/id-1/new.png", nil)

	rec := do(router, http.MethodPatch, "/api/v1/auth/user/profile-pic", body, append(bearer, "Content-Type", contentType)...)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.Equal(t, msgAvatarUpdated, resp.Message)
	assert.Equal(t, "https://cdn/avatars/id-1/new.png", resp.Data.(map[string]any)["avatar"])
}

func TestUpdateMe(t *testing.T) {
	router, m := newTestRouter(t, "development")
	user := identity(models.KindUser, models.RoleUser)
	authenticateAs(m, user)

	m.profile.EXPECT().UpdateMe(gomock.Any(), user, map[string]any{"password": "x"}).Return(nil, service.ErrPasswordUpdateNotAllowed)

	rec := do(router, http.MethodPatch, "/api/v1/auth/user/updateMe", strings.NewReader(`{"password":"x"}`), bearer...)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ---------------------------------------------------------------------------
// Addresses
// ---------------------------------------------------------------------------

func TestAddresses(t *testing.T) {
	router, m := newTestRouter(t, "development")
	vendor := identity(models.KindVendor, models.RoleVendor)
	authenticateAs(m, vendor)

	stored := models.Address{ID: "a1", Type: models.AddressHome, City: "Berlin", Location: models.NewPoint(13.4, 52.5)}
	m.address.EXPECT().List(gomock.Any(), vendor).Return([]models.Address{stored})
	m.address.EXPECT().Add(gomock.Any(), vendor, gomock.Any()).Return(stored, nil)
	m.address.EXPECT().Update(gomock.Any(), vendor, "a1", models.AddressInput{Alias: "home"}).Return(stored, nil)
	m.address.EXPECT().Delete(gomock.Any(), vendor, "zz").Return(service.ErrAddressNotFound)

	rec := do(router, http.MethodGet, "/api/v1/vendors/addresses", nil, bearer...)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Results)
	assert.Equal(t, 1, *resp.Results)

	rec = do(router, http.MethodPost, "/api/v1/vendors/addresses", strings.NewReader(`{"type":"home"}`), bearer...)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodPatch, "/api/v1/vendors/addresses/a1", strings.NewReader(`{"alias":"home"}`), bearer...)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, http.MethodDelete, "/api/v1/vendors/addresses/zz", nil, bearer...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddresses_KindMismatch(t *testing.T) {
	router, m := newTestRouter(t, "development")
	authenticateAs(m, identity(models.KindVendor, models.RoleVendor))

	rec := do(router, http.MethodGet, "/api/v1/users/addresses", nil, bearer...)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAddressFromCoordinates(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setup      func(m *mocks)
		wantStatus int
	}{
		{
			name:  "found",
			query: "lat=52.5&lng=13.4",
			setup: func(m *mocks) {
				m.address.EXPECT().ReverseGeocode(gomock.Any(), models.NewPoint(13.4, 52.5)).Return("Berlin, DE", nil)
			},
			wantStatus: http.StatusOK,
		},
		{name: "missing lat", query: "lng=13.4", wantStatus: http.StatusBadRequest},
		{
			name:  "nothing there",
			query: "lat=0&lng=0",
			setup: func(m *mocks) {
				m.address.EXPECT().ReverseGeocode(gomock.Any(), gomock.Any()).Return("", service.ErrLocationNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newTestRouter(t, "development")
			if tt.setup != nil {
				tt.setup(m)
			}

			rec := do(router, http.MethodGet, "/api/v1/auth/getAddressFromCoordinates?"+tt.query, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

func TestNearbyProducts(t *testing.T) {
	t.Run("empty result is ok", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		m.product.EXPECT().
			Nearby(gomock.Any(), models.NearbyQuery{Center: models.NewPoint(13.4, 52.5), RadiusKm: 5}).
			Return([]models.Product{}, nil)

		rec := do(router, http.MethodGet, "/api/v1/products/nearby?lng=13.4&lat=52.5&radius=5", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.NotNil(t, resp.Results)
		assert.Equal(t, 0, *resp.Results)
		assert.Equal(t, []any{}, resp.Data.(map[string]any)["products"])
	})

	t.Run("default radius is left to the service", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		m.product.EXPECT().
			Nearby(gomock.Any(), models.NearbyQuery{Center: models.NewPoint(1, 2)}).
			Return([]models.Product{{ID: "p1"}}, nil)

		rec := do(router, http.MethodGet, "/api/v1/products/nearby?lng=1&lat=2", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, *decodeResponse(t, rec).Results)
	})

	t.Run("bad radius", func(t *testing.T) {
		router, _ := newTestRouter(t, "development")

		rec := do(router, http.MethodGet, "/api/v1/products/nearby?lng=1&lat=2&radius=-3", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateProduct(t *testing.T) {
	t.Run("vendor", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		vendor := identity(models.KindVendor, models.RoleVendor)
		authenticateAs(m, vendor)
		m.product.EXPECT().
			Create(gomock.Any(), vendor, models.CreateProductRequest{ModelName: "Drill", PricePerDay: 9.5}).
			Return(&models.Product{ID: "p1", ModelName: "Drill"}, nil)

		rec := do(router, http.MethodPost, "/api/v1/products", strings.NewReader(`{"modelName":"Drill","pricePerDay":9.5}`), bearer...)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("user is forbidden", func(t *testing.T) {
		router, m := newTestRouter(t, "development")
		authenticateAs(m, identity(models.KindUser, models.RoleUser))

		rec := do(router, http.MethodPost, "/api/v1/products", strings.NewReader(`{}`), bearer...)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestApproveProduct(t *testing.T) {
	router, m := newTestRouter(t, "development")
	authenticateAs(m, identity(models.KindUser, models.RoleAdmin))
	m.product.EXPECT().Approve(gomock.Any(), "p1").Return(store.ErrProductNotFound)

	rec := do(router, http.MethodPatch, "/api/v1/products/p1/approve", nil, bearer...)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---------------------------------------------------------------------------
// Misc
// ---------------------------------------------------------------------------

func TestGetServerVersion(t *testing.T) {
	router, m := newTestRouter(t, "development")
	m.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("v1.2.3")

	rec := do(router, http.MethodGet, "/api/version/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1.2.3", rec.Body.String())
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
}

func TestTraceIDHeader(t *testing.T) {
	router, m := newTestRouter(t, "development")
	m.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("v").Times(2)

	rec := do(router, http.MethodGet, "/api/version/", nil, "X-Trace-ID", "trace-123")
	assert.Equal(t, "trace-123", rec.Header().Get(traceIDHeader))

	rec = do(router, http.MethodGet, "/api/version/", nil)
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidJSON, http.StatusBadRequest},
		{service.ErrMissingCredentials, http.StatusBadRequest},
		{store.ErrDuplicatePhone, http.StatusBadRequest},
		{service.ErrIdentityGone, http.StatusUnauthorized},
		{service.ErrAccountDeleted, http.StatusUnauthorized},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrAddressNotFound, http.StatusNotFound},
		{store.ErrVersionConflict, http.StatusConflict},
		{service.ErrSMSDeliveryFailed, http.StatusInternalServerError},
		{service.ErrTokenCreationFailed, http.StatusInternalServerError},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, "info", levelForStatus(http.StatusOK).String())
	assert.Equal(t, "warn", levelForStatus(http.StatusNotFound).String())
	assert.Equal(t, "error", levelForStatus(http.StatusBadGateway).String())
}
