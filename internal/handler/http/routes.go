package http

import (
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-rental-market/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// compressionLevel is the gzip level used for JSON responses.
const compressionLevel = 5

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(middleware.Compress(compressionLevel, "application/json", "text/plain"))

	router.NotFound(h.notFound)
	router.MethodNotAllowed(h.notFound)

	router.Get("/api/version/", h.getServerVersion)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", h.authRoutes)

		for _, kind := range []models.Kind{models.KindUser, models.KindVendor} {
			r.Route(fmt.Sprintf("/%ss/addresses", kind), func(r chi.Router) {
				r.Use(h.withFixedKind(kind))
				r.Use(h.protect)

				r.Get("/", h.listAddresses)
				r.Post("/", h.addAddress)
				r.Patch("/{addressId}", h.updateAddress)
				r.Delete("/{addressId}", h.deleteAddress)
			})
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/nearby", h.nearbyProducts)
			r.With(h.protect, h.restrictTo(models.RoleVendor)).Post("/", h.createProduct)
			r.With(h.protect, h.restrictTo(models.RoleAdmin, models.RoleSuperAdmin)).
				Patch("/{productId}/approve", h.approveProduct)
		})
	})

	return router
}

func (h *Handler) authRoutes(r chi.Router) {
	r.Get("/getAddressFromCoordinates", h.addressFromCoordinates)
	r.With(h.protect, h.restrictTo(models.RoleAdmin, models.RoleSuperAdmin)).
		Patch("/user/{vendorId}/approve", h.approveVendor)

	r.Route("/{kind}", func(r chi.Router) {
		r.Use(h.withKind)

		r.Post("/signup", h.signup)
		r.Post("/resendEmailVerification", h.resendEmailVerification)
		r.Post("/verifyEmail", h.verifyEmail)
		r.Post("/login", h.login)
		r.Post("/loginmobile", h.loginMobile)
		r.Post("/verifyotplogin", h.verifyOTPLogin)
		r.Get("/logout", h.logout)
		r.Post("/forgotpassword", h.forgotPassword)
		r.Post("/resetpassword/{token}", h.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(h.protect)

			r.Put("/complete-profile", h.completeProfile)
			r.Patch("/profile-pic", h.updateProfilePic)
			r.Patch("/updateMe", h.updateMe)
			r.Patch("/updatemypassword", h.updateMyPassword)
			r.Post("/requestAccountDeletion", h.requestAccountDeletion)
		})
	})
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusNotFound, models.Response{
		Status:  models.StatusFail,
		Message: fmt.Sprintf("Can't find %s on this server!", r.URL.Path),
	})
}
