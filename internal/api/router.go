package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sicada/admin-service/internal/entity"
)

func NewRouter(h *Handler, mw *Middleware) http.Handler {
	router := chi.NewRouter()

	router.Use(mw.Log, mw.Recover, mw.Cors, mw.WithIP)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Post("/auth/login", h.Login)
		r.Post("/tickets/user-request", h.SubmitUserRequest)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth)

			r.Route("/auth", func(r chi.Router) {
				r.Get("/profile", h.Profile)
				r.Put("/profile", h.UpdateProfile)
				r.Put("/change-password", h.ChangePassword)
				r.Post("/logout", h.Logout)
				r.Get("/verify", h.Verify)

				r.With(mw.RequireRoles(entity.RoleAdmin)).Post("/register", h.Register)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", h.Users)
				r.Get("/portal/{portal}", h.UsersByPortal)
				r.Get("/{id}", h.UserByID)
				r.Put("/{id}", h.UpdateUser)
				r.Patch("/{id}/status", h.UpdateUserStatus)
				r.Delete("/{id}", h.DeleteUser)

				r.With(mw.RequireRoles(entity.RoleAdmin)).Get("/stats/overview", h.UserStats)
			})

			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", h.Tickets)
				r.Post("/", h.CreateTicket)
				r.Get("/stats/overview", h.TicketStats)
				r.Get("/portal/{portal}", h.TicketsByPortal)
				r.Get("/{id}", h.TicketByID)
				r.Put("/{id}", h.UpdateTicket)
				r.Patch("/{id}/status", h.UpdateTicketStatus)
				r.Patch("/{id}/assign", h.AssignTicket)
				r.Delete("/{id}", h.DeleteTicket)
				r.Post("/{id}/approve-user", h.ApproveUserRequest)
			})

			r.Route("/parking-requests", func(r chi.Router) {
				// any authenticated portal may submit a request; the
				// review surface stays wilaya-only
				r.Post("/", h.CreateParkingRequest)

				r.Group(func(r chi.Router) {
					r.Use(mw.RequirePortals(entity.PortalWilaya))

					r.Get("/", h.ParkingRequests)
					r.Get("/stats/overview", h.ParkingRequestStats)
					r.Get("/{id}", h.ParkingRequestByID)
					r.Put("/{id}", h.UpdateParkingRequest)
					r.Delete("/{id}", h.DeleteParkingRequest)

					r.With(mw.RequireRoles(entity.RoleAdmin)).Patch("/{id}/status", h.UpdateParkingRequestStatus)
				})
			})

			r.Route("/parking-locations", func(r chi.Router) {
				r.Use(mw.RequirePortals(entity.PortalWilaya))

				r.Get("/", h.ParkingLocations)
				r.Post("/", h.CreateParkingLocation)
				r.Get("/stats/overview", h.ParkingLocationStats)
				r.Get("/{id}", h.ParkingLocationByID)
				r.Put("/{id}", h.UpdateParkingLocation)
				r.Patch("/{id}/status", h.UpdateParkingLocationStatus)
				r.Patch("/{id}/spaces", h.UpdateAvailableSpaces)
				r.Delete("/{id}", h.DeleteParkingLocation)
			})

			r.Get("/activities", h.Activities)

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/stats", h.DashboardStats)
				r.With(mw.RequirePortals(entity.PortalWilaya)).Get("/wilaya", h.WilayaDashboard)
			})
		})
	})

	return router
}
