package wire

import (
	"net/http"

	"costume-rental/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAvailability(
	r chi.Router,
	availabilityHandler *adaptor.AvailabilityHandler,
	costumeHandler *adaptor.CostumeHandler,
	admin func(http.Handler) http.Handler,
) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/availability - Check a range or list blocks of a costume
	r.Get("/api/availability", availabilityHandler.CheckAvailability)

	// GET /api/costumes/{id}/quote - Season rules and price for a prospective rental
	r.Get("/api/costumes/{id}/quote", costumeHandler.GetQuote)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(admin)

		r.Post("/api/availability", availabilityHandler.CreateBlock)
		r.Delete("/api/availability", availabilityHandler.DeleteBlock)
	})
}
