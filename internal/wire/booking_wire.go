package wire

import (
	"net/http"

	"costume-rental/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	refundHandler *adaptor.RefundHandler,
	admin func(http.Handler) http.Handler,
) {
	// ==================== PUBLIC ROUTES ====================
	// POST /api/bookings - Place a hold
	r.Post("/api/bookings", bookingHandler.CreateBooking)

	// GET /api/bookings/reference/{ref} - Look up own booking
	r.Get("/api/bookings/reference/{ref}", bookingHandler.GetBookingByReference)

	// POST /api/bookings/reference/{ref}/cancel - Customer cancel, email must match
	r.Post("/api/bookings/reference/{ref}/cancel", bookingHandler.CancelBookingByReference)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(admin)

		r.Get("/api/bookings", bookingHandler.ListBookings)

		r.Route("/api/bookings/{id}", func(r chi.Router) {
			r.Get("/", bookingHandler.GetBooking)
			r.Patch("/", bookingHandler.UpdateBookingStatus)
			r.Put("/", bookingHandler.UpdateBooking)
			r.Delete("/", bookingHandler.DeleteBooking)

			r.Patch("/return", bookingHandler.ReturnBooking)

			r.Get("/refund", refundHandler.GetRefund)
			r.Patch("/refund", refundHandler.ProcessRefund)
		})
	})
}
