package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("user"))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleAdmin))
	lessorAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleLessor))
	renterAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole(models.RoleRenter))

	mux := pat.New()

	mux.Get("/healthz", standardMiddleware.ThenFunc(app.healthz))

	// Navigation
	mux.Get("/nav", authMiddleware.ThenFunc(app.navHandler.GetNav))

	// Complaints
	mux.Post("/lessor/complaints", lessorAuthMiddleware.Append(app.rateLimit).ThenFunc(app.complaintHandler.SubmitLessorComplaint))
	mux.Post("/renter/complaints", renterAuthMiddleware.Append(app.rateLimit).ThenFunc(app.complaintHandler.SubmitRenterComplaint))
	mux.Get("/complaints", adminAuthMiddleware.ThenFunc(app.complaintHandler.GetAllComplaints))
	mux.Get("/complaints/:id", adminAuthMiddleware.ThenFunc(app.complaintHandler.GetComplaintByID))
	mux.Put("/complaints/:id", adminAuthMiddleware.ThenFunc(app.complaintHandler.UpdateComplaint))
	mux.Post("/complaints/:id/delete-confirmation", adminAuthMiddleware.ThenFunc(app.complaintHandler.RequestDeleteConfirmation))
	mux.Del("/complaints/:id/delete-confirmation", adminAuthMiddleware.ThenFunc(app.complaintHandler.DeclineDelete))
	mux.Del("/complaints/:id", adminAuthMiddleware.ThenFunc(app.complaintHandler.DeleteComplaintByID))

	// Lessors
	mux.Get("/lessors/:id", lessorAuthMiddleware.ThenFunc(app.lessorHandler.GetLessor))
	mux.Put("/lessors/:id", lessorAuthMiddleware.ThenFunc(app.lessorHandler.UpdateLessor))
	mux.Post("/lessors/:id/delete-confirmation", lessorAuthMiddleware.ThenFunc(app.lessorHandler.RequestDeleteConfirmation))
	mux.Del("/lessors/:id/delete-confirmation", lessorAuthMiddleware.ThenFunc(app.lessorHandler.DeclineDelete))
	mux.Del("/lessors/:id", lessorAuthMiddleware.ThenFunc(app.lessorHandler.DeleteLessor))
	mux.Post("/lessors/:id/image", lessorAuthMiddleware.ThenFunc(app.lessorHandler.UploadImage))

	// Parking lots & reservations
	mux.Get("/parking-lots/:id", authMiddleware.ThenFunc(app.parkingLotHandler.GetParkingLot))
	mux.Post("/reservations/quote", authMiddleware.ThenFunc(app.reservationHandler.QuoteReservation))
	mux.Post("/reservations", renterAuthMiddleware.Append(app.rateLimit).ThenFunc(app.reservationHandler.CreateReservation))

	// WebSocket
	mux.Get("/ws", alice.New(app.recoverPanic, app.logRequest).Append(app.JWTMiddlewareWithRole(models.RoleLessor)).ThenFunc(app.WebSocketHandler))

	return mux
}
