package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/httperr"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AdminHandler is the staff surface: review pending bookings and move
// reservations through their lifecycle.
type AdminHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewAdminHandler(reservationCommands commands.ReservationCommands, reservationQueries queries.ReservationQueries) *AdminHandler {
	return &AdminHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary List pending reservations
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.ReservationResponse
// @Failure 401 {object} map[string]string
// @Router /admin/reservations/pending [get]
func (h *AdminHandler) ListPending(c *gin.Context) {
	views, err := h.reservationQueries.ListPending(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}

// @Summary Confirm reservation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/reservations/{id}/confirm [post]
func (h *AdminHandler) Confirm(c *gin.Context) {
	h.transition(c, "confirm", h.reservationCommands.Confirm)
}

// @Summary Cancel reservation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/reservations/{id}/cancel [post]
func (h *AdminHandler) Cancel(c *gin.Context) {
	h.transition(c, "cancel", h.reservationCommands.Cancel)
}

// @Summary Stop reservation
// @Description Mark a confirmed reservation as over, freeing the table
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} resdto.ReservationResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/reservations/{id}/stop [post]
func (h *AdminHandler) Stop(c *gin.Context) {
	h.transition(c, "stop", h.reservationCommands.Stop)
}

func (h *AdminHandler) transition(
	c *gin.Context,
	action string,
	move func(ctx context.Context, id uuid.UUID) (*queries.ReservationView, error),
) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid reservation ID format", nil)
		return
	}

	view, err := move(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Reservation not found", nil)
		case errors.Is(err, commands.ErrInvalidTransition):
			httperr.AbortWithError(c, http.StatusConflict, err, "Reservation status does not allow this action", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	if email, ok := middleware.GetAdminEmail(c); ok {
		slog.Info("reservation status changed by staff",
			"action", action, "reservation_id", id, "admin", email)
	}

	c.JSON(http.StatusOK, resdto.FromReservationView(view))
}
