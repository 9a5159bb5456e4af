package api

import (
	"errors"
	"net/http"
	"strconv"

	"tablebook/internal/domain/reservation"
	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/httperr"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	reservationCommands commands.ReservationCommands
	reservationQueries  queries.ReservationQueries
}

func NewReservationHandler(reservationCommands commands.ReservationCommands, reservationQueries queries.ReservationQueries) *ReservationHandler {
	return &ReservationHandler{
		reservationCommands: reservationCommands,
		reservationQueries:  reservationQueries,
	}
}

// @Summary Create reservation
// @Description Book the smallest free table for the requested slot
// @Tags reservations
// @Accept json
// @Produce json
// @Param request body reqdto.CreateReservationRequest true "Reservation request"
// @Success 201 {object} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /reservations [post]
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var req reqdto.CreateReservationRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}
	req.Normalize()

	view, err := h.reservationCommands.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, reservation.ErrMisalignedSlot):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Start time must fall on a slot boundary", nil)
		case errors.Is(err, reservation.ErrInsufficientNotice):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Reservations require more advance notice", nil)
		case errors.Is(err, reservation.ErrSameDayNotAllowed):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Same-day reservations are not accepted", nil)
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid reservation details", nil)
		case errors.Is(err, commands.ErrDailyLimitReached):
			httperr.AbortWithError(c, http.StatusConflict, err, "Daily reservation limit reached, please try another day", nil)
		case errors.Is(err, commands.ErrNoTableAvailable):
			httperr.AbortWithError(c, http.StatusConflict, err, "No table available for the requested time", nil)
		case errors.Is(err, commands.ErrTableConflict):
			httperr.AbortWithError(c, http.StatusConflict, err, "Table was booked concurrently, please retry", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromReservationView(view))
}

// @Summary List guest reservations
// @Description Upcoming reservations for a chat account, soonest first
// @Tags reservations
// @Produce json
// @Param chat_id path int true "Chat ID"
// @Success 200 {array} resdto.ReservationResponse
// @Failure 400 {object} map[string]string
// @Router /users/{chat_id}/reservations [get]
func (h *ReservationHandler) GetUserReservations(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err == nil && chatID <= 0 {
		err = errors.New("chat id must be positive")
	}
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid chat ID format", nil)
		return
	}

	views, err := h.reservationQueries.ListForUser(c.Request.Context(), chatID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromReservationViews(views))
}
