package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/docbid-api/internal/middleware"
	"github.com/harentsoaR/docbid-api/internal/models"
	"github.com/harentsoaR/docbid-api/internal/store"
	"github.com/harentsoaR/docbid-api/internal/utils"
)

type CreateBidRequest struct {
	AppointmentID int     `json:"appointmentId" binding:"required,gt=0"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Message       string  `json:"message"`
}

// GetBids lists bids with their bidder and appointment.
func (h *Handler) GetBids(c *gin.Context) {
	bids, err := h.Store.ListBids(c.Request.Context())
	respondList(c, bids, err)
}

func (h *Handler) GetBid(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	bid, err := h.Store.GetBid(c.Request.Context(), id)
	respondOne(c, bid, err, "Bid not found")
}

// CreateBid handles POST /bids. A regular user bids on someone else's
// appointment; the poster gets an SMS.
func (h *Handler) CreateBid(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.WriteError(c, http.StatusUnauthorized, utils.CodeInvalidToken, "User not authenticated")
		return
	}
	if user.IsDoctor {
		utils.WriteError(c, http.StatusForbidden, utils.CodeForbidden, "Only regular users can place bids")
		return
	}

	var req CreateBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	apt, err := h.Store.GetAppointment(c.Request.Context(), req.AppointmentID)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(c, http.StatusBadRequest, utils.CodeInvalidReference, "Appointment does not exist")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	if apt.UserID == user.ID {
		utils.WriteError(c, http.StatusForbidden, utils.CodeForbidden, "You cannot bid on your own appointment")
		return
	}

	bid := &models.Bid{
		Amount:        req.Amount,
		Message:       req.Message,
		UserID:        user.ID,
		AppointmentID: apt.ID,
	}
	err = h.Store.CreateBid(c.Request.Context(), bid)
	if errors.Is(err, store.ErrInvalidReference) {
		utils.WriteError(c, http.StatusBadRequest, utils.CodeInvalidReference, "Appointment does not exist")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	// --- NOTIFICATION ---
	h.NotificationSvc.NotifyNewBid(apt.User, apt, bid)

	c.JSON(http.StatusCreated, bid)
}
