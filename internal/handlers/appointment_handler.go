package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/docbid-api/internal/middleware"
	"github.com/harentsoaR/docbid-api/internal/models"
	"github.com/harentsoaR/docbid-api/internal/store"
	"github.com/harentsoaR/docbid-api/internal/utils"
)

type CreateAppointmentRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Price       float64    `json:"price" binding:"gte=0"`
	ScheduledAt *time.Time `json:"scheduledAt"`
	CategoryID  int        `json:"categoryId" binding:"required,gt=0"`
}

// GetAppointments lists appointments with poster, doctor, category and bids.
func (h *Handler) GetAppointments(c *gin.Context) {
	appointments, err := h.Store.ListAppointments(c.Request.Context())
	respondList(c, appointments, err)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	appointment, err := h.Store.GetAppointment(c.Request.Context(), id)
	respondOne(c, appointment, err, "Appointment not found")
}

// CreateAppointment handles POST /appointements. Only regular users post.
func (h *Handler) CreateAppointment(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.WriteError(c, http.StatusUnauthorized, utils.CodeInvalidToken, "User not authenticated")
		return
	}
	if user.IsDoctor {
		utils.WriteError(c, http.StatusForbidden, utils.CodeForbidden, "Only regular users can post appointments")
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	apt := &models.Appointment{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ScheduledAt: req.ScheduledAt,
		UserID:      user.ID,
		CategoryID:  req.CategoryID,
	}
	err := h.Store.CreateAppointment(c.Request.Context(), apt)
	if errors.Is(err, store.ErrInvalidReference) {
		utils.WriteError(c, http.StatusBadRequest, utils.CodeInvalidReference, "Category does not exist")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, apt)
}
