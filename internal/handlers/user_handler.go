package handlers

import (
	"github.com/gin-gonic/gin"
)

// GetUsers lists regular users with the appointments they posted.
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context(), false)
	respondList(c, users, err)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	user, err := h.Store.GetUser(c.Request.Context(), id)
	respondOne(c, user, err, "User not found")
}

// GetDoctors lists doctors with the appointments they accepted.
func (h *Handler) GetDoctors(c *gin.Context) {
	doctors, err := h.Store.ListUsers(c.Request.Context(), true)
	respondList(c, doctors, err)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	doctor, err := h.Store.GetUser(c.Request.Context(), id)
	respondOne(c, doctor, err, "Doctor not found")
}
