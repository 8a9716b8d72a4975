package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/docbid-api/internal/middleware"
	"github.com/harentsoaR/docbid-api/internal/services"
	"github.com/harentsoaR/docbid-api/internal/store"
	"github.com/harentsoaR/docbid-api/internal/utils"
)

// Handler carries the dependencies every endpoint needs.
type Handler struct {
	Store           store.Store
	Auth            *services.AuthService
	NotificationSvc *services.NotificationService
}

func NewHandler(st store.Store, auth *services.AuthService, notificationSvc *services.NotificationService) *Handler {
	return &Handler{
		Store:           st,
		Auth:            auth,
		NotificationSvc: notificationSvc,
	}
}

// parseID reads the numeric :id path parameter. Anything non-numeric is
// rejected with 400; numbers that match nothing become a 404 later.
func parseID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.WriteError(c, http.StatusBadRequest, utils.CodeInvalidID, "Invalid id")
		return 0, false
	}
	return id, true
}

// fail logs the underlying error and answers with the generic failure.
func fail(c *gin.Context, err error) {
	log.Printf("[%s] %s %s: %v", middleware.RequestID(c), c.Request.Method, c.FullPath(), err)
	utils.WriteError(c, http.StatusBadRequest, utils.CodeRequestFailed, "Request could not be processed")
}

func respondList[T any](c *gin.Context, records []T, err error) {
	if err != nil {
		fail(c, err)
		return
	}
	if records == nil {
		records = make([]T, 0)
	}
	c.JSON(http.StatusOK, records)
}

func respondOne[T any](c *gin.Context, record *T, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.WriteError(c, http.StatusNotFound, utils.CodeNotFound, notFound)
	case err != nil:
		fail(c, err)
	default:
		c.JSON(http.StatusOK, record)
	}
}

func invalidBody(c *gin.Context, err error) {
	log.Printf("[%s] invalid body on %s: %v", middleware.RequestID(c), c.FullPath(), err)
	utils.WriteError(c, http.StatusBadRequest, utils.CodeInvalidRequest, "Invalid request body")
}
