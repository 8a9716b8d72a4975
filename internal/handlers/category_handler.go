package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/docbid-api/internal/models"
	"github.com/harentsoaR/docbid-api/internal/store"
	"github.com/harentsoaR/docbid-api/internal/utils"
)

type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.Store.ListCategories(c.Request.Context())
	respondList(c, categories, err)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	category, err := h.Store.GetCategory(c.Request.Context(), id)
	respondOne(c, category, err, "Category not found")
}

// CreateCategory handles POST /categories (authenticated).
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		utils.WriteError(c, http.StatusBadRequest, utils.CodeInvalidRequest, "Invalid request body")
		return
	}

	category := &models.Category{Name: name}
	err := h.Store.CreateCategory(c.Request.Context(), category)
	if errors.Is(err, store.ErrDuplicate) {
		utils.WriteError(c, http.StatusBadRequest, utils.CodeCategoryExists, "A category with this name already exists")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}
