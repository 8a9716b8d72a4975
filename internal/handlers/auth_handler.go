package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/docbid-api/internal/models"
	"github.com/harentsoaR/docbid-api/internal/services"
	"github.com/harentsoaR/docbid-api/internal/utils"
)

type SignUpRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	UserName  string `json:"userName"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Bio       string `json:"bio"`
	Phone     string `json:"phone"`
	Avatar    string `json:"avatar"`
	IsDoctor  bool   `json:"isDoctor"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// SignUp handles POST /sign-up.
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	user, token, err := h.Auth.SignUp(c.Request.Context(), services.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		UserName:  req.UserName,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Bio:       req.Bio,
		Phone:     req.Phone,
		Avatar:    req.Avatar,
		IsDoctor:  req.IsDoctor,
	})
	if errors.Is(err, services.ErrEmailTaken) {
		utils.WriteError(c, http.StatusBadRequest, utils.CodeEmailTaken, "An account with this email already exists")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}

// Login handles POST /login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, err)
		return
	}

	user, token, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		utils.WriteError(c, http.StatusBadRequest, utils.CodeInvalidCredentials, "Invalid credentials")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{User: user, Token: token})
}

// Validate handles GET /validate: the authorization header's token is
// resolved back to the user it was issued for.
func (h *Handler) Validate(c *gin.Context) {
	token := utils.TokenFromHeader(c.GetHeader("Authorization"))
	user, err := h.Auth.Validate(c.Request.Context(), token)
	if errors.Is(err, services.ErrInvalidToken) {
		utils.WriteError(c, http.StatusBadRequest, utils.CodeInvalidToken, "Invalid or expired token")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
