package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/landbook/landbook/internal/accounts"
	"github.com/landbook/landbook/internal/apperr"
)

// AuthHandler serves registration, login and account endpoints.
type AuthHandler struct {
	accounts *accounts.Service
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *accounts.Service) *AuthHandler {
	return &AuthHandler{accounts: svc}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

// Register creates an account and returns a session.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if !bindJSON(c, &body) {
		return
	}
	session, errRegister := h.accounts.Register(c.Request.Context(), accounts.RegisterInput{
		Name:     body.Name,
		Email:    body.Email,
		Mobile:   body.Mobile,
		Address:  body.Address,
		Password: body.Password,
	})
	if errRegister != nil {
		respondError(c, errRegister, apperr.MsgRegisterFailed)
		return
	}
	c.JSON(http.StatusCreated, session)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if !bindJSON(c, &body) {
		return
	}
	session, errLogin := h.accounts.Login(c.Request.Context(), body.Email, body.Password)
	if errLogin != nil {
		respondError(c, errLogin, apperr.MsgInternal)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(c *gin.Context) {
	user, errMe := h.accounts.Me(c.Request.Context(), getUserID(c))
	if errMe != nil {
		respondError(c, errMe, apperr.MsgInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type deleteAccountRequest struct {
	UserID string `json:"userId"`
}

// DeleteAccount removes the signed-in user and everything they own.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	var body deleteAccountRequest
	if !bindJSON(c, &body) {
		return
	}
	result, errDelete := h.accounts.DeleteAccount(c.Request.Context(), getUserID(c), body.UserID)
	if errDelete != nil {
		respondError(c, errDelete, apperr.MsgAccountDeleteFailed)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":            apperr.MsgAccountDeleted,
		"deletedProjects":    result.DeletedProjects,
		"deletedRaiyats":     result.DeletedRaiyats,
		"deletedLandRecords": result.DeletedLandRecords,
		"deletedPayments":    result.DeletedPayments,
	})
}
