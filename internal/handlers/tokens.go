package handlers

import (
	"errors"
	"net/http"

	"upwatch/internal/services"
	"upwatch/internal/validate"

	"github.com/gin-gonic/gin"
)

type createTokenRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type extendTokenRequest struct {
	ID     string `json:"id"`
	Extend bool   `json:"extend"`
}

// CreateToken handles POST /tokens: login. Unknown phone and wrong password
// are indistinguishable in the response.
func (h *Handler) CreateToken(c *gin.Context) {
	var req createTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field(s)"})
		return
	}

	phone, okPhone := validate.Phone(req.Phone)
	password, okPassword := validate.Password(req.Password)
	if !okPhone || !okPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field(s)"})
		return
	}

	token, err := h.tokenService.Issue(c.Request.Context(), phone, password)
	if err != nil {
		if errors.Is(err, services.ErrLoginFailed) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to issue token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create the new token"})
		return
	}

	c.JSON(http.StatusOK, token)
}

// GetToken handles GET /tokens?id=. No authorization: the id itself is the
// bearer secret.
func (h *Handler) GetToken(c *gin.Context) {
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field"})
		return
	}

	token, err := h.tokenService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to read token", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, token)
}

// ExtendToken handles PUT /tokens. Requires extend=true; an expired token
// cannot be renewed.
func (h *Handler) ExtendToken(c *gin.Context) {
	var req extendTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field(s) or fields are invalid"})
		return
	}

	id, ok := validate.ID(req.ID)
	if !ok || !req.Extend {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field(s) or fields are invalid"})
		return
	}

	if _, err := h.tokenService.Extend(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrTokenNotFound), errors.Is(err, services.ErrTokenExpired):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to extend token", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update the token's expiration"})
		}
		return
	}

	c.Status(http.StatusOK)
}

// DeleteToken handles DELETE /tokens?id=: revocation.
func (h *Handler) DeleteToken(c *gin.Context) {
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field"})
		return
	}

	if err := h.tokenService.Revoke(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrTokenNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to revoke token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete the specified token"})
		return
	}

	c.Status(http.StatusOK)
}
