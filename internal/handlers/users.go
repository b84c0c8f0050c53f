package handlers

import (
	"errors"
	"net/http"

	"upwatch/internal/services"
	"upwatch/internal/validate"

	"github.com/gin-gonic/gin"
)

type createAccountRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	TosAgreement bool   `json:"tosAgreement"`
}

type updateAccountRequest struct {
	Phone     string `json:"phone"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// CreateAccount handles POST /users. This is one of the two operations that
// need no token.
func (h *Handler) CreateAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	firstName, okFirst := validate.Name(req.FirstName)
	lastName, okLast := validate.Name(req.LastName)
	phone, okPhone := validate.Phone(req.Phone)
	password, okPassword := validate.Password(req.Password)
	if !okFirst || !okLast || !okPhone || !okPassword || !validate.Consent(req.TosAgreement) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	err := h.accountService.Create(c.Request.Context(), services.CreateAccountInput{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Password:  password,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		if errors.Is(err, services.ErrAccountExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to create account", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create the new user"})
		return
	}

	c.Status(http.StatusOK)
}

// GetAccount handles GET /users?phone=. The token header must verify against
// the requested phone.
func (h *Handler) GetAccount(c *gin.Context) {
	phone, ok := validate.Phone(c.Query("phone"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field"})
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), phone, c.GetHeader("token"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAccountNotFound):
			c.Status(http.StatusNotFound)
		default:
			h.logger.Error("Failed to read account", "phone", phone, "error", err)
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, account)
}

// UpdateAccount handles PUT /users. At least one updatable field is required.
func (h *Handler) UpdateAccount(c *gin.Context) {
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field"})
		return
	}

	phone, ok := validate.Phone(req.Phone)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field"})
		return
	}

	firstName, okFirst := validate.Name(req.FirstName)
	lastName, okLast := validate.Name(req.LastName)
	password, okPassword := validate.Password(req.Password)
	if !okFirst && !okLast && !okPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields to update"})
		return
	}

	in := services.UpdateAccountInput{Phone: phone}
	if okFirst {
		in.FirstName = firstName
	}
	if okLast {
		in.LastName = lastName
	}
	if okPassword {
		in.Password = password
	}

	err := h.accountService.Update(c.Request.Context(), in, c.GetHeader("token"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAccountNotFound):
			// Dependent lookup: signalled as a bad request, not a 404
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("Failed to update account", "phone", phone, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update the user"})
		}
		return
	}

	c.Status(http.StatusOK)
}

// DeleteAccount handles DELETE /users?phone=. The account delete cascades to
// every owned check; a partly-failed cascade is a 500 even though the account
// record is already gone.
func (h *Handler) DeleteAccount(c *gin.Context) {
	phone, ok := validate.Phone(c.Query("phone"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field"})
		return
	}

	err := h.accountService.Delete(c.Request.Context(), phone, c.GetHeader("token"))
	if err != nil {
		var partial *services.PartialFailureError
		switch {
		case errors.Is(err, services.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAccountNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &partial):
			h.logger.Error("Partial failure deleting account", "phone", phone, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": partial.Message})
		default:
			h.logger.Error("Failed to delete account", "phone", phone, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete the specified user"})
		}
		return
	}

	c.Status(http.StatusOK)
}
