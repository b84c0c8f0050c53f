package handlers

import (
	"errors"
	"net/http"

	"upwatch/internal/services"
	"upwatch/internal/validate"

	"github.com/gin-gonic/gin"
)

type createCheckRequest struct {
	Protocol       string   `json:"protocol"`
	URL            string   `json:"url"`
	Method         string   `json:"method"`
	SuccessCodes   []int    `json:"successCodes"`
	TimeoutSeconds *float64 `json:"timeoutSeconds"`
}

type updateCheckRequest struct {
	ID             string   `json:"id"`
	Protocol       string   `json:"protocol"`
	URL            string   `json:"url"`
	Method         string   `json:"method"`
	SuccessCodes   []int    `json:"successCodes"`
	TimeoutSeconds *float64 `json:"timeoutSeconds"`
}

// CreateCheck handles POST /checks. The owning account is derived from the
// token header; no phone field is accepted here.
func (h *Handler) CreateCheck(c *gin.Context) {
	var req createCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required inputs, or inputs are invalid"})
		return
	}

	protocol, okProtocol := validate.Protocol(req.Protocol)
	url, okURL := validate.Name(req.URL)
	method, okMethod := validate.Method(req.Method)
	successCodes, okCodes := validate.SuccessCodes(req.SuccessCodes)
	if !okProtocol || !okURL || !okMethod || !okCodes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required inputs, or inputs are invalid"})
		return
	}

	// Optional; a malformed timeout behaves as absent
	timeoutSeconds := 0
	if req.TimeoutSeconds != nil {
		if n, ok := validate.Timeout(*req.TimeoutSeconds); ok {
			timeoutSeconds = n
		}
	}

	check, err := h.checkService.Create(c.Request.Context(), c.GetHeader("token"), services.CreateCheckInput{
		Protocol:       protocol,
		URL:            url,
		Method:         method,
		SuccessCodes:   successCodes,
		TimeoutSeconds: timeoutSeconds,
		IPAddress:      c.ClientIP(),
	})
	if err != nil {
		var quota *services.QuotaError
		var partial *services.PartialFailureError
		switch {
		case errors.Is(err, services.ErrUnauthorized), errors.Is(err, services.ErrForbidden):
			c.Status(http.StatusForbidden)
		case errors.As(err, &quota):
			c.JSON(http.StatusBadRequest, gin.H{"error": quota.Error()})
		case errors.As(err, &partial):
			h.logger.Error("Partial failure creating check", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": partial.Message})
		default:
			h.logger.Error("Failed to create check", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create the new check"})
		}
		return
	}

	c.JSON(http.StatusOK, check)
}

// GetCheck handles GET /checks?id=. The token must verify against the
// check's owner.
func (h *Handler) GetCheck(c *gin.Context) {
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field"})
		return
	}

	check, err := h.checkService.Get(c.Request.Context(), id, c.GetHeader("token"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCheckNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, services.ErrUnauthorized):
			c.Status(http.StatusForbidden)
		default:
			h.logger.Error("Failed to read check", "check_id", id, "error", err)
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, check)
}

// UpdateCheck handles PUT /checks. At least one optional field is required.
func (h *Handler) UpdateCheck(c *gin.Context) {
	var req updateCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field"})
		return
	}

	id, ok := validate.ID(req.ID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field"})
		return
	}

	in := services.UpdateCheckInput{ID: id}
	supplied := false
	if protocol, ok := validate.Protocol(req.Protocol); ok {
		in.Protocol = protocol
		supplied = true
	}
	if url, ok := validate.Name(req.URL); ok {
		in.URL = url
		supplied = true
	}
	if method, ok := validate.Method(req.Method); ok {
		in.Method = method
		supplied = true
	}
	if codes, ok := validate.SuccessCodes(req.SuccessCodes); ok {
		in.SuccessCodes = codes
		supplied = true
	}
	if req.TimeoutSeconds != nil {
		if n, ok := validate.Timeout(*req.TimeoutSeconds); ok {
			in.TimeoutSeconds = n
			supplied = true
		}
	}
	if !supplied {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields to update"})
		return
	}

	if err := h.checkService.Update(c.Request.Context(), c.GetHeader("token"), in); err != nil {
		switch {
		case errors.Is(err, services.ErrCheckNotFound):
			// Dependent lookup: signalled as a bad request, not a 404
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUnauthorized):
			c.Status(http.StatusForbidden)
		default:
			h.logger.Error("Failed to update check", "check_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update the check"})
		}
		return
	}

	c.Status(http.StatusOK)
}

// DeleteCheck handles DELETE /checks?id=. Removing the id from the owner's
// list is part of the delete; a failure there is a 500 with the check record
// already gone.
func (h *Handler) DeleteCheck(c *gin.Context) {
	id, ok := validate.ID(c.Query("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field"})
		return
	}

	if err := h.checkService.Delete(c.Request.Context(), id, c.GetHeader("token")); err != nil {
		var partial *services.PartialFailureError
		switch {
		case errors.Is(err, services.ErrCheckNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrUnauthorized):
			c.Status(http.StatusForbidden)
		case errors.As(err, &partial):
			h.logger.Error("Partial failure deleting check", "check_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": partial.Message})
		default:
			h.logger.Error("Failed to delete check", "check_id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not delete the check data"})
		}
		return
	}

	c.Status(http.StatusOK)
}
