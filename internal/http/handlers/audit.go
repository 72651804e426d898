package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// ListAudit handles GET /transactions/:id/audit?limit=
// Entries outlive the transaction, so an unknown id yields an empty list.
func (h *Handler) ListAudit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAuditLimit {
			abortWithMessage(c, http.StatusBadRequest, "Invalid limit: "+raw)
			return
		}
		limit = n
	}

	entries, err := h.Audit.GetByTransactionID(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
