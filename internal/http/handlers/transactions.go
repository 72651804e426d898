package handlers

import (
	"net/http"
	"strconv"

	"bank_transactions/internal/domain"

	"github.com/gin-gonic/gin"
)

// CreateTransaction handles POST /transactions
func (h *Handler) CreateTransaction(c *gin.Context) {
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	tx, err := h.Transactions.Create(c.Request.Context(), fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

// ListTransactions handles GET /transactions?page=&size=
func (h *Handler) ListTransactions(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Invalid page: "+c.Query("page"))
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", h.defaultPageSize))
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Invalid size: "+c.Query("size"))
		return
	}

	result, err := h.Transactions.GetPage(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTransaction handles GET /transactions/:id
func (h *Handler) GetTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	tx, err := h.Transactions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// UpdateTransaction handles PUT /transactions/:id
func (h *Handler) UpdateTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fields, ok := bindFields(c)
	if !ok {
		return
	}

	tx, err := h.Transactions.Update(c.Request.Context(), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

// DeleteTransaction handles DELETE /transactions/:id
func (h *Handler) DeleteTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Transactions.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func bindFields(c *gin.Context) (domain.TransactionFields, bool) {
	var fields domain.TransactionFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Malformed request body: "+err.Error())
		return fields, false
	}
	return fields, true
}

func pathID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, "Invalid transaction id: "+raw)
		return 0, false
	}
	return id, true
}
