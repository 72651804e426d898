package service

import (
	"math"
	"strconv"
	"strings"

	"bank_transactions/internal/domain"
)

const (
	msgInvalidAmount   = "Amount must be greater than 0"
	msgInvalidTransfer = "Transfer requires both source and target accounts"
	msgMissingType     = "Transaction type is required"
)

// ValidateTransaction checks fields before anything is written. First failing rule wins.
// Status is not checked: it is accepted as supplied.
func ValidateTransaction(f domain.TransactionFields) error {
	if !f.Amount.IsPositive() {
		return domain.NewValidationError(domain.InvalidAmount, msgInvalidAmount)
	}

	if f.Type == domain.TransactionTypeTransfer && (isBlank(f.SourceAccount) || isBlank(f.TargetAccount)) {
		return domain.NewValidationError(domain.InvalidTransfer, msgInvalidTransfer)
	}

	if f.Type == "" {
		return domain.NewValidationError(domain.InvalidType, msgMissingType)
	}

	return nil
}

// ValidatePageRequest rejects negative pages, sizes outside [1, maxSize] and pages
// whose end offset does not fit in an int
func ValidatePageRequest(req domain.PageRequest, maxSize int) error {
	if req.Page < 0 {
		return domain.NewValidationError(domain.InvalidPage, "Page index must not be less than zero")
	}
	if req.Size < 1 {
		return domain.NewValidationError(domain.InvalidPage, "Page size must not be less than one")
	}
	if maxSize > 0 && req.Size > maxSize {
		return domain.NewValidationError(domain.InvalidPage, "Page size must not be greater than "+strconv.Itoa(maxSize))
	}
	if req.Page > (math.MaxInt-req.Size)/req.Size {
		return domain.NewValidationError(domain.InvalidPage, "Page index is too large")
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
