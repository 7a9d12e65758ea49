package utils

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/phoneshop-pos/pkg/apperror"
)

// ParseUUID parses s or returns a 400 naming the field
func ParseUUID(field, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, apperror.NewBadRequestError("Invalid " + field)
	}
	return id, nil
}

// ReceiptNumber derives a short printable number from a sale id
func ReceiptNumber(saleID uuid.UUID) string {
	return "RCP-" + strings.ToUpper(saleID.String()[:8])
}
