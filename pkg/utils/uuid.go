package utils

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID generates a new random identifier for lines and payments
func NewID() string {
	return uuid.New().String()
}

// GenerateTransactionID generates a transaction id of the form TXN-<store>-<8 hex>
func GenerateTransactionID(storeNumber string) string {
	return "TXN-" + storeNumber + "-" + shortID()
}

// GenerateReceiptNo generates the fallback receipt number used when the
// order service does not assign one
func GenerateReceiptNo(at time.Time) string {
	return "R-" + strconv.FormatInt(at.UnixMilli(), 10)
}

func shortID() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
