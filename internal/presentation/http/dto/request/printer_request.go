package request

// PrintReceiptRequest is the request body for printing a receipt. Without a
// transaction id the register's last receipt is printed.
type PrintReceiptRequest struct {
	TransactionID string `json:"transaction_id"`
}
