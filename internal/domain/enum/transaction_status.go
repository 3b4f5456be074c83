package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TransactionStatus is the lifecycle position of a register transaction
type TransactionStatus string

const (
	TransactionStatusIdle      TransactionStatus = "IDLE"
	TransactionStatusActive    TransactionStatus = "ACTIVE"
	TransactionStatusCheckout  TransactionStatus = "CHECKOUT"
	TransactionStatusPayment   TransactionStatus = "PAYMENT"
	TransactionStatusComplete  TransactionStatus = "COMPLETE"
	TransactionStatusSuspended TransactionStatus = "SUSPENDED"
	TransactionStatusVoid      TransactionStatus = "VOID"
)

func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusIdle, TransactionStatusActive, TransactionStatusCheckout,
		TransactionStatusPayment, TransactionStatusComplete, TransactionStatusSuspended,
		TransactionStatusVoid:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions leave s
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusComplete || s == TransactionStatusVoid
}

// InProgress reports whether a sale is open on the register
func (s TransactionStatus) InProgress() bool {
	return s == TransactionStatusActive || s == TransactionStatusCheckout || s == TransactionStatusPayment
}

func (s TransactionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *TransactionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if str == "" {
		*s = TransactionStatusIdle
		return nil
	}
	status := TransactionStatus(strings.ToUpper(str))
	if !status.IsValid() {
		return fmt.Errorf("unknown transaction status %q", str)
	}
	*s = status
	return nil
}

func (s TransactionStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *TransactionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = TransactionStatusIdle
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = TransactionStatus(v)
	case []byte:
		*s = TransactionStatus(string(v))
	}
	return nil
}
