package transaction

import "github.com/sangkips/pos-terminal/internal/domain/enum"

var transitions = map[enum.TransactionStatus][]enum.TransactionStatus{
	enum.TransactionStatusIdle:      {enum.TransactionStatusActive},
	enum.TransactionStatusActive:    {enum.TransactionStatusCheckout, enum.TransactionStatusVoid, enum.TransactionStatusSuspended},
	enum.TransactionStatusCheckout:  {enum.TransactionStatusActive, enum.TransactionStatusPayment, enum.TransactionStatusVoid},
	enum.TransactionStatusPayment:   {enum.TransactionStatusComplete, enum.TransactionStatusVoid},
	enum.TransactionStatusSuspended: {enum.TransactionStatusActive},
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another. Reduce itself does not consult this table; callers must.
func CanTransition(from, to enum.TransactionStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanStart reports whether a new transaction may replace one in status s.
// An ACTIVE transaction with no items is treated as abandoned.
func CanStart(s enum.TransactionStatus, hasItems bool) bool {
	switch s {
	case enum.TransactionStatusActive:
		return !hasItems
	case enum.TransactionStatusCheckout, enum.TransactionStatusPayment:
		return false
	}
	return true
}
