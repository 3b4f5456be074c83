package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is the tender type of a payment record
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodCredit   PaymentMethod = "CREDIT"
	PaymentMethodDebit    PaymentMethod = "DEBIT"
	PaymentMethodGiftCard PaymentMethod = "GIFT_CARD"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCredit, PaymentMethodDebit, PaymentMethodGiftCard:
		return true
	}
	return false
}

// IsCard reports whether the method settles against a card network
func (m PaymentMethod) IsCard() bool {
	return m == PaymentMethodCredit || m == PaymentMethodDebit
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	method := PaymentMethod(strings.ToUpper(str))
	if !method.IsValid() {
		return fmt.Errorf("unknown payment method %q", str)
	}
	*m = method
	return nil
}
