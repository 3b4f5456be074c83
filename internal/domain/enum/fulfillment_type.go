package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FulfillmentType is how purchased goods reach the customer
type FulfillmentType string

const (
	FulfillmentTypeImmediate FulfillmentType = "IMMEDIATE"
	FulfillmentTypePickup    FulfillmentType = "PICKUP"
	FulfillmentTypeDelivery  FulfillmentType = "DELIVERY"
)

func (t FulfillmentType) String() string {
	return string(t)
}

func (t FulfillmentType) IsValid() bool {
	switch t {
	case FulfillmentTypeImmediate, FulfillmentTypePickup, FulfillmentTypeDelivery:
		return true
	}
	return false
}

func (t *FulfillmentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	ft := FulfillmentType(strings.ToUpper(str))
	if !ft.IsValid() {
		return fmt.Errorf("unknown fulfillment type %q", str)
	}
	*t = ft
	return nil
}
