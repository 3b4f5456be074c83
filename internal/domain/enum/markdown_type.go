package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MarkdownType selects how a markdown value is turned into a per-item discount
type MarkdownType string

const (
	// MarkdownTypePercent takes value percent off the original price
	MarkdownTypePercent MarkdownType = "PERCENT"
	// MarkdownTypeFixed takes a fixed amount off each unit
	MarkdownTypeFixed MarkdownType = "FIXED"
	// MarkdownTypeNewPrice replaces the unit price with value
	MarkdownTypeNewPrice MarkdownType = "NEW_PRICE"
)

func (t MarkdownType) String() string {
	return string(t)
}

func (t MarkdownType) IsValid() bool {
	switch t {
	case MarkdownTypePercent, MarkdownTypeFixed, MarkdownTypeNewPrice:
		return true
	}
	return false
}

func (t *MarkdownType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	mt := MarkdownType(strings.ToUpper(str))
	if !mt.IsValid() {
		return fmt.Errorf("unknown markdown type %q", str)
	}
	*t = mt
	return nil
}
