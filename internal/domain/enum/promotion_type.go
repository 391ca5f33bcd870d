package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PromotionType selects which reward a promotion grants
type PromotionType int

const (
	PromotionTypePercent  PromotionType = 0
	PromotionTypeAmount   PromotionType = 1
	PromotionTypeBogo     PromotionType = 2
	PromotionTypeItemFree PromotionType = 3
)

var promotionTypeNames = [...]string{"PERCENT", "AMOUNT", "BOGO", "ITEM_FREE"}

func (t PromotionType) String() string {
	if t < 0 || int(t) >= len(promotionTypeNames) {
		return "UNKNOWN"
	}
	return promotionTypeNames[t]
}

// IsDiscount reports whether the type gates on a minimum purchase amount.
// The remaining types gate on a minimum quantity.
func (t PromotionType) IsDiscount() bool {
	return t == PromotionTypePercent || t == PromotionTypeAmount
}

// ParsePromotionType parses a type name, ignoring case and surrounding space.
func ParsePromotionType(str string) (PromotionType, error) {
	str = strings.ToUpper(strings.TrimSpace(str))
	for i, name := range promotionTypeNames {
		if name == str {
			return PromotionType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown promotion type %q", str)
}

func (t PromotionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *PromotionType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePromotionType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t PromotionType) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *PromotionType) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		parsed, err := ParsePromotionType(v)
		if err != nil {
			return err
		}
		*t = parsed
	case []byte:
		parsed, err := ParsePromotionType(string(v))
		if err != nil {
			return err
		}
		*t = parsed
	case nil:
		*t = PromotionTypePercent
	default:
		return fmt.Errorf("cannot scan %T into PromotionType", value)
	}
	return nil
}
