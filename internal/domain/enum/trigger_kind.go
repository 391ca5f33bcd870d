package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// TriggerKind scopes which cart lines a promotion looks at
type TriggerKind int

const (
	TriggerKindAny      TriggerKind = 0
	TriggerKindProduct  TriggerKind = 1
	TriggerKindCategory TriggerKind = 2
)

var triggerKindNames = [...]string{"ANY", "PRODUCT", "CATEGORY"}

func (k TriggerKind) String() string {
	if k < 0 || int(k) >= len(triggerKindNames) {
		return "UNKNOWN"
	}
	return triggerKindNames[k]
}

// ParseTriggerKind parses a kind name. An empty string means ANY.
func ParseTriggerKind(str string) (TriggerKind, error) {
	str = strings.ToUpper(strings.TrimSpace(str))
	if str == "" {
		return TriggerKindAny, nil
	}
	for i, name := range triggerKindNames {
		if name == str {
			return TriggerKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trigger kind %q", str)
}

func (k TriggerKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *TriggerKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseTriggerKind(str)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func (k TriggerKind) Value() (driver.Value, error) {
	return k.String(), nil
}

func (k *TriggerKind) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		parsed, err := ParseTriggerKind(v)
		if err != nil {
			return err
		}
		*k = parsed
	case []byte:
		parsed, err := ParseTriggerKind(string(v))
		if err != nil {
			return err
		}
		*k = parsed
	case nil:
		*k = TriggerKindAny
	default:
		return fmt.Errorf("cannot scan %T into TriggerKind", value)
	}
	return nil
}
