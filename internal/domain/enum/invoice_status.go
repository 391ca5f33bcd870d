package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// InvoiceStatus represents the lifecycle state of a finalized sale
type InvoiceStatus int

const (
	InvoiceStatusCreated   InvoiceStatus = 0
	InvoiceStatusCancelled InvoiceStatus = 1
)

var invoiceStatusNames = [...]string{"Created", "Cancelled"}

// validNextInvoiceStatus lists the only transitions an invoice may take.
var validNextInvoiceStatus = map[InvoiceStatus]map[InvoiceStatus]bool{
	InvoiceStatusCreated: {InvoiceStatusCancelled: true},
}

func (s InvoiceStatus) String() string {
	if s < 0 || int(s) >= len(invoiceStatusNames) {
		return "Unknown"
	}
	return invoiceStatusNames[s]
}

// CanTransition reports whether the status may move to next.
func (s InvoiceStatus) CanTransition(next InvoiceStatus) bool {
	return validNextInvoiceStatus[s][next]
}

// ParseInvoiceStatus parses the display name of a status.
func ParseInvoiceStatus(str string) (InvoiceStatus, error) {
	for i, name := range invoiceStatusNames {
		if name == str {
			return InvoiceStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown invoice status %q", str)
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	parsed, err := ParseInvoiceStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusCreated
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
