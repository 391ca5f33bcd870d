package utils

import (
	"fmt"
	"strings"
)

// DefaultInvoicePrefix is used when no prefix is configured.
const DefaultInvoicePrefix = "ANN"

// NormalizePrefix upper-cases and trims an invoice prefix, falling back to DefaultInvoicePrefix.
func NormalizePrefix(prefix string) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		return DefaultInvoicePrefix
	}
	return prefix
}

// FormatInvoiceNo renders a sequence value as "<prefix>-<6 digits>", e.g. "ANN-000124".
func FormatInvoiceNo(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}
