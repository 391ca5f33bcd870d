package cart

import "github.com/sangkips/tablepos-api/internal/domain/entity"

// Snapshot is the serializable form of a cart.
type Snapshot struct {
	Items    []entity.LineItem `json:"items"`
	Revision uint64            `json:"revision"`
	Applied  *AppliedPromotion `json:"applied,omitempty"`
}
