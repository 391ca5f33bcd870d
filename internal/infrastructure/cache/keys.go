package cache

import "time"

const (
	// Open cart per terminal: pos:cart:{terminal_id} -> cart snapshot JSON
	KeyCart = "pos:cart:%s"

	// Rules with active=true: pos:promotions:active -> []cachedRule JSON
	KeyActivePromotions = "pos:promotions:active"
)

var (
	TTLCart       = 12 * time.Hour
	TTLPromotions = time.Minute
)
