package repository

import (
	"time"

	"github.com/sangkips/tablepos-api/internal/domain/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// promotionColumns are replaced on upsert. created_at keeps the first save.
var promotionColumns = []string{
	"type", "active", "start_at", "end_at", "note",
	"trigger_kind", "trigger_product_code", "trigger_category_name", "min_qty", "min_purchase",
	"percent", "max_discount", "amount", "buy_qty", "get_qty", "reward_product_code", "reward_qty",
	"updated_at",
}

// LiveAt returns a GORM scope that keeps promotions which are active and inside their
// validity window at the given time
func LiveAt(at time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("active = ?", true).
			Where("start_at IS NULL OR start_at <= ?", at).
			Where("end_at IS NULL OR end_at >= ?", at)
	}
}

// ActiveProducts returns a GORM scope that hides products taken off the menu
func ActiveProducts(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

// upsertPromotion inserts rec or overwrites every column of the stored row, so a pruned
// reward leaves no stale values behind.
func upsertPromotion(db *gorm.DB, rec *entity.PromotionRecord) *gorm.DB {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns(promotionColumns),
	}).Create(rec)
}

// ensureSequence creates the counter row for prefix if it does not exist yet.
func ensureSequence(db *gorm.DB, prefix string) *gorm.DB {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.InvoiceSequence{Prefix: prefix})
}

// lockSequence reads the counter row for prefix and holds it until the transaction ends.
func lockSequence(db *gorm.DB, prefix string, seq *entity.InvoiceSequence) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(seq, "prefix = ?", prefix)
}

// markCancelled writes the cancellation fields of inv.
func markCancelled(db *gorm.DB, inv *entity.Invoice) *gorm.DB {
	return db.Model(&entity.Invoice{}).Where("id = ?", inv.ID).Updates(map[string]interface{}{
		"status":        inv.Status,
		"cancel_reason": inv.CancelReason,
		"cancelled_at":  inv.CancelledAt,
	})
}
