package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm/clause"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// idempotencyRecord claims a checkout key. The row is written in the same
// transaction as the order it points at.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:36"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "order_idempotency_keys" }

func (r *idempotencyRecord) toPort() *ports.IdempotencyRecord {
	return &ports.IdempotencyRecord{
		Key:         r.Key,
		RequestHash: r.RequestHash,
		OrderID:     r.OrderID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ClaimIdempotencyKey inserts the key with ON CONFLICT DO NOTHING. A concurrent
// claim of the same key blocks on the primary key until the first transaction
// ends, then sees its row.
func (t *gormTx) ClaimIdempotencyKey(ctx context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	if record.Key == "" {
		return nil, errors.New("idempotency key is required")
	}
	row := idempotencyRecord{
		Key:         record.Key,
		RequestHash: record.RequestHash,
		OrderID:     record.OrderID,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
	result := t.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return nil, nil
	}
	var existing idempotencyRecord
	if err := t.db.WithContext(ctx).First(&existing, "key = ?", record.Key).Error; err != nil {
		return nil, err
	}
	return existing.toPort(), nil
}
