package domain

import (
	"context"
	"time"
)

// Repository is the record store contract every aggregate is persisted
// through. K is the aggregate's identity: a surrogate id or a natural key.
type Repository[T any, K comparable] interface {
	FindAll(ctx context.Context) ([]*T, error)

	// FindByID returns the aggregate's own not-found sentinel when missing.
	FindByID(ctx context.Context, id K) (*T, error)

	// Save inserts a record without a key (assigning one) or upserts by key.
	Save(ctx context.Context, entity *T) error

	// DeleteByID returns the not-found sentinel if nothing was removed.
	DeleteByID(ctx context.Context, id K) error

	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

type AuditAction string

const (
	ActionCreate    AuditAction = "create"
	ActionDelete    AuditAction = "delete"
	ActionDeleteAll AuditAction = "delete_all"
)

type AuditLog struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	OccurredAt time.Time `gorm:"column:occurred_at;autoCreateTime;index"`

	Action       AuditAction `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType string      `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string      `gorm:"column:resource_id;type:varchar(100);index"`

	RequestID string `gorm:"column:request_id;type:varchar(50);index"`
	IPAddress string `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6

	Changes string `gorm:"column:changes;type:text"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
