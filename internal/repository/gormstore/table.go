// Package gormstore implements the record store contract on gorm, for the
// postgres and mysql drivers.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medschedule/pkg/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Table implements domain.Repository for one gorm model keyed by keyColumn.
type Table[T any, K comparable] struct {
	db        *gorm.DB
	table     string
	keyColumn string
	keyOf     func(*T) K
	notFound  error
	metrics   *metrics.Collector

	// serial is set when the database assigns keys from a sequence.
	serial bool
}

func NewTable[T any, K comparable](db *gorm.DB, table, keyColumn string, keyOf func(*T) K, notFound error, m *metrics.Collector) *Table[T, K] {
	return &Table[T, K]{db: db, table: table, keyColumn: keyColumn, keyOf: keyOf, notFound: notFound, metrics: m}
}

// Serial marks the key column as database-assigned.
func (t *Table[T, K]) Serial() *Table[T, K] {
	t.serial = true
	return t
}

func (t *Table[T, K]) observe(op string, start time.Time) {
	if t.metrics != nil {
		t.metrics.ObserveQuery(op, t.table, start)
	}
}

func (t *Table[T, K]) byKey(id K) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: t.keyColumn}, Value: id}
}

func (t *Table[T, K]) FindAll(ctx context.Context) ([]*T, error) {
	defer t.observe("find_all", time.Now())

	var rows []*T
	if err := t.db.WithContext(ctx).Order(t.keyColumn).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing %s: %w", t.table, err)
	}
	return rows, nil
}

func (t *Table[T, K]) FindByID(ctx context.Context, id K) (*T, error) {
	defer t.observe("find_by_id", time.Now())

	var row T
	err := t.db.WithContext(ctx).Where(t.byKey(id)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, t.notFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", t.table, err)
	}
	return &row, nil
}

// Save inserts rows with a zero key and upserts rows with a set key. A model
// made only of its key (rooms) turns the upsert into ON CONFLICT DO NOTHING.
// On postgres an explicit key leaves the serial sequence behind, so it is
// moved past the largest stored key before the next plain insert.
func (t *Table[T, K]) Save(ctx context.Context, entity *T) error {
	defer t.observe("save", time.Now())

	var zero K
	keyed := t.keyOf(entity) != zero

	tx := t.db.WithContext(ctx)
	if keyed {
		tx = tx.Clauses(clause.OnConflict{UpdateAll: true})
	}
	if err := tx.Create(entity).Error; err != nil {
		return fmt.Errorf("saving %s: %w", t.table, err)
	}

	if keyed && t.serial && t.db.Dialector.Name() == "postgres" {
		if err := t.syncSequence(ctx); err != nil {
			return fmt.Errorf("advancing %s sequence: %w", t.table, err)
		}
	}
	return nil
}

func (t *Table[T, K]) syncSequence(ctx context.Context) error {
	return t.db.WithContext(ctx).Exec(
		fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', '%s'), (SELECT COALESCE(MAX(%s), 0) + 1 FROM %s), false)",
			t.table, t.keyColumn, t.keyColumn, t.table),
	).Error
}

func (t *Table[T, K]) DeleteByID(ctx context.Context, id K) error {
	defer t.observe("delete_by_id", time.Now())

	res := t.db.WithContext(ctx).Where(t.byKey(id)).Delete(new(T))
	if res.Error != nil {
		return fmt.Errorf("deleting %s: %w", t.table, res.Error)
	}
	if res.RowsAffected == 0 {
		return t.notFound
	}
	return nil
}

func (t *Table[T, K]) DeleteAll(ctx context.Context) error {
	defer t.observe("delete_all", time.Now())

	err := t.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(new(T)).Error
	if err != nil {
		return fmt.Errorf("deleting all %s: %w", t.table, err)
	}
	return nil
}

func (t *Table[T, K]) Count(ctx context.Context) (int64, error) {
	defer t.observe("count", time.Now())

	var n int64
	if err := t.db.WithContext(ctx).Model(new(T)).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("counting %s: %w", t.table, err)
	}
	return n, nil
}
