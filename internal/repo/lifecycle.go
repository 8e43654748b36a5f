package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Visibility decides which rows a read sees with respect to deleted_at.
// Every read in this package goes through Visibility.Scope.
type Visibility int

const (
	Live Visibility = iota
	WithDeleted
	OnlyDeleted
)

func deletedAtColumn() clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: "deleted_at"}
}

func idColumn() clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: "id"}
}

func (v Visibility) Scope(db *gorm.DB) *gorm.DB {
	switch v {
	case WithDeleted:
		return db
	case OnlyDeleted:
		return db.Where(clause.Neq{Column: deletedAtColumn(), Value: nil})
	default:
		return db.Where(clause.Eq{Column: deletedAtColumn(), Value: nil})
	}
}

type stamper interface {
	Stamp(now time.Time)
}

type toucher interface {
	Touch(now time.Time)
}

func (r *GormRepo) insert(ctx context.Context, entity stamper) error {
	entity.Stamp(r.now())
	return r.DB.WithContext(ctx).Create(entity).Error
}

// update writes every column of entity except identity and lifecycle
// markers. scopes narrow the target row; zero affected rows means the row
// disappeared (or was deleted) since it was read.
func (r *GormRepo) update(ctx context.Context, entity toucher, scopes ...func(*gorm.DB) *gorm.DB) error {
	entity.Touch(r.now())
	res := r.DB.WithContext(ctx).Model(entity).Scopes(scopes...).
		Select("*").
		Omit(clause.Associations, "id", "created_at", "deleted_at").
		Updates(entity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func find[T any](ctx context.Context, db *gorm.DB, vis Visibility, id uuid.UUID, preload ...func(*gorm.DB) *gorm.DB) (*T, error) {
	var out T
	q := db.WithContext(ctx).Scopes(vis.Scope)
	for _, p := range preload {
		q = p(q)
	}
	if err := q.Where(clause.Eq{Column: idColumn(), Value: id}).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func exists[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(new(T)).Scopes(Live.Scope).
		Where(clause.Eq{Column: idColumn(), Value: id}).
		Count(&n).Error
	return n > 0, err
}

// softDelete marks a live row as deleted in one statement. A row that is
// already deleted or absent yields gorm.ErrRecordNotFound.
func softDelete[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	now := db.NowFunc()
	res := db.WithContext(ctx).Model(new(T)).Scopes(Live.Scope).
		Where(clause.Eq{Column: idColumn(), Value: id}).
		Updates(map[string]any{"deleted_at": now, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func restore[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	res := db.WithContext(ctx).Model(new(T)).Scopes(OnlyDeleted.Scope).
		Where(clause.Eq{Column: idColumn(), Value: id}).
		Updates(map[string]any{"deleted_at": nil, "updated_at": db.NowFunc()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func preload(name string, vis Visibility) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(name, vis.Scope)
	}
}
