package repo

import (
	"context"
	"math"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Predicate narrows a query. The same predicate set is applied to both the
// count and the fetch of a page.
type Predicate = func(*gorm.DB) *gorm.DB

type PageRequest struct {
	Page     int
	PageSize int
}

// Offset saturates at math.MaxInt for pages too far out to address.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

type Page[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Pages    int   `json:"pages"`
}

func PageCount(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

func column(name string) clause.Column {
	if table, col, ok := strings.Cut(name, "."); ok {
		return clause.Column{Table: table, Name: col}
	}
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func Equal(col string, v any) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Eq{Column: column(col), Value: v})
	}
}

func AtLeast(col string, v any) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Gte{Column: column(col), Value: v})
	}
}

func AtMost(col string, v any) Predicate {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Lte{Column: column(col), Value: v})
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains is a case-insensitive substring match that treats LIKE
// wildcards in s literally.
func Contains(col, s string) Predicate {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(clause.Expr{
			SQL:  `LOWER(?) LIKE ? ESCAPE '\'`,
			Vars: []any{column(col), pattern},
		})
	}
}

type listQuery struct {
	vis      Visibility
	preds    []Predicate
	order    []clause.OrderByColumn
	preloads []func(*gorm.DB) *gorm.DB
}

func paginate[T any](ctx context.Context, db *gorm.DB, q listQuery, req PageRequest) (Page[T], error) {
	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(new(T)).Scopes(q.vis.Scope).Scopes(q.preds...)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	items := make([]T, 0)
	if int64(req.Offset()) >= total {
		return Page[T]{
			Items:    items,
			Total:    total,
			Page:     req.Page,
			PageSize: req.PageSize,
			Pages:    PageCount(total, req.PageSize),
		}, nil
	}
	fetch := base()
	for _, p := range q.preloads {
		fetch = p(fetch)
	}
	for _, o := range q.order {
		fetch = fetch.Order(o)
	}
	if err := fetch.Offset(req.Offset()).Limit(req.PageSize).Find(&items).Error; err != nil {
		return Page[T]{}, err
	}

	return Page[T]{
		Items:    items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Pages:    PageCount(total, req.PageSize),
	}, nil
}

func asc(col string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: column(col)}
}

func desc(col string) clause.OrderByColumn {
	return clause.OrderByColumn{Column: column(col), Desc: true}
}
