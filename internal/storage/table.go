package storage

import (
	"context"
	"reflect"
	"strings"

	"ms-eventplatform/internal/apperr"

	"github.com/uptrace/bun"
)

// Patch applies a partial update to a loaded row and returns the columns it changed.
type Patch[T any] interface {
	Apply(row *T) []string
}

// PatchFunc adapts a function to Patch.
type PatchFunc[T any] func(row *T) []string

func (f PatchFunc[T]) Apply(row *T) []string { return f(row) }

// Table is the storage gateway for one entity. Every method is a single atomic unit:
// writes run in their own transaction and roll back on any error.
type Table[T any] struct {
	db       *DB
	name     string
	resource string
}

func NewTable[T any](db *DB) *Table[T] {
	name := db.Bun.Table(reflect.TypeOf((*T)(nil)).Elem()).Name
	return &Table[T]{db: db, name: name, resource: singular(name)}
}

func (t *Table[T]) Name() string { return t.name }

func (t *Table[T]) Create(ctx context.Context, row *T) error {
	err := t.db.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().Model(row).Exec(ctx)
		return err
	})
	return t.translate("insert", err)
}

func (t *Table[T]) GetByID(ctx context.Context, id int64) (*T, error) {
	row := new(T)
	err := t.db.Bun.NewSelect().Model(row).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, t.translate("select", err)
	}
	return row, nil
}

// List returns rows ordered by id. An empty table yields an empty slice, never an error.
func (t *Table[T]) List(ctx context.Context, offset, limit int) ([]T, error) {
	return t.list(ctx, offset, limit, nil)
}

// ListBy is List filtered on column = value. column must be a trusted identifier.
func (t *Table[T]) ListBy(ctx context.Context, column string, value any, offset, limit int) ([]T, error) {
	return t.list(ctx, offset, limit, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? = ?", bun.Ident(column), value)
	})
}

func (t *Table[T]) list(ctx context.Context, offset, limit int, filter func(*bun.SelectQuery) *bun.SelectQuery) ([]T, error) {
	rows := make([]T, 0)
	if limit <= 0 {
		return rows, nil
	}

	q := t.db.Bun.NewSelect().Model(&rows)
	if filter != nil {
		q = filter(q)
	}
	err := q.Order("id ASC").Offset(offset).Limit(limit).Scan(ctx)
	if err != nil {
		return nil, t.translate("select", err)
	}
	return rows, nil
}

// Update loads the row, applies patch and writes back only the columns patch reported.
func (t *Table[T]) Update(ctx context.Context, id int64, patch Patch[T]) (*T, error) {
	row := new(T)
	err := t.db.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		q := tx.NewSelect().Model(row).Where("id = ?", id).Limit(1)
		if t.db.Dialect != DialectSQLite {
			q = q.For("UPDATE")
		}
		if err := q.Scan(ctx); err != nil {
			return err
		}

		cols := patch.Apply(row)
		if len(cols) == 0 {
			return nil
		}

		_, err := tx.NewUpdate().
			Model(row).
			Column(append(cols, "updated_at")...).
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		return nil, t.translate("update", err)
	}
	return row, nil
}

// Delete removes the row. A second delete of the same id fails with NotFound.
func (t *Table[T]) Delete(ctx context.Context, id int64) error {
	err := t.db.Bun.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.NotFound("%s not found", t.resource)
		}
		return nil
	})
	return t.translate("delete", err)
}

func (t *Table[T]) ExistsBy(ctx context.Context, column string, value any) (bool, error) {
	exists, err := t.db.Bun.NewSelect().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(column), value).
		Exists(ctx)
	if err != nil {
		return false, t.translate("select", err)
	}
	return exists, nil
}

func (t *Table[T]) Count(ctx context.Context) (int, error) {
	n, err := t.db.Bun.NewSelect().Model((*T)(nil)).Count(ctx)
	if err != nil {
		return 0, t.translate("count", err)
	}
	return n, nil
}

// CountBy counts rows where column = value. column must be a trusted identifier.
func (t *Table[T]) CountBy(ctx context.Context, column string, value any) (int, error) {
	n, err := t.db.Bun.NewSelect().
		Model((*T)(nil)).
		Where("? = ?", bun.Ident(column), value).
		Count(ctx)
	if err != nil {
		return 0, t.translate("count", err)
	}
	return n, nil
}

func singular(table string) string {
	name := table
	switch {
	case strings.HasSuffix(name, "ies"):
		name = strings.TrimSuffix(name, "ies") + "y"
	case strings.HasSuffix(name, "s"):
		name = strings.TrimSuffix(name, "s")
	}
	return strings.ReplaceAll(name, "_", " ")
}
