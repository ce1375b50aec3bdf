package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

func init() {
	// Money is rendered as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base carries the surrogate key and timestamps every table shares.
type Base struct {
	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*Base)(nil)

func (b *Base) BeforeAppendModel(_ context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		b.UpdatedAt = now
	case *bun.UpdateQuery:
		b.UpdatedAt = now
	}
	return nil
}

// assign copies *src into *dst when the caller supplied it and records the column name.
func assign[V any](cols []string, column string, src *V, dst *V) []string {
	if src == nil {
		return cols
	}
	*dst = *src
	return append(cols, column)
}

// assignNullable is assign for nullable columns.
func assignNullable[V any](cols []string, column string, src *V, dst **V) []string {
	if src == nil {
		return cols
	}
	v := *src
	*dst = &v
	return append(cols, column)
}

func valueOr[V any](p *V, fallback V) V {
	if p == nil {
		return fallback
	}
	return *p
}

func copyPtr[V any](p *V) *V {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
