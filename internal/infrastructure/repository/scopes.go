package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ctxKey string

// txKey is the context key under which an open transaction travels
const txKey ctxKey = "gorm_tx"

// withTx stores tx in ctx so repositories called with it join the transaction
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// dbFrom returns the transaction carried by ctx, or db when there is none
func dbFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// SearchScope matches term case-insensitively against any of columns.
// LOWER/LIKE is used instead of ILIKE so the same query runs on every
// supported driver.
func SearchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// CreatedBetween limits rows to created_at inside [from, to]. Nil bounds
// are open.
func CreatedBetween(from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where("created_at >= ?", *from)
		}
		if to != nil {
			db = db.Where("created_at <= ?", *to)
		}
		return db
	}
}
