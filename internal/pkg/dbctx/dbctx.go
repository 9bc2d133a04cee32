package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repos use Tx when it is set and fall back to their own handle otherwise.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx}
}

// WithTx returns a copy of c bound to tx.
func (c Context) WithTx(tx *gorm.DB) Context {
	return Context{Ctx: c.Ctx, Tx: tx}
}

// Transaction runs fn inside a transaction. If c already carries one it is
// reused, so nested calls join the outer transaction.
func Transaction(c Context, db *gorm.DB, fn func(Context) error) error {
	if c.Ctx == nil {
		c.Ctx = context.Background()
	}
	if c.Tx != nil {
		return fn(c)
	}
	return db.WithContext(c.Ctx).Transaction(func(tx *gorm.DB) error {
		return fn(c.WithTx(tx))
	})
}
