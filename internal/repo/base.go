package repo

import (
	"context"

	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"gorm.io/gorm"
)

// Scope narrows a query, e.g. ordering or filtering.
type Scope = func(*gorm.DB) *gorm.DB

// Base is the read helper shared by GORM-backed repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx returns the raw connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// FindAll loads every row matching scopes into dest. Failures are reported
// as DEPENDENCY errors labelled with what.
func (b Base) FindAll(ctx context.Context, what string, dest any, scopes ...Scope) error {
	if err := b.DB(ctx).Scopes(scopes...).Find(dest).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query "+what)
	}
	return nil
}
