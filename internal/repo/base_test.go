package repo

import (
	"context"
	"fmt"
	"testing"

	pkgerrors "github.com/bistrohub/ordering/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID       int64 `gorm:"primaryKey"`
	Name     string
	Position int
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return conn
}

func TestBaseDB_BindsContext(t *testing.T) {
	db := newTestDB(t)
	base := NewBase(db)

	ctx := context.WithValue(context.Background(), struct{}{}, "value")
	withCtx := base.DB(ctx)
	if withCtx.Statement == nil || withCtx.Statement.Context != ctx {
		t.Fatalf("expected context to flow through")
	}

	if base.DB(nil) != db {
		t.Fatalf("expected nil context to return raw connection")
	}
}

func TestFindAllAppliesScopes(t *testing.T) {
	db := newTestDB(t)
	if err := db.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Create(&[]widget{{Name: "b", Position: 2}, {Name: "a", Position: 1}, {Name: "c", Position: 3}})

	var rows []widget
	err := NewBase(db).FindAll(context.Background(), "widgets", &rows,
		func(q *gorm.DB) *gorm.DB { return q.Order("position ASC") },
		func(q *gorm.DB) *gorm.DB { return q.Where("name <> ?", "c") },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 || rows[0].Name != "a" || rows[1].Name != "b" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}

func TestFindAllWrapsFailures(t *testing.T) {
	db := newTestDB(t)

	var rows []widget
	err := NewBase(db).FindAll(context.Background(), "widgets", &rows)
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error for a missing table, got %v", err)
	}
}
