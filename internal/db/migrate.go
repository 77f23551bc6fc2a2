package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed sql/pre_automigrate.sql
var preAutoMigrateSQL string

//go:embed sql/post_automigrate.sql
var postAutoMigrateSQL string

// autoMigrate creates the lingomix schema, lets gorm shape the cache table,
// then adds the indexes gorm tags cannot express.
func (p *Pool) autoMigrate(ctx context.Context) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{name: "create schema", run: p.execScript(preAutoMigrateSQL)},
		{name: "gorm auto-migrate models", run: func(ctx context.Context) error {
			return p.gdb.WithContext(ctx).AutoMigrate(autoMigrateModels()...)
		}},
		{name: "create indexes", run: p.execScript(postAutoMigrateSQL)},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

func (p *Pool) execScript(sqlText string) func(context.Context) error {
	return func(ctx context.Context) error {
		trimmed := strings.TrimSpace(sqlText)
		if trimmed == "" {
			return nil
		}
		return p.gdb.WithContext(ctx).Exec(trimmed).Error
	}
}
