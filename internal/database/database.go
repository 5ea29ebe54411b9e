package database

import (
	"context"
	"crypto/tls"
	"fmt"

	"benefitsportal/internal/config"
	"benefitsportal/internal/models"
	"benefitsportal/internal/observability"

	"github.com/go-pg/pg/v10"
	"github.com/go-pg/pg/v10/orm"
	"go.uber.org/zap"
)

// DB wraps pg.DB
type DB struct {
	*pg.DB
}

// New creates a new database connection
func New(cfg *config.DatabaseConfig, logger *observability.Logger) (*DB, error) {
	opts := &pg.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Name,
		PoolSize: cfg.MaxConnections,
	}

	if cfg.SSLMode == "require" || cfg.SSLMode == "verify-ca" || cfg.SSLMode == "verify-full" {
		opts.TLSConfig = &tls.Config{
			// 'require' skips verification; the stricter modes need a CA bundle.
			InsecureSkipVerify: cfg.SSLMode == "require",
		}
	}

	db := pg.Connect(opts)

	if err := db.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if logger != nil {
		db.AddQueryHook(queryLogger{logger: logger})
	}

	return &DB{DB: db}, nil
}

// CreateSchema creates the database tables for all models
func (db *DB) CreateSchema() error {
	tables := []interface{}{
		(*models.Company)(nil),
		(*models.CompanySettings)(nil),
		(*models.User)(nil),
		(*models.Document)(nil),
		(*models.SurveyTemplate)(nil),
		(*models.SurveyQuestion)(nil),
		(*models.TemplateQuestion)(nil),
		(*models.SurveyResponse)(nil),
		(*models.CalendarEvent)(nil),
		(*models.ChatMessage)(nil),
		(*models.Notification)(nil),
	}

	for _, table := range tables {
		err := db.Model(table).CreateTable(&orm.CreateTableOptions{
			IfNotExists: true,
		})
		if err != nil {
			return fmt.Errorf("failed to create table for model %T: %w", table, err)
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// queryLogger implements pg.QueryHook for debug-level query logging
type queryLogger struct {
	logger *observability.Logger
}

func (q queryLogger) BeforeQuery(ctx context.Context, _ *pg.QueryEvent) (context.Context, error) {
	return ctx, nil
}

func (q queryLogger) AfterQuery(_ context.Context, e *pg.QueryEvent) error {
	query, err := e.FormattedQuery()
	if err != nil {
		return err
	}
	q.logger.Debug("sql query", zap.ByteString("query", query))
	return nil
}
