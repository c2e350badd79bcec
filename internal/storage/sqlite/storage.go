// Package sqlite persists canvas state to a single SQLite file through gorm
package sqlite

import (
	"context"
	"errors"
	"log/slog"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mcoot/pixelcanvas/internal/model"
	"github.com/mcoot/pixelcanvas/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// Open establishes a SQLite connection and migrates the schema
func Open(path string, logger *slog.Logger) (*Storage, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&actorRow{}, &historyRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", slog.String("path", path))
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying connection
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Actor operations

func (s *Storage) SaveActors(ctx context.Context, actors []model.Actor) error {
	if len(actors) == 0 {
		return nil
	}
	rows := make([]actorRow, len(actors))
	for i, a := range actors {
		rows[i] = toActorRow(a)
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(&rows).Error
}

func (s *Storage) ListActors(ctx context.Context) ([]model.Actor, error) {
	var rows []actorRow
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	actors := make([]model.Actor, len(rows))
	for i, r := range rows {
		actors[i] = r.toModel()
	}
	return actors, nil
}

// History operations

func (s *Storage) AppendHistory(ctx context.Context, records []model.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]historyRow, len(records))
	for i, r := range records {
		rows[i] = toHistoryRow(r)
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, 500).Error
}

func (s *Storage) ListHistory(ctx context.Context, afterSeq int64, limit int) ([]model.HistoryRecord, error) {
	query := s.db.WithContext(ctx).Where("seq > ?", afterSeq).Order("seq")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []historyRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]model.HistoryRecord, len(rows))
	for i, r := range rows {
		records[i] = r.toModel()
	}
	return records, nil
}
