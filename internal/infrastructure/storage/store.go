package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BastardoSenpai/BootlegXCom/internal/engine"
	"github.com/BastardoSenpai/BootlegXCom/pkg/logger"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrNotFound - снимка с таким ID нет
var ErrNotFound = errors.New("snapshot not found")

// SnapshotRecord - строка таблицы snapshots. Payload хранит BattleSnapshot целиком,
// остальные колонки дублируют поля для списков и фильтрации.
type SnapshotRecord struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Name           string         `gorm:"size:128;index" json:"name"`
	MissionType    string         `gorm:"size:32" json:"missionType"`
	Status         string         `gorm:"size:32" json:"status"`
	Round          int            `json:"round"`
	TurnsRemaining int            `json:"turnsRemaining"`
	Seed           int64          `json:"seed"`
	Payload        datatypes.JSON `json:"-"`
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`
}

func (SnapshotRecord) TableName() string { return "snapshots" }

// Store сохраняет снимки боя через gorm (sqlite или postgres)
type Store struct {
	db *gorm.DB
}

// Open подключается к базе и мигрирует схему.
// driver: "sqlite" (dsn - путь к файлу, пусто - память) или "postgres".
func Open(driver, dsn string) (*Store, error) {
	cfg := &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "sqlite", "":
		if dsn == "" {
			dsn = "file::memory:"
		}
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", driver, err)
	}

	if db.Dialector.Name() == "sqlite" {
		// одна база в памяти на все соединения пула
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := db.AutoMigrate(&SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate snapshots table: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "storage",
		"driver":    db.Dialector.Name(),
	}).Info("Snapshot storage ready")

	return &Store{db: db}, nil
}

// Close закрывает соединение
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save записывает снимок и возвращает его ID
func (s *Store) Save(ctx context.Context, name string, snap engine.BattleSnapshot) (uint, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	rec := SnapshotRecord{
		Name:           name,
		MissionType:    snap.MissionType.String(),
		Status:         snap.Mission.Status.String(),
		Round:          snap.Round,
		TurnsRemaining: snap.TurnsRemaining,
		Seed:           snap.Seed,
		Payload:        datatypes.JSON(payload),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return 0, fmt.Errorf("failed to save snapshot: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "storage",
		"id":        rec.ID,
		"name":      name,
		"round":     snap.Round,
	}).Info("Snapshot saved")
	return rec.ID, nil
}

// Load читает снимок по ID
func (s *Store) Load(ctx context.Context, id uint) (engine.BattleSnapshot, error) {
	var rec SnapshotRecord
	err := s.db.WithContext(ctx).First(&rec, id).Error
	return decodeRecord(rec, err)
}

// Latest - последний снимок с указанным именем (пустое имя - любой)
func (s *Store) Latest(ctx context.Context, name string) (engine.BattleSnapshot, error) {
	var rec SnapshotRecord
	q := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if name != "" {
		q = q.Where("name = ?", name)
	}
	err := q.First(&rec).Error
	return decodeRecord(rec, err)
}

// List возвращает метаданные снимков, новые первыми
func (s *Store) List(ctx context.Context, limit int) ([]SnapshotRecord, error) {
	var recs []SnapshotRecord
	q := s.db.WithContext(ctx).Omit("payload").Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// Delete удаляет снимок
func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&SnapshotRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

func decodeRecord(rec SnapshotRecord, err error) (engine.BattleSnapshot, error) {
	var snap engine.BattleSnapshot
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return snap, ErrNotFound
	}
	if err != nil {
		return snap, err
	}
	if err := json.Unmarshal(rec.Payload, &snap); err != nil {
		return snap, fmt.Errorf("failed to decode snapshot %d: %w", rec.ID, err)
	}
	return snap, nil
}
