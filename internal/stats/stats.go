// Package stats keeps a history of renders in a local SQLite database.
package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one finished render.
type Run struct {
	ID            uint `gorm:"primarykey"`
	CreatedAt     time.Time
	Build         string
	Script        string `gorm:"index"`
	Format        string
	Width         int
	Height        int
	FPS           int
	Frames        int
	Segments      int
	Workers       int
	Encoder       string
	VideoSeconds  float64
	RenderSeconds float64
	ConcatSeconds float64
	TotalSeconds  float64
	EffectiveFPS  float64
}

type Store struct {
	db *gorm.DB
}

// Open opens or creates the database at path. An empty path keeps the
// history in memory for the life of the Store.
func Open(path string) (*Store, error) {
	dsn := "file::memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		dsn = path
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	// every in-memory connection would see its own empty database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Run{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate stats db: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Record(run *Run) error {
	return s.db.Create(run).Error
}

// Recent returns up to n runs, newest first.
func (s *Store) Recent(n int) ([]Run, error) {
	var runs []Run
	err := s.db.Order("created_at desc").Order("id desc").Limit(n).Find(&runs).Error
	return runs, err
}

// AverageFPS is the mean effective FPS of the runs of script.
func (s *Store) AverageFPS(script string) (float64, error) {
	var avg *float64
	err := s.db.Model(&Run{}).Where("script = ?", script).Select("AVG(effective_fps)").Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
