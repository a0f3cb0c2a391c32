package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"lasanalyzer/internal/config"
)

// ErrNotFound is returned when a well does not exist.
var ErrNotFound = errors.New("storage: well not found")

// Repository is the persistence contract used by the service layer.
type Repository interface {
	CreateWell(ctx context.Context, well *Well, curves []Curve, rows []LogRow) error
	ListWells(ctx context.Context) ([]Well, error)
	GetWell(ctx context.Context, id string) (*Well, error)
	ListCurves(ctx context.Context, wellID string) ([]Curve, error)
	QueryRows(ctx context.Context, wellID string, from, to float64) ([]LogRow, error)
	DepthRange(ctx context.Context, wellID string) (min, max float64, ok bool, err error)
	DeleteWell(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// GormRepository implements Repository on top of gorm.
type GormRepository struct {
	db          *gorm.DB
	logger      *slog.Logger
	insertBatch int
}

// Open connects to the configured database and migrates the schema.
func Open(cfg config.DatabaseConfig, logger *slog.Logger) (*GormRepository, error) {
	logger = logger.With(slog.String("component", "storage"))

	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(logger, cfg.Debug)})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	repo, err := NewGormRepository(db, logger, cfg.InsertBatch)
	if err != nil {
		return nil, err
	}

	logger.Info("database ready", slog.String("driver", cfg.Driver))
	return repo, nil
}

// NewGormRepository wraps an open gorm handle and runs AutoMigrate.
func NewGormRepository(db *gorm.DB, logger *slog.Logger, insertBatch int) (*GormRepository, error) {
	if err := db.AutoMigrate(&Well{}, &Curve{}, &LogRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	if insertBatch <= 0 {
		insertBatch = config.DefaultInsertBatch
	}
	return &GormRepository{db: db, logger: logger, insertBatch: insertBatch}, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = config.DefaultSQLitePath
		}
		if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
			if dir := filepath.Dir(dsn); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return nil, fmt.Errorf("failed to create database directory: %w", err)
				}
			}
		}
		return sqlite.Open(dsn), nil
	case config.DriverMySQL:
		if cfg.DSN == "" {
			return nil, errors.New("mysql driver requires a DSN")
		}
		return mysql.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// CreateWell stores a well with its curves and rows in one transaction.
func (r *GormRepository) CreateWell(ctx context.Context, well *Well, curves []Curve, rows []LogRow) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(well).Error; err != nil {
			return fmt.Errorf("insert well: %w", err)
		}
		for i := range curves {
			curves[i].WellID = well.ID
		}
		if len(curves) > 0 {
			if err := tx.Create(&curves).Error; err != nil {
				return fmt.Errorf("insert curves: %w", err)
			}
		}
		for i := range rows {
			rows[i].WellID = well.ID
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(&rows, r.insertBatch).Error; err != nil {
				return fmt.Errorf("insert rows: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.DebugContext(ctx, "well stored",
		slog.String("well_id", well.ID),
		slog.Int("curves", len(curves)),
		slog.Int("rows", len(rows)),
	)
	return nil
}

// ListWells returns all wells, newest first.
func (r *GormRepository) ListWells(ctx context.Context) ([]Well, error) {
	var wells []Well
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&wells).Error; err != nil {
		return nil, fmt.Errorf("list wells: %w", err)
	}
	return wells, nil
}

// GetWell returns one well or ErrNotFound.
func (r *GormRepository) GetWell(ctx context.Context, id string) (*Well, error) {
	var well Well
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&well).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get well %s: %w", id, err)
	}
	return &well, nil
}

// ListCurves returns the well's curves in declaration order.
func (r *GormRepository) ListCurves(ctx context.Context, wellID string) ([]Curve, error) {
	var curves []Curve
	if err := r.db.WithContext(ctx).Where("well_id = ?", wellID).Order("ordinal ASC").Find(&curves).Error; err != nil {
		return nil, fmt.Errorf("list curves: %w", err)
	}
	return curves, nil
}

// QueryRows returns rows with depth in [from, to], ordered by depth.
func (r *GormRepository) QueryRows(ctx context.Context, wellID string, from, to float64) ([]LogRow, error) {
	var rows []LogRow
	err := r.db.WithContext(ctx).
		Where("well_id = ? AND depth >= ? AND depth <= ?", wellID, from, to).
		Order("depth ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	return rows, nil
}

// DepthRange returns the smallest and largest stored depth. ok is false for a well with
// no rows.
func (r *GormRepository) DepthRange(ctx context.Context, wellID string) (min, max float64, ok bool, err error) {
	var result struct {
		MinDepth sql.NullFloat64
		MaxDepth sql.NullFloat64
	}
	err = r.db.WithContext(ctx).Model(&LogRow{}).
		Select("MIN(depth) AS min_depth, MAX(depth) AS max_depth").
		Where("well_id = ?", wellID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, false, fmt.Errorf("depth range: %w", err)
	}
	if !result.MinDepth.Valid || !result.MaxDepth.Valid {
		return 0, 0, false, nil
	}
	return result.MinDepth.Float64, result.MaxDepth.Float64, true, nil
}

// DeleteWell removes the well with its rows and curves. It returns ErrNotFound when the
// well does not exist.
func (r *GormRepository) DeleteWell(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("well_id = ?", id).Delete(&LogRow{}).Error; err != nil {
			return fmt.Errorf("delete rows: %w", err)
		}
		if err := tx.Where("well_id = ?", id).Delete(&Curve{}).Error; err != nil {
			return fmt.Errorf("delete curves: %w", err)
		}
		res := tx.Where("id = ?", id).Delete(&Well{})
		if res.Error != nil {
			return fmt.Errorf("delete well: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Ping checks the database connection.
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (r *GormRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
