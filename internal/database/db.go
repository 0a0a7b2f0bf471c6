package database

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/postfeed/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const sqlitePrefix = "sqlite:"

var ErrUnsupportedDSN = xerrors.Message("unsupported database dsn")

type Options struct {
	MaxIdleConns  int
	MaxIdleTime   time.Duration
	SlowThreshold time.Duration
}

// Open connects to the database named by dsn. postgres:// and postgresql://
// DSNs go through lib/pq; sqlite:<path> (or sqlite::memory:) uses SQLite with
// foreign keys enforced.
func Open(ctx context.Context, dsn string, opts Options, log *slog.Logger) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         newGormLogger(log, opts.SlowThreshold),
	}

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return openPostgres(ctx, dsn, opts, gormConfig)
	case strings.HasPrefix(dsn, sqlitePrefix):
		return openSQLite(ctx, strings.TrimPrefix(dsn, sqlitePrefix), gormConfig)
	default:
		return nil, xerrors.New(ErrUnsupportedDSN)
	}
}

func openPostgres(ctx context.Context, dsn string, opts Options, gormConfig *gorm.Config) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, xerrors.New(err)
	}

	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.MaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(opts.MaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, xerrors.New(err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormConfig)
	if err != nil {
		_ = sqlDB.Close()
		return nil, xerrors.New(err)
	}
	return db, nil
}

func openSQLite(ctx context.Context, path string, gormConfig *gorm.Config) (*gorm.DB, error) {
	inMemory := strings.HasPrefix(path, ":memory:")

	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, xerrors.New(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, xerrors.New(err)
	}
	// Every connection to :memory: gets its own empty database.
	if inMemory {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, xerrors.New(err)
	}
	return db, nil
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return xerrors.New(err)
	}
	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return xerrors.New(err)
	}
	return sqlDB.Close()
}

func newGormLogger(log *slog.Logger, slowThreshold time.Duration) gormlogger.Interface {
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}
	return gormlogger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}
