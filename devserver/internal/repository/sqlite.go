package repository

import (
	"context"
	"io/fs"
	"sync"

	"github.com/Astemirdum/livraria/devserver/config"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	_ "github.com/mattn/go-sqlite3"
)

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

// NewSQLiteDB opens the database and applies the embedded migrations.
func NewSQLiteDB(ctx context.Context, cfg config.Database, migrations fs.FS, log *zap.Logger) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlite3", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "sqlx.Connect")
	}
	// one writer; also keeps a :memory: database on a single connection
	db.SetMaxOpenConns(1)

	if err := migrate(db, migrations, log); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sqlx.DB, migrations fs.FS, log *zap.Logger) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{log.Named("migrate").Sugar()})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "goose.SetDialect")
	}
	if err := goose.Up(db.DB, "."); err != nil {
		return errors.Wrap(err, "goose.Up")
	}
	return nil
}

type gooseLogger struct {
	*zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.Infof(format, v...)
}
