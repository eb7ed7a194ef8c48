package postgres

import (
	"database/sql"
	"errors"

	goose "github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jhoicas/Clinica-api/migrations"
)

// UpMigrations aplica las migraciones embebidas contra la base. Usa el driver
// database/sql de pgx porque goose no habla el protocolo nativo del pool.
func UpMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
		return err
	}
	return nil
}
