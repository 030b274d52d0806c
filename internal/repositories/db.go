package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

// insertReturningID runs an INSERT written with ? placeholders and returns the
// generated key. Postgres reports it through RETURNING, MySQL through
// LastInsertId.
func insertReturningID(ctx context.Context, db *sqlx.DB, query, idColumn string, args ...interface{}) (int, error) {
	if db.DriverName() == "mysql" {
		res, err := db.ExecContext(ctx, db.Rebind(query), args...)
		if err != nil {
			return 0, classify(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		return int(id), nil
	}

	var id int
	err := db.QueryRowxContext(ctx, db.Rebind(query+" RETURNING "+idColumn), args...).Scan(&id)
	if err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// versioned appends an optimistic version check when version is set.
func versioned(query string, args []interface{}, version int) (string, []interface{}) {
	if version <= 0 {
		return query, args
	}
	return query + " AND version = ?", append(args, version)
}

// updateOutcome turns a zero-row UPDATE into ErrNoRecord or ErrConflict.
func updateOutcome(res sql.Result, exists func() (bool, error)) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}
	ok, err := exists()
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrNoRecord
	}
	return models.ErrConflict
}

func deleteOutcome(res sql.Result) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrNoRecord
	}
	return nil
}

func rowExists(ctx context.Context, db *sqlx.DB, table, idColumn string, id int) (bool, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(1) FROM %s WHERE %s = ?", table, idColumn)
	if err := db.GetContext(ctx, &n, db.Rebind(query), id); err != nil {
		return false, err
	}
	return n > 0, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNoRecord
	}
	return err
}
