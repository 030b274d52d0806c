package repositories

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

// isForeignKeyConstraintError reports MySQL/MariaDB errors 1451 (row is a
// parent) and 1452 (no parent row), and Postgres SQLSTATE 23503.
func isForeignKeyConstraintError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && (mysqlErr.Number == 1451 || mysqlErr.Number == 1452) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if isForeignKeyConstraintError(err) {
		return fmt.Errorf("%w: %v", models.ErrForeignKey, err)
	}
	return err
}

// classifyDelete is classify for DELETE statements, where a foreign key
// failure means other rows still point at the one being removed.
func classifyDelete(err error) error {
	if err == nil {
		return nil
	}
	if isForeignKeyConstraintError(err) {
		return fmt.Errorf("%w: %v", models.ErrStillReferenced, err)
	}
	return err
}
