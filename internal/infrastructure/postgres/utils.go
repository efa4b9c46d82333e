package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlState extrae el código SQLSTATE de un error de pgx; cadena vacía si el
// error no proviene del servidor.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation detecta violaciones de constraint único.
func isUniqueViolation(err error) bool {
	return sqlState(err) == "23505"
}
