package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

// nextID returns prefix followed by the next zero-padded sequence number in table.
func nextID(ctx context.Context, q dbtx, table, prefix string) (string, error) {
	var maxID int
	prefixLen := len(prefix) + 1
	err := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM %s WHERE id LIKE ?", prefixLen, table),
		prefix+"%",
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next %s ID: %w", table, err)
	}

	return fmt.Sprintf("%s%04d", prefix, maxID+1), nil
}
