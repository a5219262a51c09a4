package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS mutations (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id     TEXT NOT NULL,
		node           TEXT NOT NULL,
		component_type TEXT NOT NULL,
		property       TEXT NOT NULL,
		property_type  TEXT DEFAULT '',
		requested      TEXT DEFAULT 'null',
		coerced        TEXT DEFAULT 'null',
		actual         TEXT DEFAULT 'null',
		success        INTEGER NOT NULL DEFAULT 0,
		verified       INTEGER NOT NULL DEFAULT 0,
		error_code     TEXT DEFAULT '',
		message        TEXT DEFAULT '',
		duration_ms    INTEGER DEFAULT 0,
		created_at     TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_mutations_node ON mutations (node);
	CREATE INDEX IF NOT EXISTS idx_mutations_node_property ON mutations (node, property);
	CREATE INDEX IF NOT EXISTS idx_mutations_request ON mutations (request_id);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
