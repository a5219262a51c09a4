package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS mutations (
    id             BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    request_id     TEXT NOT NULL,
    node           TEXT NOT NULL,
    component_type TEXT NOT NULL,
    property       TEXT NOT NULL,
    property_type  TEXT DEFAULT '',
    requested      JSONB DEFAULT 'null',
    coerced        JSONB DEFAULT 'null',
    actual         JSONB DEFAULT 'null',
    success        BOOLEAN NOT NULL DEFAULT FALSE,
    verified       BOOLEAN NOT NULL DEFAULT FALSE,
    error_code     TEXT DEFAULT '',
    message        TEXT DEFAULT '',
    duration_ms    BIGINT DEFAULT 0,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_mutations_node ON mutations (node);
CREATE INDEX IF NOT EXISTS idx_mutations_node_property ON mutations (node, lower(property));
CREATE INDEX IF NOT EXISTS idx_mutations_request ON mutations (request_id);
`
	_, err := c.pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
