package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"scenebridge/internal/store"
)

func (c *Client) RecordMutation(ctx context.Context, rec store.MutationRecord) error {
	requested, err := json.Marshal(rec.Requested)
	if err != nil {
		return fmt.Errorf("marshaling requested value: %w", err)
	}
	coerced, err := json.Marshal(rec.Coerced)
	if err != nil {
		return fmt.Errorf("marshaling coerced value: %w", err)
	}
	actual, err := json.Marshal(rec.Actual)
	if err != nil {
		return fmt.Errorf("marshaling actual value: %w", err)
	}

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
	INSERT INTO mutations (request_id, node, component_type, property, property_type,
		requested, coerced, actual, success, verified, error_code, message, duration_ms, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = c.db.ExecContext(ctx, query,
		rec.RequestID,
		rec.Node,
		rec.ComponentType,
		rec.Property,
		rec.PropertyType,
		string(requested),
		string(coerced),
		string(actual),
		boolInt(rec.Success),
		boolInt(rec.Verified),
		rec.ErrorCode,
		rec.Message,
		rec.Duration.Milliseconds(),
		createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording mutation: %w", err)
	}
	return nil
}

func (c *Client) ListMutations(ctx context.Context, filter store.MutationFilter) ([]store.MutationRecord, error) {
	var (
		where []string
		args  []any
	)
	if filter.Node != "" {
		where = append(where, "node = ?")
		args = append(args, filter.Node)
	}
	if filter.Property != "" {
		where = append(where, "lower(property) = lower(?)")
		args = append(args, filter.Property)
	}

	query := `
	SELECT id, request_id, node, component_type, property, property_type,
		requested, coerced, actual, success, verified, error_code, message, duration_ms, created_at
	FROM mutations`
	if len(where) > 0 {
		query += "\n\tWHERE " + strings.Join(where, " AND ")
	}
	query += "\n\tORDER BY id DESC LIMIT ?"
	args = append(args, filter.EffectiveLimit())

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing mutations: %w", err)
	}
	defer rows.Close()

	var results []store.MutationRecord
	for rows.Next() {
		var (
			rec                        store.MutationRecord
			requested, coerced, actual string
			success, verified          int
			durationMS                 int64
			createdAt                  string
		)
		if err := rows.Scan(
			&rec.ID, &rec.RequestID, &rec.Node, &rec.ComponentType, &rec.Property, &rec.PropertyType,
			&requested, &coerced, &actual, &success, &verified, &rec.ErrorCode, &rec.Message,
			&durationMS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("scanning mutation: %w", err)
		}
		if err := decodeValues(&rec, requested, coerced, actual); err != nil {
			return nil, err
		}
		rec.Success = success != 0
		rec.Verified = verified != 0
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			rec.CreatedAt = t
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mutations: %w", err)
	}
	return results, nil
}

func decodeValues(rec *store.MutationRecord, requested, coerced, actual string) error {
	targets := []struct {
		raw string
		dst *any
	}{
		{requested, &rec.Requested},
		{coerced, &rec.Coerced},
		{actual, &rec.Actual},
	}
	for _, t := range targets {
		if t.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(t.raw), t.dst); err != nil {
			return fmt.Errorf("unmarshaling mutation value: %w", err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
