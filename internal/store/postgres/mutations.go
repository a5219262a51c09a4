package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

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
VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8::jsonb, $9, $10, $11, $12, $13, $14)
`
	_, err = c.pool.Exec(ctx, query,
		rec.RequestID,
		rec.Node,
		rec.ComponentType,
		rec.Property,
		rec.PropertyType,
		string(requested),
		string(coerced),
		string(actual),
		rec.Success,
		rec.Verified,
		rec.ErrorCode,
		rec.Message,
		rec.Duration.Milliseconds(),
		createdAt,
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
		args = append(args, filter.Node)
		where = append(where, fmt.Sprintf("node = $%d", len(args)))
	}
	if filter.Property != "" {
		args = append(args, filter.Property)
		where = append(where, fmt.Sprintf("lower(property) = lower($%d)", len(args)))
	}

	query := `
SELECT id, request_id, node, component_type, property, property_type,
    requested, coerced, actual, success, verified, error_code, message, duration_ms, created_at
FROM mutations`
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	args = append(args, filter.EffectiveLimit())
	query += fmt.Sprintf("\nORDER BY id DESC LIMIT $%d", len(args))

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing mutations: %w", err)
	}
	defer rows.Close()

	results, err := pgx.CollectRows(rows, scanMutation)
	if err != nil {
		return nil, fmt.Errorf("scanning mutations: %w", err)
	}
	return results, nil
}

func scanMutation(row pgx.CollectableRow) (store.MutationRecord, error) {
	var (
		rec                        store.MutationRecord
		requested, coerced, actual []byte
		durationMS                 int64
	)
	if err := row.Scan(
		&rec.ID, &rec.RequestID, &rec.Node, &rec.ComponentType, &rec.Property, &rec.PropertyType,
		&requested, &coerced, &actual, &rec.Success, &rec.Verified, &rec.ErrorCode, &rec.Message,
		&durationMS, &rec.CreatedAt,
	); err != nil {
		return rec, err
	}
	for _, v := range []struct {
		raw []byte
		dst *any
	}{
		{requested, &rec.Requested},
		{coerced, &rec.Coerced},
		{actual, &rec.Actual},
	} {
		if len(v.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(v.raw, v.dst); err != nil {
			return rec, fmt.Errorf("unmarshaling mutation value: %w", err)
		}
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	return rec, nil
}
