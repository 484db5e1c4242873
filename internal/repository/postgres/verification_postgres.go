package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"contentproof/internal/model"
	"contentproof/internal/repository"
)

// VerificationPostgres stores verification audit records in PostgreSQL.
type VerificationPostgres struct {
	db *sql.DB
}

// NewVerificationPostgres creates a new VerificationPostgres repository.
func NewVerificationPostgres(db *sql.DB) *VerificationPostgres {
	return &VerificationPostgres{db: db}
}

var _ repository.VerificationRepository = (*VerificationPostgres)(nil)

// Create appends an audit record.
func (r *VerificationPostgres) Create(ctx context.Context, rec *model.VerificationRecord) (*model.VerificationRecord, error) {
	const q = `
		INSERT INTO verifications (id, user_id, mode, content, result, tx_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, COALESCE(user_id::text, ''), mode, content, result, tx_hash, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		nullable(rec.UserID),
		rec.Mode,
		rec.Content,
		rec.Result,
		rec.TxHash,
		rec.CreatedAt,
	)
	var out model.VerificationRecord
	if err := scanRecord(row, &out); err != nil {
		return nil, fmt.Errorf("insert verification: %w", err)
	}
	return &out, nil
}

// ListByUser returns records using LIMIT/OFFSET pagination and a total count.
func (r *VerificationPostgres) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.VerificationRecord], error) {
	const qCount = `SELECT COUNT(*) FROM verifications WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, fmt.Errorf("count verifications: %w", err)
	}

	const qList = `
		SELECT id, COALESCE(user_id::text, ''), mode, content, result, tx_hash, created_at
		FROM verifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, fmt.Errorf("list verifications: %w", err)
	}
	defer rows.Close()

	items := make([]model.VerificationRecord, 0)
	for rows.Next() {
		var rec model.VerificationRecord
		if err := scanRecord(rows, &rec); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.VerificationRecord]{Items: items, Total: total}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner, rec *model.VerificationRecord) error {
	return s.Scan(&rec.ID, &rec.UserID, &rec.Mode, &rec.Content, &rec.Result, &rec.TxHash, &rec.CreatedAt)
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
