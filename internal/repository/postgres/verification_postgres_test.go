package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentproof/internal/model"
	"contentproof/internal/repository"
)

var recordColumns = []string{"id", "user_id", "mode", "content", "result", "tx_hash", "created_at"}

func TestVerificationPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVerificationPostgres(db)
	now := time.Now().UTC()

	t.Run("with user", func(t *testing.T) {
		rec := &model.VerificationRecord{
			ID:        "rec-1",
			UserID:    "user-1",
			Mode:      "text",
			Content:   "0xabc",
			Result:    model.ResultVerified,
			TxHash:    "0xtx",
			CreatedAt: now,
		}
		mock.ExpectQuery("INSERT INTO verifications").
			WithArgs(rec.ID, "user-1", rec.Mode, rec.Content, rec.Result, rec.TxHash, rec.CreatedAt).
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow(rec.ID, rec.UserID, rec.Mode, rec.Content, rec.Result, rec.TxHash, rec.CreatedAt))

		got, err := repo.Create(context.Background(), rec)

		require.NoError(t, err)
		assert.Equal(t, "rec-1", got.ID)
		assert.Equal(t, model.ResultVerified, got.Result)
	})

	t.Run("anonymous record stores NULL user", func(t *testing.T) {
		rec := &model.VerificationRecord{ID: "rec-2", Mode: "hash", Content: "0xdef", Result: model.ResultFailed, CreatedAt: now}
		mock.ExpectQuery("INSERT INTO verifications").
			WithArgs(rec.ID, nil, rec.Mode, rec.Content, rec.Result, "", rec.CreatedAt).
			WillReturnRows(sqlmock.NewRows(recordColumns).
				AddRow(rec.ID, "", rec.Mode, rec.Content, rec.Result, "", rec.CreatedAt))

		got, err := repo.Create(context.Background(), rec)

		require.NoError(t, err)
		assert.Empty(t, got.UserID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerificationPostgres_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewVerificationPostgres(db)
	ctx := context.Background()

	t.Run("page", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM verifications`).
			WithArgs("user-1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		rows := sqlmock.NewRows(recordColumns).
			AddRow("rec-3", "user-1", "file", "0x03", model.ResultVerified, "0xt3", time.Now()).
			AddRow("rec-2", "user-1", "text", "0x02", model.ResultAlreadyVerified, "", time.Now().Add(-time.Minute))
		mock.ExpectQuery("SELECT (.+) FROM verifications WHERE user_id = (.+) ORDER BY created_at DESC").
			WithArgs("user-1", 2, 0).
			WillReturnRows(rows)

		res, err := repo.ListByUser(ctx, "user-1", repository.PageQuery{Limit: 2, Offset: 0})

		require.NoError(t, err)
		assert.Equal(t, 3, res.Total)
		require.Len(t, res.Items, 2)
		assert.Equal(t, "rec-3", res.Items[0].ID)
		assert.Equal(t, model.ResultAlreadyVerified, res.Items[1].Result)
	})

	t.Run("count fails", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM verifications`).
			WithArgs("user-1").
			WillReturnError(errors.New("boom"))

		res, err := repo.ListByUser(ctx, "user-1", repository.PageQuery{Limit: 10})

		assert.Nil(t, res)
		assert.ErrorContains(t, err, "count verifications")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
