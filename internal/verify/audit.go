package verify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"contentproof/internal/model"
	"contentproof/internal/repository"
)

// AuditLog writes VerificationRecords. The chain stays authoritative, so a failed
// write is logged and the attempt result is unaffected.
type AuditLog struct {
	repo repository.VerificationRepository
	log  zerolog.Logger
}

func NewAuditLog(repo repository.VerificationRepository, log zerolog.Logger) *AuditLog {
	return &AuditLog{repo: repo, log: log.With().Str("component", "audit").Logger()}
}

func (a *AuditLog) Record(ctx context.Context, userID string, out *Outcome, result string) {
	rec := &model.VerificationRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mode:      string(out.Mode),
		Content:   out.Digest,
		Result:    result,
		TxHash:    out.TxHash,
		CreatedAt: time.Now().UTC(),
	}
	// The request may already be gone; the record should still land.
	if _, err := a.repo.Create(context.WithoutCancel(ctx), rec); err != nil {
		a.log.Error().
			Err(err).
			Str("event", "audit_write_failed").
			Str("user_id", userID).
			Str("digest", out.Digest).
			Msg("failed to store verification record")
	}
}
