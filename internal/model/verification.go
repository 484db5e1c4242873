package model

import "time"

// Verification results stored on audit records.
const (
	ResultVerified        = "verified"
	ResultAlreadyVerified = "already verified"
	ResultFailed          = "failed"
)

// VerificationRecord is the local, append-only audit copy of one verification attempt.
// The chain stays authoritative; this record only mirrors what the service observed.
type VerificationRecord struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Mode      string    `json:"mode" bson:"mode"`
	Content   string    `json:"content" bson:"content"`
	Result    string    `json:"verification_result" bson:"result"`
	TxHash    string    `json:"tx_hash,omitempty" bson:"tx_hash,omitempty"`
	CreatedAt time.Time `json:"timestamp" bson:"created_at"`
}
