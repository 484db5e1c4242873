// Package verify drives verification attempts: hash, optionally pin, check the
// contract, then submit and wait for the receipt.
package verify

import (
	"context"
	"errors"
	"strings"
	"time"

	"contentproof/internal/chain"
	"contentproof/internal/digest"
)

// Phase is a step of one verification attempt.
type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseHashing          Phase = "hashing"
	PhasePinning          Phase = "pinning"
	PhaseCheckingExisting Phase = "checking_existing"
	PhaseAlreadyVerified  Phase = "already_verified"
	PhaseSubmitting       Phase = "submitting"
	PhaseAwaitingReceipt  Phase = "awaiting_receipt"
	PhaseSuccess          Phase = "success"
	PhaseFailed           Phase = "failed"
)

// Idle reports whether a new attempt may start from p.
func (p Phase) Idle() bool {
	return p == PhaseIdle || p == PhaseSuccess || p == PhaseFailed
}

// Mode selects how the digest is obtained.
type Mode string

const (
	ModeText Mode = "text"
	ModeFile Mode = "file"
	ModeHash Mode = "hash"
)

// MarkerAlreadyVerified replaces the transaction reference when nothing was written.
const MarkerAlreadyVerified = "already verified"

var (
	ErrEmptyInput        = errors.New("nothing to verify")
	ErrUnknownMode       = errors.New("unknown verification mode")
	ErrAttemptInProgress = errors.New("a verification is already in progress")
	ErrHistoryInProgress = errors.New("history is already loading")
	ErrChainUnavailable  = errors.New("chain not connected")
)

// Request is one submission from the dashboard.
type Request struct {
	Mode     Mode
	Text     string
	File     []byte
	Filename string
	Hash     string
}

// Validate rejects empty input before any state changes.
func (r Request) Validate() error {
	switch r.Mode {
	case ModeText:
		if strings.TrimSpace(r.Text) == "" {
			return ErrEmptyInput
		}
	case ModeFile:
		if len(r.File) == 0 {
			return ErrEmptyInput
		}
	case ModeHash:
		if strings.TrimSpace(r.Hash) == "" {
			return ErrEmptyInput
		}
	default:
		return ErrUnknownMode
	}
	return nil
}

// Outcome is the result of one attempt as rendered to the view.
type Outcome struct {
	Mode        Mode    `json:"mode"`
	Phase       Phase   `json:"phase"`
	Phases      []Phase `json:"phases"`
	Digest      string  `json:"digest,omitempty"`
	CID         string  `json:"cid,omitempty"`
	GatewayURL  string  `json:"gateway_url,omitempty"`
	TxHash      string  `json:"tx_hash,omitempty"`
	BlockNumber uint64  `json:"block_number,omitempty"`
	Marker      string  `json:"marker,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// HistoryPhase is the state of the read-only history fetch.
type HistoryPhase string

const (
	HistoryIdle    HistoryPhase = "idle"
	HistoryLoading HistoryPhase = "loading"
	HistoryLoaded  HistoryPhase = "loaded"
	HistoryFailed  HistoryPhase = "failed"
)

// HistoryView is the latest history fetch.
type HistoryView struct {
	Phase   HistoryPhase         `json:"phase"`
	Account string               `json:"account,omitempty"`
	Entries []chain.HistoryEntry `json:"entries"`
	Error   string               `json:"error,omitempty"`
}

// Snapshot is a consistent copy of a controller's state.
type Snapshot struct {
	Phase     Phase       `json:"phase"`
	CanSubmit bool        `json:"can_submit"`
	Last      *Outcome    `json:"last,omitempty"`
	Error     string      `json:"error,omitempty"`
	History   HistoryView `json:"history"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Ledger is the contract surface an attempt uses. *chain.Session satisfies it.
type Ledger interface {
	IsVerified(ctx context.Context, d digest.Digest) (bool, error)
	Submit(ctx context.Context, d digest.Digest, cid string) (chain.Pending, error)
	WaitReceipt(ctx context.Context, p chain.Pending) (*chain.Receipt, error)
	History(ctx context.Context, account string) ([]chain.HistoryEntry, error)
	Account() string
}

// Recorder stores the audit copy of a finished attempt.
type Recorder interface {
	Record(ctx context.Context, userID string, out *Outcome, result string)
}
