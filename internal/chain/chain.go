// Package chain connects to the verification contract through a server-held signing key.
package chain

import (
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"contentproof/internal/digest"
)

var (
	// ErrWalletUnavailable means no signer or RPC endpoint is usable.
	ErrWalletUnavailable = errors.New("wallet unavailable")
	// ErrNetworkSwitchDenied means the node serves a different chain than configured.
	ErrNetworkSwitchDenied = errors.New("network switch denied")
	// ErrAccountAccessDenied means the signing key could not be loaded.
	ErrAccountAccessDenied = errors.New("account access denied")
	ErrInvalidContract     = errors.New("invalid contract address")
	ErrInvalidAccount      = errors.New("invalid account address")
	// ErrTransactionRejected covers refused submissions and reverted receipts.
	ErrTransactionRejected = errors.New("transaction rejected")
)

// ContractCallError wraps a failed read-only contract call.
type ContractCallError struct {
	Method string
	Err    error
}

func (e *ContractCallError) Error() string {
	return fmt.Sprintf("contract call %s: %v", e.Method, e.Err)
}

func (e *ContractCallError) Unwrap() error { return e.Err }

// Status describes the outcome of Connect. It is safe to render to clients.
type Status struct {
	Connected bool   `json:"connected"`
	Account   string `json:"account,omitempty"`
	ChainID   int64  `json:"chain_id,omitempty"`
	Contract  string `json:"contract,omitempty"`
	Pinning   bool   `json:"pinning_variant"`
	Message   string `json:"message"`
	Err       error  `json:"-"`
}

// Pending is a submitted transaction awaiting its receipt.
type Pending struct {
	Hash string
	Tx   *types.Transaction
}

// Receipt summarizes a mined transaction.
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	GasUsed     uint64
}

// HistoryEntry is one record returned by getUserHistory.
type HistoryEntry struct {
	ContentHash digest.Digest `json:"content_hash"`
	CID         string        `json:"ipfs_cid"`
	Timestamp   time.Time     `json:"timestamp"`
}
