package chain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"contentproof/internal/digest"
)

// Session is a connected signer bound to the verification contract. It is created
// once at startup and shared by every attempt.
type Session struct {
	backend  Backend
	contract *bind.BoundContract
	auth     *bind.TransactOpts
	account  common.Address
	pinned   bool

	// sendMu serializes submissions so concurrent attempts do not reuse a nonce.
	sendMu sync.Mutex
}

// Account returns the signer address.
func (s *Session) Account() string { return s.account.Hex() }

// Pinned reports whether the contract variant takes a content identifier.
func (s *Session) Pinned() bool { return s.pinned }

// IsVerified calls isVerified(bytes32).
func (s *Session) IsVerified(ctx context.Context, d digest.Digest) (bool, error) {
	var out []any
	if err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isVerified", [32]byte(d)); err != nil {
		return false, &ContractCallError{Method: "isVerified", Err: err}
	}
	if len(out) != 1 {
		return false, &ContractCallError{Method: "isVerified", Err: fmt.Errorf("unexpected %d return values", len(out))}
	}
	ok, isBool := out[0].(bool)
	if !isBool {
		return false, &ContractCallError{Method: "isVerified", Err: fmt.Errorf("unexpected return type %T", out[0])}
	}
	return ok, nil
}

// Submit sends verifyContent. cid is passed only to the pinned variant.
func (s *Session) Submit(ctx context.Context, d digest.Digest, cid string) (Pending, error) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	opts := *s.auth
	opts.Context = ctx

	args := []any{[32]byte(d)}
	if s.pinned {
		args = append(args, cid)
	}
	tx, err := s.contract.Transact(&opts, "verifyContent", args...)
	if err != nil {
		return Pending{}, fmt.Errorf("%w: %v", ErrTransactionRejected, err)
	}
	return Pending{Hash: tx.Hash().Hex(), Tx: tx}, nil
}

// WaitReceipt blocks until the transaction is mined or ctx ends.
func (s *Session) WaitReceipt(ctx context.Context, p Pending) (*Receipt, error) {
	if p.Tx == nil {
		return nil, fmt.Errorf("wait receipt: no transaction for %s", p.Hash)
	}
	r, err := bind.WaitMined(ctx, s.backend, p.Tx)
	if err != nil {
		return nil, fmt.Errorf("wait receipt %s: %w", p.Hash, err)
	}
	return toReceipt(r)
}

func toReceipt(r *types.Receipt) (*Receipt, error) {
	if r.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: transaction %s reverted", ErrTransactionRejected, r.TxHash.Hex())
	}
	var block uint64
	if r.BlockNumber != nil {
		block = r.BlockNumber.Uint64()
	}
	return &Receipt{TxHash: r.TxHash.Hex(), BlockNumber: block, GasUsed: r.GasUsed}, nil
}

// History calls getUserHistory(address). An empty account means the signer.
func (s *Session) History(ctx context.Context, account string) ([]HistoryEntry, error) {
	addr := s.account
	if account != "" {
		if !common.IsHexAddress(account) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAccount, account)
		}
		addr = common.HexToAddress(account)
	}

	var out []any
	if err := s.contract.Call(&bind.CallOpts{Context: ctx}, &out, "getUserHistory", addr); err != nil {
		return nil, &ContractCallError{Method: "getUserHistory", Err: err}
	}
	if len(out) != 1 {
		return nil, &ContractCallError{Method: "getUserHistory", Err: fmt.Errorf("unexpected %d return values", len(out))}
	}
	tuples := *abi.ConvertType(out[0], new([]historyTuple)).(*[]historyTuple)

	entries := make([]HistoryEntry, 0, len(tuples))
	for _, t := range tuples {
		entries = append(entries, HistoryEntry{
			ContentHash: digest.Digest(t.ContentHash),
			CID:         t.IpfsCid,
			Timestamp:   time.Unix(t.Timestamp.Int64(), 0).UTC(),
		})
	}
	return entries, nil
}

// Close releases the node connection.
func (s *Session) Close() {
	s.backend.Close()
}
