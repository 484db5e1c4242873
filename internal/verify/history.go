package verify

import (
	"context"
	"fmt"

	"contentproof/internal/chain"
)

// History fetches the on-chain entries for account, or the signer when account is
// empty. It runs independently of attempts; only one fetch runs at a time.
func (c *Controller) History(ctx context.Context, account string) (HistoryView, error) {
	c.mu.Lock()
	if c.history.Phase == HistoryLoading {
		c.mu.Unlock()
		return HistoryView{}, ErrHistoryInProgress
	}
	c.history = HistoryView{Phase: HistoryLoading, Account: account, Entries: []chain.HistoryEntry{}}
	c.mu.Unlock()

	view, err := c.loadHistory(ctx, account)

	c.mu.Lock()
	c.history = view
	c.mu.Unlock()
	return view, err
}

func (c *Controller) loadHistory(ctx context.Context, account string) (HistoryView, error) {
	ledger := c.deps.Ledger
	if ledger == nil {
		err := fmt.Errorf("%w: %v", ErrChainUnavailable, c.deps.LedgerErr)
		return HistoryView{Phase: HistoryFailed, Account: account, Entries: []chain.HistoryEntry{}, Error: err.Error()}, err
	}
	if account == "" {
		account = ledger.Account()
	}

	entries, err := ledger.History(ctx, account)
	if err != nil {
		c.log.Error().Err(err).Str("event", "history_failed").Str("account", account).Msg("history fetch failed")
		return HistoryView{Phase: HistoryFailed, Account: account, Entries: []chain.HistoryEntry{}, Error: err.Error()}, err
	}
	if entries == nil {
		entries = []chain.HistoryEntry{}
	}
	return HistoryView{Phase: HistoryLoaded, Account: account, Entries: entries}, nil
}
