package verify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"contentproof/internal/chain"
	"contentproof/internal/digest"
	"contentproof/internal/model"
	"contentproof/internal/pinning"
)

const (
	textFilename = "content.txt"
	fileFilename = "upload.bin"
)

// Deps are the collaborators shared by every controller.
type Deps struct {
	// Ledger is nil when the chain connector failed; LedgerErr says why.
	Ledger    Ledger
	LedgerErr error
	// Pinner is nil when pinning is disabled.
	Pinner         pinning.Pinner
	Recorder       Recorder
	Metrics        *Metrics
	HexEncodeFiles bool
	Log            zerolog.Logger
}

// Controller runs one user's attempts, one at a time.
type Controller struct {
	userID string
	deps   *Deps
	log    zerolog.Logger

	mu      sync.Mutex
	phase   Phase
	last    *Outcome
	lastErr error
	history HistoryView
	updated time.Time
}

// NewController returns an idle controller for userID.
func NewController(userID string, deps *Deps) *Controller {
	return &Controller{
		userID:  userID,
		deps:    deps,
		log:     deps.Log.With().Str("component", "verify").Str("user_id", userID).Logger(),
		phase:   PhaseIdle,
		history: HistoryView{Phase: HistoryIdle, Entries: []chain.HistoryEntry{}},
		updated: time.Now().UTC(),
	}
}

// CanSubmit reports whether a new attempt would be admitted.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase.Idle()
}

// busy reports whether an attempt or a history fetch is running.
func (c *Controller) busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.phase.Idle() || c.history.Phase == HistoryLoading
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		Phase:     c.phase,
		CanSubmit: c.phase.Idle(),
		History:   c.history,
		UpdatedAt: c.updated,
	}
	if c.last != nil {
		last := *c.last
		last.Phases = append([]Phase(nil), c.last.Phases...)
		s.Last = &last
	}
	if c.lastErr != nil {
		s.Error = c.lastErr.Error()
	}
	s.History.Entries = append([]chain.HistoryEntry{}, c.history.Entries...)
	return s
}

// Submit runs one attempt to completion. Empty input is rejected without touching
// any collaborator, and a submission while another attempt is active returns
// ErrAttemptInProgress. On failure the returned Outcome is in PhaseFailed and the
// error carries the cause.
func (c *Controller) Submit(ctx context.Context, req Request) (*Outcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	if !c.phase.Idle() {
		c.mu.Unlock()
		return nil, ErrAttemptInProgress
	}
	// Claim the controller before releasing the lock.
	c.phase = PhaseHashing
	c.lastErr = nil
	c.updated = time.Now().UTC()
	c.mu.Unlock()

	out := &Outcome{Mode: req.Mode, Phase: PhaseHashing, Phases: []Phase{PhaseHashing}}
	return c.run(ctx, req, out)
}

func (c *Controller) run(ctx context.Context, req Request, out *Outcome) (*Outcome, error) {
	d, data, err := c.digest(req)
	if err != nil {
		return c.fail(ctx, out, err)
	}
	out.Digest = d.String()

	ledger := c.deps.Ledger
	if ledger == nil {
		return c.fail(ctx, out, fmt.Errorf("%w: %v", ErrChainUnavailable, c.deps.LedgerErr))
	}

	if p := c.deps.Pinner; p != nil && req.Mode != ModeHash {
		c.advance(out, PhasePinning)
		start := time.Now()
		cid, err := p.Upload(ctx, data, filename(req))
		c.deps.Metrics.pinned(p.Name(), start, err)
		if err != nil {
			return c.fail(ctx, out, err)
		}
		out.CID = cid
		if url, err := p.Gateway(ctx, cid); err != nil {
			c.log.Warn().Err(err).Str("cid", cid).Msg("gateway url unavailable")
		} else {
			out.GatewayURL = url
		}
	}

	c.advance(out, PhaseCheckingExisting)
	verified, err := ledger.IsVerified(ctx, d)
	if err != nil {
		return c.fail(ctx, out, err)
	}
	if verified {
		c.advance(out, PhaseAlreadyVerified)
		out.Marker = MarkerAlreadyVerified
		return c.succeed(ctx, out, model.ResultAlreadyVerified), nil
	}

	c.advance(out, PhaseSubmitting)
	pending, err := ledger.Submit(ctx, d, out.CID)
	if err != nil {
		return c.fail(ctx, out, err)
	}
	out.TxHash = pending.Hash

	c.advance(out, PhaseAwaitingReceipt)
	start := time.Now()
	receipt, err := ledger.WaitReceipt(ctx, pending)
	if err != nil {
		return c.fail(ctx, out, err)
	}
	c.deps.Metrics.receipt(start)
	out.BlockNumber = receipt.BlockNumber

	return c.succeed(ctx, out, model.ResultVerified), nil
}

func (c *Controller) digest(req Request) (digest.Digest, []byte, error) {
	switch req.Mode {
	case ModeText:
		return digest.OfText(req.Text), []byte(req.Text), nil
	case ModeFile:
		return digest.OfFile(req.File, c.deps.HexEncodeFiles), req.File, nil
	case ModeHash:
		d, err := digest.Parse(req.Hash)
		return d, nil, err
	default:
		return digest.Digest{}, nil, ErrUnknownMode
	}
}

func filename(req Request) string {
	if req.Mode == ModeFile {
		if req.Filename != "" {
			return req.Filename
		}
		return fileFilename
	}
	return textFilename
}

func (c *Controller) advance(out *Outcome, p Phase) {
	out.Phase = p
	out.Phases = append(out.Phases, p)

	c.mu.Lock()
	c.phase = p
	c.updated = time.Now().UTC()
	c.mu.Unlock()

	c.log.Debug().Str("phase", string(p)).Str("mode", string(out.Mode)).Msg("attempt phase")
}

func (c *Controller) succeed(ctx context.Context, out *Outcome, result string) *Outcome {
	c.advance(out, PhaseSuccess)
	c.finish(ctx, out, result, nil)

	c.log.Info().
		Str("event", "verify_success").
		Str("mode", string(out.Mode)).
		Str("digest", out.Digest).
		Str("tx_hash", out.TxHash).
		Str("result", result).
		Msg("verification finished")
	return out
}

func (c *Controller) fail(ctx context.Context, out *Outcome, err error) (*Outcome, error) {
	out.Error = err.Error()
	c.advance(out, PhaseFailed)
	c.finish(ctx, out, model.ResultFailed, err)

	c.log.Error().
		Err(err).
		Str("event", "verify_failed").
		Str("mode", string(out.Mode)).
		Str("digest", out.Digest).
		Msg("verification failed")
	return out, err
}

func (c *Controller) finish(ctx context.Context, out *Outcome, result string, err error) {
	last := *out
	last.Phases = append([]Phase(nil), out.Phases...)

	c.mu.Lock()
	c.last = &last
	c.lastErr = err
	c.mu.Unlock()

	c.deps.Metrics.attempt(out.Mode, result)
	if c.deps.Recorder != nil && out.Digest != "" {
		c.deps.Recorder.Record(ctx, c.userID, out, result)
	}
}
