package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"contentproof/internal/config"
)

// Backend is the node API a Session needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
	Close()
}

// Connector establishes the signer session against the configured node.
type Connector struct {
	cfg    config.ChainConfig
	pinned bool
	client *http.Client
	log    zerolog.Logger

	// dial is replaced in tests.
	dial func(ctx context.Context, url string, client *http.Client) (Backend, error)
}

// NewConnector returns a Connector. pinned selects the verifyContent variant that
// takes a content identifier.
func NewConnector(cfg config.ChainConfig, pinned bool, log zerolog.Logger) *Connector {
	return &Connector{
		cfg:    cfg,
		pinned: pinned,
		client: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		log:    log.With().Str("component", "chain").Logger(),
		dial:   dialEthereum,
	}
}

func dialEthereum(ctx context.Context, url string, client *http.Client) (Backend, error) {
	rc, err := rpc.DialOptions(ctx, url, rpc.WithHTTPClient(client))
	if err != nil {
		return nil, err
	}
	return ethclient.NewClient(rc), nil
}

// Connect dials the node, checks the network and loads the signer. Failures are
// reported in Status and never terminate the process.
func (c *Connector) Connect(ctx context.Context) (*Session, Status) {
	st := Status{ChainID: c.cfg.ChainID, Contract: c.cfg.ContractAddress, Pinning: c.pinned}

	fail := func(err error) (*Session, Status) {
		st.Connected = false
		st.Err = err
		st.Message = err.Error()
		c.log.Warn().Err(err).Str("event", "chain_connect_failed").Msg("chain connector unavailable")
		return nil, st
	}

	if c.cfg.RPCURL == "" || c.cfg.PrivateKey == "" {
		return fail(fmt.Errorf("%w: rpc url and signing key are required", ErrWalletUnavailable))
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(c.cfg.PrivateKey, "0x"))
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrAccountAccessDenied, err))
	}
	account := crypto.PubkeyToAddress(key.PublicKey)
	st.Account = account.Hex()

	if !common.IsHexAddress(c.cfg.ContractAddress) {
		return fail(fmt.Errorf("%w: %q", ErrInvalidContract, c.cfg.ContractAddress))
	}

	backend, err := c.dial(ctx, c.cfg.RPCURL, c.client)
	if err != nil {
		return fail(fmt.Errorf("%w: dial: %v", ErrWalletUnavailable, err))
	}

	remote, err := backend.ChainID(ctx)
	if err != nil {
		backend.Close()
		return fail(fmt.Errorf("%w: chain id: %v", ErrWalletUnavailable, err))
	}
	if remote.Int64() != c.cfg.ChainID {
		backend.Close()
		return fail(fmt.Errorf("%w: node serves chain %s, want %d", ErrNetworkSwitchDenied, remote, c.cfg.ChainID))
	}

	sess, err := newSession(backend, key, remote, common.HexToAddress(c.cfg.ContractAddress), c.pinned)
	if err != nil {
		backend.Close()
		return fail(err)
	}

	st.Connected = true
	st.Message = "connected"
	c.log.Info().
		Str("event", "chain_connected").
		Str("account", st.Account).
		Int64("chain_id", st.ChainID).
		Bool("pinning_variant", c.pinned).
		Msg("chain session ready")
	return sess, st
}

func newSession(backend Backend, key *ecdsa.PrivateKey, chainID *big.Int, addr common.Address, pinned bool) (*Session, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccountAccessDenied, err)
	}
	parsed, err := contractABI(pinned)
	if err != nil {
		return nil, err
	}
	return &Session{
		backend:  backend,
		contract: bind.NewBoundContract(addr, parsed, backend, backend, backend),
		auth:     auth,
		account:  auth.From,
		pinned:   pinned,
	}, nil
}

// IsUnavailable reports whether err means the connector never produced a session.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrWalletUnavailable) ||
		errors.Is(err, ErrNetworkSwitchDenied) ||
		errors.Is(err, ErrAccountAccessDenied) ||
		errors.Is(err, ErrInvalidContract)
}
