package chain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentproof/internal/config"
	"contentproof/internal/digest"
)

const testContract = "0x00000000000000000000000000000000000000c0"

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode answers JSON-RPC calls from the given method table.
func fakeNode(t *testing.T, methods map[string]func(params []json.RawMessage) any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if h, ok := methods[req.Method]; ok {
			resp["result"] = h(req.Params)
		} else {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found: " + req.Method}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testKey(t *testing.T) string {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return hex.EncodeToString(crypto.FromECDSA(key))
}

func chainID(id int64) func([]json.RawMessage) any {
	return func([]json.RawMessage) any { return hexutil.EncodeBig(big.NewInt(id)) }
}

func TestConnect_Failures(t *testing.T) {
	ctx := context.Background()
	node := fakeNode(t, map[string]func([]json.RawMessage) any{"eth_chainId": chainID(1)})

	tests := []struct {
		name string
		cfg  config.ChainConfig
		want error
	}{
		{"no rpc url", config.ChainConfig{PrivateKey: testKey(t), ChainID: 1, ContractAddress: testContract}, ErrWalletUnavailable},
		{"no signing key", config.ChainConfig{RPCURL: node.URL, ChainID: 1, ContractAddress: testContract}, ErrWalletUnavailable},
		{"malformed key", config.ChainConfig{RPCURL: node.URL, PrivateKey: "zz", ChainID: 1, ContractAddress: testContract}, ErrAccountAccessDenied},
		{"bad contract", config.ChainConfig{RPCURL: node.URL, PrivateKey: testKey(t), ChainID: 1, ContractAddress: "nope"}, ErrInvalidContract},
		{"wrong network", config.ChainConfig{RPCURL: node.URL, PrivateKey: testKey(t), ChainID: 11155111, ContractAddress: testContract}, ErrNetworkSwitchDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, st := NewConnector(tt.cfg, false, zerolog.Nop()).Connect(ctx)

			assert.Nil(t, sess)
			assert.False(t, st.Connected)
			assert.ErrorIs(t, st.Err, tt.want)
			assert.True(t, IsUnavailable(st.Err))
			assert.NotEmpty(t, st.Message)
		})
	}
}

func TestConnect_DialFailure(t *testing.T) {
	c := NewConnector(config.ChainConfig{RPCURL: "http://node", PrivateKey: testKey(t), ChainID: 1, ContractAddress: testContract}, false, zerolog.Nop())
	c.dial = func(context.Context, string, *http.Client) (Backend, error) {
		return nil, errors.New("connection refused")
	}

	sess, st := c.Connect(context.Background())

	assert.Nil(t, sess)
	assert.ErrorIs(t, st.Err, ErrWalletUnavailable)
	assert.Contains(t, st.Message, "connection refused")
}

func TestConnect_Success(t *testing.T) {
	node := fakeNode(t, map[string]func([]json.RawMessage) any{"eth_chainId": chainID(11155111)})
	key := testKey(t)
	priv, err := crypto.HexToECDSA(key)
	require.NoError(t, err)

	sess, st := NewConnector(config.ChainConfig{
		RPCURL:          node.URL,
		PrivateKey:      "0x" + key,
		ChainID:         11155111,
		ContractAddress: testContract,
	}, true, zerolog.Nop()).Connect(context.Background())

	require.NotNil(t, sess)
	defer sess.Close()
	assert.True(t, st.Connected)
	assert.NoError(t, st.Err)
	assert.Equal(t, crypto.PubkeyToAddress(priv.PublicKey).Hex(), st.Account)
	assert.Equal(t, st.Account, sess.Account())
	assert.True(t, sess.Pinned())
}

func connectedSession(t *testing.T, methods map[string]func([]json.RawMessage) any) *Session {
	t.Helper()
	methods["eth_chainId"] = chainID(1)
	node := fakeNode(t, methods)
	sess, st := NewConnector(config.ChainConfig{
		RPCURL:          node.URL,
		PrivateKey:      testKey(t),
		ChainID:         1,
		ContractAddress: testContract,
	}, false, zerolog.Nop()).Connect(context.Background())
	require.NoError(t, st.Err)
	t.Cleanup(sess.Close)
	return sess
}

func TestSession_IsVerified(t *testing.T) {
	parsed, err := contractABI(false)
	require.NoError(t, err)

	for _, want := range []bool{true, false} {
		packed, err := parsed.Methods["isVerified"].Outputs.Pack(want)
		require.NoError(t, err)

		sess := connectedSession(t, map[string]func([]json.RawMessage) any{
			"eth_call": func([]json.RawMessage) any { return hexutil.Encode(packed) },
		})

		got, err := sess.IsVerified(context.Background(), digest.OfText("hello"))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestSession_IsVerified_CallError(t *testing.T) {
	sess := connectedSession(t, map[string]func([]json.RawMessage) any{})

	_, err := sess.IsVerified(context.Background(), digest.OfText("hello"))

	var callErr *ContractCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "isVerified", callErr.Method)
}

func TestSession_History(t *testing.T) {
	parsed, err := contractABI(false)
	require.NoError(t, err)

	d := digest.OfText("hello")
	packed, err := parsed.Methods["getUserHistory"].Outputs.Pack([]historyTuple{
		{ContentHash: d, IpfsCid: "QmHash", Timestamp: big.NewInt(1700000000)},
	})
	require.NoError(t, err)

	sess := connectedSession(t, map[string]func([]json.RawMessage) any{
		"eth_call": func([]json.RawMessage) any { return hexutil.Encode(packed) },
	})

	entries, err := sess.History(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, d, entries[0].ContentHash)
	assert.Equal(t, "QmHash", entries[0].CID)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), entries[0].Timestamp)

	_, err = sess.History(context.Background(), "not-an-address")
	assert.ErrorIs(t, err, ErrInvalidAccount)
}

func TestContractABI_Variants(t *testing.T) {
	plain, err := contractABI(false)
	require.NoError(t, err)
	pinned, err := contractABI(true)
	require.NoError(t, err)

	assert.Len(t, plain.Methods["verifyContent"].Inputs, 1)
	assert.Len(t, pinned.Methods["verifyContent"].Inputs, 2)
	assert.Equal(t, "verifyContent(bytes32)", plain.Methods["verifyContent"].Sig)
	assert.Equal(t, "verifyContent(bytes32,string)", pinned.Methods["verifyContent"].Sig)
	assert.Equal(t, "isVerified(bytes32)", plain.Methods["isVerified"].Sig)
}

func TestToReceipt(t *testing.T) {
	hash := common.HexToHash("0x01")

	r, err := toReceipt(&types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash, BlockNumber: big.NewInt(42), GasUsed: 21000})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), r.BlockNumber)
	assert.Equal(t, hash.Hex(), r.TxHash)

	_, err = toReceipt(&types.Receipt{Status: types.ReceiptStatusFailed, TxHash: hash})
	assert.ErrorIs(t, err, ErrTransactionRejected)
}

func TestWaitReceipt_NoTransaction(t *testing.T) {
	sess := connectedSession(t, map[string]func([]json.RawMessage) any{})
	_, err := sess.WaitReceipt(context.Background(), Pending{Hash: "0xabc"})
	assert.Error(t, err)
}

// submitNode serves the calls a contract transaction needs and records the raw
// transaction it receives. The receipt carries status.
func submitNode(t *testing.T, status string) (*httptest.Server, func() *types.Transaction) {
	t.Helper()
	var (
		mu   sync.Mutex
		sent *types.Transaction
	)
	last := func() *types.Transaction {
		mu.Lock()
		defer mu.Unlock()
		return sent
	}
	zero := "0x" + strings.Repeat("0", 64)
	bloom := "0x" + strings.Repeat("0", 512)
	const gas = "0x5208"
	fixed := func(v any) func([]json.RawMessage) any {
		return func([]json.RawMessage) any { return v }
	}

	node := fakeNode(t, map[string]func([]json.RawMessage) any{
		"eth_chainId":              chainID(1),
		"eth_getTransactionCount":  fixed("0x0"),
		"eth_getCode":              fixed("0x6001"),
		"eth_maxPriorityFeePerGas": fixed("0x1"),
		"eth_gasPrice":             fixed("0x1"),
		"eth_estimateGas":          fixed(gas),
		"eth_getBlockByNumber": fixed(map[string]any{
			"parentHash": zero, "sha3Uncles": zero, "miner": common.Address{}.Hex(),
			"stateRoot": zero, "transactionsRoot": zero, "receiptsRoot": zero,
			"logsBloom": bloom, "difficulty": "0x0", "number": "0x10",
			"gasLimit": "0x1000000", "gasUsed": "0x0", "timestamp": "0x1",
			"extraData": "0x", "baseFeePerGas": "0x1", "mixHash": zero, "nonce": "0x0000000000000000",
		}),
		"eth_sendRawTransaction": func(params []json.RawMessage) any {
			var raw string
			assert.NoError(t, json.Unmarshal(params[0], &raw))
			tx := new(types.Transaction)
			assert.NoError(t, tx.UnmarshalBinary(hexutil.MustDecode(raw)))
			mu.Lock()
			sent = tx
			mu.Unlock()
			return tx.Hash().Hex()
		},
		"eth_getTransactionReceipt": func([]json.RawMessage) any {
			tx := last()
			if tx == nil {
				return nil
			}
			return map[string]any{
				"status": status, "cumulativeGasUsed": gas, "gasUsed": gas,
				"logsBloom": bloom, "logs": []any{}, "transactionHash": tx.Hash().Hex(),
				"blockNumber": "0x11", "blockHash": zero, "transactionIndex": "0x0",
			}
		},
	})
	return node, last
}

func TestSession_SubmitAndWaitReceipt(t *testing.T) {
	d := digest.OfText("hello")

	for _, pinned := range []bool{false, true} {
		name := "plain"
		if pinned {
			name = "pinned"
		}
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			node, sent := submitNode(t, "0x1")
			sess, st := NewConnector(config.ChainConfig{
				RPCURL:          node.URL,
				PrivateKey:      testKey(t),
				ChainID:         1,
				ContractAddress: testContract,
			}, pinned, zerolog.Nop()).Connect(ctx)
			require.NoError(t, st.Err)
			defer sess.Close()

			p, err := sess.Submit(ctx, d, "QmCid")
			require.NoError(t, err)

			tx := sent()
			require.NotNil(t, tx)
			assert.Equal(t, tx.Hash().Hex(), p.Hash)
			assert.Equal(t, common.HexToAddress(testContract), *tx.To())
			assert.Equal(t, int64(1), tx.ChainId().Int64())

			parsed, err := contractABI(pinned)
			require.NoError(t, err)
			method := parsed.Methods["verifyContent"]
			assert.Equal(t, method.ID, tx.Data()[:4])

			args, err := method.Inputs.Unpack(tx.Data()[4:])
			require.NoError(t, err)
			assert.Equal(t, [32]byte(d), args[0])
			if pinned {
				require.Len(t, args, 2)
				assert.Equal(t, "QmCid", args[1])
			} else {
				assert.Len(t, args, 1)
			}

			r, err := sess.WaitReceipt(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, uint64(17), r.BlockNumber)
			assert.Equal(t, p.Hash, r.TxHash)
			assert.Equal(t, uint64(21000), r.GasUsed)
		})
	}
}

func TestSession_WaitReceipt_Reverted(t *testing.T) {
	ctx := context.Background()
	node, _ := submitNode(t, "0x0")
	sess, st := NewConnector(config.ChainConfig{
		RPCURL:          node.URL,
		PrivateKey:      testKey(t),
		ChainID:         1,
		ContractAddress: testContract,
	}, false, zerolog.Nop()).Connect(ctx)
	require.NoError(t, st.Err)
	defer sess.Close()

	p, err := sess.Submit(ctx, digest.OfText("hello"), "")
	require.NoError(t, err)

	_, err = sess.WaitReceipt(ctx, p)
	assert.ErrorIs(t, err, ErrTransactionRejected)
}
