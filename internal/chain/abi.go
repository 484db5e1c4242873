package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const readMethodsABI = `
  {"type":"function","name":"isVerified","stateMutability":"view",
   "inputs":[{"name":"contentHash","type":"bytes32"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"function","name":"getUserHistory","stateMutability":"view",
   "inputs":[{"name":"user","type":"address"}],
   "outputs":[{"name":"","type":"tuple[]","components":[
     {"name":"contentHash","type":"bytes32"},
     {"name":"ipfsCid","type":"string"},
     {"name":"timestamp","type":"uint256"}]}]}`

const verifyPlainABI = `
  {"type":"function","name":"verifyContent","stateMutability":"nonpayable",
   "inputs":[{"name":"contentHash","type":"bytes32"}],"outputs":[]}`

const verifyPinnedABI = `
  {"type":"function","name":"verifyContent","stateMutability":"nonpayable",
   "inputs":[{"name":"contentHash","type":"bytes32"},{"name":"ipfsCid","type":"string"}],"outputs":[]}`

// historyTuple mirrors the getUserHistory tuple components.
type historyTuple struct {
	ContentHash [32]byte
	IpfsCid     string
	Timestamp   *big.Int
}

// contractABI returns the contract ABI for one deployment variant. The pinned
// variant takes the content identifier as a second verifyContent argument.
func contractABI(pinned bool) (abi.ABI, error) {
	verify := verifyPlainABI
	if pinned {
		verify = verifyPinnedABI
	}
	parsed, err := abi.JSON(strings.NewReader("[" + readMethodsABI + "," + verify + "]"))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("parse contract abi: %w", err)
	}
	return parsed, nil
}
