package state

import (
	"errors"
	"fmt"
)

// Error variables for the ways chain operations can fail.
var (
	ErrEmptyChain    = errors.New("chain has no blocks")
	ErrInvalidBlock  = errors.New("mined block failed validation")
	ErrBlockNotFound = errors.New("block not found")
)

// ValidationCheck identifies which whole-chain check Validate found broken.
type ValidationCheck string

// The set of checks Validate performs, in order.
const (
	CheckEmptyChain  ValidationCheck = "empty chain"
	CheckGenesis     ValidationCheck = "genesis shape"
	CheckBlockHash   ValidationCheck = "hash mismatch"
	CheckProofOfWork ValidationCheck = "proof of work"
	CheckLinkage     ValidationCheck = "previous hash linkage"
	CheckIndex       ValidationCheck = "index sequence"
)

// ChainValidationError reports the first check Validate found broken and
// the block it was found at.
type ChainValidationError struct {
	Check ValidationCheck
	Index uint64
}

// Error implements the error interface.
func (cve *ChainValidationError) Error() string {
	return fmt.Sprintf("chain invalid at block %d: %s", cve.Index, cve.Check)
}
