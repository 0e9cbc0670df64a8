package state

import (
	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// Validate runs the whole-chain integrity scan. Every hash is re-verified
// from scratch on every run since any historical field can have been
// tampered with; difficulty is fixed per block at mine time, so each block
// is checked against its own target. The scan short-circuits on the first
// broken check and returns a ChainValidationError naming it. A nil return
// means the chain is fully intact.
func (c *Chain) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.blocks) == 0 {
		return &ChainValidationError{Check: CheckEmptyChain}
	}

	gb := c.blocks[0]
	if gb.Index != 0 || gb.PrevBlockHash != database.ZeroHash {
		return &ChainValidationError{Check: CheckGenesis}
	}

	for i := 1; i < len(c.blocks); i++ {
		block := c.blocks[i]
		prev := c.blocks[i-1]

		c.evHandler("state: Validate: blk[%d]: check: hash, proof of work, linkage", block.Index)

		if !block.IsHashValid() {
			return &ChainValidationError{Check: CheckBlockHash, Index: block.Index}
		}
		if !block.HasValidProofOfWork() {
			return &ChainValidationError{Check: CheckProofOfWork, Index: block.Index}
		}
		if block.PrevBlockHash != prev.Hash {
			return &ChainValidationError{Check: CheckLinkage, Index: block.Index}
		}
		if block.Index != prev.Index+1 {
			return &ChainValidationError{Check: CheckIndex, Index: block.Index}
		}
	}

	return nil
}
