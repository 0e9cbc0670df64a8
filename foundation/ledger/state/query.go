package state

import (
	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// LatestBlock returns the last block in the chain.
func (c *Chain) LatestBlock() (database.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.blocks) == 0 {
		return database.Block{}, ErrEmptyChain
	}

	return c.blocks[len(c.blocks)-1], nil
}

// GetBlock returns the block at the specified index.
func (c *Chain) GetBlock(index uint64) (database.Block, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index >= uint64(len(c.blocks)) {
		return database.Block{}, ErrBlockNotFound
	}

	return c.blocks[index], nil
}

// Blocks returns a copy of the chain's blocks in chronological order.
func (c *Chain) Blocks() []database.Block {
	c.mu.Lock()
	defer c.mu.Unlock()

	blocks := make([]database.Block, len(c.blocks))
	copy(blocks, c.blocks)

	return blocks
}

// Length returns the number of blocks in the chain.
func (c *Chain) Length() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.blocks)
}

// Difficulty returns the difficulty applied to newly created blocks.
func (c *Chain) Difficulty() uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.difficulty
}

// SetDifficulty updates the difficulty for future mining only; existing
// blocks keep the difficulty they were mined at. Zero is the degenerate
// always-valid case and large values are accepted as-is, the caller owns
// the exponential cost they imply.
func (c *Chain) SetDifficulty(difficulty uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("state: SetDifficulty: difficulty[%d]", difficulty)

	c.difficulty = difficulty
}

// MiningReward returns the chain's flat reward constant.
func (c *Chain) MiningReward() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.miningReward
}

// =============================================================================

// Stats is a read-only aggregation over the chain's blocks. TotalNonce
// sums the winning nonce of every block; attempt counts are not
// recoverable post-mining, so it is only a floor on the work performed and
// AvgHashRate derived from it is an approximation.
type Stats struct {
	TotalBlocks  int
	TotalSize    int
	Difficulty   uint
	MiningReward uint64
	PendingCount int
	Difficulties map[uint]int
	TotalNonce   uint64
	AvgBlockTime float64
	AvgHashRate  float64
}

// Statistics computes the chain-wide aggregation in one linear pass.
func (c *Chain) Statistics() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		TotalBlocks:  len(c.blocks),
		Difficulty:   c.difficulty,
		MiningReward: c.miningReward,
		PendingCount: len(c.pending),
		Difficulties: make(map[uint]int),
	}

	for _, block := range c.blocks {
		stats.TotalSize += block.Size()
		stats.Difficulties[block.Difficulty]++
		stats.TotalNonce += block.Nonce
	}

	if len(c.blocks) > 1 {
		first := c.blocks[0]
		last := c.blocks[len(c.blocks)-1]
		span := last.Timestamp.Sub(first.Timestamp).Seconds()

		stats.AvgBlockTime = span / float64(len(c.blocks)-1)
		if span > 0 {
			stats.AvgHashRate = float64(stats.TotalNonce) / span
		}
	}

	return stats
}
