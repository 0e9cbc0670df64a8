package state

import (
	"context"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// AddBlock mines a new block carrying the specified payload and appends it
// to the chain. This is the only way the chain grows under normal
// operation. The returned MineStats exist only for this call; once the
// block is stored, the attempt count is gone.
func (c *Chain) AddBlock(ctx context.Context, data string) (database.Block, database.MineStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.addBlock(ctx, data)
}

// addBlock does the mine and append work. c.mu must be held.
func (c *Chain) addBlock(ctx context.Context, data string) (database.Block, database.MineStats, error) {

	// Append logic reads the latest block's index and hash, so an empty
	// chain has to be rejected first even though New never produces one.
	if len(c.blocks) == 0 {
		return database.Block{}, database.MineStats{}, ErrEmptyChain
	}
	latest := c.blocks[len(c.blocks)-1]

	c.evHandler("state: addBlock: MINING: blk[%d] difficulty[%d]", latest.Index+1, c.difficulty)

	block := database.New(latest.Index+1, data, latest.Hash, c.difficulty)
	stats, err := block.Mine(ctx, c.evHandler)
	if err != nil {
		return database.Block{}, database.MineStats{}, err
	}

	// Mine only returns solved blocks, so this check should be
	// unreachable. Keep it cheap and do not append on failure.
	if !block.IsValid() {
		return database.Block{}, database.MineStats{}, ErrInvalidBlock
	}

	c.blocks = append(c.blocks, block)

	return block, stats, nil
}

// =============================================================================

// BatchResult reports the outcome of a batch mining run. Mined counts the
// blocks appended before any failure; those blocks stay in the chain, the
// run is not rolled back.
type BatchResult struct {
	Mined   int
	Elapsed time.Duration
}

// BatchMine mines count blocks whose payloads derive from the prefix and a
// running counter, stopping at the first failure.
func (c *Chain) BatchMine(ctx context.Context, count int, prefix string) (BatchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("state: BatchMine: started: count[%d]", count)
	defer c.evHandler("state: BatchMine: completed")

	t := time.Now()

	var result BatchResult
	for i := 1; i <= count; i++ {
		data := fmt.Sprintf("%s #%d", prefix, i)
		if _, _, err := c.addBlock(ctx, data); err != nil {
			result.Elapsed = time.Since(t)
			return result, err
		}
		result.Mined++
	}
	result.Elapsed = time.Since(t)

	return result, nil
}

// =============================================================================

// SubmitPending queues a payload for a later MinePending run.
func (c *Chain) SubmitPending(data string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = append(c.pending, data)
}

// Pending returns a copy of the queued payloads in submission order.
func (c *Chain) Pending() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	pending := make([]string, len(c.pending))
	copy(pending, c.pending)

	return pending
}

// MinePending consumes the pending queue front to back, mining one block
// per payload. A payload leaves the queue only once its block is appended,
// so a failure keeps the unconsumed remainder queued.
func (c *Chain) MinePending(ctx context.Context) (BatchResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evHandler("state: MinePending: started: pending[%d]", len(c.pending))
	defer c.evHandler("state: MinePending: completed")

	t := time.Now()

	var result BatchResult
	for len(c.pending) > 0 {
		if _, _, err := c.addBlock(ctx, c.pending[0]); err != nil {
			result.Elapsed = time.Since(t)
			return result, err
		}
		c.pending = c.pending[1:]
		result.Mined++
	}
	result.Elapsed = time.Since(t)

	return result, nil
}
