// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"context"
	"sync"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
)

// EventHandler defines a function that is called when events occur in the
// processing of mining and validating blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to create a chain.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// Chain manages an append-only sequence of mined blocks along with the
// mining configuration applied to newly created blocks. Each Chain value
// carries its own configuration so multiple chains can coexist.
type Chain struct {
	mu sync.Mutex

	blocks       []database.Block
	difficulty   uint
	miningReward uint64
	pending      []string

	evHandler EventHandler
}

// New constructs a chain whose sole block is the genesis block, mined at
// the configured starting difficulty.
func New(cfg Config) (*Chain, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	c := Chain{
		difficulty:   cfg.Genesis.Difficulty,
		miningReward: cfg.Genesis.MiningReward,
		evHandler:    ev,
	}

	gb := database.New(0, cfg.Genesis.Payload, database.ZeroHash, cfg.Genesis.Difficulty)
	if _, err := gb.Mine(context.Background(), ev); err != nil {
		return nil, err
	}
	c.blocks = append(c.blocks, gb)

	return &c, nil
}

// =============================================================================

// Snapshot is the full value of a chain at a point in time. It carries
// everything the persistence layer needs to rebuild the chain wholesale.
type Snapshot struct {
	Blocks       []database.Block
	Difficulty   uint
	MiningReward uint64
	Pending      []string
}

// Snapshot copies the chain's current value.
func (c *Chain) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Blocks:       make([]database.Block, len(c.blocks)),
		Difficulty:   c.difficulty,
		MiningReward: c.miningReward,
		Pending:      make([]string, len(c.pending)),
	}
	copy(snap.Blocks, c.blocks)
	copy(snap.Pending, c.pending)

	return snap
}

// FromSnapshot constructs a chain from a previously captured snapshot.
// The caller swaps the returned chain in wholesale; nothing is merged.
// No integrity check runs here since the snapshot may come from an
// untrusted file, callers that need the guarantee run Validate.
func FromSnapshot(snap Snapshot, evHandler EventHandler) *Chain {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	c := Chain{
		blocks:       make([]database.Block, len(snap.Blocks)),
		difficulty:   snap.Difficulty,
		miningReward: snap.MiningReward,
		pending:      make([]string, len(snap.Pending)),
		evHandler:    ev,
	}
	copy(c.blocks, snap.Blocks)
	copy(c.pending, snap.Pending)

	return &c
}
