// Package disk implements the persistence contract for a chain: one JSON
// document per chain, written to and read from a single file.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/state"
)

// Error variables for the failure modes beyond plain IO errors, which are
// returned as-is so callers can test them with errors.Is(err, fs.ErrNotExist).
var (
	ErrSerialize   = errors.New("chain could not be serialized")
	ErrDeserialize = errors.New("chain file is malformed")
)

// validate holds the settings and caches for validating loaded documents.
var validate = validator.New()

// =============================================================================

// blockFS represents a block as written to the chain file. The json field
// names are the on-disk contract and must round-trip exactly.
type blockFS struct {
	Index        uint64    `json:"index"`
	Timestamp    time.Time `json:"timestamp" validate:"required"`
	Data         string    `json:"data"`
	PreviousHash string    `json:"previous_hash" validate:"required"`
	Hash         string    `json:"hash" validate:"required"`
	Nonce        uint64    `json:"nonce"`
	Difficulty   uint      `json:"difficulty"`
}

// chainFS represents the whole chain document as written to the file.
type chainFS struct {
	Chain               []blockFS `json:"chain" validate:"required,dive"`
	Difficulty          uint      `json:"difficulty"`
	MiningReward        uint64    `json:"mining_reward"`
	PendingTransactions []string  `json:"pending_transactions"`
}

// =============================================================================

// Save writes the entire chain to the specified file, creating parent
// directories as needed. The document is written in a single pass, so a
// partially written file is the only torn state a crash can leave behind.
func Save(chain *state.Chain, path string) error {
	snap := chain.Snapshot()

	doc := chainFS{
		Chain:               make([]blockFS, len(snap.Blocks)),
		Difficulty:          snap.Difficulty,
		MiningReward:        snap.MiningReward,
		PendingTransactions: snap.Pending,
	}
	for i, block := range snap.Blocks {
		doc.Chain[i] = blockFS{
			Index:        block.Index,
			Timestamp:    block.Timestamp,
			Data:         block.Data,
			PreviousHash: block.PrevBlockHash,
			Hash:         block.Hash,
			Nonce:        block.Nonce,
			Difficulty:   block.Difficulty,
		}
	}

	// An empty pending queue must serialize as a list, not null.
	if doc.PendingTransactions == nil {
		doc.PendingTransactions = []string{}
	}

	// Marshal the chain for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialize, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}

	return nil
}

// Load reads a chain document and rebuilds the chain value, replacing
// whatever the caller held wholesale. Load does not run Validate: the file
// may have been hand edited or come from an untrusted source, and callers
// that need the integrity guarantee check it explicitly.
func Load(path string, evHandler state.EventHandler) (*state.Chain, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc chainFS
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}

	// Catch structurally present but incomplete documents, like a block
	// missing its hash or timestamp.
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeserialize, err)
	}

	blocks := make([]database.Block, len(doc.Chain))
	for i, bfs := range doc.Chain {
		blocks[i] = database.Block{
			Index:         bfs.Index,
			Timestamp:     bfs.Timestamp,
			Data:          bfs.Data,
			PrevBlockHash: bfs.PreviousHash,
			Hash:          bfs.Hash,
			Nonce:         bfs.Nonce,
			Difficulty:    bfs.Difficulty,
		}
	}

	snap := state.Snapshot{
		Blocks:       blocks,
		Difficulty:   doc.Difficulty,
		MiningReward: doc.MiningReward,
		Pending:      doc.PendingTransactions,
	}

	return state.FromSnapshot(snap, evHandler), nil
}
