// Package database maintains the block data model and the proof of work
// required to mine one.
package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrCancelled is returned from Mine when the caller's context is cancelled
// before a solution is found.
var ErrCancelled = errors.New("mining cancelled")

// ZeroHash is the previous hash sentinel carried by the genesis block.
const ZeroHash = "0"

// progressInterval is the number of attempts between progress events
// during mining.
const progressInterval = 10_000

// =============================================================================

// Block represents a single link in the chain. Index, Timestamp, Data,
// PrevBlockHash and Difficulty are fixed at construction time; Nonce and
// Hash are discovered by the mining search and never change afterwards.
type Block struct {
	Index         uint64    // Position in the chain, genesis is 0.
	Timestamp     time.Time // Captured once at construction, part of the hash input.
	Data          string    // Opaque payload, never interpreted by the engine.
	PrevBlockHash string    // Hash of the prior block, ZeroHash for genesis.
	Hash          string    // Hex digest of the block's own fields once mined.
	Nonce         uint64    // The only field mutated by the mining search.
	Difficulty    uint      // Required leading zero characters in Hash.
}

// New constructs a block ready to be mined. The timestamp is captured here
// and the hash stays empty until Mine finds a solution.
func New(index uint64, data string, prevBlockHash string, difficulty uint) Block {
	return Block{
		Index:         index,
		Timestamp:     time.Now().UTC(),
		Data:          data,
		PrevBlockHash: prevBlockHash,
		Difficulty:    difficulty,
	}
}

// =============================================================================

// MineStats captures the ephemeral measurements of a single mining run.
// Only the winning nonce survives in the block itself, so this is the one
// place an exact attempt count is available.
type MineStats struct {
	Attempts uint64
	Elapsed  time.Duration
	HashRate float64
}

// Mine performs the proof of work search, incrementing the nonce from zero
// until the block's hash carries the required number of leading zero
// characters. Pointer semantics are being used since a nonce and hash are
// being discovered.
func (b *Block) Mine(ctx context.Context, ev func(v string, args ...any)) (MineStats, error) {
	ev("database: Mine: MINING: started: blk[%d] difficulty[%d]", b.Index, b.Difficulty)

	t := time.Now()

	var attempts uint64
	for {
		attempts++
		if attempts%progressInterval == 0 {
			ev("database: Mine: MINING: blk[%d] attempts[%d] rate[%.0f H/s]", b.Index, attempts, float64(attempts)/time.Since(t).Seconds())
		}

		// The search has no upper bound, so the context is the only way out
		// when the difficulty turns out to be unaffordable.
		if ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED: blk[%d]", b.Index)
			return MineStats{}, ErrCancelled
		}

		hash := b.RecomputeHash()
		if !isHashSolved(b.Difficulty, hash) {
			b.Nonce++
			continue
		}

		b.Hash = hash
		break
	}

	elapsed := time.Since(t)
	stats := MineStats{
		Attempts: attempts,
		Elapsed:  elapsed,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		stats.HashRate = float64(attempts) / secs
	}

	ev("database: Mine: MINING: SOLVED: blk[%d] nonce[%d] attempts[%d]", b.Index, b.Nonce, attempts)

	return stats, nil
}

// =============================================================================

// RecomputeHash returns the hash the block's current fields produce. It
// never mutates the block; Mine and the validation checks both build on it.
// The field order is fixed and part of the chain's identity.
func (b Block) RecomputeHash() string {
	input := fmt.Sprintf("%d%d%s%s%d%d",
		b.Index,
		b.Timestamp.Unix(),
		b.Data,
		b.PrevBlockHash,
		b.Nonce,
		b.Difficulty,
	)

	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])
}

// IsHashValid reports whether the stored hash reproduces from the block's
// own fields.
func (b Block) IsHashValid() bool {
	return b.Hash == b.RecomputeHash()
}

// HasValidProofOfWork reports whether the stored hash satisfies the
// block's own difficulty target.
func (b Block) HasValidProofOfWork() bool {
	return isHashSolved(b.Difficulty, b.Hash)
}

// IsValid reports whether the block is internally consistent: the hash
// reproduces from the fields and meets the proof of work target.
func (b Block) IsValid() bool {
	return b.IsHashValid() && b.HasValidProofOfWork()
}

// Size returns an approximate byte size for the block's stored content.
func (b Block) Size() int {

	// Index, nonce, difficulty and the unix timestamp at 8 bytes each.
	const fixed = 32

	return fixed + len(b.Data) + len(b.PrevBlockHash) + len(b.Hash)
}

// isHashSolved checks the hash complies with the POW rules. We need to
// match a difficulty number of leading zero characters. A difficulty of
// zero is satisfied by any hash.
func isHashSolved(difficulty uint, hash string) bool {
	return strings.HasPrefix(hash, strings.Repeat("0", int(difficulty)))
}
