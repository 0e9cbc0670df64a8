// Package genesis maintains the chain's starting configuration.
package genesis

import (
	"encoding/json"
	"os"
)

// Default configuration applied when no genesis file is provided. The
// reward is exposed for future incentive use and is not enforced against
// any balance model.
const (
	DefaultDifficulty   = 2
	DefaultMiningReward = 100
	DefaultPayload      = "Genesis Block"
)

// Genesis represents the starting configuration for a chain.
type Genesis struct {
	Difficulty   uint   `json:"difficulty"`    // Difficulty the genesis block is mined at and the chain starts with.
	MiningReward uint64 `json:"mining_reward"` // Reward for mining a block.
	Payload      string `json:"payload"`       // Payload carried by the genesis block.
}

// New returns the default genesis configuration.
func New() Genesis {
	return Genesis{
		Difficulty:   DefaultDifficulty,
		MiningReward: DefaultMiningReward,
		Payload:      DefaultPayload,
	}
}

// Load opens and consumes a genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
