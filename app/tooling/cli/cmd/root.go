// Package cmd contains the ledger command tool.
package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/ardanlabs/ledger/foundation/ledger/state"
	"github.com/ardanlabs/ledger/foundation/ledger/storage/disk"
)

var chainFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&chainFile, "file", "f", "zledger/chain.json", "Path to the chain file.")
}

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Operate on a ledger chain file",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// loadChain reads the chain file, mining a fresh genesis at the default
// configuration when the file does not exist yet.
func loadChain() (*state.Chain, error) {
	chain, err := disk.Load(chainFile, nil)
	if errors.Is(err, fs.ErrNotExist) {
		return state.New(state.Config{Genesis: genesis.New()})
	}

	return chain, err
}

// saveChain writes the chain back to the chain file.
func saveChain(chain *state.Chain) error {
	return disk.Save(chain, chainFile)
}
