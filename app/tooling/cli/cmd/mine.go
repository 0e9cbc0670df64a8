package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine [payload]",
	Short: "Mine a new block carrying the payload.",
	Args:  cobra.ExactArgs(1),
	Run:   mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) {
	chain, err := loadChain()
	if err != nil {
		log.Fatal(err)
	}

	block, stats, err := chain.AddBlock(cmd.Context(), args[0])
	if err != nil {
		log.Fatal(err)
	}

	if err := saveChain(chain); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("block %d mined\nhash:     %s\nnonce:    %d\nattempts: %d\nelapsed:  %v\n",
		block.Index, block.Hash, block.Nonce, stats.Attempts, stats.Elapsed)
}
