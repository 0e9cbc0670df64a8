package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	batchCount  int
	batchPrefix string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Mine a run of blocks with numbered payloads.",
	Run:   batchRun,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntVarP(&batchCount, "count", "n", 1, "Number of blocks to mine.")
	batchCmd.Flags().StringVarP(&batchPrefix, "prefix", "p", "tx", "Payload prefix.")
}

func batchRun(cmd *cobra.Command, args []string) {
	chain, err := loadChain()
	if err != nil {
		log.Fatal(err)
	}

	result, err := chain.BatchMine(cmd.Context(), batchCount, batchPrefix)

	// Blocks mined before a failure stay in the chain, so persist
	// whatever progress was made before reporting the error.
	if serr := saveChain(chain); serr != nil {
		log.Fatal(serr)
	}
	if err != nil {
		log.Fatalf("stopped after %d block(s): %v", result.Mined, err)
	}

	fmt.Printf("mined %d block(s) in %v\n", result.Mined, result.Elapsed)
}
