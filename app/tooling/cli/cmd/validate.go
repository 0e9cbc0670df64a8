package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the whole-chain integrity scan.",
	Run:   validateRun,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateRun(cmd *cobra.Command, args []string) {
	chain, err := loadChain()
	if err != nil {
		log.Fatal(err)
	}

	if err := chain.Validate(); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("chain valid, %d block(s)\n", chain.Length())
}
