package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"
)

var difficultyCmd = &cobra.Command{
	Use:   "difficulty [value]",
	Short: "Set the difficulty applied to future blocks.",
	Args:  cobra.ExactArgs(1),
	Run:   difficultyRun,
}

func init() {
	rootCmd.AddCommand(difficultyCmd)
}

func difficultyRun(cmd *cobra.Command, args []string) {
	value, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		log.Fatalf("%q is not a difficulty", args[0])
	}

	chain, err := loadChain()
	if err != nil {
		log.Fatal(err)
	}

	chain.SetDifficulty(uint(value))

	if err := saveChain(chain); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("difficulty set to %d for future blocks\n", value)
}
