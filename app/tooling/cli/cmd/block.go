package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/spf13/cobra"
)

var blockCmd = &cobra.Command{
	Use:   "block [index]",
	Short: "Print a single block by index.",
	Args:  cobra.ExactArgs(1),
	Run:   blockRun,
}

func init() {
	rootCmd.AddCommand(blockCmd)
}

func blockRun(cmd *cobra.Command, args []string) {
	index, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		log.Fatalf("%q is not a block index", args[0])
	}

	chain, err := loadChain()
	if err != nil {
		log.Fatal(err)
	}

	block, err := chain.GetBlock(index)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("index:         %d\n", block.Index)
	fmt.Printf("timestamp:     %s\n", block.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("data:          %s\n", block.Data)
	fmt.Printf("previous hash: %s\n", block.PrevBlockHash)
	fmt.Printf("hash:          %s\n", block.Hash)
	fmt.Printf("nonce:         %d\n", block.Nonce)
	fmt.Printf("difficulty:    %d\n", block.Difficulty)
}
