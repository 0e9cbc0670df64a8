package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Manage the queue of payloads waiting to be mined.",
}

var pendingAddCmd = &cobra.Command{
	Use:   "add [payload]",
	Short: "Queue a payload.",
	Args:  cobra.ExactArgs(1),
	Run:   pendingAddRun,
}

var pendingListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the queued payloads.",
	Run:   pendingListRun,
}

var pendingMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine every queued payload into its own block.",
	Run:   pendingMineRun,
}

func init() {
	rootCmd.AddCommand(pendingCmd)
	pendingCmd.AddCommand(pendingAddCmd, pendingListCmd, pendingMineCmd)
}

func pendingAddRun(cmd *cobra.Command, args []string) {
	chain, err := loadChain()
	if err != nil {
		log.Fatal(err)
	}

	chain.SubmitPending(args[0])

	if err := saveChain(chain); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("queued, %d payload(s) pending\n", len(chain.Pending()))
}

func pendingListRun(cmd *cobra.Command, args []string) {
	chain, err := loadChain()
	if err != nil {
		log.Fatal(err)
	}

	for i, data := range chain.Pending() {
		fmt.Printf("%d: %s\n", i, data)
	}
}

func pendingMineRun(cmd *cobra.Command, args []string) {
	chain, err := loadChain()
	if err != nil {
		log.Fatal(err)
	}

	result, err := chain.MinePending(cmd.Context())

	// Partial progress is kept, along with whatever stayed queued.
	if serr := saveChain(chain); serr != nil {
		log.Fatal(serr)
	}
	if err != nil {
		log.Fatalf("stopped after %d block(s): %v", result.Mined, err)
	}

	fmt.Printf("mined %d block(s) in %v\n", result.Mined, result.Elapsed)
}
