package cmd

import (
	"log"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print every block in the chain.",
	Run:   showRun,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func showRun(cmd *cobra.Command, args []string) {
	chain, err := loadChain()
	if err != nil {
		log.Fatal(err)
	}

	data := pterm.TableData{{"index", "time", "data", "hash", "nonce", "difficulty"}}
	for _, block := range chain.Blocks() {
		data = append(data, []string{
			strconv.FormatUint(block.Index, 10),
			block.Timestamp.Format("2006-01-02 15:04:05"),
			block.Data,
			block.Hash,
			strconv.FormatUint(block.Nonce, 10),
			strconv.FormatUint(uint64(block.Difficulty), 10),
		})
	}

	pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(data).Render()
}
