package cmd

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print chain-wide statistics.",
	Run:   statsRun,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func statsRun(cmd *cobra.Command, args []string) {
	chain, err := loadChain()
	if err != nil {
		log.Fatal(err)
	}

	stats := chain.Statistics()

	var difficulties []string
	for d, n := range stats.Difficulties {
		difficulties = append(difficulties, fmt.Sprintf("%d:%d", d, n))
	}

	pterm.DefaultTable.WithData(pterm.TableData{
		{"blocks", strconv.Itoa(stats.TotalBlocks)},
		{"total size", fmt.Sprintf("%d bytes", stats.TotalSize)},
		{"difficulty", strconv.FormatUint(uint64(stats.Difficulty), 10)},
		{"mining reward", strconv.FormatUint(stats.MiningReward, 10)},
		{"pending payloads", strconv.Itoa(stats.PendingCount)},
		{"difficulty distribution", strings.Join(difficulties, " ")},
		{"total stored nonce", strconv.FormatUint(stats.TotalNonce, 10)},
		{"avg block time", fmt.Sprintf("%.2fs", stats.AvgBlockTime)},
		{"approx hash rate", fmt.Sprintf("%.0f H/s", stats.AvgHashRate)},
	}).Render()
}
