// This program runs the interactive console for the ledger. All chain
// semantics live in the foundation packages; this layer only dispatches
// operations and renders their results.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"go.uber.org/zap"

	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/ledger/database"
	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/ardanlabs/ledger/foundation/ledger/state"
	"github.com/ardanlabs/ledger/foundation/ledger/storage/disk"
	"github.com/ardanlabs/ledger/foundation/logger"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("LEDGER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Ledger struct {
			ChainFile    string `conf:"default:zledger/chain.json"`
			GenesisFile  string `conf:"help:optional genesis file overriding the built-in defaults"`
			Difficulty   uint   `conf:"default:2"`
			MiningReward uint64 `conf:"default:100"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "LEDGER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Mining Progress Events

	// The engine reports through its event handler; fan those strings out
	// so the console can render progress while a search is running.
	evts := events.New()
	defer evts.Shutdown()

	ev := func(v string, args ...any) {
		evts.Send(fmt.Sprintf(v, args...))
	}

	ch := evts.Acquire(uuid.New().String())
	go renderProgress(ch)

	// =========================================================================
	// Chain Support

	gen := genesis.New()
	gen.Difficulty = cfg.Ledger.Difficulty
	gen.MiningReward = cfg.Ledger.MiningReward

	if cfg.Ledger.GenesisFile != "" {
		gen, err = genesis.Load(cfg.Ledger.GenesisFile)
		if err != nil {
			return fmt.Errorf("loading genesis file: %w", err)
		}
	}

	// Pick up an existing chain file, otherwise mine a fresh genesis.
	chain, err := disk.Load(cfg.Ledger.ChainFile, ev)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Infow("startup", "status", "no chain file, mining genesis", "difficulty", gen.Difficulty)
		chain, err = state.New(state.Config{Genesis: gen, EvHandler: ev})
		if err != nil {
			return fmt.Errorf("initializing chain: %w", err)
		}
	case err != nil:
		return fmt.Errorf("loading chain file: %w", err)
	default:
		log.Infow("startup", "status", "chain file loaded", "blocks", chain.Length())
	}

	// =========================================================================
	// Console Loop

	pterm.DefaultHeader.Println("Hash-Chained Ledger")

	for {
		choice, err := pterm.DefaultInteractiveSelect.WithOptions(menu).Show("Select an operation")
		if err != nil {
			return err
		}

		if choice == opExit {
			return nil
		}

		// A load replaces the chain wholesale, so dispatch hands the
		// current chain back.
		chain, err = dispatch(choice, chain, cfg.Ledger.ChainFile, ev, log)
		if err != nil {
			pterm.Error.Println(err)
		}
	}
}

// =============================================================================

const (
	opMine       = "Mine a new block"
	opBatch      = "Batch mine"
	opQueue      = "Queue a payload"
	opPending    = "Mine pending payloads"
	opShow       = "Show the chain"
	opBlock      = "Show a block"
	opValidate   = "Validate the chain"
	opStats      = "Show statistics"
	opDifficulty = "Set difficulty"
	opSave       = "Save the chain"
	opLoad       = "Reload the chain from disk"
	opExit       = "Exit"
)

var menu = []string{
	opMine, opBatch, opQueue, opPending, opShow, opBlock,
	opValidate, opStats, opDifficulty, opSave, opLoad, opExit,
}

// dispatch invokes the engine operation behind a menu choice. It returns
// the chain to keep using, which opLoad replaces wholesale.
func dispatch(choice string, chain *state.Chain, chainFile string, ev state.EventHandler, log *zap.SugaredLogger) (*state.Chain, error) {
	switch choice {
	case opMine:
		data, err := pterm.DefaultInteractiveTextInput.Show("Payload")
		if err != nil {
			return chain, err
		}
		return chain, mineOne(chain, data)

	case opBatch:
		count, err := numberInput("Number of blocks")
		if err != nil {
			return chain, err
		}
		prefix, err := pterm.DefaultInteractiveTextInput.Show("Payload prefix")
		if err != nil {
			return chain, err
		}

		ctx, stop := mineContext()
		defer stop()

		result, err := chain.BatchMine(ctx, count, prefix)
		if err != nil {
			pterm.Warning.Printfln("batch stopped after %d block(s)", result.Mined)
			return chain, err
		}
		pterm.Success.Printfln("mined %d block(s) in %v", result.Mined, result.Elapsed)
		return chain, nil

	case opQueue:
		data, err := pterm.DefaultInteractiveTextInput.Show("Payload to queue")
		if err != nil {
			return chain, err
		}
		chain.SubmitPending(data)
		pterm.Success.Printfln("queued, %d payload(s) pending", len(chain.Pending()))
		return chain, nil

	case opPending:
		ctx, stop := mineContext()
		defer stop()

		result, err := chain.MinePending(ctx)
		if err != nil {
			pterm.Warning.Printfln("stopped after %d block(s), %d payload(s) still pending", result.Mined, len(chain.Pending()))
			return chain, err
		}
		pterm.Success.Printfln("mined %d block(s) in %v", result.Mined, result.Elapsed)
		return chain, nil

	case opShow:
		renderChain(chain)
		return chain, nil

	case opBlock:
		index, err := numberInput("Block index")
		if err != nil {
			return chain, err
		}
		block, err := chain.GetBlock(uint64(index))
		if err != nil {
			return chain, err
		}
		renderBlock(block)
		return chain, nil

	case opValidate:
		if err := chain.Validate(); err != nil {
			return chain, err
		}
		pterm.Success.Println("chain is valid")
		return chain, nil

	case opStats:
		renderStats(chain.Statistics())
		return chain, nil

	case opDifficulty:
		value, err := numberInput("Difficulty (leading zero characters)")
		if err != nil {
			return chain, err
		}
		chain.SetDifficulty(uint(value))
		pterm.Success.Printfln("difficulty set to %d for future blocks", value)
		return chain, nil

	case opSave:
		if err := disk.Save(chain, chainFile); err != nil {
			return chain, err
		}
		log.Infow("save", "file", chainFile, "blocks", chain.Length())
		pterm.Success.Printfln("chain saved to %s", chainFile)
		return chain, nil

	case opLoad:
		loaded, err := disk.Load(chainFile, ev)
		if err != nil {
			return chain, err
		}
		log.Infow("load", "file", chainFile, "blocks", loaded.Length())
		pterm.Success.Printfln("chain reloaded, %d block(s)", loaded.Length())
		return loaded, nil
	}

	return chain, fmt.Errorf("unknown operation %q", choice)
}

// mineOne mines a single block and renders the ephemeral mining stats.
func mineOne(chain *state.Chain, data string) error {
	ctx, stop := mineContext()
	defer stop()

	block, stats, err := chain.AddBlock(ctx, data)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("block %d mined", block.Index)
	pterm.DefaultTable.WithData(pterm.TableData{
		{"hash", block.Hash},
		{"nonce", strconv.FormatUint(block.Nonce, 10)},
		{"attempts", strconv.FormatUint(stats.Attempts, 10)},
		{"elapsed", stats.Elapsed.String()},
		{"rate", fmt.Sprintf("%.0f H/s", stats.HashRate)},
	}).Render()

	return nil
}

// mineContext builds a context cancelled by Ctrl-C so an unaffordable
// difficulty cannot wedge the console.
func mineContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// numberInput prompts for a non-negative integer.
func numberInput(prompt string) (int, error) {
	text, err := pterm.DefaultInteractiveTextInput.Show(prompt)
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%q is not a non-negative integer", text)
	}

	return value, nil
}

// =============================================================================
// Rendering

// renderProgress prints engine events, overwriting the current line for
// the high-frequency attempt counters.
func renderProgress(ch chan string) {
	for s := range ch {
		switch {
		case strings.Contains(s, "SOLVED"):
			pterm.Printo("")
			pterm.Info.Println(s)
		case strings.Contains(s, "attempts["):
			pterm.Printo(s)
		}
	}
}

func renderChain(chain *state.Chain) {
	data := pterm.TableData{{"index", "time", "data", "hash", "nonce", "difficulty"}}
	for _, block := range chain.Blocks() {
		data = append(data, []string{
			strconv.FormatUint(block.Index, 10),
			block.Timestamp.Format("2006-01-02 15:04:05"),
			truncate(block.Data, 24),
			truncate(block.Hash, 16),
			strconv.FormatUint(block.Nonce, 10),
			strconv.FormatUint(uint64(block.Difficulty), 10),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(data).Render()

	if err := chain.Validate(); err != nil {
		pterm.Error.Printfln("chain INVALID: %v", err)
		return
	}
	pterm.Success.Println("chain valid")
}

func renderBlock(block database.Block) {
	pterm.DefaultTable.WithData(pterm.TableData{
		{"index", strconv.FormatUint(block.Index, 10)},
		{"timestamp", block.Timestamp.Format("2006-01-02 15:04:05 MST")},
		{"data", block.Data},
		{"previous hash", block.PrevBlockHash},
		{"hash", block.Hash},
		{"nonce", strconv.FormatUint(block.Nonce, 10)},
		{"difficulty", strconv.FormatUint(uint64(block.Difficulty), 10)},
	}).Render()
}

func renderStats(stats state.Stats) {
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

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
