package database_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/database"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func noEv(v string, args ...any) {}

// =============================================================================

func Test_Mining(t *testing.T) {
	t.Log("Given the need to mine blocks at increasing difficulties.")
	{
		for testID, difficulty := range []uint{0, 1, 2} {
			t.Logf("\tTest %d:\tWhen mining a block at difficulty %d.", testID, difficulty)
			{
				block := database.New(1, "payload", "prev", difficulty)

				stats, err := block.Mine(context.Background(), noEv)
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to mine the block: %v", failed, testID, err)
				}
				t.Logf("\t%s\tTest %d:\tShould be able to mine the block.", success, testID)

				if !strings.HasPrefix(block.Hash, strings.Repeat("0", int(difficulty))) {
					t.Errorf("\t%s\tTest %d:\tShould have %d leading zero characters: %s", failed, testID, difficulty, block.Hash)
				} else {
					t.Logf("\t%s\tTest %d:\tShould have %d leading zero characters.", success, testID, difficulty)
				}

				if !block.IsValid() {
					t.Errorf("\t%s\tTest %d:\tShould report the mined block valid.", failed, testID)
				} else {
					t.Logf("\t%s\tTest %d:\tShould report the mined block valid.", success, testID)
				}

				if stats.Attempts == 0 {
					t.Errorf("\t%s\tTest %d:\tShould report at least one attempt.", failed, testID)
				} else {
					t.Logf("\t%s\tTest %d:\tShould report at least one attempt.", success, testID)
				}
			}
		}
	}
}

func Test_DifficultyZero(t *testing.T) {
	t.Log("Given the need to treat difficulty zero as a single-attempt mine.")
	{
		t.Log("\tTest 0:\tWhen mining any payload at difficulty zero.")
		{
			block := database.New(7, "anything at all", "prev", 0)

			stats, err := block.Mine(context.Background(), noEv)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine the block.", success)

			if stats.Attempts != 1 {
				t.Errorf("\t%s\tTest 0:\tShould mine in exactly one attempt, got %d.", failed, stats.Attempts)
			} else {
				t.Logf("\t%s\tTest 0:\tShould mine in exactly one attempt.", success)
			}

			if block.Nonce != 0 {
				t.Errorf("\t%s\tTest 0:\tShould leave the nonce at zero, got %d.", failed, block.Nonce)
			} else {
				t.Logf("\t%s\tTest 0:\tShould leave the nonce at zero.", success)
			}
		}
	}
}

func Test_RecomputeHash(t *testing.T) {
	t.Log("Given the need for a pure, repeatable hash computation.")
	{
		t.Log("\tTest 0:\tWhen recomputing the hash of a mined block.")
		{
			block := database.New(1, "payload", "prev", 1)
			if _, err := block.Mine(context.Background(), noEv); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to mine the block: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to mine the block.", success)

			h1 := block.RecomputeHash()
			h2 := block.RecomputeHash()
			if h1 != h2 {
				t.Errorf("\t%s\tTest 0:\tShould produce the same hash twice.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould produce the same hash twice.", success)
			}

			if h1 != block.Hash {
				t.Errorf("\t%s\tTest 0:\tShould match the stored hash.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould match the stored hash.", success)
			}
		}
	}
}

func Test_TamperedBlock(t *testing.T) {
	mined := database.New(1, "payload", "prev", 1)
	if _, err := mined.Mine(context.Background(), noEv); err != nil {
		t.Fatalf("\t%s\tShould be able to mine the block: %v", failed, err)
	}

	tt := []struct {
		name   string
		tamper func(b *database.Block)
	}{
		{"data", func(b *database.Block) { b.Data = "changed" }},
		{"previous hash", func(b *database.Block) { b.PrevBlockHash = "changed" }},
		{"nonce", func(b *database.Block) { b.Nonce++ }},
		{"difficulty", func(b *database.Block) { b.Difficulty++ }},
	}

	t.Log("Given the need to detect any single-field mutation after mining.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen tampering with the %s field.", testID, tst.name)
			{
				f := func(t *testing.T) {
					block := mined
					tst.tamper(&block)

					if block.IsValid() {
						t.Errorf("\t%s\tTest %d:\tShould report the tampered block invalid.", failed, testID)
					} else {
						t.Logf("\t%s\tTest %d:\tShould report the tampered block invalid.", success, testID)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_MineCancelled(t *testing.T) {
	t.Log("Given the need to abandon a search that cannot be afforded.")
	{
		t.Log("\tTest 0:\tWhen mining with a cancelled context.")
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			block := database.New(1, "payload", "prev", 64)

			if _, err := block.Mine(ctx, noEv); !errors.Is(err, database.ErrCancelled) {
				t.Errorf("\t%s\tTest 0:\tShould get ErrCancelled: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould get ErrCancelled.", success)
			}

			if block.Hash != "" {
				t.Errorf("\t%s\tTest 0:\tShould leave the hash unset.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould leave the hash unset.", success)
			}
		}
	}
}
