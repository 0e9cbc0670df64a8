package disk_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/ledger/genesis"
	"github.com/ardanlabs/ledger/foundation/ledger/state"
	"github.com/ardanlabs/ledger/foundation/ledger/storage/disk"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func testChain(t *testing.T) *state.Chain {
	t.Helper()

	gen := genesis.New()
	gen.Difficulty = 1

	chain, err := state.New(state.Config{Genesis: gen})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to initialize a chain: %v", failed, err)
	}

	if _, _, err := chain.AddBlock(context.Background(), "payload"); err != nil {
		t.Fatalf("\t%s\tShould be able to add a block: %v", failed, err)
	}

	// Non-default difficulty and a populated queue have to survive the
	// round trip too.
	chain.SetDifficulty(3)
	chain.SubmitPending("queued one")
	chain.SubmitPending("queued two")

	return chain
}

// =============================================================================

func Test_RoundTrip(t *testing.T) {
	t.Log("Given the need to round-trip a chain through its file exactly.")
	{
		t.Log("\tTest 0:\tWhen saving and loading a chain with pending payloads.")
		{
			chain := testChain(t)
			path := filepath.Join(t.TempDir(), "chain.json")

			if err := disk.Save(chain, path); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to save the chain.", success)

			loaded, err := disk.Load(path, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to load the chain: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to load the chain.", success)

			want := chain.Snapshot()
			got := loaded.Snapshot()

			if got.Difficulty != want.Difficulty || got.MiningReward != want.MiningReward {
				t.Errorf("\t%s\tTest 0:\tShould keep difficulty and reward.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould keep difficulty and reward.", success)
			}

			if len(got.Pending) != len(want.Pending) {
				t.Fatalf("\t%s\tTest 0:\tShould keep the pending queue, got %d entries.", failed, len(got.Pending))
			}
			for i := range want.Pending {
				if got.Pending[i] != want.Pending[i] {
					t.Errorf("\t%s\tTest 0:\tShould keep pending entry %d, got %q.", failed, i, got.Pending[i])
				}
			}
			t.Logf("\t%s\tTest 0:\tShould keep the pending queue.", success)

			if len(got.Blocks) != len(want.Blocks) {
				t.Fatalf("\t%s\tTest 0:\tShould keep all %d blocks, got %d.", failed, len(want.Blocks), len(got.Blocks))
			}
			for i := range want.Blocks {
				w, g := want.Blocks[i], got.Blocks[i]
				if g.Index != w.Index || !g.Timestamp.Equal(w.Timestamp) || g.Data != w.Data ||
					g.PrevBlockHash != w.PrevBlockHash || g.Hash != w.Hash ||
					g.Nonce != w.Nonce || g.Difficulty != w.Difficulty {
					t.Errorf("\t%s\tTest 0:\tShould keep every field of block %d.", failed, i)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould keep every field of every block.", success)

			if err := loaded.Validate(); err != nil {
				t.Errorf("\t%s\tTest 0:\tShould validate the loaded chain: %v", failed, err)
			} else {
				t.Logf("\t%s\tTest 0:\tShould validate the loaded chain.", success)
			}

			// Saving the loaded chain must reproduce the document byte
			// for byte.
			path2 := filepath.Join(t.TempDir(), "chain2.json")
			if err := disk.Save(loaded, path2); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to re-save the chain: %v", failed, err)
			}

			doc1, _ := os.ReadFile(path)
			doc2, _ := os.ReadFile(path2)
			if !bytes.Equal(doc1, doc2) {
				t.Errorf("\t%s\tTest 0:\tShould reproduce the document exactly.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould reproduce the document exactly.", success)
			}
		}
	}
}

func Test_FileLayout(t *testing.T) {
	t.Log("Given the need to keep the on-disk field names stable.")
	{
		t.Log("\tTest 0:\tWhen inspecting a saved chain document.")
		{
			chain := testChain(t)
			path := filepath.Join(t.TempDir(), "chain.json")

			if err := disk.Save(chain, path); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save the chain: %v", failed, err)
			}

			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to read the file: %v", failed, err)
			}

			var doc map[string]json.RawMessage
			if err := json.Unmarshal(content, &doc); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould hold a JSON object: %v", failed, err)
			}

			for _, field := range []string{"chain", "difficulty", "mining_reward", "pending_transactions"} {
				if _, exists := doc[field]; !exists {
					t.Errorf("\t%s\tTest 0:\tShould have top-level field %q.", failed, field)
				} else {
					t.Logf("\t%s\tTest 0:\tShould have top-level field %q.", success, field)
				}
			}

			var blocks []map[string]json.RawMessage
			if err := json.Unmarshal(doc["chain"], &blocks); err != nil || len(blocks) == 0 {
				t.Fatalf("\t%s\tTest 0:\tShould hold a list of block objects: %v", failed, err)
			}

			for _, field := range []string{"index", "timestamp", "data", "previous_hash", "hash", "nonce", "difficulty"} {
				if _, exists := blocks[0][field]; !exists {
					t.Errorf("\t%s\tTest 0:\tShould have block field %q.", failed, field)
				} else {
					t.Logf("\t%s\tTest 0:\tShould have block field %q.", success, field)
				}
			}
		}
	}
}

func Test_LoadFailures(t *testing.T) {
	tt := []struct {
		name    string
		prepare func(t *testing.T, path string)
		check   func(err error) bool
		expect  string
	}{
		{
			name:    "missing file",
			prepare: func(t *testing.T, path string) {},
			check:   func(err error) bool { return errors.Is(err, fs.ErrNotExist) },
			expect:  "fs.ErrNotExist",
		},
		{
			name: "malformed document",
			prepare: func(t *testing.T, path string) {
				if err := os.WriteFile(path, []byte(`{"chain": [`), 0600); err != nil {
					t.Fatal(err)
				}
			},
			check:  func(err error) bool { return errors.Is(err, disk.ErrDeserialize) },
			expect: "ErrDeserialize",
		},
		{
			name: "missing required fields",
			prepare: func(t *testing.T, path string) {
				doc := `{"chain":[{"index":0,"data":"x","nonce":0,"difficulty":1}],"difficulty":1,"mining_reward":100,"pending_transactions":[]}`
				if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
					t.Fatal(err)
				}
			},
			check:  func(err error) bool { return errors.Is(err, disk.ErrDeserialize) },
			expect: "ErrDeserialize",
		},
	}

	t.Log("Given the need to report distinct load failure modes.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen loading a %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					path := filepath.Join(t.TempDir(), "chain.json")
					tst.prepare(t, path)

					if _, err := disk.Load(path, nil); !tst.check(err) {
						t.Errorf("\t%s\tTest %d:\tShould get %s: %v", failed, testID, tst.expect, err)
					} else {
						t.Logf("\t%s\tTest %d:\tShould get %s.", success, testID, tst.expect)
					}
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_LoadSkipsValidation(t *testing.T) {
	t.Log("Given the need to load untrusted files without judging them.")
	{
		t.Log("\tTest 0:\tWhen loading a structurally sound but tampered chain.")
		{
			chain := testChain(t)
			path := filepath.Join(t.TempDir(), "chain.json")
			if err := disk.Save(chain, path); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save the chain: %v", failed, err)
			}

			// Hand-edit the payload of block 1 without re-mining.
			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			content = bytes.Replace(content, []byte(`"payload"`), []byte(`"edited"`), 1)
			if err := os.WriteFile(path, content, 0600); err != nil {
				t.Fatal(err)
			}

			loaded, err := disk.Load(path, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould load the tampered file: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould load the tampered file.", success)

			if err := loaded.Validate(); err == nil {
				t.Errorf("\t%s\tTest 0:\tShould fail an explicit validation afterwards.", failed)
			} else {
				t.Logf("\t%s\tTest 0:\tShould fail an explicit validation afterwards.", success)
			}
		}
	}
}
