// This program performs ledger operations against a chain file without
// the interactive console.
package main

import (
	"github.com/ardanlabs/ledger/app/tooling/cli/cmd"
)

func main() {
	cmd.Execute()
}
