package main

import (
	"fmt"

	urfavecli "github.com/urfave/cli/v2"

	"github.com/chmouel/owt/internal/shellintegration"
)

// setupCommand prints the shell function that pairs with §6's
// OWT_OUTPUT_FILE contract: it runs owt with a scratch output file set,
// then cds into whatever path owt wrote there.
func setupCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:   "setup",
		Usage:  "print a shell function that cds into the worktree owt selects",
		Action: runSetup,
	}
}

const setupSnippet = `owt() {
  local tmpfile
  tmpfile=$(mktemp)
  %s=$tmpfile command owt "$@"
  if [ -s "$tmpfile" ]; then
    cd "$(cat "$tmpfile")" || return
  fi
  rm -f "$tmpfile"
}
`

func runSetup(c *urfavecli.Context) error {
	fmt.Printf(setupSnippet, shellintegration.OutputEnvVar)
	return nil
}
