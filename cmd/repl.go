package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/tdepke2/BackupTools/internal/dslconfig"
)

// runREPL implements the interactive mode of §6: tokenize each input
// line with the config grammar's quoting rules and dispatch to the same
// command table "backup"/"check"/"tree"/"help" use, plus a REPL-only
// "exit" (§13).
func runREPL() error {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("backuptools> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("backuptools> ")
			continue
		}
		if line == "exit" {
			return nil
		}

		tokens, err := dslconfig.Tokenize(line)
		if err != nil {
			printError(err)
			fmt.Print("backuptools> ")
			continue
		}
		if len(tokens) == 0 {
			fmt.Print("backuptools> ")
			continue
		}

		if err := dispatch(tokens); err != nil {
			printError(err)
		}
		fmt.Print("backuptools> ")
	}
	return scanner.Err()
}
