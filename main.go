package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/tdepke2/BackupTools/cmd"
	"github.com/tdepke2/BackupTools/internal/bpath"
)

func main() {
	if runtime.GOOS == "windows" {
		bpath.Separator = "\\"
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
