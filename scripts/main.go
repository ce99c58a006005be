package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/flexprice/rawusage/scripts/internal"
	"github.com/samber/lo"
)

var commands = map[string]func() error{
	"preview-raw-usage-window": internal.PreviewRawUsageWindow,
}

func main() {
	cmd := flag.String("cmd", "", "script to run")
	flag.Parse()

	run, ok := commands[*cmd]
	if !ok {
		names := lo.Keys(commands)
		sort.Strings(names)
		fmt.Fprintf(os.Stderr, "unknown command %q, available: %v\n", *cmd, names)
		os.Exit(2)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s failed: %v\n", *cmd, err)
		os.Exit(1)
	}
}
