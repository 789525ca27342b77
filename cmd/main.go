package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(BuildInfo{Version: version, Commit: commit, Date: date}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "focusdash:", err)
		os.Exit(1)
	}
}
