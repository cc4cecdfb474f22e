package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/credvault/internal/vaultctl"
)

func main() {
	if err := vaultctl.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
