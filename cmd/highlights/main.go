package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"highlights/internal/client"
)

var (
	// Version is set during build
	Version = "dev"
	// BuildTime is set during build
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		msg := err.Error()
		if d := client.Detail(err); d != "" {
			msg = d
		}
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), msg)
		os.Exit(1)
	}
}
