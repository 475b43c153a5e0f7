package main

import (
	"fmt"
	"os"

	"github.com/savemoney-app/savemoney/internal/cli"
	"github.com/savemoney-app/savemoney/internal/config"
)

func main() {
	cfg := config.LoadConfig()
	if err := cli.Execute(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
