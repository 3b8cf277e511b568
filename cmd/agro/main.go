package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	noColor    bool
	configPath string
	endpoint   string
	direct     bool
)

var rootCmd = &cobra.Command{
	Use:           "agro",
	Short:         "Diagnóstico de salud de plantas por imagen",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or config.yaml)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "analysis service URL (overrides client.endpoint)")
	rootCmd.PersistentFlags().BoolVar(&direct, "direct", false, "call the AI gateway and the database in-process")

	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(analyzeFileCmd)
	rootCmd.AddCommand(historyCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
