// Package main provides the CLI entry point for the call report generator.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"callreport/internal/orchestrator"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: callreport <run|watch> <config-file>")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 3 {
		usage()
	}

	command := os.Args[1]
	configPath := os.Args[2]

	switch command {
	case "run":
		summary, err := orchestrator.Run(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(summary.PrintSummary())

	case "watch":
		stop := make(chan struct{})
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-signals
			close(stop)
		}()

		summary, err := orchestrator.Watch(configPath, stop)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Watch session: %d runs (%d failed) over %s\n",
			summary.RunsTriggered, summary.RunErrors, summary.Duration.Round(time.Second))

	default:
		usage()
	}
}
