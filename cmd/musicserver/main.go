// Command musicserver runs the music document tool server: it serves
// JSON-RPC tool calls over stdio until EOF, then exits.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/IrisMu01/midi-gen-mcp/config"
	"github.com/IrisMu01/midi-gen-mcp/dispatch"
	"github.com/IrisMu01/midi-gen-mcp/metrics"
	"github.com/IrisMu01/midi-gen-mcp/piece"
	"github.com/IrisMu01/midi-gen-mcp/transport"
)

const version = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:   "musicserver",
		Short: "Serve music document tool calls over stdio",
		RunE:  runServe,
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := root.Execute(); err != nil {
		log.Fatalf("[musicserver] %v", err)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()

	reporter, err := metrics.Init(cfg.SentryDSN)
	if err != nil {
		log.Printf("[musicserver] sentry init failed, continuing without error reporting: %v", err)
		reporter, _ = metrics.Init("")
	}
	defer reporter.Flush(2 * time.Second)

	if !cfg.LogVerbose {
		log.SetFlags(0)
	}

	store := piece.NewStore()
	handler := dispatch.NewWithReporter(store, reporter)
	handler.SetExportDir(cfg.DefaultExportDir)

	log.Println("[musicserver] serving tool calls on stdin/stdout")
	if err := transport.Serve(os.Stdin, os.Stdout, handler); err != nil {
		reporter.CaptureFatal("transport", err)
		os.Exit(1)
	}
	return nil
}
