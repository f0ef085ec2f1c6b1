// Command cpdemo solves the demo models (n-queens, a small job shop) with
// the constraint engine, several models at a time.
//
// Configuration comes from GOKANCP_* environment variables, overridden by
// flags. Tracing is exported over OTLP/HTTP when GOKANCP_OTEL_ENDPOINT is
// set.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gitrdm/gokancp/internal/cmd/cpdemo"
)

func main() {
	cfg, err := cpdemo.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[CPDEMO] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cpdemo.Run(ctx, cfg); err != nil {
		log.Fatalf("run: %v", err)
	}
}
