// Package main runs a liar's dice tournament from the command line.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	tournamentcmd "github.com/louisbranch/liarsdice/internal/cmd/tournament"
	apperrors "github.com/louisbranch/liarsdice/internal/platform/errors"
)

func main() {
	cfg, err := tournamentcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[TOURNAMENT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tournamentcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("tournament failed: %s (%v)", apperrors.Localize(cfg.Locale, err), err)
	}
}
