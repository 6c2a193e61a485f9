package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"hrdesk/internal/app/server"
)

var (
	version   = "dev"
	commit    = ""
	treeState = ""
	date      = ""
	builtBy   = ""
)

func main() {
	showVersion := flag.Bool("version", false, "Print version information and exit")
	flag.Parse()

	build := server.BuildInfo{Version: version, Commit: commit, Date: date, BuiltBy: builtBy, TreeState: treeState}
	if *showVersion {
		fmt.Println(server.BuildVersion(build).String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, build); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
