// ctmtool loads block models from resource packs and bakes them through the
// connected-texture model layer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-ctm/internal/config"
	"github.com/Faultbox/midgard-ctm/internal/logger"
)

// errUsage is returned when a command was called with bad arguments.
var errUsage = errors.New("usage")

func main() {
	config.ParseFlags()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command, args := args[0], args[1:]

	switch command {
	case "help", "-h", "--help":
		printUsage()
		return
	case "init-config":
		if err := cmdInitConfig(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.Sugar.Debugf("Config: %+v", cfg)

	t, err := newTool(cfg, logger.Named("ctmtool"))
	if err != nil {
		logger.Error("failed to open packs", zap.Error(err))
		os.Exit(1)
	}
	defer t.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "models", "ls":
		err = cmdModels(t)
	case "deps":
		err = cmdDeps(t, args)
	case "meta":
		err = cmdMeta(t, args)
	case "bake":
		err = cmdBake(ctx, t, args)
	case "layers":
		err = cmdLayers(t, args)
	case "retexture":
		err = cmdRetexture(t, args)
	case "watch":
		err = cmdWatch(ctx, t)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if errors.Is(err, errUsage) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err != nil {
		logger.Error(command+" failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ctmtool - connected texture model utility

Usage:
  ctmtool [flags] <command> [args]

Flags:
  -pack <dir>        Resource pack directory (repeatable, later packs win)
  -config <file>     Config file (default ./ctmtool.yaml)
  -namespace <ns>    Namespace for unqualified names
  -workers <n>       Models baked concurrently
  -debug             Debug logging

Commands:
  models                           List models in the namespace
  deps <model>                     Show the sprites a model depends on
  meta <sprite>                    Show a sprite's ctm metadata
  bake [model...]                  Bake models (all when none given)
  layers <model> [native-layer]    Show the render layers of a baked model
  retexture <model> var=path...    Retexture a model and show its dependencies
  watch                            Re-bake every model when a pack changes
  init-config [file]               Write the default config

Examples:
  ctmtool -pack ./resources models
  ctmtool -pack ./resources bake block/glass
  ctmtool -pack ./resources layers block/glass cutout
  ctmtool -pack ./resources retexture block/glass all=block/stone`)
}
