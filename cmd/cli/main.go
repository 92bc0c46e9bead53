package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/forgegen/internal/app"
	"github.com/vk/forgegen/internal/cli"
)

// main is the entrypoint for the forgegen binary.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and
// error handling.
func run(outW, errW io.Writer, argv []string) error {
	config, shouldExit, err := cli.Parse(argv, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	forgegenApp := app.New(outW, errW, config)
	return forgegenApp.Run(context.Background())
}
