package app

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/forgegen/internal/args"
	"github.com/vk/forgegen/internal/diag"
	"github.com/vk/forgegen/internal/loader"
)

// App encapsulates one generator run: the configuration, the file loader,
// and the argument service shared by every toolchain evaluation.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	loader *loader.Loader
	args   *args.Args
}

// New constructs an App with its own isolated logger. Logs go to errW so
// a manifest written to stdout stays clean.
func New(outW, errW io.Writer, config *Config) *App {
	return &App{
		outW:   outW,
		logger: newLogger(config.LogLevel, config.LogFormat, errW),
		config: config,
		loader: loader.New(),
		args:   args.New(),
	}
}

// Args exposes the argument service. This is primarily for testing.
func (a *App) Args() *args.Args { return a.args }

// renderErr turns a structured diagnostic into a plain error carrying the
// fully rendered message, including sub-errors.
func renderErr(derr *diag.Error) error {
	return errors.New(strings.TrimRight(derr.Render(), "\n"))
}
