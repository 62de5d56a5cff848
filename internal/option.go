package internal

import (
	"io"
	"log/slog"
	"os"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	version   string
	logOutput io.Writer
	output    io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// WithLogOutput redirects structured logs. The MCP server logs to stderr
// because stdout carries the protocol.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

// WithOutput sets where command results are printed.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.output = w
	}
}

func newApplication(opts []Option) *application {
	app := &application{
		version:   "dev",
		logOutput: os.Stdout,
		output:    os.Stdout,
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

func (a *application) logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: a.config.App.LogLevel,
	}))
}
