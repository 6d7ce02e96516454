package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/loader"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/logging"
)

// errDiagnostics signals that a command printed diagnostics and should
// exit non-zero without printing an error.
var errDiagnostics = errors.New("configuration has diagnostics")

type rootOptions struct {
	logLevel  string
	logFormat string
	envPrefix string
	noEnv     bool
}

type commandContext struct {
	opts   *rootOptions
	logger *slog.Logger
	engine *graphconf.Engine
	loader *loader.Loader
}

func newCommandContext(opts *rootOptions) *commandContext {
	return &commandContext{opts: opts}
}

// setup builds the logger and engine once flags are parsed.
func (c *commandContext) setup(cmd *cobra.Command) error {
	logger, err := logging.New(logging.Options{
		Level:  c.opts.logLevel,
		Format: c.opts.logFormat,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	c.logger = logging.WithRunID(logger, logging.NewRunID()).With("command", cmd.Name())
	c.engine = graphconf.New(graphconf.WithLogger(c.logger.With("component", "engine")))
	c.loader = loader.New()
	return nil
}

// envLayer returns the environment override layer, if any.
func (c *commandContext) envLayer() (graphconf.Layer, bool) {
	if c.opts.noEnv {
		return graphconf.Layer{}, false
	}
	layer, ok := loader.NewEnvLoader(c.opts.envPrefix).Load()
	if ok {
		c.logger.Debug("applying environment overrides", "parameters", len(layer.Params))
	}
	return layer, ok
}

// loadRequest loads path and appends the environment layer last.
func (c *commandContext) loadRequest(path string) (graphconf.Request, error) {
	req, err := c.loader.LoadRequest(path)
	if err != nil {
		return graphconf.Request{}, fmt.Errorf("load %s: %w", path, err)
	}
	if layer, ok := c.envLayer(); ok {
		req.Layers = append(req.Layers, layer)
	}
	return req, nil
}

func (c *commandContext) loadPlot(path string) (graphconf.Plot, error) {
	plot, err := c.loader.LoadPlot(path)
	if err != nil {
		return graphconf.Plot{}, fmt.Errorf("load %s: %w", path, err)
	}
	if layer, ok := c.envLayer(); ok {
		plot.Layers = append(plot.Layers, layer)
	}
	return plot, nil
}
