package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/watcher"
)

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-check a plot configuration whenever it or its includes change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := watcher.New(watcher.WithLogger(ctx.logger.With("component", "watcher")))
			if err != nil {
				return err
			}
			defer w.Close()

			s := &watchSession{ctx: ctx, w: w, path: args[0], out: cmd.OutOrStdout()}
			w.OnChange(func(ev watcher.Event) {
				ctx.logger.Info("configuration changed", "path", ev.Path, "op", ev.Op.String())
				s.check()
			})
			s.check()
			return w.Run(cmd.Context())
		},
	}
}

// watchSession re-checks one configuration and keeps the watch list in
// step with its includes.
type watchSession struct {
	ctx  *commandContext
	w    *watcher.Watcher
	path string
	out  io.Writer
}

func (s *watchSession) check() {
	s.sync()

	req, err := s.ctx.loadRequest(s.path)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	printCheck(s.out, s.ctx.engine.Resolve(req))
}

// sync watches the configuration and every file it includes and drops
// files that are no longer included. The top file stays watched even
// when it fails to load.
func (s *watchSession) sync() {
	want := map[string]bool{}
	if abs, err := filepath.Abs(s.path); err == nil {
		want[abs] = true
	}
	if files, err := s.ctx.loader.Files(s.path); err == nil {
		for _, f := range files {
			if abs, err := filepath.Abs(f); err == nil {
				want[abs] = true
			}
		}
	}

	for _, f := range s.w.WatchedFiles() {
		if !want[f] {
			if err := s.w.Unwatch(f); err != nil {
				s.ctx.logger.Warn("unwatch failed", "path", f, "error", err)
			}
		}
	}
	for f := range want {
		if err := s.w.Watch(f); err != nil {
			s.ctx.logger.Warn("watch failed", "path", f, "error", err)
		}
	}
}
