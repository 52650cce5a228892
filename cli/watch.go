package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/themuffinator/BrumSchtick/brush"
	"github.com/themuffinator/BrumSchtick/mapfile"
	"github.com/themuffinator/BrumSchtick/parser"
)

// debounceDelay coalesces bursts of events from editors that save in
// multiple steps (write temp, rename over target).
const debounceDelay = 100 * time.Millisecond

type WatchCmd struct {
	File string `help:"Map file to watch." arg:"" type:"existingfile"`
	Lax  bool   `help:"Only parse; do not verify brush geometry."`
}

func (cmd *WatchCmd) Run(ctx *kong.Context, globals *Globals) error {
	format, err := globals.SourceFormat()
	if err != nil {
		return err
	}

	mapFile, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory, not the file: atomic saves replace the inode
	// and a file watch would go stale after the first change.
	if err := watcher.Add(filepath.Dir(mapFile)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", mapFile, err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	printInfof(ctx.Stdout, "Watching %s", pathStyle.Render(mapFile))
	cmd.checkOnce(ctx, mapFile, format)

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-runCtx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != mapFile {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				cmd.checkOnce(ctx, mapFile, format)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning(ctx.Stderr, fmt.Sprintf("watch error: %v", err))
		}
	}
}

// checkOnce runs one parse-and-verify pass, reporting to the terminal
// without terminating the watch on failure.
func (cmd *WatchCmd) checkOnce(ctx *kong.Context, mapFile string, format mapfile.Format) {
	source, err := os.ReadFile(mapFile)
	if err != nil {
		printError(ctx.Stderr, fmt.Sprintf("failed to read %s: %v", mapFile, err))
		return
	}

	status := &parser.CollectingStatus{}
	doc, err := parser.ParseDocument(source, mapFile, format, format, status)
	if err != nil {
		renderer := NewErrorRenderer(source)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		printError(ctx.Stderr, "parse error")
		return
	}

	for _, warning := range status.Warnings {
		printWarning(ctx.Stderr, fmt.Sprintf("%s: %s", warning.Pos, warning.Message))
	}

	invalid := 0
	if !cmd.Lax {
		for _, entity := range doc.Entities {
			for _, rec := range entity.Brushes() {
				if _, err := brush.FromRecord(rec); err != nil {
					printWarning(ctx.Stderr, fmt.Sprintf("%s: %v", rec.Start, err))
					invalid++
				}
			}
		}
	}

	entities, brushes, patches := countObjects(doc)
	if invalid > 0 {
		printError(ctx.Stderr, fmt.Sprintf("%d invalid brush(es)", invalid))
		return
	}
	printSuccess(ctx.Stdout, fmt.Sprintf("%d entities, %d brushes, %d patches", entities, brushes, patches))
}
