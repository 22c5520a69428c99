// Command corkview is the interactive terminal viewer: pan and zoom the
// board, select and drag entities, toggle highlight mode, and sync edits
// to the configured SQLite store.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/corkboard/internal/store"
	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/config"
	"github.com/vanderheijden86/corkboard/pkg/debug"
	"github.com/vanderheijden86/corkboard/pkg/metrics"
	boardsync "github.com/vanderheijden86/corkboard/pkg/sync"
	"github.com/vanderheijden86/corkboard/pkg/ui"
	"github.com/vanderheijden86/corkboard/pkg/version"
	"github.com/vanderheijden86/corkboard/pkg/watcher"
)

func main() {
	boardPath := flag.String("board", "board.json", "Board file to open")
	dbPath := flag.String("db", "", "SQLite store path (default: from config)")
	noWatch := flag.Bool("no-watch", false, "Disable config hot reload")
	versionFlag := flag.Bool("version", false, "Show version")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("corkview %s\n", version.Version)
		os.Exit(0)
	}

	if err := run(*boardPath, *dbPath, *noWatch); err != nil {
		fmt.Fprintf(os.Stderr, "corkview: %v\n", err)
		os.Exit(1)
	}
}

func run(boardPath, dbPath string, noWatch bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	reg, links, camState, err := loadOrInit(boardPath)
	if err != nil {
		return err
	}

	var syncer *boardsync.Syncer
	if dbPath == "" {
		dbPath = cfg.StorePath
	}
	if dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()
		syncer = boardsync.New(st, filepath.Base(boardPath),
			boardsync.WithDebounce(time.Duration(cfg.Sync.DebounceMS)*time.Millisecond),
			boardsync.WithErrorHandler(func(err error) {
				debug.Log("sync flush failed: %v", err)
			}),
		)
	}

	var cfgWatch *watcher.Watcher
	if cfgPath := config.ConfigPath(); !noWatch && cfgPath != "" {
		w, err := watcher.NewWatcher(cfgPath)
		if err == nil && w.Start() == nil {
			cfgWatch = w
		}
	}

	m := ui.NewModel(ui.Options{
		Config:    cfg,
		BoardPath: boardPath,
		Registry:  reg,
		Links:     links,
		Camera:    camState,
		Syncer:    syncer,
		Watcher:   cfgWatch,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}

	if debug.Enabled() {
		for _, s := range metrics.AllTimingStats() {
			debug.Log("%s: n=%d avg=%.2fms max=%.2fms", s.Name, s.Count, s.AvgMs, s.MaxMs)
		}
	}
	return nil
}

// loadOrInit opens the board file, or starts an empty board when the
// file does not exist yet. The first save creates it.
func loadOrInit(path string) (*board.Registry, []board.Link, *board.CameraState, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return board.NewRegistry(), nil, nil, nil
	}
	defer metrics.Timer(metrics.BoardLoad)()
	return board.LoadFile(path)
}
