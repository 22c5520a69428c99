// Command cork is the corkboard batch CLI: load a board file, run the
// layout engine, export snapshots, and move board state in and out of a
// SQLite store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanderheijden86/corkboard/internal/store"
	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/config"
	"github.com/vanderheijden86/corkboard/pkg/debug"
	"github.com/vanderheijden86/corkboard/pkg/layout"
	"github.com/vanderheijden86/corkboard/pkg/metrics"
	"github.com/vanderheijden86/corkboard/pkg/render"
	"github.com/vanderheijden86/corkboard/pkg/version"
)

func main() {
	versionFlag := flag.Bool("version", false, "Show version")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("cork %s\n", version.Version)
		os.Exit(0)
	}
	if *help || flag.NArg() == 0 {
		usage()
		os.Exit(0)
	}

	var err error
	switch cmd := flag.Arg(0); cmd {
	case "snapshot":
		err = runSnapshot(flag.Args()[1:])
	case "layout":
		err = runLayout(flag.Args()[1:])
	case "push":
		err = runPush(flag.Args()[1:])
	case "pull":
		err = runPull(flag.Args()[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "cork: %v\n", err)
		os.Exit(1)
	}

	if debug.Enabled() {
		for _, s := range metrics.AllTimingStats() {
			debug.Log("%s: n=%d avg=%.2fms max=%.2fms", s.Name, s.Count, s.AvgMs, s.MaxMs)
		}
	}
}

func usage() {
	fmt.Println("Usage: cork <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  snapshot   render a board file to PNG/SVG")
	fmt.Println("  layout     assign positions to a board file")
	fmt.Println("  push       write a board file into a SQLite store")
	fmt.Println("  pull       read a SQLite store into a board file")
	fmt.Println()
	fmt.Println("Run 'cork <command> -help' for command options.")
}

func loadBoard(path string) (*board.Registry, []board.Link, *board.CameraState, error) {
	defer metrics.Timer(metrics.BoardLoad)()
	return board.LoadFile(path)
}

func runSnapshot(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	in := fs.String("in", "board.json", "Board file to render")
	out := fs.String("out", "board.png", "Output path (.png or .svg)")
	format := fs.String("format", "", "Output format: png, svg or both (default: by extension)")
	title := fs.String("title", "", "Title drawn in the corner")
	noBlobs := fs.Bool("no-blobs", false, "Disable component blobs")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	reg, links, _, err := loadBoard(*in)
	if err != nil {
		return err
	}

	defer metrics.Timer(metrics.SnapshotExport)()
	return render.SaveSnapshot(render.SnapshotOptions{
		Path:      *out,
		Format:    *format,
		Title:     *title,
		Reg:       reg,
		Links:     links,
		PixelUnit: cfg.Render.PixelUnit,
		Blobs:     cfg.Render.BlobsEnabled && !*noBlobs,
	})
}

func runLayout(args []string) error {
	fs := flag.NewFlagSet("layout", flag.ExitOnError)
	in := fs.String("in", "board.json", "Board file to lay out")
	out := fs.String("out", "", "Output path (default: overwrite input)")
	service := fs.String("service", "", "Layout service base URL (default: from config)")
	timeout := fs.Duration("timeout", 0, "Layout service timeout")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	reg, links, cam, err := loadBoard(*in)
	if err != nil {
		return err
	}

	url := *service
	if url == "" {
		url = cfg.Layout.ServiceURL
	}
	to := *timeout
	if to <= 0 {
		to = time.Duration(cfg.Layout.TimeoutMS) * time.Millisecond
	}
	var client *layout.ServiceClient
	if url != "" {
		client = layout.NewServiceClient(url, to)
	}

	func() {
		defer metrics.Timer(metrics.LayoutCompute)()
		layout.Apply(reg, layout.Compute(context.Background(), client, reg, links))
	}()

	dst := *out
	if dst == "" {
		dst = *in
	}
	return board.SaveFile(dst, reg, links, cam)
}

func runPush(args []string) error {
	fs := flag.NewFlagSet("push", flag.ExitOnError)
	in := fs.String("in", "board.json", "Board file to push")
	db := fs.String("db", "", "SQLite store path (default: from config)")
	fs.Parse(args)

	reg, links, _, err := loadBoard(*in)
	if err != nil {
		return err
	}

	st, err := openStore(*db)
	if err != nil {
		return err
	}
	defer st.Close()

	defer metrics.Timer(metrics.SyncFlush)()
	if err := st.SaveBoard(context.Background(), reg, links); err != nil {
		return fmt.Errorf("push board: %w", err)
	}
	fmt.Printf("pushed %d entities, %d links\n", reg.Len(), len(links))
	return nil
}

func runPull(args []string) error {
	fs := flag.NewFlagSet("pull", flag.ExitOnError)
	out := fs.String("out", "board.json", "Board file to write")
	db := fs.String("db", "", "SQLite store path (default: from config)")
	fs.Parse(args)

	st, err := openStore(*db)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	recs, err := st.LoadEntities(ctx)
	if err != nil {
		return fmt.Errorf("pull entities: %w", err)
	}
	links, err := st.LoadLinks(ctx)
	if err != nil {
		return fmt.Errorf("pull links: %w", err)
	}

	reg := board.NewRegistry()
	if err := reg.Load(recs); err != nil {
		return fmt.Errorf("rebuild board: %w", err)
	}
	if err := board.SaveFile(*out, reg, links, nil); err != nil {
		return err
	}
	fmt.Printf("pulled %d entities, %d links\n", reg.Len(), len(links))
	return nil
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		path = cfg.StorePath
	}
	if path == "" {
		return nil, fmt.Errorf("no store path given (-db) and none configured")
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
