package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/filesystem"
	"wallpaper-catalog/internal/logging"
	"wallpaper-catalog/internal/memory"
	"wallpaper-catalog/internal/scanner"
	"wallpaper-catalog/internal/startup"
	"wallpaper-catalog/internal/thumbnail"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	logging.SetOutput(os.Stderr)
	if os.Getenv("LOG_LEVEL") == "" && os.Getenv("DEBUG") == "" {
		logging.SetLevel(logging.LevelWarn)
	}
	memory.Configure(os.Getenv)

	a := &app{out: os.Stdout}
	err := rootCommand(a).ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", closeErr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every command needs once the catalog is open.
type app struct {
	db         *database.Database
	scanner    *scanner.Scanner
	out        io.Writer
	jsonOutput bool
}

// rootCommand builds the command tree. The catalog is opened into a before
// any subcommand runs; the caller closes it.
func rootCommand(a *app) *cobra.Command {
	var forceJSON bool

	root := &cobra.Command{
		Use:           "wallscan",
		Short:         "Scan wallpaper directories into the catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config, err := startup.ConfigFromEnv()
			if err != nil {
				return err
			}
			if err := a.open(cmd.Context(), config); err != nil {
				return err
			}
			a.out = cmd.OutOrStdout()
			a.jsonOutput = forceJSON || !term.IsTerminal(int(os.Stdout.Fd()))
			return nil
		},
	}
	root.PersistentFlags().BoolVar(&forceJSON, "json", false, "Print JSON even when stdout is a terminal")

	var listAll, listFavorites bool

	list := &cobra.Command{
		Use:   "list [query]",
		Short: "List wallpapers of active sources",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.list(cmd.Context(), database.ListOptions{
				ActiveOnly:    !listAll,
				FavoritesOnly: listFavorites,
				Query:         strings.Join(args, " "),
			})
		},
	}
	list.Flags().BoolVar(&listAll, "all", false, "Include wallpapers of inactive sources")
	list.Flags().BoolVar(&listFavorites, "favorites", false, "Only list favorites")

	root.AddCommand(
		&cobra.Command{
			Use:   "add <path>",
			Short: "Register a directory as a wallpaper source",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.addSource(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "sources",
			Short: "List registered sources",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.listSources(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "scan [id]",
			Short: "Scan one source, or every active source",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id := ""
				if len(args) == 1 {
					id = args[0]
				}
				return a.scan(cmd.Context(), id)
			},
		},
		&cobra.Command{
			Use:   "scan-all",
			Short: "Rebuild the catalog from every registered source (drops favorites)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return a.scanAll(cmd.Context())
			},
		},
		list,
	)

	return root
}

func (a *app) open(ctx context.Context, config *startup.Config) error {
	if err := startup.PrepareDirectories(config); err != nil {
		return err
	}

	db, err := database.New(ctx, config.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open catalog %s (check DATABASE_DIR): %w", config.DatabasePath, err)
	}

	converter, err := thumbnail.Open(config.ThumbnailBackend)
	if err != nil {
		db.Close()
		return err
	}
	scheduler := thumbnail.NewScheduler(converter, config.ThumbnailWorkers)

	a.db = db
	a.scanner = scanner.New(db, scheduler, config.ThumbnailDir)
	return nil
}

func (a *app) close() error {
	if a.db == nil {
		return nil
	}
	thumbnail.ShutdownVips()
	err := a.db.Close()
	a.db = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func (a *app) addSource(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path %s: %w", path, err)
	}
	info, err := filesystem.StatWithRetry(abs, filesystem.DefaultRetryConfig())
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", abs, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", abs)
	}

	src, err := a.db.AddSource(ctx, abs)
	if err != nil {
		return err
	}
	return a.printSources([]database.WallpaperSource{*src})
}

func (a *app) listSources(ctx context.Context) error {
	sources, err := a.db.ListSources(ctx)
	if err != nil {
		return err
	}
	return a.printSources(sources)
}

// scan scans the source with the given id, or every active source when id
// is empty. Unlike scanAll it never deletes catalog entries.
func (a *app) scan(ctx context.Context, id string) error {
	var targets []database.WallpaperSource
	if id != "" {
		src, err := a.db.GetSource(ctx, id)
		if err != nil {
			return err
		}
		targets = append(targets, *src)
	} else {
		sources, err := a.db.ListSources(ctx)
		if err != nil {
			return err
		}
		for _, src := range sources {
			if src.Active {
				targets = append(targets, src)
			}
		}
	}

	entries := []database.Wallpaper{}
	for _, src := range targets {
		found, err := a.scanner.Scan(ctx, src.ID, src.Path)
		if err != nil {
			return err
		}
		entries = append(entries, found...)
	}
	return a.printWallpapers(entries)
}

func (a *app) scanAll(ctx context.Context) error {
	entries, err := a.scanner.ScanAll(ctx)
	if err != nil {
		return err
	}
	return a.printWallpapers(entries)
}

func (a *app) list(ctx context.Context, opts database.ListOptions) error {
	wallpapers, err := a.db.ListWallpapers(ctx, opts)
	if err != nil {
		return err
	}
	return a.printWallpapers(wallpapers)
}

func (a *app) printSources(sources []database.WallpaperSource) error {
	if a.jsonOutput {
		return a.printJSON(sources)
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tACTIVE\tPATH")
	for _, src := range sources {
		fmt.Fprintf(tw, "%s\t%v\t%s\n", src.ID, src.Active, src.Path)
	}
	return tw.Flush()
}

func (a *app) printWallpapers(wallpapers []database.Wallpaper) error {
	if a.jsonOutput {
		return a.printJSON(wallpapers)
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SIGNATURE\tFAV\tPATH\tKEYWORDS")
	for _, w := range wallpapers {
		fav := ""
		if w.IsFavorite {
			fav = "*"
		}
		keywords := ""
		if w.Keywords != nil {
			keywords = *w.Keywords
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", shortSignature(w.Signature), fav, w.Path, keywords)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.out, "%d wallpaper(s)\n", len(wallpapers))
	return err
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shortSignature(sig string) string {
	if len(sig) > 12 {
		return sig[:12]
	}
	return sig
}
