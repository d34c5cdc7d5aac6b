package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rachel1809/gmaps-scraper/pkg/archive"
	"github.com/Rachel1809/gmaps-scraper/pkg/config"
	"github.com/Rachel1809/gmaps-scraper/pkg/debug"
	"github.com/Rachel1809/gmaps-scraper/pkg/export"
	"github.com/Rachel1809/gmaps-scraper/pkg/ui"
	"github.com/Rachel1809/gmaps-scraper/pkg/version"
	"github.com/Rachel1809/gmaps-scraper/pkg/watcher"
)

func main() {
	cpuProfile := flag.String("cpu-profile", "", "Write CPU profile to file")
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	host := flag.String("host", "", "Worker host (overrides config)")
	port := flag.Int("port", 0, "Worker port (overrides config)")
	headless := flag.Bool("headless", false, "Ask the worker to run its browser headless")
	exportWizard := flag.Bool("export-wizard", false, "Export an archived run without entering the TUI")
	listRuns := flag.Bool("list-runs", false, "List archived runs and exit")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Println("Usage: gmctl [options]")
		fmt.Println("\nTerminal control surface for a remote Google Maps crawl worker.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("gmctl %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults.
		fmt.Fprintf(os.Stderr, "Warning: could not read config: %v\n", cfgErr)
		cfg = config.DefaultConfig()
	}
	if *host != "" {
		cfg.Worker.Host = *host
	}
	if *port != 0 {
		cfg.Worker.Port = *port
	}
	if *headless {
		cfg.UI.Headless = true
	}

	if *listRuns || *exportWizard {
		os.Exit(runArchiveCommand(cfg, *listRuns))
	}

	store, err := archive.Open(config.ArchivePath())
	if err != nil {
		// The TUI works without the archive; superseded runs are just
		// not kept.
		fmt.Fprintf(os.Stderr, "Warning: run archive unavailable: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	var cfgWatcher *watcher.Watcher
	if path := config.ConfigPath(); path != "" {
		cfgWatcher, err = watcher.New(path)
		if err == nil {
			err = cfgWatcher.Start()
		}
		if err != nil {
			debug.Log("config watcher disabled: %v", err)
			cfgWatcher = nil
		}
	}

	m := ui.NewModel(cfg, store, cfgWatcher)
	defer m.Stop()

	if err := runTUIProgram(m); err != nil {
		fmt.Printf("Error running gmctl: %v\n", err)
		os.Exit(1)
	}
}

// runArchiveCommand handles --list-runs and --export-wizard, which run
// outside the TUI.
func runArchiveCommand(cfg config.Config, listOnly bool) int {
	store, err := archive.Open(config.ArchivePath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run archive: %v\n", err)
		return 1
	}
	defer store.Close()

	if listOnly {
		runs, err := store.Runs()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing runs: %v\n", err)
			return 1
		}
		if len(runs) == 0 {
			fmt.Println("No archived runs.")
			return 0
		}
		for _, run := range runs {
			fmt.Println(export.DescribeRun(run))
		}
		return 0
	}

	wizard := export.NewWizard(store, cfg.UI.ExportDir)
	if _, err := wizard.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Export aborted: %v\n", err)
		return 1
	}
	return 0
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
