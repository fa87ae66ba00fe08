package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"

	"portprobe/config"
	"portprobe/netutil"
	"portprobe/output"
	"portprobe/port"
	"portprobe/scanner"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one scan and returns the process exit code: 0 on success or
// interrupt, 2 for usage errors, 4 when the scan could not start.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("portprobe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	target := fs.String("target", "", "IP or hostname to scan (required)")
	proxiesFlag := fs.String("proxies", "", "comma-separated proxies, e.g. http://proxy1:8080,socks5://proxy2:1080 (optional)")
	all := fs.Bool("all", false, "scan all ports (1-65535)")
	portsSpec := fs.String("ports", "", "ports or ranges (e.g. 80,443 or 1-100,8080)")
	workers := fs.Int("c", config.DefaultWorkers, "worker count")
	cfgPath := fs.String("config", "", "YAML config file with scan defaults")
	verbose := fs.Bool("v", false, "verbose logging")
	noColor := fs.Bool("no-color", false, "disable colored output")
	noProgress := fs.Bool("no-progress", false, "disable the progress bar")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	usageError := func(msg string) int {
		fmt.Fprintln(stderr, "error: "+msg)
		fs.Usage()
		return 2
	}

	tgt := strings.TrimSpace(*target)
	if tgt == "" {
		return usageError("-target is required")
	}
	if !*all && *portsSpec == "" {
		return usageError("you must specify either -all or -ports")
	}

	var ports []uint16
	if *all {
		ports = port.All()
	} else {
		var err error
		if ports, err = port.ParsePortSpec(*portsSpec); err != nil {
			return usageError(fmt.Sprintf("invalid ports spec: %v", err))
		}
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return usageError(err.Error())
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "c":
			cfg.Workers = *workers
		case "proxies":
			cfg.Proxies = netutil.ParseProxyList(*proxiesFlag)
		}
	})
	cfg.NoColor = cfg.NoColor || *noColor
	cfg.NoProgress = cfg.NoProgress || *noProgress || *verbose
	if cfg.Workers <= 0 {
		return usageError(fmt.Sprintf("worker count must be positive, got %d", cfg.Workers))
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(stderr, "[verbose] ", log.Ltime|log.Lmicroseconds)
	}

	printer := output.NewPrinter(stdout, !cfg.NoColor && isTerminal(stdout))
	for _, p := range cfg.Proxies {
		if _, err := netutil.ParseProxy(p); err != nil {
			printer.Warn("proxy %q is unusable and will report every port closed: %v", p, err)
		}
	}

	// Through a proxy the target is resolved by the relay, not locally.
	var addr string
	if len(cfg.Proxies) == 0 {
		rctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if addr, err = netutil.ResolveTarget(rctx, tgt); err != nil {
			logger.Printf("resolve %s: %v", tgt, err)
		}
		cancel()
	}

	progress := output.NewProgress(stderr, len(ports), !cfg.NoProgress && isTerminal(stderr))
	mgr := scanner.NewManager(scanner.Config{
		Target:        tgt,
		Ports:         ports,
		Proxies:       cfg.Proxies,
		Workers:       cfg.Workers,
		DirectTimeout: cfg.DirectTimeout,
		ProxyTimeout:  cfg.ProxyTimeout,
		Logger:        logger,
		OnOutcome:     progress.Observe,
	})

	printer.Summary(output.Summary{
		Target:   tgt,
		Address:  addr,
		Ports:    len(ports),
		Workers:  cfg.Workers,
		Proxies:  cfg.Proxies,
		Estimate: mgr.Estimate(),
	})

	res, err := mgr.Run(ctx)
	progress.Finish()
	if err != nil {
		fmt.Fprintf(stderr, "failed to run scanner manager: %v\n", err)
		return 4
	}

	// An interrupted scan still exits 0 after reporting partial results.
	printer.Result(res)
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
