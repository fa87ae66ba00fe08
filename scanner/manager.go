package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/panjf2000/ants/v2"

	"portprobe/port"
)

// DefaultWorkers is the pool size used when Config.Workers is zero.
const DefaultWorkers = 100

var (
	ErrNoTarget   = errors.New("invalid manager config: missing target")
	ErrNoPorts    = errors.New("no ports to scan")
	ErrBadWorkers = errors.New("worker count must be positive")
)

// Config contains runtime configuration for the Manager.
type Config struct {
	Target        string
	Ports         []uint16
	Proxies       []string
	Workers       int
	DirectTimeout time.Duration
	ProxyTimeout  time.Duration
	Logger        *log.Logger

	// OnOutcome, when set, is called from the collecting goroutine for every
	// outcome in completion order. It must not block for long.
	OnOutcome func(port.Outcome)
}

// Result is the aggregate of a scan. Open is sorted ascending and holds each
// port at most once. Completed is false when the scan was cancelled, in which
// case Open holds only the ports confirmed before the cancellation.
type Result struct {
	Open      []uint16
	Elapsed   time.Duration
	Completed bool
	Probed    int
	Total     int
}

// Manager fans probes out over a bounded worker pool and collects outcomes.
type Manager struct {
	cfg    Config
	prober Prober
}

// NewManager creates a new Manager with the provided config. Probes go
// through a Dialer built from the config unless WithProber overrides it.
func NewManager(cfg Config) *Manager {
	return &Manager{
		cfg: cfg,
		prober: &Dialer{
			Proxies:       cfg.Proxies,
			DirectTimeout: cfg.DirectTimeout,
			ProxyTimeout:  cfg.ProxyTimeout,
			Logger:        cfg.Logger,
		},
	}
}

// WithProber replaces the prober used for every port.
func (m *Manager) WithProber(p Prober) *Manager {
	m.prober = p
	return m
}

func (m *Manager) workers() (int, error) {
	switch {
	case m.cfg.Workers == 0:
		return DefaultWorkers, nil
	case m.cfg.Workers < 0:
		return 0, ErrBadWorkers
	}
	return m.cfg.Workers, nil
}

// Estimate returns the rough scan duration for the manager's config.
func (m *Manager) Estimate() time.Duration {
	workers, err := m.workers()
	if err != nil {
		return 0
	}
	perProbe := m.cfg.DirectTimeout
	if perProbe <= 0 {
		perProbe = DefaultDirectTimeout
	}
	if len(m.cfg.Proxies) > 0 {
		perProbe = m.cfg.ProxyTimeout
		if perProbe <= 0 {
			perProbe = DefaultProxyTimeout
		}
	}
	return Estimate(len(m.cfg.Ports), workers, perProbe)
}

// Estimate is ceil(portCount/workers) * perProbe: the time a fully saturated
// pool needs if every probe runs into its timeout. It is informational only.
func Estimate(portCount, workers int, perProbe time.Duration) time.Duration {
	if portCount <= 0 || workers <= 0 {
		return 0
	}
	rounds := (portCount + workers - 1) / workers
	return time.Duration(rounds) * perProbe
}

// Run probes every configured port with at most Workers probes in flight and
// blocks until all outcomes are collected or ctx is done. Cancellation is not
// an error: Run returns at once with the partial result and Completed=false,
// abandoning probes still in flight. An error is returned only for an invalid
// config or a pool failure.
func (m *Manager) Run(ctx context.Context) (Result, error) {
	if m.cfg.Target == "" {
		return Result{}, ErrNoTarget
	}
	if len(m.cfg.Ports) == 0 {
		return Result{}, ErrNoPorts
	}
	workers, err := m.workers()
	if err != nil {
		return Result{}, err
	}

	// Buffered to the job count so workers of an abandoned scan never block.
	outcomes := make(chan port.Outcome, len(m.cfg.Ports))
	pool, err := ants.NewPoolWithFunc(workers, func(arg any) {
		task := arg.(port.Task)
		outcomes <- port.Outcome{Port: task.Port, Open: m.probe(ctx, task)}
	})
	if err != nil {
		return Result{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	m.logf("scanning %s: %d ports, %d workers, %d proxies", m.cfg.Target, len(m.cfg.Ports), workers, len(m.cfg.Proxies))
	start := time.Now()

	// dispatcher: Invoke blocks while all workers are busy. Release wakes it
	// with ErrPoolClosed once Run returns.
	dispatchErr := make(chan error, 1)
	go func() {
		for _, p := range m.cfg.Ports {
			if ctx.Err() != nil {
				return
			}
			if err := pool.Invoke(port.Task{Target: m.cfg.Target, Port: p}); err != nil {
				if !errors.Is(err, ants.ErrPoolClosed) {
					dispatchErr <- fmt.Errorf("dispatch port %d: %w", p, err)
				}
				return
			}
		}
	}()

	open := make(map[uint16]struct{})
	res := Result{Total: len(m.cfg.Ports)}
	for res.Probed < res.Total {
		select {
		case <-ctx.Done():
			m.logf("scan cancelled after %d/%d probes", res.Probed, res.Total)
			return finish(res, open, start, false), nil
		case err := <-dispatchErr:
			return finish(res, open, start, false), err
		case o := <-outcomes:
			res.Probed++
			if o.Open {
				open[o.Port] = struct{}{}
			}
			if m.cfg.OnOutcome != nil {
				m.cfg.OnOutcome(o)
			}
		}
	}
	return finish(res, open, start, true), nil
}

// probe runs the prober for one task. A panicking prober counts as not open
// so the collector still receives exactly one outcome per task.
func (m *Manager) probe(ctx context.Context, task port.Task) (open bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logf("probe %s:%d panicked: %v", task.Target, task.Port, r)
			open = false
		}
	}()
	return m.prober.Probe(ctx, task.Target, task.Port)
}

func finish(res Result, open map[uint16]struct{}, start time.Time, completed bool) Result {
	res.Elapsed = time.Since(start)
	res.Completed = completed
	res.Open = make([]uint16, 0, len(open))
	for p := range open {
		res.Open = append(res.Open, p)
	}
	sort.Slice(res.Open, func(i, j int) bool { return res.Open[i] < res.Open[j] })
	return res
}

func (m *Manager) logf(format string, args ...any) {
	if m.cfg.Logger != nil {
		m.cfg.Logger.Printf(format, args...)
	}
}
