package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/thetooth/execping/config"
	"github.com/thetooth/execping/decision"
	"github.com/thetooth/execping/metrics"
	"github.com/thetooth/execping/ping"
	"github.com/thetooth/execping/statistics"
	"golang.org/x/sync/errgroup"
)

var (
	path       string
	statPath   string
	host       string
	count      int
	timeout    int
	executable string
	listen     string
	logLevel   string
	printOnly  bool
)

func main() {
	flag.StringVar(&path, "config", "/etc/execping.json", "Path to targets configuration (.json, .toml or .yaml)")
	flag.StringVar(&statPath, "socket", "/tmp/execping", "Path to statistics file")
	flag.StringVar(&host, "host", "", "Ping a single host once and print the answer")
	flag.IntVar(&count, "count", 1, "Number of echo requests with -host")
	flag.IntVar(&timeout, "timeout", 1, "Per reply timeout in seconds with -host")
	flag.StringVar(&executable, "executable", "", "Ping executable, overrides the configuration")
	flag.StringVar(&listen, "listen", "", "Address to serve Prometheus metrics on, disabled when empty")
	flag.StringVar(&logLevel, "log-level", "", "Log level, overrides the configuration")
	flag.BoolVar(&printOnly, "print", false, "Print the ping command instead of running it")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	setLogLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if host != "" {
		if !simplePing(ctx) {
			stop()
			os.Exit(1)
		}
		return
	}

	// Attempt configuration file load
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatal("Unable to load configuration: ", err)
	}
	if logLevel == "" {
		setLogLevel(cfg.LogLevel)
	}

	if printOnly {
		for _, target := range decision.BuildTargets(cfg, newProber(cfg)) {
			fmt.Println(target.Name+":", target.Check.Command())
		}
		return
	}

	if err = run(ctx, cfg); err != nil {
		logrus.Fatal(err)
	}
}

func setLogLevel(level string) {
	if level == "" {
		return
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Warn("Unknown log level ", level, ", keeping ", logrus.GetLevel())
		return
	}
	logrus.SetLevel(lvl)
}

func newProber(cfg *config.Config) *ping.Prober {
	exe := cfg.Executable
	if executable != "" {
		exe = executable
	}
	return ping.NewProber(exe)
}

// simplePing builds the command, runs it and prints the answer, reporting whether one was found
func simplePing(ctx context.Context) bool {
	prober := ping.NewProber(executable)
	cmd := prober.Command(ping.SimpleCommand(host, count, timeout))
	logrus.Info("Ping command: ", cmd)
	if printOnly {
		fmt.Println(cmd)
		return true
	}

	answer, ok := prober.Probe(ctx, cmd)
	if !ok {
		logrus.Error("Ping answer is empty, host: ", host)
		return false
	}
	fmt.Println(answer)

	return true
}

// monitor holds the runtime targets, swapped on configuration reload
type monitor struct {
	sync.Mutex
	cfg       *config.Config
	targets   []*decision.Target
	collector *metrics.Collector
	reload    chan struct{}
}

func (m *monitor) apply(cfg *config.Config) {
	targets := decision.BuildTargets(cfg, newProber(cfg))

	m.Lock()
	m.cfg = cfg
	m.targets = targets
	m.Unlock()
	m.collector.SetTargets(targets)
}

func (m *monitor) snapshot() (*config.Config, []*decision.Target) {
	m.Lock()
	defer m.Unlock()
	return m.cfg, m.targets
}

func run(ctx context.Context, cfg *config.Config) error {
	m := &monitor{collector: metrics.NewCollector(nil), reload: make(chan struct{}, 1)}
	m.apply(cfg)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return config.Watch(ctx, path, func(cfg *config.Config) {
			m.apply(cfg)
			if logLevel == "" {
				setLogLevel(cfg.LogLevel)
			}
			select {
			case m.reload <- struct{}{}:
			default:
			}
		})
	})

	if listen != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(m.collector)
		server := &http.Server{
			Addr:              listen,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			<-ctx.Done()
			return server.Close()
		})
		g.Go(func() error {
			logrus.Info("Serving metrics on ", listen)
			if err := server.ListenAndServe(); err != http.ErrServerClosed {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		return evaluateLoop(ctx, m)
	})

	return g.Wait()
}

// evaluateLoop probes every target each interval and publishes the statistics file
func evaluateLoop(ctx context.Context, m *monitor) error {
	for {
		cfg, targets := m.snapshot()

		if err := decision.Evaluate(ctx, targets); err != nil && ctx.Err() == nil {
			return err
		}
		if err := statistics.Write(statPath, statistics.Build(targets)); err != nil {
			logrus.Warn(err)
		}

		timer := time.NewTimer(cfg.Interval.Duration)
		select {
		case <-ctx.Done():
			timer.Stop()
			logrus.Debug("[ EXIT_CLEANUP ] targets: ", len(targets))
			return nil
		case <-m.reload:
			timer.Stop()
		case <-timer.C:
		}
	}
}
