// smoothmotiond serves jerk-limited trajectory planning and evaluation
// over HTTP and WebSocket.
//
// Usage:
//
//	smoothmotiond -config axes.cfg [options]
//
// Options:
//
//	-config string   Axis configuration file (required)
//	-addr string     HTTP listen address (default ":8137")
//	-rate float      WebSocket sample rate in Hz (default 1000)
//	-realtime        Request SCHED_FIFO for streaming goroutines
//	-trace           Enable debug tracing
//	-logfile string  Log file path (default: stdout)
//
// Examples:
//
//	# Start with the default port
//	smoothmotiond -config axes.cfg
//
//	# Stream at 250 Hz with debug tracing
//	smoothmotiond -config axes.cfg -rate 250 -trace
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"smoothmotion/pkg/axis"
	"smoothmotion/pkg/config"
	"smoothmotion/pkg/log"
	"smoothmotion/pkg/server"
)

func main() {
	configFile := flag.String("config", "", "Axis configuration file (required)")
	addr := flag.String("addr", ":8137", "HTTP listen address")
	rate := flag.Float64("rate", 1000, "WebSocket sample rate in Hz")
	realtime := flag.Bool("realtime", false, "Request SCHED_FIFO for streaming goroutines")
	trace := flag.Bool("trace", false, "Enable debug tracing")
	logFile := flag.String("logfile", "", "Log file path (default: stdout)")

	flag.Parse()

	if *configFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -config is required\n")
		flag.Usage()
		os.Exit(1)
	}
	if *rate <= 0 {
		fmt.Fprintf(os.Stderr, "Error: -rate must be positive\n")
		os.Exit(1)
	}

	logger := log.New("smoothmotiond")
	log.ConfigureFromEnv(logger)
	if *trace {
		logger.SetLevel(log.LevelDebug)
	}
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetWriter(f)
		logger.SetColorize(false)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.WithError(err).Error("cannot load config")
		os.Exit(1)
	}
	axes, err := axis.LoadRegistry(cfg)
	if err != nil {
		logger.WithError(err).Error("invalid axis configuration")
		os.Exit(1)
	}
	for _, opt := range cfg.UnusedOptions() {
		logger.Warn("unused config option %s", opt)
	}

	logger.Info("config: %s", *configFile)
	for _, name := range axes.Names() {
		a, _ := axes.Lookup(name)
		logger.Info("  axis %s: v=%g a=%g j=%g", name,
			a.Limits.Velocity, a.Limits.Accel, a.Limits.Jerk)
	}

	srv := server.New(server.Config{
		Addr:       *addr,
		Axes:       axes,
		SampleRate: *rate,
		Realtime:   *realtime,
		Logger:     logger,
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutdown signal received")
		srv.Stop()
	}()

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		logger.WithError(err).Error("server exited")
		os.Exit(1)
	}
	logger.Info("stopped")
}
