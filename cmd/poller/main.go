package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lumberbarons/sun2000-poller/internal/app"
	"github.com/lumberbarons/sun2000-poller/internal/config"
	"github.com/lumberbarons/sun2000-poller/internal/inverter"
	"github.com/lumberbarons/sun2000-poller/internal/sinks"
	"github.com/lumberbarons/sun2000-poller/internal/telemetry"
)

var (
	configFilePath *string
	debugMode      *bool
)

func init() {
	configFilePath = flag.String("config", "", "Config file path")
	debugMode = flag.Bool("debug", false, "Debug mode")

	log.SetFormatter(&log.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})
}

func main() {
	log.Info("starting sun2000-poller")

	flag.Parse()

	cfg := loadConfigFile()
	poller := &cfg.InverterPoller

	if *debugMode || poller.Debug {
		log.SetLevel(log.DebugLevel)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if poller.LogFile != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   poller.LogFile,
			MaxSize:    10,
			MaxBackups: 5,
			Compress:   true,
		}))
	}

	sink, err := sinks.NewSink(poller)
	if err != nil {
		log.Fatalf("failed to create sink: %v", err)
	}

	session := buildSession(poller, sink)
	application := app.NewApplication(&cfg, session)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		session.Run(ctx)
	}()

	go func() {
		if err := application.Run(); err != nil {
			log.Errorf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	wg.Wait()
	sink.Close()
}

func buildSession(poller *config.PollerConfiguration, sink telemetry.Sink) *inverter.Session {
	inv := poller.Inverter

	connectTimeout := time.Duration(inv.ConnectTimeoutSecs) * time.Second
	dial := func(context.Context) (inverter.Transport, error) {
		return inverter.Dial(inv.Host, inv.DongleConnection, connectTimeout)
	}

	scannerOpts := inverter.ScannerOptions{
		PartialReads: inv.PartialReads,
		ReadTimeout:  time.Duration(inv.ReadTimeoutSecs) * time.Second,
	}

	sessionOpts := inverter.SessionOptions{
		PollInterval:   time.Duration(inv.PollIntervalSecs) * time.Second,
		StatsInterval:  time.Duration(inv.StatsIntervalSecs) * time.Second,
		ReconnectDelay: time.Duration(inv.ReconnectDelaySecs) * time.Second,
	}

	return inverter.NewSession(inv.Name, dial, inverter.DefaultCatalog(), sink,
		scannerOpts, sessionOpts, inverter.NewPrometheusCollector())
}

func loadConfigFile() config.Config {
	if *configFilePath == "" {
		log.Fatalf("Must specify config file path")
	}

	configFile, err := os.ReadFile(*configFilePath)
	if err != nil {
		log.Fatalf("failed to load config file: %v", err)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	return cfg
}
