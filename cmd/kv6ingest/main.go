// Command kv6ingest consumes recorded KV6 vehicle-position replay streams
// and writes them out as Parquet chunks with JSON sidecars.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/rbroekhoff/oeuf/config"
	"github.com/rbroekhoff/oeuf/internal"
	"github.com/rbroekhoff/oeuf/kv1"
	"github.com/rbroekhoff/oeuf/kv6"
	"github.com/rbroekhoff/oeuf/metrics"
	"github.com/rbroekhoff/oeuf/storage"
	"github.com/rbroekhoff/oeuf/transport"
)

func main() {
	replayDir := pflag.String("replay-dir", "", "directory of recorded KV6 replay streams (overrides config)")
	outputDir := pflag.String("output-dir", "", "local directory to write chunk files to (overrides config)")
	pflag.Parse()

	internal.InitLogging()
	if err := config.Load(); err != nil {
		internal.Errorf("loading configuration: %v", err)
		os.Exit(1)
	}
	if *replayDir != "" {
		config.Config.KV6.ReplayDir = *replayDir
	}
	if *outputDir != "" {
		config.Config.ChunkWriter.OutputDir = *outputDir
	}

	if err := config.RequireMetricsAddr(); err != nil {
		internal.Errorf("%v", err)
		os.Exit(1)
	}

	zone, err := kv1.NewZone()
	if err != nil {
		internal.Errorf("loading time zone: %v", err)
		os.Exit(1)
	}

	sink := metrics.NewPrometheusSink()
	metricsServer := &http.Server{Addr: config.Config.Metrics.Addr, Handler: metrics.NewServer(sink)}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			internal.Errorf("metrics server: %v", err)
		}
	}()

	store, err := buildStore()
	if err != nil {
		internal.Errorf("building output store: %v", err)
		os.Exit(1)
	}

	writer := kv6.NewChunkWriter(store, zone,
		sink,
		config.Config.ChunkWriter.MaxChunkRows,
		time.Duration(config.Config.ChunkWriter.FlushIntervalSecs)*time.Second)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Config.KV6.ProductionEndpoint {
		internal.Infof("NDOV_PRODUCTION selected the live subscription endpoint; this binary only consumes recorded replay streams, see kv6.replayDir / -replay-dir")
	}

	if config.Config.KV6.ReplayDir == "" {
		internal.Errorf("no replay directory configured; set kv6.replayDir or pass -replay-dir")
		_ = metricsServer.Close()
		os.Exit(1)
	}

	if err := ingestReplayDir(ctx, config.Config.KV6.ReplayDir, zone, writer, sink); err != nil {
		internal.Errorf("ingesting replay streams: %v", err)
	}
	if err := writer.Flush(context.Background()); err != nil {
		internal.Errorf("final flush: %v", err)
	}
	_ = metricsServer.Close()
}

func buildStore() (storage.Store, error) {
	oc := config.Config.ObjectStore
	if bucket := os.Getenv("KV1_OBJECT_STORE_BUCKET"); bucket != "" {
		oc.Bucket = bucket
	}
	if oc.Bucket != "" {
		return storage.NewS3Store(oc.Endpoint, oc.AccessKey, oc.SecretKey, oc.Bucket, oc.UseSSL)
	}
	return storage.NewLocalStore(config.Config.ChunkWriter.OutputDir), nil
}

func ingestReplayDir(ctx context.Context, dir string, zone *kv1.Zone, writer *kv6.ChunkWriter, sink metrics.Sink) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("kv6ingest: reading %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := ingestReplayFile(ctx, path, zone, writer, sink); err != nil {
			internal.Warnf("%s: %v", path, err)
		}
	}
	return nil
}

func ingestReplayFile(ctx context.Context, path string, zone *kv1.Zone, writer *kv6.ChunkWriter, sink metrics.Sink) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	src, err := transport.NewReplaySource(f)
	if err != nil {
		return fmt.Errorf("opening replay stream %s: %w", path, err)
	}
	defer src.Close()

	for {
		payload, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading frame: %w", err)
		}

		res, err := kv6.ParseXML(payload, zone)
		if err != nil {
			sink.CounterInc(kv6.MetricValidationErrorsTotal, nil)
			internal.Warnf("%s: parsing envelope: %v", path, err)
			continue
		}
		for _, e := range res.Errors {
			sink.CounterInc(kv6.MetricValidationErrorsTotal, nil)
			internal.Warnf("%s: %s", path, e)
		}
		if len(res.Records) == 0 {
			continue
		}
		if err := writer.AddEnvelope(ctx, res.Records); err != nil {
			return fmt.Errorf("writing chunk: %w", err)
		}
	}
}
