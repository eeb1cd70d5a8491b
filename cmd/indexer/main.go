package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"xcmScope/internal/chain"
	"xcmScope/internal/config"
	"xcmScope/internal/indexer"
	"xcmScope/internal/metrics"
	"xcmScope/internal/ss58"
	"xcmScope/internal/storage"
	"xcmScope/internal/storage/postgres"
	"xcmScope/internal/storage/s3"
	"xcmScope/internal/transfer"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "indexer",
		Short:        "Relay-chain XCM transfer indexer",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Decode block batches into transfers and persist them",
		RunE:  runIndexer,
	}

	runCmd.Flags().String("in", "", "input blocks JSONL (- for stdin)")
	runCmd.Flags().String("rpc", "", "relay-chain RPC URL, caps the range at the finalized head")
	runCmd.Flags().Uint64("from", 0, "start block (inclusive)")
	runCmd.Flags().Uint64("to", 0, "end block (inclusive), 0 means unbounded")
	runCmd.Flags().Int("batch-size", 500, "blocks per batch")
	runCmd.Flags().Int("workers", 0, "decode workers per batch, 0 means GOMAXPROCS")
	runCmd.Flags().String("sink", "jsonl", "transfer sink (jsonl, postgres, s3)")
	runCmd.Flags().String("out", "./data/transfers.jsonl", "output JSONL path for the jsonl sink")
	runCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL")
	runCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	runCmd.Flags().String("s3-bucket", "", "S3 bucket")
	runCmd.Flags().String("s3-prefix", "", "S3 key prefix")
	runCmd.Flags().String("s3-region", "", "S3 region")
	runCmd.Flags().String("s3-endpoint", "", "S3-compatible endpoint URL")
	runCmd.Flags().String("s3-access-key-id", "", "S3 access key id")
	runCmd.Flags().String("s3-secret-access-key", "", "S3 secret access key")
	runCmd.Flags().Bool("s3-force-path-style", false, "use path-style S3 addressing")
	runCmd.Flags().String("checkpoint", "./data/checkpoint.json", "checkpoint file path")
	runCmd.Flags().Bool("checkpoint-enabled", true, "enable checkpointing")
	runCmd.Flags().String("state-name", "xcm_transfers", "indexer_state row name for the postgres sink")
	runCmd.Flags().Uint64("ss58-prefix", 2, "SS58 network prefix")
	runCmd.Flags().String("native-token", "KSM", "native token symbol")
	runCmd.Flags().StringSlice("raw-address-paras", []string{"2023"}, "parachains whose beneficiaries are rendered as hex")
	runCmd.Flags().String("metrics-addr", "", "Prometheus listen address, empty disables")
	runCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	runCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	decodeCmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode blocks JSONL into transfers JSONL",
		RunE:  runDecode,
	}

	decodeCmd.Flags().String("in", "", "input blocks JSONL")
	decodeCmd.Flags().String("out", "./data/transfers.jsonl", "output transfers JSONL")
	decodeCmd.Flags().String("errors", "./data/decode_errors.jsonl", "decode errors JSONL")
	decodeCmd.Flags().Int("workers", 0, "decode workers, 0 means GOMAXPROCS")
	decodeCmd.Flags().Uint64("ss58-prefix", 2, "SS58 network prefix")
	decodeCmd.Flags().String("native-token", "KSM", "native token symbol")
	decodeCmd.Flags().StringSlice("raw-address-paras", []string{"2023"}, "parachains whose beneficiaries are rendered as hex")
	decodeCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(decodeCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIndexer(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	extractor, err := newExtractor(cfg.SS58Prefix, cfg.NativeToken, cfg.RawAddressParas, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	input, err := openInput(cfg.In)
	if err != nil {
		return err
	}
	defer input.Close()

	var opts []indexer.Option
	var sink storage.Storage
	switch cfg.Sink {
	case "jsonl":
		sink = storage.NewJsonlStorage(cfg.Out)
		opts = append(opts, indexer.WithStateStore(indexer.NewCheckpointStore(cfg.Checkpoint, cfg.CheckpointEnabled)))
	case "postgres":
		if cfg.PGDSN == "" {
			return fmt.Errorf("pg-dsn is required for the postgres sink")
		}
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		sink = store
		if cfg.CheckpointEnabled {
			opts = append(opts, indexer.WithStateStore(&indexer.DBStateStore{Store: store, Name: cfg.StateName}))
		}
	case "s3":
		store, err := s3.NewStore(ctx, s3.Config{
			Bucket:          cfg.S3.Bucket,
			Prefix:          cfg.S3.Prefix,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			ForcePathStyle:  cfg.S3.ForcePathStyle,
		})
		if err != nil {
			return err
		}
		sink = store
		opts = append(opts, indexer.WithStateStore(indexer.NewCheckpointStore(cfg.Checkpoint, cfg.CheckpointEnabled)))
	default:
		return fmt.Errorf("unknown sink %q", cfg.Sink)
	}

	if cfg.Errors != "" {
		opts = append(opts, indexer.WithFailureSink(storage.NewJsonlStorage(cfg.Errors)))
	}

	if cfg.RPCURL != "" {
		chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
		if err != nil {
			return fmt.Errorf("connect rpc: %w", err)
		}
		defer chainClient.Close()
		opts = append(opts, indexer.WithHeadReader(chainClient))
	}

	if cfg.MetricsAddr != "" {
		shutdown := serveMetrics(cfg.MetricsAddr, logger)
		defer shutdown()
	}

	runner := indexer.NewRunner(indexer.RunConfig{
		FromBlock:    cfg.FromBlock,
		ToBlock:      cfg.ToBlock,
		BatchSize:    cfg.BatchSize,
		Workers:      cfg.Workers,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		SinkName:     cfg.Sink,
	}, indexer.NewJSONLSource(input), extractor, sink, logger, opts...)

	logger.Info("indexer start",
		zap.String("in", cfg.In),
		zap.String("rpc", cfg.RPCURL),
		zap.Uint64("from", cfg.FromBlock),
		zap.Uint64("to", cfg.ToBlock),
		zap.Int("batch_size", cfg.BatchSize),
		zap.String("sink", cfg.Sink),
		zap.Uint64("ss58_prefix", cfg.SS58Prefix),
		zap.Strings("raw_address_paras", cfg.RawAddressParas),
		zap.Bool("checkpoint_enabled", cfg.CheckpointEnabled),
	)

	_, err = runner.Run(ctx)
	return err
}

func newExtractor(prefix uint64, nativeToken string, rawParas []string, logger *zap.Logger) (*transfer.Extractor, error) {
	networkPrefix, err := indexer.ParseSS58Prefix(prefix)
	if err != nil {
		return nil, err
	}
	paraIDs, err := indexer.ParseParaIDs(rawParas)
	if err != nil {
		return nil, err
	}
	codec, err := ss58.NewCodec(networkPrefix, 0)
	if err != nil {
		return nil, err
	}
	return transfer.NewExtractor(codec, transfer.Options{
		NativeToken:     nativeToken,
		RawAddressParas: paraIDs,
		Logger:          logger,
	}), nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return file, nil
}

func serveMetrics(addr string, logger *zap.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("metrics server listening", zap.String("addr", addr))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
