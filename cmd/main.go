package main

import (
	"flag"
	"log/slog"
	"os"

	"replicaset/pkg/config"
	"replicaset/pkg/storage"
	"replicaset/pkg/util/logging"
)

func main() {
	path := flag.String("config", "cmd/config.yaml", "path to the YAML config")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		slog.Error("load config", "path", *path, "error", err)
		os.Exit(1)
	}

	logging.Init(cfg.Logging.Level, cfg.Replica.ID)

	store, err := storage.NewStore(cfg.Replica.UUID(), storage.NewEngine(cfg.Storage.Shards))
	if err != nil {
		slog.Error("create store", "error", err)
		os.Exit(1)
	}

	slog.Info("replica started", "shards", cfg.Storage.Shards)
	if err := run(os.Stdin, os.Stdout, store); err != nil {
		slog.Error("read commands", "error", err)
		os.Exit(1)
	}
	slog.Info("replica stopped", "sets", store.Count())
}
