// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command import-dev-data loads or wipes the development fixtures.
//
//	import-dev-data -import [-dir dev-data] [-- server flags]
//	import-dev-data -delete [-- server flags]
//
// Everything after "--" is handed to the regular configuration loader, so the
// database is picked the same way the API server picks it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-natours/internal/config"
	"github.com/MKhiriev/go-natours/internal/logger"
	"github.com/MKhiriev/go-natours/internal/seed"
	"github.com/MKhiriev/go-natours/internal/store"
)

func main() {
	fs := flag.NewFlagSet("import-dev-data", flag.ExitOnError)
	doImport := fs.Bool("import", false, "import the fixtures")
	doDelete := fs.Bool("delete", false, "delete every tour, user and review")
	dir := fs.String("dir", "dev-data", "directory holding tours.json, users.json and reviews.json")
	_ = fs.Parse(os.Args[1:])

	if *doImport == *doDelete {
		fmt.Fprintln(os.Stderr, "exactly one of -import or -delete is required")
		fs.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(fs.Args())
	if err != nil {
		logger.NewLogger("natours-seed").Fatal().Err(err).Msg("error getting configs")
	}
	log := logger.NewLogger("natours-seed", logger.WithLevel(cfg.App.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to database")
	}
	defer db.Close()

	if err = db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("error applying migrations")
	}

	seeder := seed.NewSeeder(store.NewStorages(db, log), cfg.App.BcryptCost, log)

	if *doDelete {
		if err = seeder.Delete(ctx); err != nil {
			log.Err(err).Msg("error deleting data")
			os.Exit(1)
		}
		return
	}

	data, err := seed.Load(os.DirFS(*dir))
	if err != nil {
		log.Err(err).Str("dir", *dir).Msg("error reading fixtures")
		os.Exit(1)
	}
	if err = seeder.Import(ctx, data); err != nil {
		log.Err(err).Msg("error importing data")
		os.Exit(1)
	}
}
