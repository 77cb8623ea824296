package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"fishtank/internal/fish/repository"
	"fishtank/internal/fish/repository/backend"
	"fishtank/internal/migrations"
	mongoMigration "fishtank/internal/migrations/mongo"
	"fishtank/pkg/config"
)

const JobName = "fishtank-migrate"

func main() {
	from := flag.String("from", "fs", "source store driver")
	to := flag.String("to", "sqlite", "target store driver")
	fromLocation := flag.String("from-location", "", "source location override (path, DSN, database or prefix depending on driver)")
	toLocation := flag.String("to-location", "", "target location override")
	overwrite := flag.Bool("overwrite", false, "replace records that already exist in the target")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall job timeout")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	srcCfg := storeConfig(*from, *fromLocation)
	dstCfg := storeConfig(*to, *toLocation)
	log := srcCfg.Log
	defer srcCfg.GracefulShutdown()
	defer dstCfg.GracefulShutdown()

	log.Info("Starting fish migration job", "from", srcCfg.StoreDriver, "to", dstCfg.StoreDriver)

	src, err := backend.Open(ctx, srcCfg)
	if err != nil {
		log.Fatal("Failed to open source store", "driver", srcCfg.StoreDriver, "error", err)
	}
	defer src.Close()

	dst, err := backend.Open(ctx, dstCfg)
	if err != nil {
		log.Fatal("Failed to open target store", "driver", dstCfg.StoreDriver, "error", err)
	}
	defer dst.Close()

	if dst.Driver() == repository.DriverMongo {
		db := dstCfg.Client.Mongo.Database(dstCfg.MongoDatabaseName)
		if err := mongoMigration.RunMigration(ctx, db, log); err != nil {
			log.Fatal("Mongo migration failed", "error", err)
		}
	}

	res, err := migrations.Copy(ctx, src, dst, *overwrite, log)
	if err != nil {
		log.Error("Migration finished with errors", "result", res.String(), "error", err)
		os.Exit(1)
	}
	log.Info("Migration completed successfully", "result", res.String())
	fmt.Println("Migration completed successfully.")
}

// storeConfig reads the environment and points it at driver. location, when
// set, replaces the one setting that locates that driver's data.
func storeConfig(driver, location string) *config.Config {
	cfg := config.FromEnv(JobName)
	cfg.StoreDriver = driver
	cfg.CreateDataPath = true

	if location != "" {
		d, _ := repository.ParseDriver(driver)
		switch d {
		case repository.DriverFilesystem:
			cfg.DataPath = location
		case repository.DriverSQLite:
			cfg.SQLitePath = location
		case repository.DriverPostgres:
			cfg.PostgresDSN = location
		case repository.DriverMongo:
			cfg.MongoDatabaseName = location
		case repository.DriverS3:
			cfg.S3Prefix = location
		}
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	return cfg
}
