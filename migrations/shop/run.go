package main

import (
	"embed"
	"flag"
	"fmt"
	"os"

	"github.com/ghuser/lenos/pkg/config"
	"github.com/ghuser/lenos/pkg/migrator"
)

//go:embed *.sql
var MigrationsFS embed.FS

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration instead of applying pending ones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	run := migrator.RunMigrations
	if *down {
		run = migrator.RollbackMigration
	}
	if err := run(cfg.DatabaseURL, MigrationsFS); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
