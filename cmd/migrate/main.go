package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	log "github.com/sirupsen/logrus"

	"github.com/ksasaki/traininglog/internal/config"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	migrationsPath := flag.String("migrations", "./migrations", "path to the migrations directory")
	down := flag.Bool("down", false, "roll all migrations back instead of applying them")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}

	user := cfg.PostgresUser
	if user == "" {
		user = "postgres"
	}
	databaseURL := fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=disable",
		user, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDBName,
	)

	m, err := migrate.New("file://"+*migrationsPath, databaseURL)
	if err != nil {
		log.Fatalf("new migrate: %s", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warnf("close migrate: source: %v, database: %v", srcErr, dbErr)
		}
	}()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Infoln("migrations: no change")
		return
	}
	if err != nil {
		log.Fatalf("run migrations: %s", err)
	}

	log.Infoln("migrations applied")
}
