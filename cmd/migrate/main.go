// Comando migrate: aplica (up) o revierte (down) el esquema embebido.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
//	go run ./cmd/migrate --database-url postgres://... up
package main

import (
	flag "github.com/spf13/pflag"

	"github.com/jhoicas/taller-api/internal/infrastructure/postgres"
	"github.com/jhoicas/taller-api/pkg/config"
	"github.com/jhoicas/taller-api/pkg/logger"
)

func main() {
	databaseURL := flag.String("database-url", "", "DSN de PostgreSQL (por defecto el de la configuración)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	direction := "up"
	if flag.NArg() > 0 {
		direction = flag.Arg(0)
	}
	dsn := cfg.DB.ConnectionString()
	if *databaseURL != "" {
		dsn = *databaseURL
	}

	m, err := postgres.NewMigrator(dsn, log)
	if err != nil {
		log.Fatal().Err(err).Msg("crear migrador")
	}
	defer func() { _ = m.Close() }()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	default:
		log.Fatal().Str("direction", direction).Msg("uso: migrate [up|down]")
	}
	if err != nil {
		log.Fatal().Err(err).Str("direction", direction).Msg("migración fallida")
	}
}
