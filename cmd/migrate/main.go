// Command migrate applies or reverts the embedded schema migrations.
//
//	migrate            apply all pending migrations
//	migrate -steps 1   apply one migration
//	migrate -steps -1  revert the latest migration
package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/donordarah/donor-darah-api/internal/config"
	"github.com/donordarah/donor-darah-api/internal/database"
)

func main() {
	steps := flag.Int("steps", 0, "number of migrations to apply (negative reverts); 0 applies all")
	flag.Parse()

	cfg := config.Load()
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	if err := database.Migrate(db.DB, *steps); err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}
}
