package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	appstaff "github.com/jackyeh168/kuro_loyalty/src/internal/application/staff"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/auth"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/config"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/logger"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/migrations"
	staffrepo "github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/staff"
)

// create-admin 建立後台帳號
//
//	create-admin -username barra -password 'secreto-123' [-role staff]
func main() {
	configPath := flag.String("config", "config.yaml", "path to optional YAML config file")
	username := flag.String("username", "", "staff username")
	password := flag.String("password", "", "staff password (min 8 characters)")
	role := flag.String("role", "admin", "admin | staff")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: create-admin -username <name> -password <password> [-role admin|staff]")
		os.Exit(2)
	}

	if err := run(*configPath, appstaff.CreateStaffCommand{Username: *username, Password: *password, Role: *role}); err != nil {
		fmt.Fprintf(os.Stderr, "create-admin: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, cmd appstaff.CreateStaffCommand) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := persistence.Open(persistence.Config{
		Driver:     cfg.Database.Driver,
		DSN:        cfg.Database.DSN,
		Production: cfg.IsProduction(),
	}, log.Named("db"))
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if _, err := migrations.Run(db, log.Named("migrations")); err != nil {
		return err
	}

	uc := appstaff.NewCreateStaffUseCase(
		staffrepo.NewRepository(db),
		persistence.NewGORMTransactionManager(db),
		auth.NewBcryptHasher(0),
		nil,
		log,
	)
	dto, err := uc.Execute(cmd)
	if err != nil {
		return err
	}

	log.Info("staff account created",
		zap.String("staff_id", dto.ID),
		zap.String("username", dto.Username),
		zap.String("role", dto.Role),
	)
	return nil
}
