package main

import (
	"context"
	"flag"

	"github.com/SeakMengs/AutoActa/internal/config"
	"github.com/SeakMengs/AutoActa/internal/database"
	"github.com/SeakMengs/AutoActa/internal/env"
	"github.com/SeakMengs/AutoActa/internal/model"
	"github.com/SeakMengs/AutoActa/internal/registry"
	"github.com/SeakMengs/AutoActa/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	env.LoadEnv(".env")
}

func main() {
	seed := flag.Bool("seed", false, "upsert the template registry from the seed file after migrating")
	seedPath := flag.String("seed-path", "", "template seed YAML, defaults to REGISTRY_SEED_PATH")
	flag.Parse()

	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()
	cfg := config.GetConfig()

	logger.Infof("Database configuration: host=%s port=%s db=%s", cfg.DB.DB_HOST, cfg.DB.DB_PORT, cfg.DB.DB_DATABASE)

	db, err := database.ConnectReturnGormDB(cfg.DB, false)
	if err != nil {
		logger.Panic(err)
	}

	migrateErr := db.AutoMigrate(
		&model.Department{},
		&model.Concurso{},
		&model.TribunalMember{},
		&model.Applicant{},
		&model.Schedule{},
		&model.TemplateConfig{},
		&model.GeneratedDocument{},
		&model.Signature{},
		&model.DocumentLog{},
	)
	if migrateErr != nil {
		logger.Panic(migrateErr)
	}
	logger.Info("Migration complete")

	if !*seed {
		return
	}

	path := *seedPath
	if path == "" {
		path = cfg.Registry.SeedPath
	}
	if err := seedTemplates(db, logger, path); err != nil {
		logger.Panic(err)
	}
}

func seedTemplates(db *gorm.DB, logger *zap.SugaredLogger, path string) error {
	cfgs, err := registry.LoadSeed(path)
	if err != nil {
		return err
	}

	repo := repository.NewRepository(db, logger)
	ctx := context.Background()

	return db.Transaction(func(tx *gorm.DB) error {
		for i := range cfgs {
			created, err := repo.TemplateConfig.Upsert(ctx, tx, &cfgs[i])
			if err != nil {
				return err
			}
			if created {
				logger.Infof("Template %s created", cfgs[i].TypeKey)
			} else {
				logger.Infof("Template %s updated", cfgs[i].TypeKey)
			}
		}
		return nil
	})
}
