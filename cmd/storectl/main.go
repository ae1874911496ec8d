package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"go-storefront-ws/internal/model"
	"go-storefront-ws/internal/repository"
	"go-storefront-ws/pkg/config"
	"go-storefront-ws/pkg/database"
	"go-storefront-ws/pkg/logger"
)

func main() {
	_ = config.LoadDotEnv()
	log := logger.New(logger.Options{Service: "storectl", Env: os.Getenv("APP_ENV"), Level: os.Getenv("LOG_LEVEL")})

	app := &cli.App{
		Name:  "storectl",
		Usage: "operator tasks for the storefront database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dsn",
				Usage:    "Postgres connection string",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "create or update tables and seed sizes",
				Action: func(c *cli.Context) error {
					return withDB(c, log, func(db *gorm.DB) error {
						if err := repository.Migrate(db); err != nil {
							return err
						}
						if err := repository.SeedSizes(c.Context, db); err != nil {
							return err
						}
						log.Info("schema up to date")
						return nil
					})
				},
			},
			{
				Name:  "seed-catalog",
				Usage: "insert a permanent collection with one product per size, for local development",
				Action: func(c *cli.Context) error {
					return withDB(c, log, func(db *gorm.DB) error {
						return seedCatalog(c.Context, db, log)
					})
				},
			},
			{
				Name:  "reset-password",
				Usage: "set a new password for a profile",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(c *cli.Context) error {
					return withDB(c, log, func(db *gorm.DB) error {
						return resetPassword(c.Context, db, c.String("email"), c.String("password"), log)
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("storectl failed")
	}
}

func withDB(c *cli.Context, log logrus.FieldLogger, fn func(db *gorm.DB) error) error {
	db, err := database.Connect(c.String("dsn"), log, false)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}
	return fn(db)
}

func resetPassword(ctx context.Context, db *gorm.DB, email, password string, log logrus.FieldLogger) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	profiles := repository.NewProfileRepo(db)
	profile, err := profiles.FindByEmail(ctx, email)
	if err != nil {
		return errors.Wrapf(err, "profile %s", email)
	}
	if err := profile.SetPassword(password); err != nil {
		return err
	}
	if err := profiles.UpdatePassword(ctx, profile.ID, profile.Password); err != nil {
		return err
	}
	// Existing sessions must sign in again with the new password.
	if err := profiles.UpdateTokenVersion(ctx, profile.ID, ""); err != nil {
		return err
	}
	log.WithField("email", profile.Email).Info("password reset")
	return nil
}

func seedCatalog(ctx context.Context, db *gorm.DB, log logrus.FieldLogger) error {
	var sizes []model.Size
	if err := db.WithContext(ctx).Order("display_order").Find(&sizes).Error; err != nil {
		return err
	}
	if len(sizes) == 0 {
		return errors.New("no sizes found, run migrate first")
	}

	collection := &model.Collection{
		Name:        "Essentials",
		Slug:        "essentials",
		Description: "Year-round basics",
		IsPermanent: true,
		Enabled:     true,
	}
	collections := repository.NewCollectionRepo(db)
	if existing, err := collections.FindBySlug(ctx, collection.Slug); err == nil {
		log.WithField("collection_id", existing.ID).Info("catalog already seeded")
		return nil
	}
	collection.CreatedBy = "storectl"
	if err := collections.Create(ctx, collection); err != nil {
		return err
	}

	products := repository.NewProductRepo(db)
	for _, item := range []struct {
		sku, name, category string
		price               int64
	}{
		{"ESS-TEE-WHT", "Pima Cotton Tee", "t-shirts", 5900},
		{"ESS-HOOD-BLK", "Alpaca Blend Hoodie", "hoodies", 18900},
		{"ESS-JOG-GRY", "Everyday Joggers", "pants", 12900},
	} {
		p := &model.Product{
			SKU:          item.sku,
			Name:         item.name,
			Category:     item.category,
			Price:        item.price,
			CollectionID: &collection.ID,
			IsAvailable:  true,
		}
		p.CreatedBy = "storectl"
		for _, s := range sizes {
			p.Variants = append(p.Variants, model.ProductVariant{SizeID: s.ID, InventoryCount: 10})
		}
		if err := products.Create(ctx, p); err != nil {
			return err
		}
	}
	log.WithField("collection_id", collection.ID).Info("catalog seeded")
	return nil
}
