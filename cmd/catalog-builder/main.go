package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/voltcrew/voltcrewdesigns/pkg/catalog"
	"github.com/voltcrew/voltcrewdesigns/pkg/config"
	"github.com/voltcrew/voltcrewdesigns/pkg/hook"
	"github.com/voltcrew/voltcrewdesigns/pkg/utils"
)

// catalog-builder scans PHOTOS_DIR and writes the catalog document to CATALOG_PATH
func main() {
	_ = godotenv.Load(".env")
	conf := config.NewConfig()

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if conf.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	start := time.Now()

	shop, err := config.LoadShop(conf.ShopPath)
	if err != nil {
		logger.Fatalf("Could not load shop config: %v", err)
	}

	c, report, err := catalog.NewBuilder(shop, conf.CollisionPolicy, logger).BuildDir(conf.PhotosDir)
	if err != nil {
		logger.Fatalf("Could not build catalog from %s: %v", conf.PhotosDir, err)
	}

	for _, w := range report.Warnings {
		logger.WithFields(logrus.Fields{
			"kind": w.Kind,
			"path": w.Path,
		}).Warn(w.Message)
	}

	if err := catalog.Write(conf.CatalogPath, c); err != nil {
		logger.Fatalf("Could not write catalog: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"path":     conf.CatalogPath,
		"products": report.Products,
		"images":   report.Images,
		"warnings": len(report.Warnings),
		"elapsed":  utils.FormatDuration(time.Since(start)),
	}).Info("Catalog generated")

	discord := hook.New(conf.DiscordCatalogHook)
	if err := discord.SendCatalog(context.Background(), report.Products, report.Images, len(report.Warnings)); err != nil {
		logger.Warnf("Could not send catalog notification: %v", err)
	}
}
