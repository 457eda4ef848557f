package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/voltcrew/voltcrewdesigns/pkg/cart"
	"github.com/voltcrew/voltcrewdesigns/pkg/catalog"
	"github.com/voltcrew/voltcrewdesigns/pkg/config"
	"github.com/voltcrew/voltcrewdesigns/pkg/images"
	"github.com/voltcrew/voltcrewdesigns/pkg/prometheus"
	"github.com/voltcrew/voltcrewdesigns/pkg/store"
	"github.com/voltcrew/voltcrewdesigns/pkg/storefront"
)

func main() {
	// for development purposes
	// we don't care about errors here
	_ = godotenv.Load(".env")
	conf := config.NewConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := createLogger(conf.Debug)
	mon := prometheus.New()

	storage, err := createStorage(ctx, conf)
	if err != nil {
		logger.Fatalf("Could not create cart storage: %v", err)
	}
	if closer, ok := storage.(io.Closer); ok {
		defer closer.Close()
	}

	shop, err := config.LoadShop(conf.ShopPath)
	if err != nil {
		logger.Fatalf("Could not load shop config: %v", err)
	}

	resolver, err := createResolver(conf, mon, logger)
	if err != nil {
		logger.Fatalf("Could not create image resolver: %v", err)
	}

	renderer, err := storefront.NewRenderer()
	if err != nil {
		logger.Fatalf("Could not create renderer: %v", err)
	}

	hr := &HandlerRepository{
		renderer: renderer,
		cart:     cart.New(storage, mon, logger),
		config:   conf,
		monitor:  mon,
		logger:   logger,
	}

	// the catalog is read once, a broken document keeps the server up
	// but every page answers 503
	c, err := catalog.Load(conf.CatalogPath)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"path":  conf.CatalogPath,
			"error": err.Error(),
		}).Error("Could not load catalog")
		hr.catalogErr = err
	} else {
		hr.storefront = storefront.New(c, shop, resolver, mon, logger)
		mon.CatalogProducts.WithLabelValues().Set(float64(c.Len()))
		mon.CatalogLoadedAt.WithLabelValues().Set(float64(time.Now().Unix()))
		logger.Infof("Catalog loaded with %d products", c.Len())
	}

	StartServer(NewRouter(hr), conf.Port, logger)
}

func createLogger(debug bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)
	if debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	return logger
}

func createStorage(ctx context.Context, conf *config.Config) (store.Storage, error) {
	switch conf.CartBackend {
	case "memory":
		return store.NewFakeStore(), nil
	case "redis":
		return store.NewRedisStore(conf), nil
	case "postgres":
		return store.NewPostgresStore(ctx, conf.DBString)
	default:
		return nil, fmt.Errorf("unknown cart backend %q", conf.CartBackend)
	}
}

// createResolver probes the local photos dir unless images live elsewhere
func createResolver(conf *config.Config, mon *prometheus.Monitor, logger *logrus.Logger) (*images.Resolver, error) {
	if conf.ImageBaseURL == "" {
		return images.NewResolver(images.NewFSProber(conf.PhotosDir), "/photos", mon, logger), nil
	}

	prober, err := images.NewHTTPProber(conf.ImageBaseURL, conf.ProbeTimeout)
	if err != nil {
		return nil, fmt.Errorf("could not create http prober: %w", err)
	}

	return images.NewResolver(prober, conf.ImageBaseURL, mon, logger), nil
}
