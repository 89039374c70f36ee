package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	migrationapp "github.com/consignment/backend/internal/application/migration"
	"github.com/consignment/backend/internal/domain/migration"
	"github.com/consignment/backend/internal/infrastructure/config"
	"github.com/consignment/backend/internal/infrastructure/images"
	"github.com/consignment/backend/internal/infrastructure/logger"
	"github.com/consignment/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

func main() {
	var (
		dataDir        string
		customersFile  string
		zakkenFile     string
		brandsFile     string
		productsFile   string
		giftCardsFile  string
		promoCodesFile string
		ordersFile     string
		orderLinesFile string
		logLevel       string
	)

	flag.StringVar(&dataDir, "data-dir", "", "Directory holding the exported CSV files (default from config)")
	flag.StringVar(&customersFile, "customers", "klanten.csv", "Customers CSV file name, empty to skip")
	flag.StringVar(&zakkenFile, "submissions", "zakken.csv", "Submissions CSV file name, empty to skip")
	flag.StringVar(&brandsFile, "brands", "merken.csv", "Brands CSV file name, empty to skip")
	flag.StringVar(&productsFile, "products", "producten.csv", "Products CSV file name, empty to skip")
	flag.StringVar(&giftCardsFile, "gift-cards", "cadeaubonnen.csv", "Gift cards CSV file name, empty to skip")
	flag.StringVar(&promoCodesFile, "promo-codes", "actiecodes.csv", "Promo codes CSV file name, empty to skip")
	flag.StringVar(&ordersFile, "orders", "bestellingen.csv", "Webshop orders CSV file name, empty to skip")
	flag.StringVar(&orderLinesFile, "order-lines", "bestelregels.csv", "Order lines CSV file name, empty to skip")
	flag.StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if dataDir == "" {
		dataDir = cfg.Migration.DataDir
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		log.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	fetcher := images.NewFetcher(cfg.Images.BasePath, cfg.Images.LegacySiteURL, cfg.Images.HTTPTimeout, log)
	uow := persistence.NewGormUnitOfWork(db.DB)
	rules := migration.Rules{
		Cutoff:           cfg.Migration.CutoffDate,
		ExemptLegacyCode: cfg.Migration.ExemptLegacyCode,
		PaidFallbackDate: cfg.Migration.PaidFallbackDate,
	}
	service := migrationapp.NewService(uow, fetcher, rules, cfg.Migration.CheckpointRows, log)

	files := migrationapp.Files{
		Customers:   resolveFile(dataDir, customersFile),
		Submissions: resolveFile(dataDir, zakkenFile),
		Brands:      resolveFile(dataDir, brandsFile),
		Products:    resolveFile(dataDir, productsFile),
		GiftCards:   resolveFile(dataDir, giftCardsFile),
		PromoCodes:  resolveFile(dataDir, promoCodesFile),
		Orders:      resolveFile(dataDir, ordersFile),
		OrderLines:  resolveFile(dataDir, orderLinesFile),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := service.Run(ctx, files)
	if err != nil {
		report.Log(log)
		log.Fatal("Migration failed", zap.Error(err))
	}
	log.Info("Migration completed")
}

// resolveFile joins a file name to the data directory. Empty names skip
// the step; missing files are skipped with a warning instead of
// aborting a multi-step run.
func resolveFile(dataDir, name string) string {
	if name == "" {
		return ""
	}
	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(dataDir, name)
	}
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "Skipping missing file: %s\n", path)
		return ""
	}
	return path
}
