package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/config"
	"github.com/Skotchmaster/storefront/internal/db"
	"github.com/Skotchmaster/storefront/internal/es"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/mykafka"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/service"
)

const connectTimeout = 10 * time.Second

// app holds the long-lived dependencies shared by the subcommands.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	db       *gorm.DB
	producer *mykafka.Producer
	index    *es.ProductIndex
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	openCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	gdb, err := db.Open(openCtx, db.Options{DSN: cfg.DatabaseURL, PGDriver: cfg.PGDriver})
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	return &app{cfg: cfg, log: logger, db: gdb}, nil
}

func (a *app) migrate() error {
	if err := db.Migrate(a.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	a.log.Info("migrations_applied")
	return nil
}

// connectKafka builds the event producer. Without brokers the services get
// a no-op publisher.
func (a *app) connectKafka(ctx context.Context) service.Publisher {
	if len(a.cfg.KafkaBrokers) == 0 {
		a.log.Info("kafka_disabled")
		return service.NopPublisher{}
	}

	topicsCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := mykafka.EnsureTopics(topicsCtx, a.cfg.KafkaBrokers[0], service.Topics...); err != nil {
		a.log.Warn("kafka_topics_failed", "error", err)
	}

	p, err := mykafka.NewProducer(a.cfg.KafkaBrokers)
	if err != nil {
		a.log.Error("kafka_producer_failed", "error", err)
		return service.NopPublisher{}
	}
	a.producer = p
	a.log.Info("kafka_enabled", "brokers", a.cfg.KafkaBrokers)
	return p
}

func (a *app) connectSearch(ctx context.Context) error {
	if a.cfg.ESURL == "" {
		a.log.Info("search_disabled")
		return nil
	}

	esCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	client, err := es.NewClient(esCtx, es.Options{URL: a.cfg.ESURL, User: a.cfg.ESUser, Password: a.cfg.ESPassword}, a.log)
	if err != nil {
		return err
	}
	idx := es.NewProductIndex(client, a.cfg.ESIndex)
	if err := idx.EnsureIndex(esCtx); err != nil {
		return err
	}
	a.index = idx
	return nil
}

func (a *app) catalog(events service.Publisher) *service.CatalogService {
	svc := &service.CatalogService{Repo: repo.New(a.db), Events: events}
	if a.index != nil {
		svc.Index = a.index
	}
	return svc
}

func (a *app) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Error("kafka_close_failed", "error", err)
		}
	}
	if err := db.Close(a.db); err != nil {
		a.log.Error("db_close_failed", "error", err)
	}
}
