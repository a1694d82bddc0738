package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"trivia-service/internal/app"
	"trivia-service/internal/config"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
	pgloader "trivia-service/internal/infra/postgres"
	infraredis "trivia-service/internal/infra/redis"
	"trivia-service/internal/infra/sqlite"
)

// deps is the storage graph behind a GameService.
type deps struct {
	service *app.GameService
	closers []func()
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
}

// buildDeps wires repositories from cfg. Redis and Postgres are used when
// configured; otherwise everything stays in process. shared=false keeps
// sessions local even when Redis is set (terminal play).
func buildDeps(ctx context.Context, cfg config.Config, logger *log.Logger, shared bool) (*deps, error) {
	d := &deps{}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		d.closers = append(d.closers, func() { _ = redisClient.Close() })
	}

	loader, err := bankLoader(ctx, cfg, d)
	if err != nil {
		d.Close()
		return nil, err
	}

	bankTTL := config.Duration(cfg.Questions.TTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = infraredis.NewBankRepository(redisClient, loader, bankTTL, logger)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}

	var sessions app.SessionRepository = memory.NewSessionStore()
	if redisClient != nil && shared {
		sessions = infraredis.NewSessionStore(redisClient, config.Duration(cfg.Redis.TTL, 30*time.Minute))
	}

	var scores app.ScoreRepository
	switch {
	case cfg.SQLite.Path != "":
		store, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open score db: %w", err)
		}
		d.closers = append(d.closers, func() { _ = store.Close() })
		scores = store
	case redisClient != nil:
		scores = infraredis.NewScoreStore(redisClient)
	default:
		scores = memory.NewScoreStore()
	}

	d.service = app.NewGameService(sessions, banks, scores, cfg.BankID(), app.WithServiceLogger(logger))
	return d, nil
}

// bankLoader picks Postgres, then the YAML file, then the built-in bank.
func bankLoader(ctx context.Context, cfg config.Config, d *deps) (memory.BankLoader, error) {
	builtin := memory.NewStaticBankLoader(map[string]domain.Bank{sampleBank().ID: sampleBank()})
	var file memory.BankLoader
	if cfg.Questions.File != "" {
		file = memory.NewFileBankLoader(cfg.Questions.File)
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		d.closers = append(d.closers, pool.Close)
		return fallbackLoader{pgloader.NewBankLoader(pool), file, builtin}, nil
	}
	return fallbackLoader{file, builtin}, nil
}

// fallbackLoader tries each loader in turn while the bank is not found.
type fallbackLoader []memory.BankLoader

func (f fallbackLoader) LoadBank(ctx context.Context, bankID string) (domain.Bank, error) {
	err := fmt.Errorf("load bank %s: %w", bankID, domain.ErrBankNotFound)
	for _, l := range f {
		if l == nil {
			continue
		}
		var bank domain.Bank
		bank, err = l.LoadBank(ctx, bankID)
		if err == nil || !errors.Is(err, domain.ErrBankNotFound) {
			return bank, err
		}
	}
	return domain.Bank{}, err
}
