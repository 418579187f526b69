package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/goatledger/internal/config"
	"github.com/mamadbah2/goatledger/internal/repository/file"
	"github.com/mamadbah2/goatledger/internal/repository/kv"
	"github.com/mamadbah2/goatledger/internal/repository/mongodb"
	redisrepo "github.com/mamadbah2/goatledger/internal/repository/redis"
	"github.com/mamadbah2/goatledger/internal/repository/sqlite"
)

// storage bundles the ledger backend with the connections that must be closed
// on shutdown.
type storage struct {
	backend kv.Backend
	mongo   *mongodb.MongoDBRepository
	closers []func() error
}

// openStorage connects the configured backend.
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*storage, error) {
	s := &storage{}
	if err := s.open(ctx, cfg, log); err != nil {
		return nil, err
	}

	log.Info("ledger storage ready", zap.String("backend", cfg.Storage.Backend))
	return s, nil
}

// open connects the backend. On failure every connection opened so far is
// closed again.
func (s *storage) open(ctx context.Context, cfg *config.Config, log *zap.Logger) (err error) {
	defer func() {
		if err != nil {
			s.Close(log)
			s.closers = nil
		}
	}()

	if cfg.UsesMongoDB() {
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return err
		}
		s.mongo = repo
		s.closers = append(s.closers, func() error { return repo.Close(context.Background()) })
	}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn("memory backend selected, ledger is lost on restart")
		s.backend = kv.NewMemory()
	case config.BackendFile:
		store, err := file.New(cfg.Storage.Dir)
		if err != nil {
			return err
		}
		s.backend = store
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return err
		}
		s.backend = store
		s.closers = append(s.closers, store.Close)
	case config.BackendRedis:
		client, err := redisrepo.NewClient(redisrepo.Config{
			Address:  cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		store := redisrepo.New(client)
		s.backend = store
		s.closers = append(s.closers, store.Close)
	case config.BackendMongoDB:
		s.backend = s.mongo
	default:
		return fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}

	return nil
}

// Close releases every opened connection, logging failures.
func (s *storage) Close(log *zap.Logger) {
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			log.Error("failed to close storage connection", zap.Error(err))
		}
	}
}
