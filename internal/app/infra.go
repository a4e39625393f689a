package app

import (
	"context"
	"errors"

	"learner-portal/internal/config"
	"learner-portal/internal/db"
	"learner-portal/internal/logger"
	"learner-portal/internal/redis"
)

type Infra struct {
	DB *db.DB
	// Redis is nil unless the local auth backend is selected.
	Redis *redis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	infra := &Infra{DB: database}

	if cfg.AuthBackend == config.BackendLocal {
		redisClient, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			_ = database.Close()
			return nil, err
		}
		infra.Redis = redisClient

		logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
	}

	return infra, nil
}

func (i *Infra) Close() error {
	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	errs = append(errs, i.DB.Close())
	return errors.Join(errs...)
}
