package app

import (
	"database/sql"

	"go-staffhub/internal/config"
	"go-staffhub/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the connections a process opened.
type Infra struct {
	Config *config.Config
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
}

// ConnectDB opens the relational store only.
func ConnectDB(cfg *config.Config) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB, cfg.MaxRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	return &Infra{Config: cfg, GormDB: gormDB, SQLDB: sqlDB}, nil
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.SQLDB != nil {
		_ = i.SQLDB.Close()
	}
}

// BuildApp connects the stores and mounts every module on router. The
// returned func releases the connections.
func BuildApp(cfg *config.Config, router *gin.Engine) (func(), error) {
	logger := zap.L().Named("app")

	infra, err := ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established", zap.String("driver", cfg.DB.Driver))

	infra.Redis, err = connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.MaxRetries)
	if err != nil {
		infra.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	if err := registerModules(router, infra, zap.L()); err != nil {
		infra.Close()
		return nil, err
	}
	return infra.Close, nil
}
