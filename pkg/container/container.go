package container

import (
	"context"
	"fmt"
	"time"

	"netflix-catalog-backend/internal/config"
	infraCache "netflix-catalog-backend/internal/infrastructure/cache"
	"netflix-catalog-backend/internal/infrastructure/database"
	"netflix-catalog-backend/pkg/cache"
	"netflix-catalog-backend/pkg/jwt"
	"netflix-catalog-backend/pkg/logger"

	"netflix-catalog-backend/internal/domains/title"
	titleHandler "netflix-catalog-backend/internal/domains/title/handler"
	titleRepo "netflix-catalog-backend/internal/domains/title/repository"
	titleService "netflix-catalog-backend/internal/domains/title/service"
	"netflix-catalog-backend/internal/domains/user"
	userHandler "netflix-catalog-backend/internal/domains/user/handler"
	userRepo "netflix-catalog-backend/internal/domains/user/repository"
	userService "netflix-catalog-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton shared for the lifetime of the process.
type Container struct {
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	UserRepo  user.Repository
	TitleRepo title.Repository

	UserService  user.Service
	TitleService title.Service

	UserHandler  *userHandler.UserHandler
	TitleHandler *titleHandler.TitleHandler
}

// NewContainer builds the full dependency graph in order: config,
// infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment)

	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db
	logger.Info("database connected", map[string]interface{}{
		"host": dbConfig.Host,
		"name": dbConfig.DBName,
	})

	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)
	if err := redisCache.Ping(context.Background()); err != nil {
		// Cache misses fall through to the database, so a dead Redis is
		// degraded service, not a startup failure.
		logger.Warn("redis connection failed, running without cache", err)
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
	)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.TitleRepo = titleRepo.NewPostgresRepository(pool, c.Cache)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo)
	c.TitleService = titleService.NewTitleService(c.TitleRepo)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.JWTManager)
	c.TitleHandler = titleHandler.NewTitleHandler(c.TitleService)
}

// Cleanup releases infrastructure connections. Called on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logger.Warn("closing database pool", err)
		}
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			logger.Warn("closing redis client", err)
		}
	}
}
