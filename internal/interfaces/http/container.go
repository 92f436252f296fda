package http

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"calmora/internal/infrastructure/cache"
	"calmora/internal/infrastructure/config"
	"calmora/internal/infrastructure/scheduler"
	"calmora/internal/interfaces/http/middleware"
	"calmora/internal/shared/logger"
)

// Container wires repositories, infrastructure services, use cases, handlers
// and the job scheduler together, and owns their shutdown.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	repos *repositories
	svcs  *services
	ucs   *useCases
	hdlrs *handlerSet

	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter

	scheduler *scheduler.Manager
}

// NewContainer builds the full dependency graph. Initialization order matters:
// services need redis, use cases need repositories and services, handlers and
// the scheduler need use cases.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	registerValidators()

	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	c.redis = redisClient

	c.initRepositories()
	if err := c.initServices(); err != nil {
		return nil, err
	}
	c.initUseCases()
	c.initHandlers()
	c.initMiddleware()

	if err := c.initScheduler(); err != nil {
		return nil, fmt.Errorf("failed to init scheduler: %w", err)
	}

	return c, nil
}

func (c *Container) initScheduler() error {
	mgr, err := scheduler.NewManager(c.log)
	if err != nil {
		return err
	}

	if err := mgr.RegisterSubscriptionJobs(
		c.ucs.expire,
		c.ucs.autoRenew,
		time.Duration(c.cfg.Worker.ExpirySweepIntervalMin)*time.Minute,
	); err != nil {
		return err
	}
	if err := mgr.RegisterSessionSweepJobs(
		c.ucs.sweepSessions,
		sweepInterval(c.cfg.Worker.SessionSweepIntervalMin),
	); err != nil {
		return err
	}
	if err := mgr.RegisterReminderJobs(c.ucs.reminders); err != nil {
		return err
	}

	c.scheduler = mgr
	return nil
}

func sweepInterval(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}

// StartScheduler starts the background jobs. The worker binary runs the same
// jobs standalone; deployments run one or the other.
func (c *Container) StartScheduler() {
	c.scheduler.Start()
}

// Engine returns the gin engine for the HTTP server.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown stops background jobs and closes shared connections.
func (c *Container) Shutdown() error {
	var firstErr error

	if err := c.scheduler.Stop(); err != nil {
		firstErr = err
	}
	if err := c.redis.Close(); err != nil {
		c.log.Errorw("failed to close redis client", "error", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
