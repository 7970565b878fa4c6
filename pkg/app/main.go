package app

import (
	"github.com/ghuser/lenos/pkg/cache"
	"github.com/ghuser/lenos/pkg/config"
	"github.com/ghuser/lenos/pkg/database"
	"github.com/ghuser/lenos/pkg/events"
	"github.com/ghuser/lenos/pkg/logger"
	"github.com/ghuser/lenos/pkg/telemetry"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to ShopRoutes and the worker subscribers during process startup.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context
// methods and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "job status changed", "job_id", id)
//	app.Logger.WarnContext(ctx, "cache invalidation failed", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
type Application struct {
	Config   *config.Config
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient // nil when Redis is unavailable; caches are then skipped
	Metrics  *telemetry.ShopMetrics
}
