// Package di provides dependency injection configuration for the KaizenHub server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/kaizenhub/kaizenhub-server/internal/auth"
	"github.com/kaizenhub/kaizenhub-server/internal/config"
	"github.com/kaizenhub/kaizenhub-server/internal/di/providers"
	"github.com/kaizenhub/kaizenhub-server/internal/logger"
	"github.com/kaizenhub/kaizenhub-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideScoringService)
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvidePlantService)
	do.Provide(injector, providers.ProvideSubmissionService)
	do.Provide(injector, providers.ProvideCopyService)
	do.Provide(injector, providers.ProvideLeaderboardService)
	do.Provide(injector, providers.ProvideReportingService)

	// Workers
	do.Provide(injector, providers.ProvideRecalcQueue)
	do.Provide(injector, providers.ProvideLoginLimiter)
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.ScoringService](injector)
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.PlantService](injector)
	_ = do.MustInvoke[*service.SubmissionService](injector)
	_ = do.MustInvoke[*service.CopyService](injector)
	_ = do.MustInvoke[*service.LeaderboardService](injector)
	_ = do.MustInvoke[*service.ReportingService](injector)

	// Workers
	_ = do.MustInvoke[*providers.RecalcQueueHandle](injector)
	_ = do.MustInvoke[*providers.LoginLimiterHandle](injector)
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index from the database if it is empty
	if err := providers.ReindexIfEmpty(injector); err != nil {
		log := do.MustInvoke[*logger.Logger](injector)
		log.Error("Search reindex failed", "error", err)
	}

	return nil
}
