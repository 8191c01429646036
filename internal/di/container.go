// Package di provides dependency injection configuration for the Taleblock server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/daveroberts0321/taleblock/internal/config"
	"github.com/daveroberts0321/taleblock/internal/di/providers"
	"github.com/daveroberts0321/taleblock/internal/logger"
	"github.com/daveroberts0321/taleblock/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideStoryService)

	// Workers
	do.Provide(injector, providers.ProvideSessionSweepJob)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.StoryService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionSweepJob](injector)

	return nil
}
