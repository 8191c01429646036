package providers

import (
	"github.com/samber/do/v2"

	"github.com/daveroberts0321/taleblock/internal/config"
	"github.com/daveroberts0321/taleblock/internal/logger"
	"github.com/daveroberts0321/taleblock/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, cfg.Auth.SessionDuration, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, sessionService, log.Logger), nil
}

// ProvideStoryService provides the story service.
func ProvideStoryService(i do.Injector) (*service.StoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewStoryService(storeHandle.Store, log.Logger), nil
}
