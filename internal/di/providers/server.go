package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/kaizenhub/kaizenhub-server/internal/api"
	"github.com/kaizenhub/kaizenhub-server/internal/config"
	"github.com/kaizenhub/kaizenhub-server/internal/logger"
	"github.com/kaizenhub/kaizenhub-server/internal/service"
)

// HTTPServerHandle wraps the HTTP server with graceful shutdown capability.
type HTTPServerHandle struct {
	server *http.Server
	logger *logger.Logger
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	h.logger.Info("Shutting down HTTP server")
	return h.server.Shutdown(ctx)
}

// ProvideHTTPServer assembles the API server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	st := do.MustInvoke[*StoreHandle](i)
	limiter := do.MustInvoke[*LoginLimiterHandle](i)

	services := api.Services{
		Auth:        do.MustInvoke[*service.AuthService](i),
		Sessions:    do.MustInvoke[*service.SessionService](i),
		Plants:      do.MustInvoke[*service.PlantService](i),
		Submissions: do.MustInvoke[*service.SubmissionService](i),
		Copies:      do.MustInvoke[*service.CopyService](i),
		Leaderboard: do.MustInvoke[*service.LeaderboardService](i),
		Reporting:   do.MustInvoke[*service.ReportingService](i),
		Search:      do.MustInvoke[*service.SearchService](i),
	}

	apiServer := api.NewServer(st.Store, services, limiter.KeyedRateLimiter, log.Logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiServer,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{server: server, logger: log}, nil
}
