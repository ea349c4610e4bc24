package providers

import (
	"github.com/samber/do/v2"

	"github.com/kaizenhub/kaizenhub-server/internal/auth"
	"github.com/kaizenhub/kaizenhub-server/internal/logger"
	"github.com/kaizenhub/kaizenhub-server/internal/service"
)

// ProvideScoringService provides the savings scoring service.
func ProvideScoringService(i do.Injector) (*service.ScoringService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewScoringService(st.Store, log.Logger), nil
}

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(st.Store, tokens, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	sessions := do.MustInvoke[*service.SessionService](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(st.Store, sessions, tokens, log.Logger), nil
}

// ProvidePlantService provides the plant service.
func ProvidePlantService(i do.Injector) (*service.PlantService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPlantService(st.Store, log.Logger), nil
}

// ProvideSubmissionService provides the best-practice submission service.
func ProvideSubmissionService(i do.Injector) (*service.SubmissionService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	searchSvc := do.MustInvoke[*service.SearchService](i)
	queue := do.MustInvoke[*RecalcQueueHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSubmissionService(st.Store, searchSvc, queue.Queue, log.Logger), nil
}

// ProvideCopyService provides the copy-and-implement service.
func ProvideCopyService(i do.Injector) (*service.CopyService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	searchSvc := do.MustInvoke[*service.SearchService](i)
	leaderboard := do.MustInvoke[*service.LeaderboardService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCopyService(st.Store, searchSvc, leaderboard, log.Logger), nil
}

// ProvideLeaderboardService provides the leaderboard service.
func ProvideLeaderboardService(i do.Injector) (*service.LeaderboardService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLeaderboardService(st.Store, log.Logger), nil
}

// ProvideReportingService provides the reporting service.
func ProvideReportingService(i do.Injector) (*service.ReportingService, error) {
	st := do.MustInvoke[*StoreHandle](i)
	scoring := do.MustInvoke[*service.ScoringService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewReportingService(st.Store, scoring, log.Logger), nil
}
