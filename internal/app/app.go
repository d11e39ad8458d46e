package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/cuetrack/pool-league/internal/config"
	"github.com/cuetrack/pool-league/internal/domain/handicap"
	"github.com/cuetrack/pool-league/internal/domain/lineup"
	"github.com/cuetrack/pool-league/internal/domain/match"
	"github.com/cuetrack/pool-league/internal/domain/season"
	"github.com/cuetrack/pool-league/internal/domain/team"
	"github.com/cuetrack/pool-league/internal/infrastructure/account/static"
	"github.com/cuetrack/pool-league/internal/infrastructure/notifier"
	"github.com/cuetrack/pool-league/internal/infrastructure/repository/memory"
	"github.com/cuetrack/pool-league/internal/infrastructure/repository/postgres"
	"github.com/cuetrack/pool-league/internal/interfaces/httpapi"
	"github.com/cuetrack/pool-league/internal/platform/cache"
	idgen "github.com/cuetrack/pool-league/internal/platform/id"
	"github.com/cuetrack/pool-league/internal/platform/logging"
	"github.com/cuetrack/pool-league/internal/platform/notify"
	"github.com/cuetrack/pool-league/internal/platform/resilience"
	"github.com/cuetrack/pool-league/internal/usecase"
)

type repositories struct {
	seasons   season.Repository
	teams     team.Repository
	matches   match.Repository
	lineups   lineup.Repository
	handicaps handicap.Repository
}

// NewHTTPServer wires repositories, services, and the HTTP router into a
// ready-to-run server. The store backend is selected by cfg.Store.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := newRepositories(cfg)
	if err != nil {
		return nil, err
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	broker := notify.NewBroker()
	if cfg.WebhookEnabled {
		hook := notifier.NewWebhook(notifier.WebhookConfig{
			URL:     cfg.WebhookURL,
			Token:   cfg.WebhookToken,
			Timeout: cfg.WebhookTimeout,
			Retries: cfg.WebhookRetries,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		}, logger)
		broker.Subscribe(hook.Handle)
	}

	handicapSvc := usecase.NewHandicapService(repos.handicaps, store)
	handler := httpapi.NewHandler(
		usecase.NewScheduleService(
			repos.seasons,
			repos.teams,
			repos.matches,
			repos.lineups,
			idgen.NewRandomGenerator(),
			broker,
			logger,
			cfg.ScheduleWorkers,
		),
		usecase.NewCalendarService(repos.seasons, store, cfg.ConflictProximityDays),
		usecase.NewLineupService(repos.lineups, repos.matches, broker),
		usecase.NewMatchService(repos.matches, repos.lineups, handicapSvc, broker),
		handicapSvc,
		logger,
	)

	credentials, err := static.ParseCredentials(cfg.AuthTokens)
	if err != nil {
		return nil, fmt.Errorf("parse AUTH_TOKENS: %w", err)
	}
	verifier := static.NewVerifier(credentials)

	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func newRepositories(cfg config.Config) (repositories, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := otelsqlx.Connect("postgres", cfg.DBURL,
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithDBSystem("postgresql"),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return repositories{}, fmt.Errorf("connect postgres: %w", err)
		}

		return repositories{
			seasons:   postgres.NewSeasonRepository(db),
			teams:     postgres.NewTeamRepository(db),
			matches:   postgres.NewMatchRepository(db),
			lineups:   postgres.NewLineupRepository(db),
			handicaps: postgres.NewHandicapRepository(db),
		}, nil
	default:
		matchRepo := memory.NewMatchRepository()
		lineupRepo := memory.NewLineupRepository(func(matchID string) (string, bool) {
			m, ok, err := matchRepo.GetByID(context.Background(), matchID)
			if err != nil || !ok {
				return "", false
			}
			return m.SeasonID, true
		})

		return repositories{
			seasons:   memory.NewSeasonRepository(memory.SeedSeasons(), memory.SeedWeeks(), memory.SeedBlackoutPreferences()),
			teams:     memory.NewTeamRepository(memory.SeedTeams()),
			matches:   matchRepo,
			lineups:   lineupRepo,
			handicaps: memory.NewHandicapRepository(memory.SeedHandicapChart()),
		}, nil
	}
}
