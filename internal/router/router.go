package router

import (
	"context"
	"database/sql"
	"net/http"

	mem "controle-gado/internal/adapters/storage/memory"
	pg "controle-gado/internal/adapters/storage/postgres"
	"controle-gado/internal/domain/animals"
	"controle-gado/internal/domain/auth"
	"controle-gado/internal/domain/catalog"
	"controle-gado/internal/domain/health"
	"controle-gado/internal/domain/movements"
	"controle-gado/internal/domain/reports"
	"controle-gado/internal/domain/reproduction"
	"controle-gado/internal/domain/users"
	"controle-gado/internal/domain/weighings"
	"controle-gado/internal/middleware"
	ports "controle-gado/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "controle-gado/docs"
)

type Options struct {
	// Opcional: se vier, usa Postgres. Se não, in-memory com admin seed.
	DB *sql.DB

	Log *zap.Logger

	SessionTTLDays int

	// DevAuth desliga a verificação de sessão e aceita os headers
	// X-Debug-User-ID / X-Debug-Role. Nunca usar fora de dev.
	DevAuth bool

	// Credenciais do admin seed do modo in-memory.
	AdminEmail    string
	AdminPassword string
}

// App expõe o handler HTTP e os services que o scheduler consome.
type App struct {
	Handler http.Handler

	Health  *health.Service
	Reports *reports.Service
}

func New(opts Options) (*App, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	var (
		userRepo     users.Repository
		sessionRepo  auth.Repository
		animalRepo   animals.Repository
		weighingRepo weighings.Repository
		eventRepo    reproduction.EventRepository
		bullRepo     reproduction.BullRepository
		healthRepo   health.Repository
		movementRepo movements.Repository
		breedRepo    catalog.BreedRepository
		lotRepo      catalog.LotRepository
		pastureRepo  catalog.PastureRepository
	)

	if opts.DB != nil {
		userRepo = pg.NewUsersRepo(opts.DB)
		sessionRepo = pg.NewSessionsRepo(opts.DB)
		animalRepo = pg.NewAnimalsRepo(opts.DB)
		weighingRepo = pg.NewWeighingsRepo(opts.DB)
		eventRepo = pg.NewReproEventsRepo(opts.DB)
		bullRepo = pg.NewBullsRepo(opts.DB)
		healthRepo = pg.NewHealthRepo(opts.DB)
		movementRepo = pg.NewMovementsRepo(opts.DB)
		breedRepo = pg.NewBreedsRepo(opts.DB)
		lotRepo = pg.NewLotsRepo(opts.DB)
		pastureRepo = pg.NewPasturesRepo(opts.DB)
	} else {
		userRepo = mem.NewUserRepo()
		sessionRepo = mem.NewSessionRepo()
		animalRepo = mem.NewAnimalRepo()
		weighingRepo = mem.NewWeighingRepo()
		eventRepo = mem.NewReproEventRepo()
		bullRepo = mem.NewBullRepo()
		healthRepo = mem.NewHealthRepo()
		movementRepo = mem.NewMovementRepo()
		breedRepo = mem.NewBreedRepo()
		lotRepo = mem.NewLotRepo()
		pastureRepo = mem.NewPastureRepo()

		email := opts.AdminEmail
		if email == "" {
			email = "admin@fazenda.local"
		}
		senha := opts.AdminPassword
		if senha == "" {
			senha = "admin123"
		}
		if err := mem.SeedAdminUser(context.Background(), userRepo, email, senha); err != nil {
			return nil, err
		}
		log.Info("storage in-memory com admin seed", zap.String("email", email))
	}

	ttlDays := opts.SessionTTLDays
	if ttlDays <= 0 {
		ttlDays = 30
	}

	usersSvc := users.NewService(userRepo)
	authSvc := auth.NewService(sessionRepo, userRepo, ttlDays)
	animalsSvc := animals.NewService(animalRepo)
	weighingsSvc := weighings.NewService(weighingRepo, animalsSvc)
	reproductionSvc := reproduction.NewService(eventRepo, bullRepo, animalsSvc)
	healthSvc := health.NewService(healthRepo, animalsSvc)
	movementsSvc := movements.NewService(movementRepo, animalsSvc)
	catalogSvc := catalog.NewService(breedRepo, lotRepo, pastureRepo, animalsSvc)
	reportsSvc := reports.NewService(animalsSvc, weighingsSvc, reproductionSvc)

	var verifier ports.TokenVerifier
	if !opts.DevAuth {
		verifier = authSvc
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(verifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/docs/*", httpSwagger.WrapHandler)

	r.Route("/api", func(api chi.Router) {
		auth.RegisterRoutes(api, authSvc, usersSvc)
		users.RegisterRoutes(api, usersSvc)
		animals.RegisterRoutes(api, animalsSvc, weighingsSvc)
		weighings.RegisterRoutes(api, weighingsSvc)
		reproduction.RegisterRoutes(api, reproductionSvc)
		health.RegisterRoutes(api, healthSvc)
		movements.RegisterRoutes(api, movementsSvc)
		catalog.RegisterRoutes(api, catalogSvc)
		reports.RegisterRoutes(api, reportsSvc)
	})

	return &App{
		Handler: r,
		Health:  healthSvc,
		Reports: reportsSvc,
	}, nil
}
