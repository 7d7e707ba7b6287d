package scheduler

import (
	"context"
	"time"

	"controle-gado/internal/domain/health"
	"controle-gado/internal/domain/reports"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler roda o job diário de alertas: próximas aplicações
// sanitárias e partos previstos dentro do horizonte configurado.
type Scheduler struct {
	cron        *cron.Cron
	log         *zap.Logger
	health      *health.Service
	reports     *reports.Service
	horizonDays int
}

func New(log *zap.Logger, healthSvc *health.Service, reportsSvc *reports.Service, horizonDays int) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		log:         log,
		health:      healthSvc,
		reports:     reportsSvc,
		horizonDays: horizonDays,
	}
}

// Start agenda o job de alertas e inicia o cron.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.runAlerts); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler iniciado", zap.String("schedule", schedule))
	return nil
}

// Stop interrompe o cron e espera os jobs em andamento.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler parado")
}

func (s *Scheduler) runAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	applications, err := s.health.Upcoming(ctx, s.horizonDays)
	if err != nil {
		s.log.Error("alerta de sanidade falhou", zap.Error(err))
	} else {
		for _, a := range applications {
			s.log.Info("aplicacao sanitaria proxima",
				zap.String("brinco", a.Brinco),
				zap.String("tipo", string(a.Tipo)),
				zap.String("produto", a.Produto),
				zap.Time("proxima_aplicacao", a.ProximaAplicacao),
				zap.Int("dias_restantes", a.DiasRestantes),
			)
		}
	}

	births, err := s.reports.UpcomingBirths(ctx, s.horizonDays)
	if err != nil {
		s.log.Error("alerta de reproducao falhou", zap.Error(err))
		return
	}
	for _, b := range births {
		s.log.Info("parto previsto proximo",
			zap.String("brinco", b.Brinco),
			zap.String("status", string(b.State)),
			zap.Time("data_prevista", b.DataPrevista),
			zap.Int("dias_restantes", b.DiasRestantes),
		)
	}
}
