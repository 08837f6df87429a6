package consent

import (
	"context"
	"time"

	"github.com/medvault/consent-api/internal/ledger"
	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/logger"
	"github.com/medvault/consent-api/pkg/metrics"
)

type Service struct {
	ledger  *ledger.Ledger
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(l *ledger.Ledger, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		ledger:  l,
		logger:  log,
		metrics: m,
	}
}

func (s *Service) Grant(ctx context.Context, issuer model.ActorID, recordID int64, provider model.ActorID, duration time.Duration, purpose string) (int64, error) {
	id, err := s.ledger.Grant(issuer, recordID, provider, duration, purpose)
	if err != nil {
		s.metrics.LedgerFailures.WithLabelValues("grant", errors.KindOf(err).String()).Inc()
		return 0, err
	}

	s.metrics.GrantsIssued.Inc()
	s.logger.Info("access granted",
		"grant_id", id,
		"record_id", recordID,
		"issuer", issuer.String(),
		"provider", provider.String(),
		"duration", duration.String())
	return id, nil
}

func (s *Service) Revoke(ctx context.Context, caller model.ActorID, grantID int64) error {
	if err := s.ledger.Revoke(caller, grantID); err != nil {
		s.metrics.LedgerFailures.WithLabelValues("revoke", errors.KindOf(err).String()).Inc()
		return err
	}

	s.metrics.GrantsRevoked.Inc()
	s.logger.Info("access revoked",
		"grant_id", grantID,
		"caller", caller.String())
	return nil
}

func (s *Service) ListGrantsOf(ctx context.Context, caller, provider model.ActorID) ([]int64, error) {
	ids, err := s.ledger.GrantsOf(caller, provider)
	if err != nil {
		s.metrics.LedgerFailures.WithLabelValues("list_grants_of", errors.KindOf(err).String()).Inc()
		return nil, err
	}
	return ids, nil
}

func (s *Service) ListGrantsOn(ctx context.Context, caller model.ActorID, recordID int64) ([]int64, error) {
	ids, err := s.ledger.GrantsOn(caller, recordID)
	if err != nil {
		s.metrics.LedgerFailures.WithLabelValues("list_grants_on", errors.KindOf(err).String()).Inc()
		return nil, err
	}
	return ids, nil
}

func (s *Service) GetGrant(ctx context.Context, caller model.ActorID, grantID int64) (*model.AccessGrant, error) {
	grant, err := s.ledger.GetGrant(caller, grantID)
	if err != nil {
		s.metrics.LedgerFailures.WithLabelValues("get_grant", errors.KindOf(err).String()).Inc()
		return nil, err
	}
	return grant, nil
}
