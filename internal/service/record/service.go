package record

import (
	"context"

	"github.com/medvault/consent-api/internal/ledger"
	"github.com/medvault/consent-api/internal/model"
	"github.com/medvault/consent-api/pkg/errors"
	"github.com/medvault/consent-api/pkg/logger"
	"github.com/medvault/consent-api/pkg/metrics"
)

// Stats summarizes ledger counters for the stats endpoint.
type Stats struct {
	TotalRecords int64 `json:"total_records"`
	TotalGrants  int64 `json:"total_grants"`
}

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

func (s *Service) CreateRecord(ctx context.Context, owner model.ActorID, contentRef, recordType string) (int64, error) {
	id, err := s.ledger.CreateRecord(owner, contentRef, recordType)
	if err != nil {
		s.metrics.LedgerFailures.WithLabelValues("create_record", errors.KindOf(err).String()).Inc()
		return 0, err
	}

	s.metrics.RecordsCreated.Inc()
	s.logger.Info("record created",
		"record_id", id,
		"owner", owner.String(),
		"record_type", recordType)
	return id, nil
}

func (s *Service) ViewRecord(ctx context.Context, caller model.ActorID, recordID int64) (*model.MedicalRecord, error) {
	rec, err := s.ledger.ViewRecord(caller, recordID)
	if err != nil {
		kind := errors.KindOf(err)
		if kind == errors.KindForbidden {
			s.metrics.AccessChecks.WithLabelValues("denied").Inc()
			s.logger.Info("record access denied",
				"record_id", recordID,
				"caller", caller.String())
		}
		s.metrics.LedgerFailures.WithLabelValues("view_record", kind.String()).Inc()
		return nil, err
	}

	s.metrics.AccessChecks.WithLabelValues("allowed").Inc()
	return rec, nil
}

func (s *Service) ListRecords(ctx context.Context, caller, owner model.ActorID) ([]int64, error) {
	ids, err := s.ledger.RecordsOf(caller, owner)
	if err != nil {
		s.metrics.LedgerFailures.WithLabelValues("list_records", errors.KindOf(err).String()).Inc()
		return nil, err
	}
	return ids, nil
}

func (s *Service) Stats(ctx context.Context) *Stats {
	return &Stats{
		TotalRecords: s.ledger.TotalRecords(),
		TotalGrants:  s.ledger.TotalGrants(),
	}
}
