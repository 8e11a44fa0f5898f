package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/ukaji3/novembroazul-go/pkg/novembro/models"
	"github.com/ukaji3/novembroazul-go/pkg/novembro/validation"
	"go.uber.org/zap"
)

// TimestampLayout is the format of the registration timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// SuccessMessage is returned to the visitor after a stored registration.
const SuccessMessage = "Cadastro realizado com sucesso! Dados salvos em CSV."

// Service validates submissions and hands them to a Store.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a registration service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger, now: time.Now}
}

// Submit validates the submission and persists it.
// A failed rule is returned as *validation.Violation.
func (s *Service) Submit(ctx context.Context, sub validation.Submission) (models.Registration, error) {
	sub = sub.Normalize()
	if v := validation.First(sub); v != nil {
		s.logger.Debug("registration rejected", zap.String("rule", v.Rule))
		return models.Registration{}, v
	}

	age, _ := sub.Age.Int()
	rec := models.Registration{
		Name:          sub.Name,
		Email:         sub.Email,
		Age:           age,
		CPF:           sub.CPF,
		HealthCardID:  sub.HealthCardID,
		FamilyHistory: sub.FamilyHistory,
		SubmittedAt:   s.now().Format(TimestampLayout),
	}

	if err := s.store.Save(ctx, rec); err != nil {
		s.logger.Error("registration save failed", zap.Error(err))
		return models.Registration{}, fmt.Errorf("save registration: %w", err)
	}

	s.logger.Info("registration saved", zap.String("submitted_at", rec.SubmittedAt))
	return rec, nil
}

// List returns the stored registrations.
func (s *Service) List(ctx context.Context) ([]models.Registration, error) {
	return s.store.List(ctx)
}
