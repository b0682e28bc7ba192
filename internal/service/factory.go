package service

import (
	"time"

	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/domain/sale"
	"github.com/storepulse/storepulse/internal/logger"
	"github.com/storepulse/storepulse/internal/types"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	SaleRepo sale.Repository

	// RandFactory hands every computation its own generator
	RandFactory types.RandFactory

	// Now is the clock; tests pin it
	Now func() time.Time
}

// NewServiceParams creates a new service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	saleRepo sale.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:      logger,
		Config:      config,
		SaleRepo:    saleRepo,
		RandFactory: types.NewRandFactory(config.Analytics.RandomSeed),
		Now:         time.Now,
	}
}

func (p ServiceParams) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}
