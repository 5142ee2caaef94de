package db

import (
	"context"
	"errors"

	"github.com/ukydev/instrument-calibration/internal/models"
)

// ErrNotFound is returned when a lookup id matches no record.
var ErrNotFound = errors.New("record not found")

// InstrumentCollection defines the interface for instrument data operations.
type InstrumentCollection interface {
	ListInstruments(ctx context.Context) ([]models.Instrument, error)
	FindInstrumentByID(ctx context.Context, id string) (*models.Instrument, error)
}

// HistoryCollection defines the interface for history record operations.
type HistoryCollection interface {
	ListHistory(ctx context.Context) ([]models.HistoryRecord, error)
	FindHistoryByID(ctx context.Context, id string) (*models.HistoryRecord, error)
}

// DashboardSource provides the precomputed overview datasets.
type DashboardSource interface {
	Dashboard(ctx context.Context) (models.Dashboard, error)
}

// DepartmentSource lists the departments offered by the filter dropdowns.
type DepartmentSource interface {
	Departments(ctx context.Context) ([]string, error)
}

// Store groups every read operation the handlers need.
type Store interface {
	InstrumentCollection
	HistoryCollection
	DashboardSource
	DepartmentSource
}
