package db

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/ukydev/instrument-calibration/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Chart colors end up in inline styles, so only hex notation is accepted.
var hexColor = regexp.MustCompile(`^#(?:[0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// seedFile mirrors the layout of seed.yaml.
type seedFile struct {
	Departments []string               `yaml:"departments"`
	Instruments []models.Instrument    `yaml:"instruments"`
	History     []models.HistoryRecord `yaml:"history"`
	Dashboard   models.Dashboard       `yaml:"dashboard"`
}

// Catalog is a read-only in-memory store of the sample data.
// It is safe for concurrent use because nothing mutates it after loading.
type Catalog struct {
	departments []string
	instruments []models.Instrument
	history     []models.HistoryRecord
	dashboard   models.Dashboard

	instrumentIdx map[string]int
	historyIdx    map[string]int
}

// LoadCatalog loads the catalog from path, or from the embedded seed when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ReadCatalog(bytes.NewReader(defaultSeed))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

// DefaultCatalog returns the catalog built from the embedded seed.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog("")
}

// ReadCatalog decodes and validates a YAML seed document.
func ReadCatalog(r io.Reader) (*Catalog, error) {
	var seed seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	c := &Catalog{
		departments:   seed.Departments,
		instruments:   seed.Instruments,
		history:       seed.History,
		dashboard:     seed.Dashboard,
		instrumentIdx: make(map[string]int, len(seed.Instruments)),
		historyIdx:    make(map[string]int, len(seed.History)),
	}

	for i, ins := range c.instruments {
		if ins.ID == "" {
			return nil, fmt.Errorf("instrument #%d: missing id", i+1)
		}
		if !models.IsValidInstrumentStatus(ins.Status) {
			return nil, fmt.Errorf("instrument %s: invalid status %q", ins.ID, ins.Status)
		}
		if _, dup := c.instrumentIdx[ins.ID]; dup {
			return nil, fmt.Errorf("instrument %s: duplicate id", ins.ID)
		}
		c.instrumentIdx[ins.ID] = i
	}

	for i, rec := range c.history {
		if rec.ID == "" {
			return nil, fmt.Errorf("history #%d: missing id", i+1)
		}
		if !models.IsValidActionType(rec.Action) {
			return nil, fmt.Errorf("history %s: invalid action %q", rec.ID, rec.Action)
		}
		if !models.IsValidHistoryStatus(rec.Status) {
			return nil, fmt.Errorf("history %s: invalid status %q", rec.ID, rec.Status)
		}
		if _, dup := c.historyIdx[rec.ID]; dup {
			return nil, fmt.Errorf("history %s: duplicate id", rec.ID)
		}
		c.historyIdx[rec.ID] = i
	}

	for _, s := range c.dashboard.Distribution {
		if !hexColor.MatchString(s.Color) {
			return nil, fmt.Errorf("distribution %s: invalid color %q", s.Name, s.Color)
		}
	}

	return c, nil
}

// ListInstruments returns a copy of all instruments in seed order.
func (c *Catalog) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	if c == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.Instrument, len(c.instruments))
	copy(out, c.instruments)
	return out, nil
}

// FindInstrumentByID finds an instrument by its ID.
func (c *Catalog) FindInstrumentByID(ctx context.Context, id string) (*models.Instrument, error) {
	if c == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i, ok := c.instrumentIdx[id]
	if !ok {
		return nil, fmt.Errorf("instrument %s: %w", id, ErrNotFound)
	}
	ins := c.instruments[i]
	return &ins, nil
}

// ListHistory returns a copy of all history records in seed order.
func (c *Catalog) ListHistory(ctx context.Context) ([]models.HistoryRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.HistoryRecord, len(c.history))
	copy(out, c.history)
	return out, nil
}

// FindHistoryByID finds a history record by its ID.
func (c *Catalog) FindHistoryByID(ctx context.Context, id string) (*models.HistoryRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	i, ok := c.historyIdx[id]
	if !ok {
		return nil, fmt.Errorf("history %s: %w", id, ErrNotFound)
	}
	rec := c.history[i]
	return &rec, nil
}

// Dashboard returns the overview datasets.
func (c *Catalog) Dashboard(ctx context.Context) (models.Dashboard, error) {
	if c == nil {
		return models.Dashboard{}, fmt.Errorf("catalog is nil")
	}
	if err := ctx.Err(); err != nil {
		return models.Dashboard{}, err
	}
	d := c.dashboard
	d.Monthly = append([]models.MonthlyPoint(nil), c.dashboard.Monthly...)
	d.Distribution = append([]models.StatusShare(nil), c.dashboard.Distribution...)
	return d, nil
}

// Departments returns the department names offered as filter values.
func (c *Catalog) Departments(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]string(nil), c.departments...), nil
}
