// Package filter implements the list filters of the calibration and history views:
// exact matching on categorical fields combined with a case-insensitive free-text search.
package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ukydev/instrument-calibration/internal/models"
	"golang.org/x/text/cases"
)

// ErrInvalidCriteria is returned when a query names an unknown enum value.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Query parameter names shared by the HTML views and the JSON API.
const (
	ParamStatus     = "status"
	ParamDepartment = "department"
	ParamAction     = "action"
	ParamSearch     = "q"
)

// InstrumentCriteria filters the calibration list. Zero fields mean "no constraint".
type InstrumentCriteria struct {
	Status     models.InstrumentStatus `json:"status,omitempty"`
	Department string                  `json:"department,omitempty"`
	Search     string                  `json:"q,omitempty"`
}

// HistoryCriteria filters the history list. Zero fields mean "no constraint".
type HistoryCriteria struct {
	Action     models.ActionType    `json:"action,omitempty"`
	Status     models.HistoryStatus `json:"status,omitempty"`
	Department string               `json:"department,omitempty"`
	Search     string               `json:"q,omitempty"`
}

// Instruments returns the instruments matching c, preserving input order.
func Instruments(list []models.Instrument, c InstrumentCriteria) []models.Instrument {
	term := fold(c.Search)
	out := make([]models.Instrument, 0, len(list))
	for _, ins := range list {
		if c.Status != "" && ins.Status != c.Status {
			continue
		}
		if c.Department != "" && ins.Department != c.Department {
			continue
		}
		if !matchesAny(term, ins.Name, ins.Model, ins.ID) {
			continue
		}
		out = append(out, ins)
	}
	return out
}

// History returns the history records matching c, preserving input order.
func History(list []models.HistoryRecord, c HistoryCriteria) []models.HistoryRecord {
	term := fold(c.Search)
	out := make([]models.HistoryRecord, 0, len(list))
	for _, rec := range list {
		if c.Action != "" && rec.Action != c.Action {
			continue
		}
		if c.Status != "" && rec.Status != c.Status {
			continue
		}
		if c.Department != "" && rec.Department != c.Department {
			continue
		}
		if !matchesAny(term, rec.InstrumentName, rec.Model, rec.InstrumentID) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// matchesAny reports whether the folded term occurs in any of the fields.
// An empty term matches everything.
func matchesAny(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(fold(f), term) {
			return true
		}
	}
	return false
}

// fold applies Unicode case folding. A Caser is stateful, so each call gets its own.
func fold(s string) string {
	if s == "" {
		return s
	}
	return cases.Fold().String(s)
}

// Clear returns criteria with every filter reset.
func (c InstrumentCriteria) Clear() InstrumentCriteria { return InstrumentCriteria{} }

// Clear returns criteria with every filter reset.
func (c HistoryCriteria) Clear() HistoryCriteria { return HistoryCriteria{} }

// IsZero reports whether no filter is set.
func (c InstrumentCriteria) IsZero() bool { return c == InstrumentCriteria{} }

// IsZero reports whether no filter is set.
func (c HistoryCriteria) IsZero() bool { return c == HistoryCriteria{} }

// InstrumentCriteriaFromQuery parses calibration-list filters from request parameters.
func InstrumentCriteriaFromQuery(q url.Values) (InstrumentCriteria, error) {
	c := InstrumentCriteria{
		Status:     models.InstrumentStatus(strings.TrimSpace(q.Get(ParamStatus))),
		Department: strings.TrimSpace(q.Get(ParamDepartment)),
		Search:     q.Get(ParamSearch),
	}
	if c.Status != "" && !models.IsValidInstrumentStatus(c.Status) {
		return InstrumentCriteria{}, fmt.Errorf("status %q: %w", c.Status, ErrInvalidCriteria)
	}
	return c, nil
}

// HistoryCriteriaFromQuery parses history-list filters from request parameters.
func HistoryCriteriaFromQuery(q url.Values) (HistoryCriteria, error) {
	c := HistoryCriteria{
		Action:     models.ActionType(strings.TrimSpace(q.Get(ParamAction))),
		Status:     models.HistoryStatus(strings.TrimSpace(q.Get(ParamStatus))),
		Department: strings.TrimSpace(q.Get(ParamDepartment)),
		Search:     q.Get(ParamSearch),
	}
	if c.Action != "" && !models.IsValidActionType(c.Action) {
		return HistoryCriteria{}, fmt.Errorf("action %q: %w", c.Action, ErrInvalidCriteria)
	}
	if c.Status != "" && !models.IsValidHistoryStatus(c.Status) {
		return HistoryCriteria{}, fmt.Errorf("status %q: %w", c.Status, ErrInvalidCriteria)
	}
	return c, nil
}

// Query renders the set filters as request parameters.
func (c InstrumentCriteria) Query() url.Values {
	q := url.Values{}
	setIf(q, ParamStatus, string(c.Status))
	setIf(q, ParamDepartment, c.Department)
	setIf(q, ParamSearch, c.Search)
	return q
}

// Query renders the set filters as request parameters.
func (c HistoryCriteria) Query() url.Values {
	q := url.Values{}
	setIf(q, ParamAction, string(c.Action))
	setIf(q, ParamStatus, string(c.Status))
	setIf(q, ParamDepartment, c.Department)
	setIf(q, ParamSearch, c.Search)
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}
