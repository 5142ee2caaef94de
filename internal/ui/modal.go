package ui

import "github.com/ukydev/instrument-calibration/internal/models"

// DetailModal is the history detail overlay. The selected record and the
// visibility flag always change together.
type DetailModal struct {
	selected *models.HistoryRecord
	open     bool
}

// Open shows the modal for a copy of rec.
func (m *DetailModal) Open(rec models.HistoryRecord) {
	m.selected = &rec
	m.open = true
}

// Close hides the modal and drops the selection.
func (m *DetailModal) Close() {
	m.selected = nil
	m.open = false
}

// IsOpen reports whether the modal is visible.
func (m *DetailModal) IsOpen() bool { return m.open }

// Selected returns the record shown by the modal, or nil when closed.
func (m *DetailModal) Selected() *models.HistoryRecord {
	if !m.open {
		return nil
	}
	return m.selected
}
