package models

// InstrumentStatus represents the calibration state of an instrument
type InstrumentStatus string

const (
	StatusNormal     InstrumentStatus = "normal"
	StatusUpcoming   InstrumentStatus = "upcoming"
	StatusOverdue    InstrumentStatus = "overdue"
	StatusInProgress InstrumentStatus = "in_progress"
)

var instrumentStatusLabels = map[InstrumentStatus]string{
	StatusNormal:     "정상",
	StatusUpcoming:   "검교정 예정",
	StatusOverdue:    "검교정 지연",
	StatusInProgress: "검교정중",
}

// Instrument represents a measurement device tracked for periodic calibration.
type Instrument struct {
	ID              string           `yaml:"id" json:"id"`
	Name            string           `yaml:"name" json:"name"`
	Model           string           `yaml:"model" json:"model"`
	Manufacturer    string           `yaml:"manufacturer" json:"manufacturer"`
	Location        string           `yaml:"location" json:"location"`
	LastCalibration string           `yaml:"last_calibration" json:"last_calibration"` // YYYY-MM-DD
	NextCalibration string           `yaml:"next_calibration" json:"next_calibration"` // YYYY-MM-DD
	Status          InstrumentStatus `yaml:"status" json:"status"`
	Department      string           `yaml:"department" json:"department"`
}

// IsValidInstrumentStatus checks if a status is one of the known values
func IsValidInstrumentStatus(status InstrumentStatus) bool {
	_, ok := instrumentStatusLabels[status]
	return ok
}

// Label returns the display label of the status
func (s InstrumentStatus) Label() string {
	if label, ok := instrumentStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// InstrumentStatusOptions lists the statuses in filter order.
func InstrumentStatusOptions() []InstrumentStatus {
	return []InstrumentStatus{StatusNormal, StatusUpcoming, StatusOverdue, StatusInProgress}
}
