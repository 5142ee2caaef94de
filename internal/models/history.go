package models

// ActionType is the kind of work logged against an instrument
type ActionType string

const (
	ActionCalibration ActionType = "calibration"
	ActionMaintenance ActionType = "maintenance"
	ActionRepair      ActionType = "repair"
	ActionDisposal    ActionType = "disposal"
)

// HistoryStatus is the progress state of a logged action
type HistoryStatus string

const (
	HistoryDone       HistoryStatus = "done"
	HistoryInProgress HistoryStatus = "in_progress"
	HistoryCancelled  HistoryStatus = "cancelled"
	HistoryOnHold     HistoryStatus = "on_hold"
)

var actionTypeLabels = map[ActionType]string{
	ActionCalibration: "검교정",
	ActionMaintenance: "정비",
	ActionRepair:      "수리",
	ActionDisposal:    "폐기",
}

var historyStatusLabels = map[HistoryStatus]string{
	HistoryDone:       "완료",
	HistoryInProgress: "진행중",
	HistoryCancelled:  "취소",
	HistoryOnHold:     "보류",
}

// HistoryRecord represents a past action performed on an instrument.
// InstrumentID is a lookup-only reference; the record does not own the instrument.
type HistoryRecord struct {
	ID              string        `yaml:"id" json:"id"`
	InstrumentID    string        `yaml:"instrument_id" json:"instrument_id"`
	InstrumentName  string        `yaml:"instrument_name" json:"instrument_name"`
	Model           string        `yaml:"model" json:"model"`
	Action          ActionType    `yaml:"action" json:"action"`
	Date            string        `yaml:"date" json:"date"`
	Status          HistoryStatus `yaml:"status" json:"status"`
	Performer       string        `yaml:"performer" json:"performer"`
	Department      string        `yaml:"department" json:"department"`
	Result          string        `yaml:"result" json:"result"`
	NextCalibration string        `yaml:"next_calibration" json:"next_calibration"`
	Notes           string        `yaml:"notes" json:"notes"`
}

// IsValidActionType checks if an action type is valid
func IsValidActionType(action ActionType) bool {
	_, ok := actionTypeLabels[action]
	return ok
}

// IsValidHistoryStatus checks if a history status is valid
func IsValidHistoryStatus(status HistoryStatus) bool {
	_, ok := historyStatusLabels[status]
	return ok
}

// Label returns the display label of the action
func (a ActionType) Label() string {
	if label, ok := actionTypeLabels[a]; ok {
		return label
	}
	return string(a)
}

// Label returns the display label of the status
func (s HistoryStatus) Label() string {
	if label, ok := historyStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ActionTypeOptions lists the actions in filter order.
func ActionTypeOptions() []ActionType {
	return []ActionType{ActionCalibration, ActionMaintenance, ActionRepair, ActionDisposal}
}

// HistoryStatusOptions lists the statuses in filter order.
func HistoryStatusOptions() []HistoryStatus {
	return []HistoryStatus{HistoryDone, HistoryInProgress, HistoryCancelled, HistoryOnHold}
}
