package models

// RegistrationStatus is the operating state chosen when registering an instrument
type RegistrationStatus string

const (
	RegistrationActive      RegistrationStatus = "active"
	RegistrationMaintenance RegistrationStatus = "maintenance"
	RegistrationCalibration RegistrationStatus = "calibration"
	RegistrationRetired     RegistrationStatus = "retired"
)

var registrationStatusLabels = map[RegistrationStatus]string{
	RegistrationActive:      "사용중",
	RegistrationMaintenance: "정비중",
	RegistrationCalibration: "검교정중",
	RegistrationRetired:     "폐기",
}

// Categories offered by the registration form. The empty value means "not selected".
var Categories = []string{"전기계측기", "온도계측기", "압력계측기", "길이계측기", "질량계측기", "기타"}

// Registration holds the fields of a new-instrument registration.
// Every field is free text except Status.
type Registration struct {
	InstrumentName    string             `json:"instrumentName"`
	ModelNumber       string             `json:"modelNumber"`
	Manufacturer      string             `json:"manufacturer"`
	SerialNumber      string             `json:"serialNumber"`
	Category          string             `json:"category"`
	Location          string             `json:"location"`
	Department        string             `json:"department"`
	PurchaseDate      string             `json:"purchaseDate"`
	CalibrationPeriod string             `json:"calibrationPeriod"` // months
	LastCalibration   string             `json:"lastCalibration"`
	NextCalibration   string             `json:"nextCalibration"`
	Status            RegistrationStatus `json:"status"`
	Description       string             `json:"description"`
}

// DefaultRegistration returns the empty form record.
func DefaultRegistration() Registration {
	return Registration{Status: RegistrationActive}
}

// IsValidRegistrationStatus checks if a registration status is valid
func IsValidRegistrationStatus(status RegistrationStatus) bool {
	_, ok := registrationStatusLabels[status]
	return ok
}

// Label returns the display label of the status
func (s RegistrationStatus) Label() string {
	if label, ok := registrationStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// RegistrationStatusOptions lists the statuses in form order.
func RegistrationStatusOptions() []RegistrationStatus {
	return []RegistrationStatus{RegistrationActive, RegistrationMaintenance, RegistrationCalibration, RegistrationRetired}
}
