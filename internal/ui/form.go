package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ukydev/instrument-calibration/internal/models"
	"github.com/ukydev/instrument-calibration/internal/notify"
)

var (
	ErrRequiredFields = errors.New("required fields are empty")
	ErrUnknownField   = errors.New("unknown form field")
)

// Form field names, shared with the HTML template and the JSON body.
const (
	FieldInstrumentName    = "instrumentName"
	FieldModelNumber       = "modelNumber"
	FieldManufacturer      = "manufacturer"
	FieldSerialNumber      = "serialNumber"
	FieldCategory          = "category"
	FieldLocation          = "location"
	FieldDepartment        = "department"
	FieldPurchaseDate      = "purchaseDate"
	FieldCalibrationPeriod = "calibrationPeriod"
	FieldLastCalibration   = "lastCalibration"
	FieldNextCalibration   = "nextCalibration"
	FieldStatus            = "status"
	FieldDescription       = "description"
)

// RequiredFields are the fields a registration cannot be submitted without.
var RequiredFields = []string{FieldInstrumentName, FieldModelNumber, FieldManufacturer, FieldSerialNumber}

// RegistrationForm is the editable record behind the registration view.
type RegistrationForm struct {
	record models.Registration
}

// NewRegistrationForm returns a form holding the default values.
func NewRegistrationForm() *RegistrationForm {
	return &RegistrationForm{record: models.DefaultRegistration()}
}

// Record returns a copy of the current field values.
func (f *RegistrationForm) Record() models.Registration {
	return f.record
}

// Set copies a single field value into the record. The last write wins.
func (f *RegistrationForm) Set(name, value string) error {
	p := f.field(name)
	if p == nil {
		return fmt.Errorf("%s: %w", name, ErrUnknownField)
	}
	*p = value
	return nil
}

// Get returns the value of a field, or "" for unknown names.
func (f *RegistrationForm) Get(name string) string {
	if p := f.field(name); p != nil {
		return *p
	}
	return ""
}

// SetValues applies every known field present in v. Unknown keys are ignored.
func (f *RegistrationForm) SetValues(v url.Values) {
	for name := range v {
		if p := f.field(name); p != nil {
			*p = v.Get(name)
		}
	}
}

// Load replaces the record wholesale, e.g. from a decoded JSON body.
func (f *RegistrationForm) Load(r models.Registration) {
	f.record = r
}

// Reset restores the hardcoded defaults.
func (f *RegistrationForm) Reset() {
	f.record = models.DefaultRegistration()
}

// Missing lists the required fields that are empty, in form order.
func (f *RegistrationForm) Missing() []string {
	var missing []string
	for _, name := range RequiredFields {
		if strings.TrimSpace(f.Get(name)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// Submit emits one success notification when every required field is present.
// Nothing is stored.
func (f *RegistrationForm) Submit(ctx context.Context, n notify.Notifier) (notify.Notification, error) {
	if missing := f.Missing(); len(missing) > 0 {
		return notify.Notification{}, fmt.Errorf("%s: %w", strings.Join(missing, ", "), ErrRequiredFields)
	}
	note := notify.New(notify.LevelSuccess, notify.RegistrationSucceeded())
	if err := n.Notify(ctx, note); err != nil {
		return notify.Notification{}, fmt.Errorf("notify registration: %w", err)
	}
	return note, nil
}

func (f *RegistrationForm) field(name string) *string {
	r := &f.record
	switch name {
	case FieldInstrumentName:
		return &r.InstrumentName
	case FieldModelNumber:
		return &r.ModelNumber
	case FieldManufacturer:
		return &r.Manufacturer
	case FieldSerialNumber:
		return &r.SerialNumber
	case FieldCategory:
		return &r.Category
	case FieldLocation:
		return &r.Location
	case FieldDepartment:
		return &r.Department
	case FieldPurchaseDate:
		return &r.PurchaseDate
	case FieldCalibrationPeriod:
		return &r.CalibrationPeriod
	case FieldLastCalibration:
		return &r.LastCalibration
	case FieldNextCalibration:
		return &r.NextCalibration
	case FieldStatus:
		return (*string)(&r.Status)
	case FieldDescription:
		return &r.Description
	}
	return nil
}
