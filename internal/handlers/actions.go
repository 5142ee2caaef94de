package handlers

import (
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/instrument-calibration/internal/db"
	"github.com/ukydev/instrument-calibration/internal/filter"
	"github.com/ukydev/instrument-calibration/internal/models"
	"github.com/ukydev/instrument-calibration/internal/notify"
	"github.com/ukydev/instrument-calibration/internal/ui"
)

const (
	formAction  = "action"
	formConfirm = "confirm"

	actionReset = "reset"
	confirmYes  = "yes"
	confirmNo   = "no"
)

// SubmitRegistration handles the registration form. Nothing is stored.
func (h *Handler) SubmitRegistration(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	form := ui.NewRegistrationForm()
	st := pageState{view: ui.ViewRegistration, form: form}

	if r.PostForm.Get(formAction) == actionReset {
		form.Reset()
		h.render(w, r, st)
		return
	}

	form.SetValues(r.PostForm)
	note, err := form.Submit(r.Context(), h.notifier)
	switch {
	case errors.Is(err, ui.ErrRequiredFields):
		h.logger.WithField("missing", form.Missing()).Info("Registration blocked")
		st.missing = form.Missing()
		st.status = http.StatusUnprocessableEntity
	case err != nil:
		h.logger.WithError(err).Error("Failed to submit registration")
		http.Error(w, "Failed to submit registration", http.StatusInternalServerError)
		return
	default:
		h.logger.WithFields(registrationFields(form.Record())).Info("Instrument registered")
		st.notice = &note
	}
	h.render(w, r, st)
}

func registrationFields(rec models.Registration) log.Fields {
	return log.Fields{
		"instrument_name":    rec.InstrumentName,
		"model_number":       rec.ModelNumber,
		"manufacturer":       rec.Manufacturer,
		"serial_number":      rec.SerialNumber,
		"category":           rec.Category,
		"location":           rec.Location,
		"department":         rec.Department,
		"purchase_date":      rec.PurchaseDate,
		"calibration_period": rec.CalibrationPeriod,
		"last_calibration":   rec.LastCalibration,
		"next_calibration":   rec.NextCalibration,
		"status":             rec.Status,
		"description":        rec.Description,
	}
}

// StartCalibration acknowledges the calibration action of a row.
func (h *Handler) StartCalibration(w http.ResponseWriter, r *http.Request) {
	h.instrumentAction(w, r, notify.CalibrationStarted)
}

// EditInstrument acknowledges the edit action of a row.
func (h *Handler) EditInstrument(w http.ResponseWriter, r *http.Request) {
	h.instrumentAction(w, r, notify.InstrumentEdit)
}

func (h *Handler) instrumentAction(w http.ResponseWriter, r *http.Request, message func(id string) string) {
	id, ok := h.parseInstrumentForm(w, r)
	if !ok {
		return
	}
	note, err := h.emit(r.Context(), notify.LevelInfo, message(id))
	if err != nil {
		h.logger.WithError(err).WithField("instrument_id", id).Error("Failed to notify")
		http.Error(w, "Failed to notify", http.StatusInternalServerError)
		return
	}
	h.render(w, r, pageState{view: ui.ViewCalibration, query: r.Form, notice: note})
}

// DeleteInstrument asks for confirmation first and only reports the deletion
// once the caller confirms. Declining is a no-op.
func (h *Handler) DeleteInstrument(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseInstrumentForm(w, r)
	if !ok {
		return
	}
	st := pageState{view: ui.ViewCalibration, query: r.Form}

	switch r.PostForm.Get(formConfirm) {
	case confirmYes:
		note, err := h.emit(r.Context(), notify.LevelSuccess, notify.InstrumentDeleted(id))
		if err != nil {
			h.logger.WithError(err).WithField("instrument_id", id).Error("Failed to notify")
			http.Error(w, "Failed to notify", http.StatusInternalServerError)
			return
		}
		st.notice = note
	case confirmNo:
	default:
		c, _ := filter.InstrumentCriteriaFromQuery(r.Form)
		st.confirm = &confirmDialog{
			Message: notify.DeleteConfirmPrompt(id),
			Action:  "/instruments/" + id + "/delete",
			Hidden:  c.Query(),
		}
	}
	h.render(w, r, st)
}

// EditHistory acknowledges the edit action of a history row.
func (h *Handler) EditHistory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	id := r.PathValue("id")
	if _, err := h.store.FindHistoryByID(r.Context(), id); err != nil {
		h.lookupError(w, err, "history_id", id)
		return
	}

	note, err := h.emit(r.Context(), notify.LevelInfo, notify.HistoryEdit(id))
	if err != nil {
		h.logger.WithError(err).WithField("history_id", id).Error("Failed to notify")
		http.Error(w, "Failed to notify", http.StatusInternalServerError)
		return
	}
	h.render(w, r, pageState{view: ui.ViewHistory, query: r.Form, notice: note})
}

func (h *Handler) parseInstrumentForm(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return "", false
	}
	id := r.PathValue("id")
	if _, err := h.store.FindInstrumentByID(r.Context(), id); err != nil {
		h.lookupError(w, err, "instrument_id", id)
		return "", false
	}
	return id, true
}

func (h *Handler) lookupError(w http.ResponseWriter, err error, key, id string) {
	if errors.Is(err, db.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	h.logger.WithError(err).WithField(key, id).Error("Lookup failed")
	http.Error(w, "Failed to load data", http.StatusInternalServerError)
}

func (h *Handler) emit(ctx context.Context, level notify.Level, message string) (*notify.Notification, error) {
	note := notify.New(level, message)
	if err := h.notifier.Notify(ctx, note); err != nil {
		return nil, err
	}
	return &note, nil
}
