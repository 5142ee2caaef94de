package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ukydev/instrument-calibration/internal/db"
	"github.com/ukydev/instrument-calibration/internal/filter"
	"github.com/ukydev/instrument-calibration/internal/models"
	"github.com/ukydev/instrument-calibration/internal/notify"
	"github.com/ukydev/instrument-calibration/internal/ui"
)

const (
	apiCalibrate = "calibrate"
	apiEdit      = "edit"
	apiDelete    = "delete"
)

// ActionResponse reports the outcome of a placeholder action.
type ActionResponse struct {
	Confirmed    bool                 `json:"confirmed"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

type deleteRequest struct {
	Confirm bool `json:"confirm"`
}

type registrationError struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing"`
}

// ListInstruments returns the instruments matching the query filters
func (h *Handler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	c, err := filter.InstrumentCriteriaFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := h.store.ListInstruments(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list instruments")
		writeError(w, http.StatusInternalServerError, "Failed to list instruments")
		return
	}
	writeJSON(w, http.StatusOK, filter.Instruments(list, c))
}

// GetInstrument returns a single instrument
func (h *Handler) GetInstrument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ins, err := h.store.FindInstrumentByID(r.Context(), id)
	if err != nil {
		h.apiLookupError(w, err, "instrument_id", id)
		return
	}
	writeJSON(w, http.StatusOK, ins)
}

// ListHistory returns the history records matching the query filters
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	c, err := filter.HistoryCriteriaFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	list, err := h.store.ListHistory(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list history")
		writeError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}
	writeJSON(w, http.StatusOK, filter.History(list, c))
}

// GetHistory returns a single history record
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, err := h.store.FindHistoryByID(r.Context(), id)
	if err != nil {
		h.apiLookupError(w, err, "history_id", id)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// GetDashboard returns the overview datasets
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.store.Dashboard(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load dashboard")
		writeError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ListDepartments returns the department filter values
func (h *Handler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.store.Departments(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list departments")
		writeError(w, http.StatusInternalServerError, "Failed to list departments")
		return
	}
	writeJSON(w, http.StatusOK, deps)
}

// CreateRegistration validates a registration and acknowledges it. Nothing is stored.
func (h *Handler) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}

	rec := models.DefaultRegistration()
	if err := json.Unmarshal(body, &rec); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if rec.Status == "" {
		rec.Status = models.RegistrationActive
	}

	form := ui.NewRegistrationForm()
	form.Load(rec)
	note, err := form.Submit(r.Context(), h.notifier)
	if errors.Is(err, ui.ErrRequiredFields) {
		writeJSON(w, http.StatusUnprocessableEntity, registrationError{
			Error:   "Required fields are empty",
			Missing: form.Missing(),
		})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to submit registration")
		writeError(w, http.StatusInternalServerError, "Failed to submit registration")
		return
	}
	h.logger.WithFields(registrationFields(form.Record())).Info("Instrument registered")
	writeJSON(w, http.StatusOK, ActionResponse{Confirmed: true, Notification: &note})
}

// InstrumentAction runs a placeholder row action. Delete needs {"confirm": true}.
func (h *Handler) InstrumentAction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.store.FindInstrumentByID(r.Context(), id); err != nil {
		h.apiLookupError(w, err, "instrument_id", id)
		return
	}

	var level notify.Level
	var message string
	switch r.PathValue("action") {
	case apiCalibrate:
		level, message = notify.LevelInfo, notify.CalibrationStarted(id)
	case apiEdit:
		level, message = notify.LevelInfo, notify.InstrumentEdit(id)
	case apiDelete:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Failed to read request body")
			return
		}
		var req deleteRequest
		if len(body) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid JSON")
				return
			}
		}
		if !req.Confirm {
			writeJSON(w, http.StatusOK, ActionResponse{Confirmed: false})
			return
		}
		level, message = notify.LevelSuccess, notify.InstrumentDeleted(id)
	default:
		writeError(w, http.StatusNotFound, "Unknown action")
		return
	}

	note, err := h.emit(r.Context(), level, message)
	if err != nil {
		h.logger.WithError(err).WithField("instrument_id", id).Error("Failed to notify")
		writeError(w, http.StatusInternalServerError, "Failed to notify")
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Confirmed: true, Notification: note})
}

// EditHistoryAPI acknowledges the edit action of a history record.
func (h *Handler) EditHistoryAPI(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.store.FindHistoryByID(r.Context(), id); err != nil {
		h.apiLookupError(w, err, "history_id", id)
		return
	}
	note, err := h.emit(r.Context(), notify.LevelInfo, notify.HistoryEdit(id))
	if err != nil {
		h.logger.WithError(err).WithField("history_id", id).Error("Failed to notify")
		writeError(w, http.StatusInternalServerError, "Failed to notify")
		return
	}
	writeJSON(w, http.StatusOK, ActionResponse{Confirmed: true, Notification: note})
}

func (h *Handler) apiLookupError(w http.ResponseWriter, err error, key, id string) {
	if errors.Is(err, db.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.WithError(err).WithField(key, id).Error("Lookup failed")
	writeError(w, http.StatusInternalServerError, "Failed to load data")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
