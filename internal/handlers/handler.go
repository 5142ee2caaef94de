package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/instrument-calibration/internal/db"
	"github.com/ukydev/instrument-calibration/internal/notify"
)

//go:embed templates/*.html static/*
var assets embed.FS

var templates = template.Must(template.New("layout.html").ParseFS(assets, "templates/*.html"))

// Handler serves the dashboard pages and the JSON API
type Handler struct {
	store       db.Store
	notifier    notify.Notifier
	logger      log.FieldLogger
	externalURL string
}

// NewHandler creates a new dashboard handler
func NewHandler(store db.Store, notifier notify.Notifier, logger log.FieldLogger, externalURL string) *Handler {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Handler{
		store:       store,
		notifier:    notifier,
		logger:      logger,
		externalURL: externalURL,
	}
}

// Routes registers every page, action and API endpoint.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Page)
	mux.HandleFunc("POST /registration", h.SubmitRegistration)
	mux.HandleFunc("POST /instruments/{id}/calibrate", h.StartCalibration)
	mux.HandleFunc("POST /instruments/{id}/edit", h.EditInstrument)
	mux.HandleFunc("POST /instruments/{id}/delete", h.DeleteInstrument)
	mux.HandleFunc("POST /history/{id}/edit", h.EditHistory)

	static, _ := fs.Sub(assets, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	mux.HandleFunc("GET /api/instruments", h.ListInstruments)
	mux.HandleFunc("GET /api/instruments/{id}", h.GetInstrument)
	mux.HandleFunc("POST /api/instruments/{id}/{action}", h.InstrumentAction)
	mux.HandleFunc("GET /api/history", h.ListHistory)
	mux.HandleFunc("GET /api/history/{id}", h.GetHistory)
	mux.HandleFunc("POST /api/history/{id}/edit", h.EditHistoryAPI)
	mux.HandleFunc("GET /api/dashboard", h.GetDashboard)
	mux.HandleFunc("GET /api/departments", h.ListDepartments)
	mux.HandleFunc("POST /api/registrations", h.CreateRegistration)
	mux.HandleFunc("/api/", apiFallback(mux))
	mux.HandleFunc("GET /health", h.Health)

	return mux
}

// apiFallback answers API paths no route matched: 405 with an Allow header when
// the path exists under another method, 404 otherwise.
func apiFallback(mux *http.ServeMux) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			alt := r.Clone(r.Context())
			alt.Method = method
			if _, pattern := mux.Handler(alt); pattern != "" && pattern != "/api/" {
				allowed = append(allowed, method)
			}
		}
		if len(allowed) == 0 {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
