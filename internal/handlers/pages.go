package handlers

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/ukydev/instrument-calibration/internal/filter"
	"github.com/ukydev/instrument-calibration/internal/models"
	"github.com/ukydev/instrument-calibration/internal/notify"
	"github.com/ukydev/instrument-calibration/internal/ui"
)

const (
	paramView   = "view"
	paramDetail = "detail"
)

// pageState is everything a single render needs besides the catalog.
type pageState struct {
	view    ui.View
	query   url.Values
	form    *ui.RegistrationForm
	missing []string
	notice  *notify.Notification
	confirm *confirmDialog
	status  int
}

type confirmDialog struct {
	Message string
	Action  string
	Hidden  url.Values
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Tabs    []ui.Tab
	View    ui.View
	Notice  *notify.Notification
	Confirm *confirmDialog

	Dashboard    *dashboardView
	Registration *registrationView
	Calibration  *calibrationView
	History      *historyView
}

type bar struct {
	Month         string
	Planned       int
	Actual        int
	PlannedHeight int
	ActualHeight  int
}

type share struct {
	Name    string
	Value   int
	Percent int
	Color   template.CSS
}

type dashboardView struct {
	Title       string
	Subtitle    string
	Summary     models.Summary
	Bars        []bar
	Shares      []share
	Pie         template.CSS
	ExternalURL string
}

type registrationView struct {
	Record      models.Registration
	Missing     map[string]bool
	Categories  []option
	Departments []option
	Statuses    []option
}

type calibrationView struct {
	Criteria    filter.InstrumentCriteria
	Hidden      url.Values
	Statuses    []option
	Departments []option
	Instruments []models.Instrument
}

type historyRow struct {
	Record    models.HistoryRecord
	DetailURL string
}

type historyView struct {
	Criteria    filter.HistoryCriteria
	Hidden      url.Values
	Actions     []option
	Statuses    []option
	Departments []option
	Rows        []historyRow
	Modal       *models.HistoryRecord
	CloseURL    string
}

// Page renders the layout with the view named by the view parameter.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.render(w, r, pageState{view: ui.Resolve(q.Get(paramView)), query: q})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, st pageState) {
	router := ui.NewRouter()
	router.Select(st.view)

	data := pageData{
		Tabs:    router.Tabs(),
		View:    router.Active(),
		Notice:  st.notice,
		Confirm: st.confirm,
	}

	var err error
	ctx := r.Context()
	switch data.View {
	case ui.ViewRegistration:
		data.Registration, err = h.registrationView(ctx, st.form, st.missing)
	case ui.ViewCalibration:
		data.Calibration, err = h.calibrationView(ctx, st.query)
	case ui.ViewHistory:
		data.History, err = h.historyView(ctx, st.query)
	default:
		data.Dashboard, err = h.dashboardView(ctx)
	}
	if err != nil {
		h.logger.WithError(err).WithField("view", data.View).Error("Failed to build view")
		http.Error(w, "Failed to load data", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		h.logger.WithError(err).WithField("view", data.View).Error("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	status := st.status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		buf.WriteTo(w)
	}
}

func (h *Handler) dashboardView(ctx context.Context) (*dashboardView, error) {
	d, err := h.store.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	v := &dashboardView{
		Title:       d.Title,
		Subtitle:    d.Subtitle,
		Summary:     d.Summary,
		Pie:         template.CSS(d.PieGradient()),
		ExternalURL: h.externalURL,
	}

	max := d.MonthlyMax()
	for _, p := range d.Monthly {
		v.Bars = append(v.Bars, bar{
			Month:         p.Month,
			Planned:       p.Planned,
			Actual:        p.Actual,
			PlannedHeight: scale(p.Planned, max),
			ActualHeight:  scale(p.Actual, max),
		})
	}
	for _, s := range d.Distribution {
		v.Shares = append(v.Shares, share{
			Name:    s.Name,
			Value:   s.Value,
			Percent: d.Percent(s),
			Color:   template.CSS(s.Color),
		})
	}
	return v, nil
}

func scale(v, max int) int {
	if max <= 0 {
		return 0
	}
	return v * 100 / max
}

func (h *Handler) registrationView(ctx context.Context, form *ui.RegistrationForm, missing []string) (*registrationView, error) {
	if form == nil {
		form = ui.NewRegistrationForm()
	}
	deps, err := h.store.Departments(ctx)
	if err != nil {
		return nil, err
	}

	rec := form.Record()
	v := &registrationView{
		Record:      rec,
		Missing:     make(map[string]bool, len(missing)),
		Departments: stringOptions(deps, rec.Department),
		Categories:  stringOptions(models.Categories, rec.Category),
	}
	for _, name := range missing {
		v.Missing[name] = true
	}
	for _, s := range models.RegistrationStatusOptions() {
		v.Statuses = append(v.Statuses, option{Value: string(s), Label: s.Label(), Selected: s == rec.Status})
	}
	return v, nil
}

func (h *Handler) calibrationView(ctx context.Context, q url.Values) (*calibrationView, error) {
	c, err := filter.InstrumentCriteriaFromQuery(q)
	if err != nil {
		h.logger.WithError(err).Warn("Ignoring calibration filters")
		c = c.Clear()
	}

	list, err := h.store.ListInstruments(ctx)
	if err != nil {
		return nil, err
	}
	deps, err := h.store.Departments(ctx)
	if err != nil {
		return nil, err
	}

	v := &calibrationView{
		Criteria:    c,
		Hidden:      c.Query(),
		Departments: stringOptions(deps, c.Department),
		Instruments: filter.Instruments(list, c),
	}
	for _, s := range models.InstrumentStatusOptions() {
		v.Statuses = append(v.Statuses, option{Value: string(s), Label: s.Label(), Selected: s == c.Status})
	}
	return v, nil
}

func (h *Handler) historyView(ctx context.Context, q url.Values) (*historyView, error) {
	c, err := filter.HistoryCriteriaFromQuery(q)
	if err != nil {
		h.logger.WithError(err).Warn("Ignoring history filters")
		c = c.Clear()
	}

	list, err := h.store.ListHistory(ctx)
	if err != nil {
		return nil, err
	}
	deps, err := h.store.Departments(ctx)
	if err != nil {
		return nil, err
	}

	v := &historyView{
		Criteria:    c,
		Hidden:      c.Query(),
		Departments: stringOptions(deps, c.Department),
		CloseURL:    viewURL(ui.ViewHistory, c.Query()),
	}
	for _, a := range models.ActionTypeOptions() {
		v.Actions = append(v.Actions, option{Value: string(a), Label: a.Label(), Selected: a == c.Action})
	}
	for _, s := range models.HistoryStatusOptions() {
		v.Statuses = append(v.Statuses, option{Value: string(s), Label: s.Label(), Selected: s == c.Status})
	}
	for _, rec := range filter.History(list, c) {
		params := c.Query()
		params.Set(paramDetail, rec.ID)
		v.Rows = append(v.Rows, historyRow{Record: rec, DetailURL: viewURL(ui.ViewHistory, params)})
	}

	var modal ui.DetailModal
	if id := q.Get(paramDetail); id != "" {
		rec, err := h.store.FindHistoryByID(ctx, id)
		if err != nil {
			h.logger.WithError(err).WithField("history_id", id).Warn("Detail record not found")
		} else {
			modal.Open(*rec)
		}
	}
	v.Modal = modal.Selected()
	return v, nil
}

func stringOptions(values []string, selected string) []option {
	out := make([]option, 0, len(values))
	for _, s := range values {
		out = append(out, option{Value: s, Label: s, Selected: s == selected})
	}
	return out
}

// viewURL builds a link to view carrying the given parameters.
func viewURL(view ui.View, params url.Values) string {
	q := url.Values{}
	for k, vs := range params {
		q[k] = append([]string(nil), vs...)
	}
	q.Set(paramView, string(view))
	return fmt.Sprintf("/?%s", q.Encode())
}
