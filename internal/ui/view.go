// Package ui holds the per-view state of the dashboard: the active view,
// the registration form record and the history detail modal.
package ui

// View identifies one of the panels selectable from the sidebar
type View string

const (
	ViewDashboard    View = "dashboard"
	ViewRegistration View = "registration"
	ViewCalibration  View = "calibration"
	ViewHistory      View = "history"
)

// Tab is a sidebar entry.
type Tab struct {
	View   View
	Label  string
	Active bool
}

var tabs = []Tab{
	{View: ViewDashboard, Label: "홈"},
	{View: ViewRegistration, Label: "계측기 등록"},
	{View: ViewCalibration, Label: "계측기 검교정 관리"},
	{View: ViewHistory, Label: "계측기 이력 관리"},
}

// Router tracks the active view. The zero value shows the dashboard.
type Router struct {
	active View
}

// NewRouter returns a router showing the dashboard.
func NewRouter() *Router {
	return &Router{active: ViewDashboard}
}

// Select replaces the active view.
func (r *Router) Select(v View) {
	r.active = v
}

// Active returns the view to render, falling back to the dashboard for unknown views.
func (r *Router) Active() View {
	return Resolve(string(r.active))
}

// Tabs returns the sidebar entries with exactly one marked active.
func (r *Router) Tabs() []Tab {
	active := r.Active()
	out := make([]Tab, len(tabs))
	for i, t := range tabs {
		t.Active = t.View == active
		out[i] = t
	}
	return out
}

// Resolve maps an identifier to a known view, defaulting to the dashboard.
func Resolve(id string) View {
	for _, t := range tabs {
		if string(t.View) == id {
			return t.View
		}
	}
	return ViewDashboard
}
