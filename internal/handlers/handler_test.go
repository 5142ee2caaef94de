package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/instrument-calibration/internal/db"
	"github.com/ukydev/instrument-calibration/internal/models"
	"github.com/ukydev/instrument-calibration/internal/notify"
)

const testExternalURL = "https://instrument-management-system.vercel.app/"

// MockNotifier is a mock implementation of notify.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n notify.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockStore is a mock implementation of db.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListInstruments(ctx context.Context) ([]models.Instrument, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Instrument), args.Error(1)
}

func (m *MockStore) FindInstrumentByID(ctx context.Context, id string) (*models.Instrument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Instrument), args.Error(1)
}

func (m *MockStore) ListHistory(ctx context.Context) ([]models.HistoryRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HistoryRecord), args.Error(1)
}

func (m *MockStore) FindHistoryByID(ctx context.Context, id string) (*models.HistoryRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HistoryRecord), args.Error(1)
}

func (m *MockStore) Dashboard(ctx context.Context) (models.Dashboard, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Dashboard), args.Error(1)
}

func (m *MockStore) Departments(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newTestHandler(t *testing.T) (http.Handler, *MockNotifier) {
	t.Helper()
	h, notifier, _ := newLoggedTestHandler(t)
	return h, notifier
}

func newLoggedTestHandler(t *testing.T) (http.Handler, *MockNotifier, *test.Hook) {
	t.Helper()
	catalog, err := db.DefaultCatalog()
	require.NoError(t, err)
	notifier := new(MockNotifier)
	logger, hook := test.NewNullLogger()
	return NewHandler(catalog, notifier, logger, testExternalURL).Routes(), notifier, hook
}

func registeredEntry(hook *test.Hook) *logrus.Entry {
	for _, e := range hook.AllEntries() {
		if e.Message == "Instrument registered" {
			return e
		}
	}
	return nil
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func postForm(h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func postJSON(h http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// view markers that only appear inside one view's markup
var viewMarkers = map[string]string{
	"dashboard":    `class="stats-grid"`,
	"registration": `action="/registration"`,
	"calibration":  `<th>계측기 ID</th>`,
	"history":      `<th>이력 ID</th>`,
}

func TestPage_RendersExactlyOneView(t *testing.T) {
	h, notifier := newTestHandler(t)

	tests := []struct {
		query string
		want  string
	}{
		{query: "", want: "dashboard"},
		{query: "?view=dashboard", want: "dashboard"},
		{query: "?view=registration", want: "registration"},
		{query: "?view=calibration", want: "calibration"},
		{query: "?view=history", want: "history"},
		{query: "?view=settings", want: "dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.want+tt.query, func(t *testing.T) {
			w := get(h, "/"+tt.query)
			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()

			assert.Equal(t, 1, strings.Count(body, `data-view="`))
			assert.Contains(t, body, `data-view="`+tt.want+`"`)
			assert.Equal(t, 1, strings.Count(body, `aria-current="page"`))
			assert.Contains(t, body, `class="tab active"><a href="/?view=`+tt.want+`"`)
			for _, label := range []string{"홈", "계측기 등록", "계측기 검교정 관리", "계측기 이력 관리"} {
				assert.Contains(t, body, ">"+label+"</a>")
			}
		})
	}
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestPage_ViewMarkup(t *testing.T) {
	h, _ := newTestHandler(t)

	for view := range viewMarkers {
		t.Run(view, func(t *testing.T) {
			body := get(h, "/?view="+view).Body.String()
			for other, marker := range viewMarkers {
				if other == view {
					assert.Contains(t, body, marker)
				} else {
					assert.NotContains(t, body, marker)
				}
			}
		})
	}
}

func TestPage_NotFoundAndMethod(t *testing.T) {
	h, _ := newTestHandler(t)

	assert.Equal(t, http.StatusNotFound, get(h, "/dashboard").Code)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodHead, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestPage_Dashboard(t *testing.T) {
	h, _ := newTestHandler(t)
	body := get(h, "/").Body.String()

	assert.Contains(t, body, `href="`+testExternalURL+`" target="_blank" rel="noopener noreferrer"`)
	assert.Contains(t, body, "계측기 검교정 현황")
	assert.Contains(t, body, "2024년 월별 계획 대비 실적 현황")
	for _, v := range []string{">1250<", ">1180<", ">45<", ">25<"} {
		assert.Contains(t, body, v)
	}
	assert.Equal(t, 12, strings.Count(body, `class="bar-group"`))
	assert.Contains(t, body, "conic-gradient(#4CAF50 0.00% 65.00%")
	assert.Contains(t, body, "폐기 예정")
	assert.Contains(t, body, `<span class="share-value">65%</span>`)
}

func TestPage_DashboardWithoutExternalURL(t *testing.T) {
	catalog, err := db.DefaultCatalog()
	require.NoError(t, err)
	logger, _ := test.NewNullLogger()
	h := NewHandler(catalog, new(MockNotifier), logger, "").Routes()

	body := get(h, "/").Body.String()
	assert.NotContains(t, body, `class="external-link"`)
}

func TestPage_CalibrationFilters(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "no filter", query: "", want: []string{"INS001", "INS002", "INS003", "INS004"}},
		{name: "lower case search", query: "&q=dmm", want: []string{"INS001"}},
		{name: "upper case search", query: "&q=DMM", want: []string{"INS001"}},
		{name: "search by id", query: "&q=ins003", want: []string{"INS003"}},
		{name: "status", query: "&status=overdue", want: []string{"INS003"}},
		{name: "department", query: "&department=" + url.QueryEscape("품질관리팀"), want: []string{"INS001", "INS004"}},
		{name: "department and search", query: "&department=" + url.QueryEscape("품질관리팀") + "&q=length", want: []string{"INS004"}},
		{name: "invalid status is ignored", query: "&status=broken", want: []string{"INS001", "INS002", "INS003", "INS004"}},
		{name: "no match", query: "&q=zzz", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(h, "/?view=calibration"+tt.query)
			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()

			assert.Equal(t, len(tt.want), strings.Count(body, `<tr data-id="`))
			for _, id := range tt.want {
				assert.Contains(t, body, `<tr data-id="`+id+`"`)
			}
			if len(tt.want) == 0 {
				assert.Contains(t, body, "검색 조건에 맞는 계측기가 없습니다.")
			} else {
				assert.NotContains(t, body, "검색 조건에 맞는 계측기가 없습니다.")
			}
		})
	}
}

func TestPage_HistoryFilters(t *testing.T) {
	h, _ := newTestHandler(t)

	w := get(h, "/?view=history&action=calibration")
	body := w.Body.String()
	assert.Equal(t, 3, strings.Count(body, `<tr data-id="`))
	assert.NotContains(t, body, `<tr data-id="HIS003"`)
	assert.Contains(t, body, `<option value="calibration" selected>검교정</option>`)

	body = get(h, "/?view=history&q=press").Body.String()
	assert.Equal(t, 1, strings.Count(body, `<tr data-id="`))
	assert.Contains(t, body, `<tr data-id="HIS003"`)

	body = get(h, "/?view=history&status=cancelled").Body.String()
	assert.Contains(t, body, "검색 조건에 맞는 이력이 없습니다.")
}

func TestPage_HistoryDetailModal(t *testing.T) {
	h, _ := newTestHandler(t)

	closed := get(h, "/?view=history").Body.String()
	assert.NotContains(t, closed, `class="modal"`)
	assert.Contains(t, closed, "detail=HIS002")

	first := get(h, "/?view=history&detail=HIS001").Body.String()
	assert.Contains(t, first, `data-modal="HIS001"`)
	assert.Contains(t, first, "정상 검교정 완료")

	second := get(h, "/?view=history&detail=HIS002").Body.String()
	assert.Equal(t, 1, strings.Count(second, `class="modal"`))
	assert.Contains(t, second, `data-modal="HIS002"`)
	assert.Contains(t, second, "온도 보정 완료")
	assert.NotContains(t, second, "정상 검교정 완료")
	assert.NotContains(t, second, `data-modal="HIS001"`)

	// the backdrop and the close button link back to the list, keeping the filters
	filtered := get(h, "/?view=history&action=calibration&detail=HIS002").Body.String()
	assert.Contains(t, filtered, `class="modal-backdrop" href="/?action=calibration&amp;view=history"`)
	assert.Contains(t, filtered, `class="modal-content"`)

	unknown := get(h, "/?view=history&detail=HIS999")
	assert.Equal(t, http.StatusOK, unknown.Code)
	assert.NotContains(t, unknown.Body.String(), `class="modal"`)
}

func validRegistration() url.Values {
	return url.Values{
		"instrumentName": {"디지털 멀티미터"},
		"modelNumber":    {"DMM-2000"},
		"manufacturer":   {"Keysight"},
		"serialNumber":   {"SN123456789"},
		"category":       {"전기계측기"},
		"status":         {"maintenance"},
	}
}

func TestSubmitRegistration(t *testing.T) {
	t.Run("blocked when a required field is empty", func(t *testing.T) {
		for _, field := range []string{"instrumentName", "modelNumber", "manufacturer", "serialNumber"} {
			h, notifier, hook := newLoggedTestHandler(t)
			form := validRegistration()
			form.Set(field, "  ")

			w := postForm(h, "/registration", form)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code, field)
			body := w.Body.String()
			assert.Contains(t, body, `data-view="registration"`)
			assert.NotContains(t, body, `class="toast`)
			assert.Contains(t, body, `<option value="전기계측기" selected>전기계측기</option>`)
			notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
			assert.Nil(t, registeredEntry(hook), field)
		}
	})

	t.Run("notifies exactly once", func(t *testing.T) {
		h, notifier, hook := newLoggedTestHandler(t)
		notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n notify.Notification) bool {
			return n.Level == notify.LevelSuccess && n.Message == notify.RegistrationSucceeded()
		})).Return(nil).Once()

		w := postForm(h, "/registration", validRegistration())
		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "계측기가 성공적으로 등록되었습니다.")
		assert.Contains(t, body, `<option value="maintenance" selected>정비중</option>`)
		assert.Contains(t, body, `<option value="전기계측기" selected>전기계측기</option>`)
		notifier.AssertNumberOfCalls(t, "Notify", 1)
		notifier.AssertExpectations(t)

		entry := registeredEntry(hook)
		require.NotNil(t, entry)
		assert.Equal(t, logrus.InfoLevel, entry.Level)
		assert.Equal(t, "DMM-2000", entry.Data["model_number"])
		assert.Equal(t, "SN123456789", entry.Data["serial_number"])
		assert.Equal(t, "전기계측기", entry.Data["category"])
		assert.Equal(t, models.RegistrationMaintenance, entry.Data["status"])
	})

	t.Run("reset restores defaults", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		form := validRegistration()
		form.Set("action", "reset")

		w := postForm(h, "/registration", form)
		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.NotContains(t, body, `value="DMM-2000"`)
		assert.Contains(t, body, `<option value="active" selected>사용중</option>`)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("notifier failure", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("closed"))

		w := postForm(h, "/registration", validRegistration())
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestInstrumentActions(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		message string
	}{
		{name: "calibrate", path: "/instruments/INS001/calibrate", message: "계측기 INS001의 검교정을 시작합니다."},
		{name: "edit", path: "/instruments/INS002/edit", message: "계측기 INS002의 정보를 수정합니다."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, notifier := newTestHandler(t)
			notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n notify.Notification) bool {
				return n.Message == tt.message
			})).Return(nil).Once()

			w := postForm(h, tt.path, url.Values{"q": {"dmm"}})
			assert.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, `data-view="calibration"`)
			assert.Contains(t, body, tt.message)
			// filters survive the action
			assert.Equal(t, 1, strings.Count(body, `<tr data-id="`))
			notifier.AssertExpectations(t)
		})
	}

	t.Run("unknown instrument", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		w := postForm(h, "/instruments/INS999/calibrate", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("get is not allowed", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		assert.Equal(t, http.StatusMethodNotAllowed, get(h, "/instruments/INS001/calibrate").Code)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})
}

func TestDeleteInstrument(t *testing.T) {
	t.Run("asks for confirmation", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		w := postForm(h, "/instruments/INS002/delete", url.Values{"status": {"upcoming"}})
		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `role="alertdialog"`)
		assert.Contains(t, body, "계측기 INS002를 삭제하시겠습니까?")
		assert.Contains(t, body, `action="/instruments/INS002/delete"`)
		assert.Contains(t, body, `<input type="hidden" name="status" value="upcoming">`)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("declined is a no-op", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		w := postForm(h, "/instruments/INS002/delete", url.Values{"confirm": {"no"}})
		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.NotContains(t, body, `role="alertdialog"`)
		assert.NotContains(t, body, `class="toast`)
		assert.Contains(t, body, `<tr data-id="INS002"`)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("confirmed", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n notify.Notification) bool {
			return n.Message == "계측기 INS002가 삭제되었습니다."
		})).Return(nil).Once()

		w := postForm(h, "/instruments/INS002/delete", url.Values{"confirm": {"yes"}})
		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "계측기 INS002가 삭제되었습니다.")
		// placeholder action: the list is unchanged
		assert.Contains(t, body, `<tr data-id="INS002"`)
		notifier.AssertExpectations(t)
	})
}

func TestEditHistory(t *testing.T) {
	h, notifier := newTestHandler(t)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()

	w := postForm(h, "/history/HIS004/edit", url.Values{"action": {"disposal"}})
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-view="history"`)
	assert.Contains(t, body, "이력 HIS004를 수정합니다.")
	notifier.AssertNumberOfCalls(t, "Notify", 1)

	w = postForm(h, "/history/HIS999/edit", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	notifier.AssertNumberOfCalls(t, "Notify", 1)
}

func TestAPI_Lists(t *testing.T) {
	h, _ := newTestHandler(t)

	w := get(h, "/api/instruments?q=DMM")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var instruments []models.Instrument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &instruments))
	require.Len(t, instruments, 1)
	assert.Equal(t, "INS001", instruments[0].ID)

	w = get(h, "/api/history?action=maintenance")
	require.Equal(t, http.StatusOK, w.Code)
	var history []models.HistoryRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.Equal(t, "HIS003", history[0].ID)

	w = get(h, "/api/history?q=zzz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = get(h, "/api/departments")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["품질관리팀","연구개발팀","생산관리팀"]`, w.Body.String())

	w = get(h, "/api/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	var d models.Dashboard
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, 1250, d.Summary.TotalInstruments)
	assert.Len(t, d.Monthly, 12)
}

func TestAPI_Errors(t *testing.T) {
	h, _ := newTestHandler(t)

	tests := []struct {
		method string
		target string
		status int
		allow  string
	}{
		{method: http.MethodGet, target: "/api/instruments?status=broken", status: http.StatusBadRequest},
		{method: http.MethodGet, target: "/api/history?action=polish", status: http.StatusBadRequest},
		{method: http.MethodGet, target: "/api/history?status=lost", status: http.StatusBadRequest},
		{method: http.MethodGet, target: "/api/instruments/INS999", status: http.StatusNotFound},
		{method: http.MethodGet, target: "/api/history/HIS999", status: http.StatusNotFound},
		{method: http.MethodGet, target: "/api/unknown", status: http.StatusNotFound},
		{method: http.MethodGet, target: "/api/registrations", status: http.StatusMethodNotAllowed, allow: "POST"},
		{method: http.MethodPut, target: "/api/instruments", status: http.StatusMethodNotAllowed, allow: "GET"},
		{method: http.MethodDelete, target: "/api/history/HIS001", status: http.StatusMethodNotAllowed, allow: "GET"},
		{method: http.MethodPost, target: "/api/dashboard", status: http.StatusMethodNotAllowed, allow: "GET"},
		{method: http.MethodGet, target: "/api/instruments/INS001/calibrate", status: http.StatusMethodNotAllowed, allow: "POST"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.allow, w.Header().Get("Allow"))
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}

	w := get(h, "/api/instruments/INS004")
	require.Equal(t, http.StatusOK, w.Code)
	var ins models.Instrument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ins))
	assert.Equal(t, models.StatusInProgress, ins.Status)
}

func TestAPI_CreateRegistration(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		w := postJSON(h, "/api/registrations", `{"instrumentName":"저울","manufacturer":"A&D"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var resp registrationError
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"modelNumber", "serialNumber"}, resp.Missing)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("invalid json", func(t *testing.T) {
		h, _ := newTestHandler(t)
		w := postJSON(h, "/api/registrations", `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("registered", func(t *testing.T) {
		h, notifier, hook := newLoggedTestHandler(t)
		notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()

		w := postJSON(h, "/api/registrations",
			`{"instrumentName":"저울","modelNumber":"SC-1","manufacturer":"A&D","serialNumber":"SN1"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ActionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Confirmed)
		require.NotNil(t, resp.Notification)
		assert.Equal(t, notify.RegistrationSucceeded(), resp.Notification.Message)
		notifier.AssertExpectations(t)

		entry := registeredEntry(hook)
		require.NotNil(t, entry)
		assert.Equal(t, "저울", entry.Data["instrument_name"])
		assert.Equal(t, "A&D", entry.Data["manufacturer"])
		assert.Equal(t, models.RegistrationActive, entry.Data["status"])
	})
}

func TestAPI_InstrumentAction(t *testing.T) {
	t.Run("delete without confirmation", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		for _, body := range []string{"", "{}", `{"confirm":false}`} {
			w := postJSON(h, "/api/instruments/INS001/delete", body)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"confirmed":false}`, w.Body.String())
		}
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("delete confirmed", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()

		w := postJSON(h, "/api/instruments/INS001/delete", `{"confirm":true}`)
		require.Equal(t, http.StatusOK, w.Code)
		var resp ActionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Confirmed)
		assert.Equal(t, "계측기 INS001가 삭제되었습니다.", resp.Notification.Message)
		notifier.AssertExpectations(t)
	})

	t.Run("calibrate", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()

		w := postJSON(h, "/api/instruments/INS003/calibrate", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp ActionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, notify.LevelInfo, resp.Notification.Level)
		assert.Equal(t, "계측기 INS003의 검교정을 시작합니다.", resp.Notification.Message)
	})

	t.Run("unknown action and id", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		assert.Equal(t, http.StatusNotFound, postJSON(h, "/api/instruments/INS001/archive", "").Code)
		assert.Equal(t, http.StatusNotFound, postJSON(h, "/api/instruments/INS999/edit", "").Code)
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	})

	t.Run("history edit", func(t *testing.T) {
		h, notifier := newTestHandler(t)
		notifier.On("Notify", mock.Anything, mock.Anything).Return(nil).Once()

		w := postJSON(h, "/api/history/HIS001/edit", "")
		require.Equal(t, http.StatusOK, w.Code)
		var resp ActionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "이력 HIS001를 수정합니다.", resp.Notification.Message)
	})
}

func TestStoreFailure(t *testing.T) {
	store := new(MockStore)
	store.On("ListInstruments", mock.Anything).Return(nil, errors.New("connection reset"))
	store.On("Departments", mock.Anything).Return([]string{"품질관리팀"}, nil)
	store.On("Dashboard", mock.Anything).Return(models.Dashboard{}, errors.New("connection reset"))
	store.On("FindHistoryByID", mock.Anything, "HIS001").Return(nil, errors.New("connection reset"))

	logger, hook := test.NewNullLogger()
	h := NewHandler(store, new(MockNotifier), logger, "").Routes()

	assert.Equal(t, http.StatusInternalServerError, get(h, "/?view=calibration").Code)
	assert.Equal(t, http.StatusInternalServerError, get(h, "/").Code)
	assert.Equal(t, http.StatusInternalServerError, get(h, "/api/instruments").Code)
	assert.Equal(t, http.StatusInternalServerError, get(h, "/api/dashboard").Code)
	assert.Equal(t, http.StatusInternalServerError, get(h, "/api/history/HIS001").Code)
	assert.NotEmpty(t, hook.Entries)
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)
	w := get(h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestStatic(t *testing.T) {
	h, _ := newTestHandler(t)
	w := get(h, "/static/style.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "#667eea")
}
