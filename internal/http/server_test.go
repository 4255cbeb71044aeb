package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"denguedash/internal/amqp"
	"denguedash/internal/core"
	"denguedash/internal/session"
)

type fakePublisher struct {
	published []*amqp.RecordAddedMessage
}

func (f *fakePublisher) PublishRecordAdded(_ context.Context, msg *amqp.RecordAddedMessage) error {
	f.published = append(f.published, msg)
	return nil
}

func newTestServer(t *testing.T) (*Server, *fakePublisher) {
	t.Helper()
	base := core.NewDataset([]core.Record{
		core.NewRecord("CAR", 2017, "March", 30, 1),
		core.NewRecord("NCR", 2016, "January", 1500, 4),
		core.NewRecord("CAR", 2016, "February", 20, 2),
		core.NewRecord("NCR", 2017, "January", 40, 1),
	})
	pub := &fakePublisher{}
	srv := NewServer(":0", session.NewManager(base, time.Hour), pub)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, pub
}

func get(srv *Server, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func postForm(srv *Server, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestIndexAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := get(srv, "/")
	if rr.Code != 200 {
		t.Fatalf("index status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Dengue Cases and Deaths in the Philippines") {
		t.Fatalf("index body missing heading")
	}
	// Startup totals: 1,590 cases and 8 deaths, comma grouped
	if !strings.Contains(body, "1,590") {
		t.Fatalf("index body missing total cases: %s", body)
	}
	// Full table is always rendered
	if !strings.Contains(body, "Dengue Data Table") {
		t.Fatalf("index body missing table")
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := get(srv, path)
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestIndexSetsSessionCookie(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := get(srv, "/")
	var found bool
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected session cookie to be set")
	}
}

func TestChartsShowAllWithoutFilters(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := get(srv, "/ui/charts")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Showing all data") {
		t.Fatalf("expected show-all notice, got: %s", rr.Body.String())
	}
}

func TestChartsPromptForMode(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := get(srv, "/ui/charts?region=NCR&year=2016")
	if !strings.Contains(rr.Body.String(), "Please select what to display") {
		t.Fatalf("expected mode prompt, got: %s", rr.Body.String())
	}
}

func TestChartsReady(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := get(srv, "/ui/charts?region=NCR&region=CAR&year=2016&mode=Both")
	body := rr.Body.String()
	if !strings.Contains(body, "Yearly Dengue Cases by Region") {
		t.Fatalf("expected cases chart, got: %s", body)
	}
	if !strings.Contains(body, "Yearly Dengue Deaths by Region") {
		t.Fatalf("expected deaths chart, got: %s", body)
	}
	if !strings.Contains(body, "1,500") {
		t.Fatalf("expected summed NCR 2016 value, got: %s", body)
	}
}

func TestChartsSingleMetricMode(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := get(srv, "/ui/charts?region=NCR&year=2016&mode=Dengue+Cases")
	body := rr.Body.String()
	if !strings.Contains(body, "Yearly Dengue Cases by Region") {
		t.Fatalf("expected cases chart")
	}
	if strings.Contains(body, "Yearly Dengue Deaths by Region") {
		t.Fatalf("deaths chart must not render in cases mode")
	}
}

func TestChartsEmptyMatch(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := get(srv, "/ui/charts?region=Nowhere&year=2016&mode=Both")
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "No rows match") {
		t.Fatalf("expected empty chart notice, got: %s", rr.Body.String())
	}
}

func TestAddRecordValidationAndSuccess(t *testing.T) {
	srv, pub := newTestServer(t)

	// Wrong method
	rr := get(srv, "/records")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Placeholder region
	rr = postForm(srv, "/records", "region=--+Select+Region+--&year=2018&month=May&cases=1&deaths=0")
	if rr.Code != 422 {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Please select valid Region") {
		t.Fatalf("expected placeholder message, got: %s", rr.Body.String())
	}

	// Placeholder year
	rr = postForm(srv, "/records", "region=NCR&year=--+Select+Year+--&month=May&cases=1&deaths=0")
	if rr.Code != 422 {
		t.Fatalf("expected 422 for placeholder year, got %d", rr.Code)
	}

	// Negative count is rejected, not clamped
	rr = postForm(srv, "/records", "region=NCR&year=2018&month=May&cases=-5&deaths=0")
	if rr.Code != 422 {
		t.Fatalf("expected 422 for negative cases, got %d", rr.Code)
	}

	// Success
	rr = postForm(srv, "/records", "region=NCR&year=2018&month=May&cases=120&deaths=3")
	if rr.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "success") {
		t.Fatalf("expected success in body: %s", rr.Body.String())
	}
	if rr.Header().Get("HX-Trigger") == "" {
		t.Fatalf("expected HX-Trigger header")
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.published))
	}
	if msg := pub.published[0]; msg.Region != "NCR" || msg.Cases != 120 || msg.Deaths != 3 {
		t.Fatalf("unexpected event: %+v", msg)
	}
}

func TestAddRecordVisibleInSessionTable(t *testing.T) {
	srv, _ := newTestServer(t)

	// Establish a session
	first := get(srv, "/")
	var cookie *http.Cookie
	for _, c := range first.Result().Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatalf("no session cookie")
	}

	rr := postForm(srv, "/records", "region=NCR&year=2018&month=May&cases=777&deaths=3", cookie)
	if rr.Code != 200 {
		t.Fatalf("append failed: %d", rr.Code)
	}

	table := get(srv, "/ui/table", cookie)
	if !strings.Contains(table.Body.String(), "777") {
		t.Fatalf("appended row missing from table: %s", table.Body.String())
	}

	// A different session must not see the appended row
	other := get(srv, "/ui/table")
	if strings.Contains(other.Body.String(), "777") {
		t.Fatalf("append leaked across sessions")
	}
}

func TestForgedSessionCookieNotAdopted(t *testing.T) {
	srv, _ := newTestServer(t)

	forged := &http.Cookie{Name: sessionCookie, Value: "attacker-chosen-id"}
	rr := get(srv, "/", forged)
	if rr.Code != 200 {
		t.Fatalf("status=%d", rr.Code)
	}

	var minted string
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie {
			minted = c.Value
		}
	}
	if minted == "" {
		t.Fatalf("expected a server-minted session cookie")
	}
	if minted == forged.Value {
		t.Fatalf("forged session id was adopted")
	}

	// Appends under the minted id must not be visible to the forged id
	post := postForm(srv, "/records", "region=NCR&year=2018&month=May&cases=888&deaths=0",
		&http.Cookie{Name: sessionCookie, Value: minted})
	if post.Code != 200 {
		t.Fatalf("append failed: %d", post.Code)
	}
	if body := get(srv, "/ui/table", forged).Body.String(); strings.Contains(body, "888") {
		t.Fatalf("forged cookie reached another session's data")
	}
}

func TestTableSortedByYearThenMonth(t *testing.T) {
	srv, _ := newTestServer(t)
	body := get(srv, "/ui/table").Body.String()
	jan2016 := strings.Index(body, "<td>1500</td>") // NCR January 2016
	feb2016 := strings.Index(body, "<td>20</td>")   // CAR February 2016
	mar2017 := strings.Index(body, "<td>30</td>")   // CAR March 2017
	if jan2016 == -1 || feb2016 == -1 || mar2017 == -1 {
		t.Fatalf("table rows missing: %s", body)
	}
	if !(jan2016 < feb2016 && feb2016 < mar2017) {
		t.Fatalf("table order wrong: jan=%d feb=%d mar=%d", jan2016, feb2016, mar2017)
	}
}
