package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"denguedash/internal/amqp"
	"denguedash/internal/core"
)

type tableData struct {
	Rows []core.TableRow
}

type indexData struct {
	TotalCases  string
	TotalDeaths string
	Regions     []string
	Years       []int
	Months      []string
	Modes       []core.DisplayMode
	FormYears   []int
	Charts      chartsData
	Table       tableData
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "url", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	_, ds := s.ensureSession(w, r)
	totals := ds.LoadedTotals()

	formYears := make([]int, 0, core.MaxFormYear-core.MinFormYear+1)
	for y := core.MinFormYear; y <= core.MaxFormYear; y++ {
		formYears = append(formYears, y)
	}

	data := indexData{
		TotalCases:  formatCount(totals.Cases),
		TotalDeaths: formatCount(totals.Deaths),
		Regions:     ds.Regions(),
		Years:       ds.Years(),
		Months:      core.MonthNames,
		Modes:       core.DisplayModes,
		FormYears:   formYears,
		Charts:      chartsData{Status: core.StatusShowAll},
		Table:       tableData{Rows: ds.SortedView()},
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleCharts renders the filtered/aggregated charts partial.
func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, ds := s.ensureSession(w, r)

	sel := parseSelection(r.URL.Query())
	view, status := core.Apply(ds, sel)
	data := buildChartsData(view, status)

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="charts"><div class="placeholder">Charts unavailable</div></section>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, "charts.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "charts.html")
		_, _ = w.Write([]byte(`<section id="charts"><div class="placeholder">Error rendering charts</div></section>`))
	}
}

// handleTable renders the sorted data table partial.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, ds := s.ensureSession(w, r)

	if s.templates == nil {
		_, _ = w.Write([]byte(`<section id="data-table"><div class="placeholder">Table unavailable</div></section>`))
		return
	}
	data := tableData{Rows: ds.SortedView()}
	if err := s.templates.ExecuteTemplate(w, "table.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "table.html")
		_, _ = w.Write([]byte(`<section id="data-table"><div class="placeholder">Error rendering table</div></section>`))
	}
}

func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "method", r.Method, "url", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Invalid request format</div>`))
		return
	}

	sessionID, ds := s.ensureSession(w, r)

	region := sanitizeInput(r.Form.Get("region"))
	month := sanitizeInput(r.Form.Get("month"))

	var year int
	if v := strings.TrimSpace(r.Form.Get("year")); v != "" && v != core.PlaceholderYear {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}

	cases, err := parseCount(r.Form.Get("cases"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Cases must be a non-negative whole number</div>`))
		return
	}
	deaths, err := parseCount(r.Form.Get("deaths"))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Deaths must be a non-negative whole number</div>`))
		return
	}

	rec := core.NewRecord(region, year, month, cases, deaths)
	if err := ds.Append(rec); err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">` + template.HTMLEscapeString(appendErrorMessage(err)) + `</div>`))
		return
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRecordAdded(r.Context(), amqp.NewRecordAddedMessage(rec, sessionID)); err != nil {
			// Events are best effort; the append already succeeded.
			slog.ErrorContext(r.Context(), "Record event publish failed", "error", err)
		}
	}

	w.Header().Set("HX-Trigger", `{"record:added": {"region": "`+template.JSEscapeString(rec.Region)+`", "year": `+strconv.Itoa(rec.Year)+`}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">New data added successfully: ` +
		template.HTMLEscapeString(rec.Region) + ` ` + template.HTMLEscapeString(rec.Month) + ` ` + strconv.Itoa(rec.Year) +
		`. Update filters to view.</div>`))
}

// parseCount coerces a numeric form value; empty means zero (the widget
// default). Negative values surface through Record.Validate.
func parseCount(v string) (int, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

func appendErrorMessage(err error) string {
	switch err {
	case core.ErrRegionNotSelected, core.ErrYearNotSelected, core.ErrMonthNotSelected:
		return "Please select valid Region, Year, and Month before adding data."
	case core.ErrUnknownMonth:
		return "Month must be one of the twelve calendar months."
	case core.ErrNegativeCount:
		return "Cases and deaths must be zero or greater."
	default:
		return err.Error()
	}
}
