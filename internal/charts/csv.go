package charts

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"agentlee/internal/logging"
)

// Numbers in CSVs arrive with currency symbols and separators.
var nonNumericRe = regexp.MustCompile(`[^0-9.\-]`)

func toNumber(v string) (float64, bool) {
	n, err := strconv.ParseFloat(nonNumericRe.ReplaceAllString(v, ""), 64)
	return n, err == nil
}

// readCSV parses a CSV file into header-keyed rows.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = strings.TrimSpace(rec[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// field returns the first non-empty value among candidate column names,
// case-insensitive on the first letter variants the deck CSVs use.
func field(row map[string]string, names ...string) string {
	for _, n := range names {
		if v := row[n]; v != "" {
			return v
		}
	}
	return ""
}

// BootstrapFromDir loads chart series from the deck's CSV exports when
// present. Missing files are skipped; a bad file never blocks the rest.
func (r *Registry) BootstrapFromDir(dir string) {
	if dir == "" {
		return
	}

	if err := r.loadProjectCosts(filepath.Join(dir, "project_costs.csv")); err != nil && !os.IsNotExist(err) {
		logging.Get(logging.CategoryCharts).Warn("project_costs.csv load failed: %v", err)
	}
	if err := r.loadRevenue(filepath.Join(dir, "revenue.csv")); err != nil && !os.IsNotExist(err) {
		logging.Get(logging.CategoryCharts).Warn("revenue.csv load failed: %v", err)
	}
}

// loadProjectCosts aggregates actual amounts by year and method into the
// savingCities project-costs chart.
func (r *Registry) loadProjectCosts(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	byMethod := make(map[string]map[string]float64)
	for _, row := range rows {
		year := field(row, "year", "Year")
		method := field(row, "method", "Method")
		if method == "" {
			method = "Unknown"
		}
		actual, ok := toNumber(field(row, "actualAmount", "actual", "Actual", "amount", "Amount"))
		if year == "" || !ok {
			continue
		}
		if byMethod[method] == nil {
			byMethod[method] = make(map[string]float64)
		}
		byMethod[method][year] += actual
	}

	var series []Series
	methods := make([]string, 0, len(byMethod))
	for m := range byMethod {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	for _, m := range methods {
		years := make([]string, 0, len(byMethod[m]))
		for y := range byMethod[m] {
			years = append(years, y)
		}
		sort.Strings(years)
		pts := make([]Point, 0, len(years))
		for _, y := range years {
			pts = append(pts, Point{X: y, Y: byMethod[m][y]})
		}
		series = append(series, Series{Name: m, Points: pts})
	}

	if len(series) == 0 {
		return nil
	}
	r.Upsert("savingCities", "projectCosts", &Knowledge{
		Title:       "Project Costs: Trenchless vs Traditional",
		Description: "Aggregated actual amounts by year and method from project_costs.csv",
		AxisX:       "Year", AxisY: "Cost", UnitY: "USD",
		Series: series,
	})
	return nil
}

// loadRevenue feeds the timeline chart with a revenue-by-year series.
func (r *Registry) loadRevenue(path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	var pts []Point
	for _, row := range rows {
		year := field(row, "year", "Year")
		rev, ok := toNumber(field(row, "revenue", "Revenue", "value", "Value"))
		if year == "" || !ok {
			continue
		}
		pts = append(pts, Point{X: year, Y: rev, Label: field(row, "milestone", "Milestone")})
	}
	if len(pts) == 0 {
		return nil
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].X < pts[j].X })

	r.Upsert("throughTheTunnels", "revenue", &Knowledge{
		Title:       "Revenue by Year",
		Description: "Revenue trajectory loaded from revenue.csv",
		AxisX:       "Year", AxisY: "Revenue", UnitY: "USD (M)",
		Series: []Series{{Name: "Revenue", Points: pts}},
	})
	return nil
}
