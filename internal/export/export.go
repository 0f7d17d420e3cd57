// Package export renders panel snapshots as downloadable documents.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"logistics-dashboard/internal/format"
	"logistics-dashboard/internal/models"
)

// Filename prefixes of the two exportable panels.
const (
	AnalyticsPrefix = "analytics-report"
	RoutesPrefix    = "route-optimization"
)

// Meta stamps every exported document.
type Meta struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMeta returns a fresh document stamp for now.
func NewMeta(now time.Time) Meta {
	return Meta{ID: uuid.NewString(), Timestamp: now.UTC()}
}

// AnalyticsReport is the analytics panel export.
type AnalyticsReport struct {
	Performance []models.PerformanceDataPoint `json:"performance"`
	Regions     []models.RegionStat           `json:"regions"`
	KPIs        models.KPISummary             `json:"kpis"`
	Meta
}

// RouteReport is the route optimization panel export.
type RouteReport struct {
	DeliveryPoints    []models.DeliveryPoint    `json:"deliveryPoints"`
	TrafficConditions []models.TrafficCondition `json:"trafficConditions"`
	Efficiency        int                       `json:"efficiency"`
	EstimatedSavings  models.RouteSavings       `json:"estimatedSavings"`
	Meta
}

// Filename returns the dated download name, e.g. route-optimization-2024-03-05.json.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.json", prefix, now.Format(format.ExportDateLayout))
}

// WriteJSON writes v to w as JSON indented with two spaces.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFile writes v into dir under Filename(prefix, now) and returns the
// path written.
func WriteFile(dir, prefix string, now time.Time, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, Filename(prefix, now))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := WriteJSON(f, v); err != nil {
		f.Close()
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, f.Close()
}

// WritePerformanceCSV writes the daily performance rows with a header.
func WritePerformanceCSV(w io.Writer, rows []models.PerformanceDataPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "deliveries", "on_time", "revenue", "fuel_cost", "efficiency"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Date,
			strconv.Itoa(r.Deliveries),
			strconv.Itoa(r.OnTime),
			strconv.Itoa(r.Revenue),
			strconv.Itoa(r.FuelCost),
			strconv.Itoa(r.Efficiency),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStopsCSV writes the route stops with a header.
func WriteStopsCSV(w io.Writer, stops []models.DeliveryPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "address", "packages", "priority", "estimated_time", "customer", "phone", "completed"}); err != nil {
		return err
	}
	for _, s := range stops {
		rec := []string{
			strconv.Itoa(s.ID),
			s.Address,
			strconv.Itoa(s.Packages),
			string(s.Priority),
			s.EstimatedTime,
			s.CustomerName,
			s.PhoneNumber,
			strconv.FormatBool(s.IsCompleted),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
