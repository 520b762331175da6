// Package report renders a session snapshot into a standalone HTML
// progress report.
package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/asmayaseen/vitacoach/internal/session"
	"github.com/asmayaseen/vitacoach/pkg/models"
)

//go:embed report.html.tmpl
var templateFS embed.FS

// Generator renders session snapshots as HTML.
type Generator struct {
	tmpl *template.Template
}

// NewGenerator parses the embedded report template.
func NewGenerator() (*Generator, error) {
	tmpl, err := template.New("report.html.tmpl").Funcs(template.FuncMap{
		"num":  formatNumber,
		"date": func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"ts":   func(t time.Time) string { return t.Format("Jan 2, 2006 15:04") },
	}).ParseFS(templateFS, "report.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

// reportData is the view model the template renders.
type reportData struct {
	GeneratedAt time.Time
	Profile     models.Profile
	BMI         float64
	BMICategory string
	Goals       []goalView
	Metrics     []metricView
	Handoffs    []models.HandoffRecord
	MealPlan    *models.MealPlan
	WorkoutPlan *models.WorkoutPlan
}

type goalView struct {
	models.Goal
	Percent float64
}

type metricView struct {
	Name    string
	Entries []models.ProgressEntry
}

// Render writes the HTML report for a snapshot.
func (g *Generator) Render(w io.Writer, snap session.Snapshot) error {
	bmi := snap.Profile.BMI()
	data := reportData{
		GeneratedAt: time.Now(),
		Profile:     snap.Profile,
		BMI:         bmi,
		Handoffs:    snap.Handoffs,
		MealPlan:    snap.MealPlan,
		WorkoutPlan: snap.WorkoutPlan,
	}
	if bmi > 0 {
		data.BMICategory = models.BMICategory(bmi)
	}

	for _, goal := range snap.Goals {
		gv := goalView{Goal: goal}
		gv.Percent = goal.ProgressPercent()
		data.Goals = append(data.Goals, gv)
	}

	grouped := models.GroupProgressByMetric(snap.Progress)
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		data.Metrics = append(data.Metrics, metricView{Name: name, Entries: grouped[name]})
	}

	if err := g.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteFile renders the report to a file, creating parent directories.
func (g *Generator) WriteFile(path string, snap session.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	return g.Render(f, snap)
}

// formatNumber trims trailing zeros from a float for display.
func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
