// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"
)

//go:embed templates/*
var templateFS embed.FS

// RenderedEmail holds both HTML and text versions of a rendered email
type RenderedEmail struct {
	HTML string
	Text string
}

// TemplateSet holds HTML and text versions of a template
type TemplateSet struct {
	HTML *template.Template
	Text *template.Template
}

// Templates holds all template categories
type Templates struct {
	AttendanceReport TemplateSet
}

// templateConfig defines a template to be loaded
type templateConfig struct {
	name string
	path string
}

func loadTemplates() (Templates, error) {
	templateConfigs := map[string]templateConfig{
		"attendanceReportHTML": {"attendance_report.html", "templates/attendance_report.html"},
		"attendanceReportText": {"attendance_report.txt", "templates/attendance_report.txt"},
	}

	loaded := make(map[string]*template.Template)
	for key, cfg := range templateConfigs {
		tmpl, err := loadTemplate(cfg)
		if err != nil {
			return Templates{}, err
		}
		loaded[key] = tmpl
	}

	return Templates{
		AttendanceReport: TemplateSet{
			HTML: loaded["attendanceReportHTML"],
			Text: loaded["attendanceReportText"],
		},
	}, nil
}

// loadTemplate loads a single template with the shared function map
func loadTemplate(config templateConfig) (*template.Template, error) {
	tmpl, err := template.New(config.name).Funcs(template.FuncMap{
		"formatTime":  formatTime,
		"formatGrade": formatGrade,
		"capitalize":  capitalize,
	}).ParseFS(templateFS, config.path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", config.name, err)
	}
	return tmpl, nil
}

// renderTemplate renders any template with the provided data
func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatTime formats a time for display in emails
func formatTime(t time.Time, timezone string) string {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	localTime := t.In(loc)
	return fmt.Sprintf("%s, %s %s",
		localTime.Format("Monday, January 2 2006"),
		localTime.Format("15:04"),
		timezone)
}

// formatGrade formats a grade value, trimming trailing zeros
func formatGrade(grade float64) string {
	s := strings.TrimRight(fmt.Sprintf("%.5f", grade), "0")
	return strings.TrimSuffix(s, ".")
}

// capitalize capitalizes the first letter of a string
func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
