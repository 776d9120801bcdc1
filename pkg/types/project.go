// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the allocations-xref engine:
// catalog projects and pages, award records parsed from the awards service,
// result envelopes, and configuration.
package types

import (
	"strconv"
	"strings"
	"time"
)

// Resource is one allocation line of a project: a resource name, the unit
// it is measured in, and the granted amount.
type Resource struct {
	Name   string  `json:"resourceName" yaml:"resource_name"`
	Units  string  `json:"units" yaml:"units"`
	Amount float64 `json:"allocation" yaml:"allocation"`
}

// Project is one allocation record from the catalog. Projects are immutable
// once fetched; the page cache owns them for its TTL.
type Project struct {
	ID             int        `json:"projectId" yaml:"project_id"`
	RequestNumber  string     `json:"requestNumber" yaml:"request_number"`
	Title          string     `json:"requestTitle" yaml:"title"`
	PI             string     `json:"pi" yaml:"pi"`
	Institution    string     `json:"piInstitution" yaml:"institution"`
	FieldOfScience string     `json:"fos" yaml:"field_of_science"`
	Abstract       string     `json:"abstract" yaml:"abstract"`
	AllocationType string     `json:"allocationType" yaml:"allocation_type"`
	BeginDate      string     `json:"beginDate" yaml:"begin_date"`
	EndDate        string     `json:"endDate" yaml:"end_date"`
	Resources      []Resource `json:"resources" yaml:"resources"`
}

// ProjectPage is one fetch of the paginated catalog.
type ProjectPage struct {
	Projects []Project `json:"projects" yaml:"projects"`
	Pages    int       `json:"pages" yaml:"pages"`
}

// TotalAllocation sums the amounts of all resources.
func (p Project) TotalAllocation() float64 {
	var total float64
	for _, r := range p.Resources {
		total += r.Amount
	}
	return total
}

// Begin parses BeginDate. The zero time is returned when the date is absent
// or unparseable.
func (p Project) Begin() time.Time {
	return parseDate(p.BeginDate)
}

// BeginYear returns the year of BeginDate, or 0.
func (p Project) BeginYear() int { return leadingYear(p.BeginDate) }

// EndYear returns the year of EndDate, or 0.
func (p Project) EndYear() int { return leadingYear(p.EndDate) }

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "01/02/2006"}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	if y := leadingYear(s); y > 0 {
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Time{}
}

// leadingYear returns the first run of four digits in s when it looks like a
// year, or 0.
func leadingYear(s string) int {
	for i := 0; i+4 <= len(s); i++ {
		chunk := s[i : i+4]
		if !allDigits(chunk) {
			continue
		}
		if i+4 < len(s) && s[i+4] >= '0' && s[i+4] <= '9' {
			continue
		}
		y, err := strconv.Atoi(chunk)
		if err == nil && y >= 1900 && y <= 2199 {
			return y
		}
	}
	return 0
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
