package models

import (
	"fmt"
	"math"
	"strings"
)

// Summary holds the headline counters of the dashboard.
type Summary struct {
	TotalInstruments   int `yaml:"total_instruments" json:"total_instruments"`
	Normal             int `yaml:"normal" json:"normal"`
	CompletedThisMonth int `yaml:"completed_this_month" json:"completed_this_month"`
	Upcoming           int `yaml:"upcoming" json:"upcoming"`
}

// MonthlyPoint is one month of planned vs. actual calibrations.
type MonthlyPoint struct {
	Month   string `yaml:"month" json:"month"`
	Planned int    `yaml:"planned" json:"planned"`
	Actual  int    `yaml:"actual" json:"actual"`
}

// StatusShare is one slice of the status distribution chart.
type StatusShare struct {
	Name  string `yaml:"name" json:"name"`
	Value int    `yaml:"value" json:"value"`
	Color string `yaml:"color" json:"color"`
}

// Dashboard is the precomputed content of the overview view.
type Dashboard struct {
	Title        string         `yaml:"title" json:"title"`
	Subtitle     string         `yaml:"subtitle" json:"subtitle"`
	Summary      Summary        `yaml:"summary" json:"summary"`
	Monthly      []MonthlyPoint `yaml:"monthly" json:"monthly"`
	Distribution []StatusShare  `yaml:"distribution" json:"distribution"`
}

// DistributionTotal sums the values of all shares.
func (d Dashboard) DistributionTotal() int {
	total := 0
	for _, s := range d.Distribution {
		total += s.Value
	}
	return total
}

// Percent returns the rounded share of s within the distribution, 0 when empty.
func (d Dashboard) Percent(s StatusShare) int {
	total := d.DistributionTotal()
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Value) * 100 / float64(total)))
}

// MonthlyMax is the largest planned or actual value, used to scale the bar chart.
func (d Dashboard) MonthlyMax() int {
	max := 0
	for _, p := range d.Monthly {
		if p.Planned > max {
			max = p.Planned
		}
		if p.Actual > max {
			max = p.Actual
		}
	}
	return max
}

// PieGradient renders the distribution as a CSS conic-gradient value.
func (d Dashboard) PieGradient() string {
	total := d.DistributionTotal()
	if total == 0 {
		return "conic-gradient(#e9ecef 0% 100%)"
	}
	stops := make([]string, 0, len(d.Distribution))
	acc := 0
	for _, s := range d.Distribution {
		from := float64(acc) * 100 / float64(total)
		acc += s.Value
		to := float64(acc) * 100 / float64(total)
		stops = append(stops, fmt.Sprintf("%s %.2f%% %.2f%%", s.Color, from, to))
	}
	return "conic-gradient(" + strings.Join(stops, ", ") + ")"
}
