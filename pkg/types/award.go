// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Award holds the fields this engine can recognize in an awards-service
// report. The service has no stable schema; every field may be empty.
type Award struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	PI          string `json:"pi" yaml:"pi"`
	Institution string `json:"institution" yaml:"institution"`
	Amount      string `json:"amount,omitempty" yaml:"amount,omitempty"`
	StartDate   string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty" yaml:"end_date,omitempty"`

	// Years lists every four-digit year found anywhere in the award text.
	Years []int `json:"years,omitempty" yaml:"years,omitempty"`

	// Raw is the block of report text the award was parsed from.
	Raw string `json:"-" yaml:"-"`
}

// AwardEntry is one item parsed out of an awards report: either a
// ParsedAward or an Unrecognized line. Matching code only ever looks at
// ParsedAward values.
type AwardEntry interface {
	awardEntry()
}

// ParsedAward is an award block whose fields were recognized.
type ParsedAward struct {
	Award
}

// Unrecognized is a report line that did not belong to any award block.
type Unrecognized struct {
	Line string
}

func (ParsedAward) awardEntry()  {}
func (Unrecognized) awardEntry() {}

// Awards returns the parsed awards from entries, in order.
func Awards(entries []AwardEntry) []Award {
	var out []Award
	for _, e := range entries {
		if pa, ok := e.(ParsedAward); ok {
			out = append(out, pa.Award)
		}
	}
	return out
}
