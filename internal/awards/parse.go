// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package awards

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/allocations-xref/pkg/types"
)

var (
	bulletRE = regexp.MustCompile(`^(?:[-*•+]\s+|\d+[.)]\s+|#+\s*)`)
	labelRE  = regexp.MustCompile(`(?i)^(award number|award id|award no\.?|title|principal investigator|pi|institution|awardee|organization|amount|award amount|awarded amount|start date|end date|expiration date)\s*:\s*(.*)$`)
	yearRE   = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	markup = strings.NewReplacer("**", "", "__", "", "`", "")
)

// Award fields a report label can populate.
const (
	fieldID          = "id"
	fieldTitle       = "title"
	fieldPI          = "pi"
	fieldInstitution = "institution"
	fieldAmount      = "amount"
	fieldStart       = "start"
	fieldEnd         = "end"
)

var labelFields = map[string]string{
	"award number":           fieldID,
	"award id":               fieldID,
	"award no":               fieldID,
	"award no.":              fieldID,
	"title":                  fieldTitle,
	"principal investigator": fieldPI,
	"pi":                     fieldPI,
	"institution":            fieldInstitution,
	"awardee":                fieldInstitution,
	"organization":           fieldInstitution,
	"amount":                 fieldAmount,
	"award amount":           fieldAmount,
	"awarded amount":         fieldAmount,
	"start date":             fieldStart,
	"end date":               fieldEnd,
	"expiration date":        fieldEnd,
}

// ParseReport splits an awards-service report into entries. Text reports
// are read line by line: a labelled line ("Award Number:", "Title:",
// "Principal Investigator:", "Institution:", "Amount:", "Start Date:",
// "End Date:") joins the current award block, and a label the block already
// has starts the next one. Markdown bullets, headings and bold markers are
// ignored. JSON bodies, either a list of award objects or an object holding
// one, are accepted too. Reports that only say there are no awards, or that
// the service failed, yield no ParsedAward entries.
func ParseReport(text string) []types.AwardEntry {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if entries, ok := parseJSON(text); ok {
		return entries
	}

	var (
		entries []types.AwardEntry
		cur     *types.Award
		raw     []string
	)
	flush := func() {
		if cur == nil {
			return
		}
		cur.Raw = strings.Join(raw, "\n")
		cur.Years = years(cur.Raw)
		if cur.ID != "" || cur.Title != "" {
			entries = append(entries, types.ParsedAward{Award: *cur})
		} else {
			for _, l := range raw {
				entries = append(entries, types.Unrecognized{Line: l})
			}
		}
		cur, raw = nil, nil
	}

	for _, line := range strings.Split(text, "\n") {
		clean := cleanLine(line)
		if clean == "" {
			continue
		}
		field, value, ok := splitLabel(clean)
		if !ok {
			if cur != nil {
				raw = append(raw, clean)
			} else {
				entries = append(entries, types.Unrecognized{Line: clean})
			}
			continue
		}
		if cur == nil || hasField(cur, field) {
			flush()
			cur = &types.Award{}
		}
		raw = append(raw, clean)
		setField(cur, field, value)
	}
	flush()
	return entries
}

func cleanLine(line string) string {
	s := strings.TrimSpace(markup.Replace(line))
	s = bulletRE.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func splitLabel(line string) (field, value string, ok bool) {
	m := labelRE.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	value = strings.TrimSpace(m[2])
	if value == "" {
		return "", "", false
	}
	return labelFields[strings.ToLower(m[1])], value, true
}

func hasField(a *types.Award, field string) bool {
	return *fieldPtr(a, field) != ""
}

func setField(a *types.Award, field, value string) {
	*fieldPtr(a, field) = value
}

func fieldPtr(a *types.Award, field string) *string {
	switch field {
	case fieldID:
		return &a.ID
	case fieldTitle:
		return &a.Title
	case fieldPI:
		return &a.PI
	case fieldInstitution:
		return &a.Institution
	case fieldAmount:
		return &a.Amount
	case fieldStart:
		return &a.StartDate
	default:
		return &a.EndDate
	}
}

// years returns the distinct four-digit years 1900-2099 found in s, sorted.
func years(s string) []int {
	seen := map[int]bool{}
	var out []int
	for _, m := range yearRE.FindAllString(s, -1) {
		y, err := strconv.Atoi(m)
		if err != nil || seen[y] {
			continue
		}
		seen[y] = true
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// JSON keys accepted for each award field, in preference order.
var jsonKeys = map[string][]string{
	fieldID:          {"id", "award_number", "awardNumber", "award_id", "awardId"},
	fieldTitle:       {"title"},
	fieldPI:          {"pi", "principal_investigator", "principalInvestigator", "pi_name", "piName"},
	fieldInstitution: {"institution", "awardee", "awardeeName", "organization"},
	fieldAmount:      {"amount", "award_amount", "fundsObligatedAmt", "estimatedTotalAmt"},
	fieldStart:       {"start_date", "startDate"},
	fieldEnd:         {"end_date", "endDate", "expDate"},
}

var jsonFieldOrder = []string{fieldID, fieldTitle, fieldPI, fieldInstitution, fieldAmount, fieldStart, fieldEnd}

// parseJSON handles bodies that are JSON rather than report text. ok is
// false when text is not JSON at all.
func parseJSON(text string) ([]types.AwardEntry, bool) {
	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		for _, k := range []string{"awards", "results", "items", "data"} {
			if list, ok := t[k].([]any); ok {
				items = list
				break
			}
		}
		if items == nil && pick(t, jsonKeys[fieldID]) != "" {
			items = []any{t}
		}
	}

	var entries []types.AwardEntry
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		var a types.Award
		for _, f := range jsonFieldOrder {
			setField(&a, f, pick(m, jsonKeys[f]))
		}
		if a.ID == "" && a.Title == "" {
			continue
		}
		if b, err := json.Marshal(m); err == nil {
			a.Raw = string(b)
		}
		a.Years = years(strings.Join([]string{a.Title, a.StartDate, a.EndDate}, " "))
		entries = append(entries, types.ParsedAward{Award: a})
	}
	return entries, true
}

func pick(m map[string]any, keys []string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}
