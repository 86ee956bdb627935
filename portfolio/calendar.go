package portfolio

import (
	"encoding/json"
	"sort"
	"time"
)

// levelColors is the 5-step ramp used when a day carries a coarse 0-4 level
// instead of an explicit color. Index 0 means no contributions.
var levelColors = [5]string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}

const dateLayout = "2006-01-02"

const daysPerWeek = 7

// calendarShape discriminates the known contribution payload layouts.
type calendarShape int

const (
	shapeUnknown calendarShape = iota
	shapeNested
	shapeFlat
	shapePreGridded
)

// rawDay is one day entry under any of the upstream spellings.
type rawDay struct {
	Date              string `json:"date"`
	Color             string `json:"color"`
	Count             *int   `json:"count"`
	ContributionCount *int   `json:"contributionCount"`
	Level             *int   `json:"level"`
}

// rawCalendar covers the envelope fields shared by all known shapes.
type rawCalendar struct {
	TotalContributions *int            `json:"totalContributions"`
	Total              json.RawMessage `json:"total"`
	Contributions      json.RawMessage `json:"contributions"`
	Weeks              []Week          `json:"weeks"`
}

// decodedCalendar is the discriminated variant produced before any
// normalization touches fields.
type decodedCalendar struct {
	shape  calendarShape
	nested [][]rawDay
	flat   []rawDay
	grid   []Week
	total  *int
}

// ParseContributions normalizes a contributions payload. total is nil when no
// alternately-named total field is present; cal is nil when no known shape
// matches. Neither case is an error.
func ParseContributions(raw json.RawMessage) (total *int, cal *ContributionCalendar) {
	dec := detectCalendar(raw)

	switch dec.shape {
	case shapeNested:
		cal = normalizeNested(dec.nested, dec.total)
	case shapeFlat:
		cal = normalizeFlat(dec.flat, dec.total)
	case shapePreGridded:
		cal = &ContributionCalendar{
			TotalContributions: intOrZero(dec.total),
			Weeks:              dec.grid,
		}
	}
	return dec.total, cal
}

// detectCalendar attempts each known shape in a fixed priority order: nested
// week arrays, then a flat day sequence, then a pre-gridded weeks field.
func detectCalendar(raw json.RawMessage) decodedCalendar {
	dec := decodedCalendar{shape: shapeUnknown}
	if len(raw) == 0 {
		return dec
	}

	var envelope rawCalendar
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return dec
	}
	dec.total = decodeTotal(envelope)

	if len(envelope.Contributions) > 0 {
		var nested [][]rawDay
		if err := json.Unmarshal(envelope.Contributions, &nested); err == nil && len(nested) > 0 {
			dec.shape = shapeNested
			dec.nested = nested
			return dec
		}

		var flat []rawDay
		if err := json.Unmarshal(envelope.Contributions, &flat); err == nil && len(flat) > 0 {
			dec.shape = shapeFlat
			dec.flat = flat
			return dec
		}
	}

	if envelope.Weeks != nil {
		dec.shape = shapePreGridded
		dec.grid = envelope.Weeks
	}
	return dec
}

// decodeTotal picks the trailing-year total from whichever field spells it:
// top-level totalContributions first, then total.lastYear, then a bare
// numeric total.
func decodeTotal(envelope rawCalendar) *int {
	if envelope.TotalContributions != nil {
		return envelope.TotalContributions
	}
	if len(envelope.Total) == 0 {
		return nil
	}

	var nested struct {
		LastYear *int `json:"lastYear"`
	}
	if err := json.Unmarshal(envelope.Total, &nested); err == nil && nested.LastYear != nil {
		return nested.LastYear
	}

	var flat int
	if err := json.Unmarshal(envelope.Total, &flat); err == nil {
		return &flat
	}
	return nil
}

func normalizeNested(weeks [][]rawDay, total *int) *ContributionCalendar {
	out := make([]Week, 0, len(weeks))
	for _, days := range weeks {
		week := Week{Days: make([]Day, 0, daysPerWeek)}
		for i, day := range days {
			week.Days = append(week.Days, Day{
				Color:   dayColor(day),
				Count:   firstInt(day.ContributionCount, day.Count),
				Date:    day.Date,
				Weekday: i,
			})
		}
		for len(week.Days) < daysPerWeek {
			week.Days = append(week.Days, Day{
				Color:   TransparentColor,
				Weekday: len(week.Days),
			})
		}
		out = append(out, week)
	}
	return &ContributionCalendar{TotalContributions: intOrZero(total), Weeks: out}
}

// normalizeFlat reconstructs the weekly grid from an ungrouped day sequence:
// index entries by date, then walk whole weeks from the Sunday on or before
// the earliest date through the latest date. Date strings are calendar dates
// and are parsed in UTC only.
func normalizeFlat(days []rawDay, total *int) *ContributionCalendar {
	byDate := make(map[string]rawDay, len(days))
	dates := make([]time.Time, 0, len(days))
	for _, day := range days {
		parsed, err := time.ParseInLocation(dateLayout, day.Date, time.UTC)
		if err != nil {
			continue
		}
		byDate[day.Date] = day
		dates = append(dates, parsed)
	}
	if len(dates) == 0 {
		return nil
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	first, last := dates[0], dates[len(dates)-1]
	cursor := first.AddDate(0, 0, -int(first.Weekday()))

	var weeks []Week
	for !cursor.After(last) {
		week := Week{Days: make([]Day, 0, daysPerWeek)}
		for weekday := 0; weekday < daysPerWeek; weekday++ {
			date := cursor.Format(dateLayout)
			cell := Day{
				Color:   TransparentColor,
				Date:    date,
				Weekday: weekday,
			}
			if day, ok := byDate[date]; ok {
				cell.Color = dayColor(day)
				cell.Count = firstInt(day.Count, day.ContributionCount)
			}
			week.Days = append(week.Days, cell)
			cursor = cursor.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}

	return &ContributionCalendar{TotalContributions: intOrZero(total), Weeks: weeks}
}

// dayColor resolves a cell color: explicit color wins, then the level ramp,
// then the "no contributions" color.
func dayColor(day rawDay) string {
	if day.Color != "" {
		return day.Color
	}
	level := 0
	if day.Level != nil {
		level = *day.Level
	}
	if level < 0 || level >= len(levelColors) {
		return levelColors[0]
	}
	return levelColors[level]
}

func firstInt(values ...*int) int {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return 0
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
