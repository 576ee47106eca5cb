package service

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"spectra_backend/internals/features/students/dto"
)

var (
	dayListAliases    = aliases("attendanceDetails", "dayObjects")
	dayDateAliases    = aliases("date", "day")
	percentageAliases = aliases("overallAttendance", "totalPercentage", "percentage")
)

// NormalizeAttendance maps an upstream attendance payload onto the canonical
// summary. Day order and session order are kept as received.
func NormalizeAttendance(raw map[string]any) dto.AttendanceSummary {
	days := firstList(raw, dayListAliases)
	out := dto.AttendanceSummary{
		SessionsByDay:     make([]dto.DayRecord, 0, len(days)),
		OverallPercentage: percentage(firstNonNil(raw, percentageAliases)),
	}

	for _, d := range days {
		day, _ := d.(map[string]any)
		values := sessionsOf(day["sessions"]).values()

		rec := dto.DayRecord{
			Date:     firstString(day, dayDateAliases),
			Sessions: make([]dto.SessionMark, 0, len(values)),
		}
		for _, v := range values {
			rec.Sessions = append(rec.Sessions, sessionMark(v))
		}
		out.SessionsByDay = append(out.SessionsByDay, rec)
	}
	return out
}

// =======================
// SESSIONS SHAPE
// =======================

// sessions is one day's session list as upstream sends it: either an
// ordered list or an object keyed by period number.
type sessions interface {
	values() []any
}

type orderedSessions []any

type keyedSessions map[string]any

func sessionsOf(v any) sessions {
	switch t := v.(type) {
	case []any:
		return orderedSessions(t)
	case map[string]any:
		return keyedSessions(t)
	default:
		return orderedSessions(nil)
	}
}

func (s orderedSessions) values() []any { return s }

// values follows the property order the upstream's clients see: integer
// keys ascending, then the remaining keys. JSON objects lose insertion order
// once decoded, so the remaining keys are taken lexically.
func (s keyedSessions) values() []any {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iIdx := indexKey(keys[i])
		nj, jIdx := indexKey(keys[j])
		switch {
		case iIdx && jIdx:
			return ni < nj
		case iIdx != jIdx:
			return iIdx
		default:
			return keys[i] < keys[j]
		}
	})

	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, s[k])
	}
	return out
}

func indexKey(k string) (uint64, bool) {
	if k == "" || (len(k) > 1 && k[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(k, 10, 32)
	if err != nil || n == math.MaxUint32 {
		return 0, false
	}
	return n, true
}

// =======================
// COERCION
// =======================

func sessionMark(v any) dto.SessionMark {
	n, ok := parseInteger(v)
	switch {
	case !ok:
		return dto.SessionUnknown
	case n == 1:
		return dto.SessionPresent
	case n == 0:
		return dto.SessionAbsent
	default:
		return dto.SessionUnknown
	}
}

// parseInteger truncates numbers and reads the leading integer of strings
// ("1", " 0 ", "1st"). Anything else does not parse.
func parseInteger(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(math.Trunc(t)), true
	case int:
		return int64(t), true
	case int64:
		return t, true
	case json.Number:
		return leadingInteger(t.String())
	case string:
		return leadingInteger(t)
	default:
		return 0, false
	}
}

func leadingInteger(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func percentage(v any) float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case json.Number:
		f, _ = t.Float64()
	case string:
		f, _ = strconv.ParseFloat(strings.TrimSpace(t), 64)
	case bool:
		if t {
			f = 1
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
