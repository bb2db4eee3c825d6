package research

import (
	"fmt"
	"time"
)

var monthsByName = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
}

// nearFiscalYearEnd reports whether now falls in the month of the fiscal
// year end or an adjacent month. Projections near the boundary widen their
// quarterly history and shorten the annual history so the model sees the
// transition quarters.
func nearFiscalYearEnd(fiscalYearEnd string, now time.Time) bool {
	fyMonth, ok := monthsByName[fiscalYearEnd]
	if !ok {
		return false
	}
	cur := int(now.Month())
	fy := int(fyMonth)
	diff := (cur - fy + 12) % 12
	return diff <= 1 || diff == 11
}

// latestTranscriptQuarter returns the most recent fiscal quarter, in
// YYYYQN form, whose earnings call has plausibly happened by now. Calls
// lag quarter ends, so the current calendar quarter is never used.
func latestTranscriptQuarter(now time.Time) string {
	year := now.Year()
	switch {
	case now.Month() <= time.March:
		return fmt.Sprintf("%dQ4", year-1)
	case now.Month() <= time.June:
		return fmt.Sprintf("%dQ1", year)
	case now.Month() <= time.September:
		return fmt.Sprintf("%dQ2", year)
	default:
		return fmt.Sprintf("%dQ3", year)
	}
}

// previousQuarter steps a YYYYQN quarter back by one.
func previousQuarter(quarter string) string {
	var year, q int
	if _, err := fmt.Sscanf(quarter, "%dQ%d", &year, &q); err != nil {
		return quarter
	}
	q--
	if q < 1 {
		q = 4
		year--
	}
	return fmt.Sprintf("%dQ%d", year, q)
}
