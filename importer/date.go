package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"obracusto/internal/timeutil"
)

const serialDateThreshold = 40000

var (
	dayMonthYearPattern = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	yearMonthDayPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})`)
)

// Layouts tried after the regional patterns and serial dates.
var genericDateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/1/2",
	"02.01.2006",
	"2.1.2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006 15:04:05 MST",
	time.RFC1123Z,
}

// NormalizeDate converts a raw due-date cell into YYYY-MM-DD. It never fails:
// anything it cannot interpret becomes the calendar date of now. Numbers up
// to serialDateThreshold are not dates; numbers past 9999-12-31 go on to the
// generic layouts.
//
// Day/month/year and year/month/day patterns are only matched, not range
// checked, so "32/13/2024" yields "2024-13-32".
func NormalizeDate(cell Cell, now time.Time) string {
	today := timeutil.FormatISODate(now)
	if cell.IsEmpty() {
		return today
	}

	text := strings.TrimSpace(cell.Text)
	if !cell.IsNumber {
		if match := dayMonthYearPattern.FindStringSubmatch(text); match != nil {
			return formatDateParts(match[3], match[2], match[1])
		}
		if match := yearMonthDayPattern.FindStringSubmatch(text); match != nil {
			return formatDateParts(match[1], match[2], match[3])
		}
	}

	if serial, ok := cellNumber(cell, text); ok {
		if serial <= serialDateThreshold {
			return today
		}
		if timeutil.IsSpreadsheetSerial(serial) {
			return timeutil.FormatISODate(timeutil.FromSpreadsheetSerial(serial))
		}
	}

	for _, layout := range genericDateLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return timeutil.FormatISODate(parsed)
		}
	}

	return today
}

func cellNumber(cell Cell, text string) (float64, bool) {
	if cell.IsNumber {
		return cell.Number, true
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func formatDateParts(year, month, day string) string {
	return fmt.Sprintf("%s-%s-%s", year, padTwo(month), padTwo(day))
}

func padTwo(value string) string {
	if len(value) < 2 {
		return "0" + value
	}
	return value
}
