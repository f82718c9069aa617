package timeutil

import (
	"math"
	"time"
)

// ISODate is the canonical calendar-date layout.
const ISODate = "2006-01-02"

// Days between the spreadsheet serial-date epoch and the Unix epoch.
const spreadsheetEpochOffset = 25569

// MaxSpreadsheetSerial is the serial of 9999-12-31.
const MaxSpreadsheetSerial = 2958465

// Clock returns the current time. Callers inject it so "today" is testable.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

func FormatISODate(value time.Time) string {
	return value.Format(ISODate)
}

// IsSpreadsheetSerial reports whether serial is a finite serial date whose
// calendar year has four digits. NaN is rejected.
func IsSpreadsheetSerial(serial float64) bool {
	if !(serial >= 1 && serial < MaxSpreadsheetSerial+1) {
		return false
	}
	return serialSeconds(serial) < (MaxSpreadsheetSerial+1-spreadsheetEpochOffset)*86400
}

// FromSpreadsheetSerial converts a spreadsheet serial date (days since the
// 1900 epoch, fraction = time of day) into a UTC time. Callers check
// IsSpreadsheetSerial first; out-of-range values overflow.
func FromSpreadsheetSerial(serial float64) time.Time {
	return time.Unix(int64(serialSeconds(serial)), 0).UTC()
}

func serialSeconds(serial float64) float64 {
	return math.Round((serial - spreadsheetEpochOffset) * 86400)
}

// ToSpreadsheetSerial is the inverse of FromSpreadsheetSerial for calendar
// dates.
func ToSpreadsheetSerial(value time.Time) float64 {
	day := time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
	return float64(day.Unix())/86400 + spreadsheetEpochOffset
}
