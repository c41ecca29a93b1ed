// Package timeparse converts the aggregator's embedded script literals
// and the publisher's localized date strings into normalized times.
package timeparse

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Publisher timestamps are fixed to China Standard Time.
var cst = time.FixedZone("CST", 8*60*60)

const dateLayout = "2006年1月2日"

// ParseError reports a malformed localized date string.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse date %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EpochLiteral extracts the quoted Unix epoch from a script call such
// as document.write(timeConvert('1474348154')). The literal is absent
// far more often than malformed, so anything but exactly three
// quote-delimited segments means "no value", not an error.
func EpochLiteral(s string) (time.Time, bool) {
	parts := strings.Split(s, "'")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	epoch, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(epoch, 0).In(cst), true
}

// Date parses a localized publication date such as 2017年11月28日.
// Single-digit months and days are accepted.
func Date(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Err: err}
	}
	return t, nil
}
