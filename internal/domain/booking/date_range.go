package booking

import (
	"math"
	"time"

	"github.com/driveline/service-rental/internal/domain/shared"
)

// DateRange is an immutable value object holding an inclusive calendar date
// range. Both endpoints are truncated to midnight UTC; time-of-day on the
// inputs is ignored everywhere in the booking domain.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

// NewDateRange builds a DateRange from two dates, truncating both to
// midnight. A range with end before start is rejected; end == start is a
// valid single-day range.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s := TruncateToDay(start)
	e := TruncateToDay(end)
	if e.Before(s) {
		return DateRange{}, shared.NewInvalidRangeError("end date must not be before start date")
	}
	return DateRange{Start: s, End: e}, nil
}

// TruncateToDay drops the time-of-day component, normalizing to midnight UTC.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days returns the inclusive day count of the range: the ceiling of the
// span between the truncated endpoints divided by one day, plus one. A
// single-day range counts as one day; any partial day rounds up to a full
// extra day.
func (r DateRange) Days() int64 {
	span := r.End.Sub(r.Start)
	return int64(math.Ceil(span.Hours()/24)) + 1
}

// Overlaps reports whether two ranges share at least one calendar day.
// The rule is inclusive on both ends: [s1,e1] and [s2,e2] overlap iff
// s1 <= e2 and s2 <= e1. A booking ending on day X conflicts with one
// starting on day X, so back-to-back same-day turnover is not allowed.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// StartsBefore reports whether the range starts strictly before the given
// day (date-only comparison).
func (r DateRange) StartsBefore(day time.Time) bool {
	return r.Start.Before(TruncateToDay(day))
}
