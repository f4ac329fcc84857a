package records

import "time"

// IsFirstSundayOfMonth reports whether d is a Sunday falling on day 1-7.
// Unparsable dates are never first Sundays.
func IsFirstSundayOfMonth(d Date) bool {
	t, ok := d.Time()
	if !ok {
		return false
	}
	return t.Weekday() == time.Sunday && t.Day() <= 7
}

// MeetingTypeFor returns the sacrament meeting layout used on d.
func MeetingTypeFor(d Date) MeetingType {
	if IsFirstSundayOfMonth(d) {
		return MeetingTestimony
	}
	return MeetingRegular
}

// Derive recomputes the fields that are a function of other fields. The
// stored values are overwritten, never trusted.
func Derive(r Record) {
	if s, ok := r.(*Sacramental); ok {
		s.MeetingType = MeetingTypeFor(s.Date)
	}
}
