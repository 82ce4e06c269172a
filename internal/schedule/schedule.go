package schedule

import "time"

// Window describes where an order sits relative to its edit deadline and pickup.
type Window string

const (
	WindowOpen   Window = "OPEN"
	WindowLocked Window = "LOCKED"
	WindowPast   Window = "PAST"
)

// Schedule is the fixed weekly ordering cycle: orders are picked up on
// PickupWeekday and may be edited until DeadlineWeekday at
// DeadlineHour:DeadlineMinute of the same cycle.
//
// All comparisons run on absolute instants; calendar fields are computed in
// Location at call time and never cached, so zone changes take effect on the
// next call.
type Schedule struct {
	PickupWeekday   time.Weekday
	DeadlineWeekday time.Weekday
	DeadlineHour    int
	DeadlineMinute  int
	Location        *time.Location
}

func (s Schedule) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// EditDeadline returns the most recent occurrence of the deadline weekday at
// the configured time that falls strictly before pickup. For any pickup on the
// pickup weekday the result lies within the same weekly cycle.
func (s Schedule) EditDeadline(pickup time.Time) time.Time {
	loc := s.location()
	local := pickup.In(loc)

	daysBack := int(local.Weekday()-s.DeadlineWeekday+7) % 7
	candidate := time.Date(local.Year(), local.Month(), local.Day()-daysBack,
		s.DeadlineHour, s.DeadlineMinute, 0, 0, loc)
	if !candidate.Before(pickup) {
		candidate = candidate.AddDate(0, 0, -7)
	}
	return candidate
}

// CanEdit reports whether an order for the given pickup may still be modified.
func (s Schedule) CanEdit(pickup, now time.Time) bool {
	return now.Before(s.EditDeadline(pickup))
}

// WindowStatus classifies now against the deadline and the pickup instant.
func (s Schedule) WindowStatus(pickup, now time.Time) Window {
	switch {
	case now.Before(s.EditDeadline(pickup)):
		return WindowOpen
	case now.Before(pickup):
		return WindowLocked
	default:
		return WindowPast
	}
}

// TimeUntilDeadline returns the remaining edit window, zero once it has passed.
func (s Schedule) TimeUntilDeadline(pickup, now time.Time) time.Duration {
	remaining := s.EditDeadline(pickup).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NextPickup returns the start of the nearest pickup day: today if now falls on
// the pickup weekday, otherwise the next occurrence.
func (s Schedule) NextPickup(now time.Time) time.Time {
	loc := s.location()
	local := now.In(loc)

	daysAhead := int(s.PickupWeekday-local.Weekday()+7) % 7
	return time.Date(local.Year(), local.Month(), local.Day()+daysAhead, 0, 0, 0, 0, loc)
}

// IsCurrentCycle reports whether pickup is the nearest occurrence of the pickup
// weekday relative to now. Today's pickup still counts while now is before the
// pickup instant itself.
func (s Schedule) IsCurrentCycle(pickup, now time.Time) bool {
	loc := s.location()
	localPickup := pickup.In(loc)
	localNow := now.In(loc)

	daysAhead := int(s.PickupWeekday-localNow.Weekday()+7) % 7
	candidate := time.Date(localNow.Year(), localNow.Month(), localNow.Day()+daysAhead, 0, 0, 0, 0, loc)
	if daysAhead == 0 && !now.Before(pickup) {
		candidate = candidate.AddDate(0, 0, 7)
	}

	y1, m1, d1 := localPickup.Date()
	y2, m2, d2 := candidate.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// OnPickupWeekday reports whether the instant falls on the configured pickup day.
func (s Schedule) OnPickupWeekday(pickup time.Time) bool {
	return pickup.In(s.location()).Weekday() == s.PickupWeekday
}
