package service

import (
	"fmt"
	"time"

	"github.com/baladia/fieldops-api/internal/models"
	"github.com/baladia/fieldops-api/pkg/config"
)

// effectiveSchedule resolves the schedule applied to a worker: user override
// first, then the municipality schedule, then configured defaults. Partial
// overrides are allowed per field.
func effectiveSchedule(user *models.User, m *models.Municipality, defaults config.ScheduleConfig) models.WorkSchedule {
	ws := models.WorkSchedule{
		Start:        defaults.DefaultStart,
		End:          defaults.DefaultEnd,
		GraceMinutes: defaults.DefaultGraceMinutes,
	}
	if m != nil {
		if m.WorkStart != nil {
			ws.Start = *m.WorkStart
		}
		if m.WorkEnd != nil {
			ws.End = *m.WorkEnd
		}
		if m.GraceMinutes != nil {
			ws.GraceMinutes = *m.GraceMinutes
		}
	}
	if user != nil {
		if user.WorkStart != nil {
			ws.Start = *user.WorkStart
		}
		if user.WorkEnd != nil {
			ws.End = *user.WorkEnd
		}
		if user.GraceMinutes != nil {
			ws.GraceMinutes = *user.GraceMinutes
		}
	}
	return ws
}

// scheduleBounds anchors the schedule onto a calendar day, returning the
// shift start, the end of the grace window and the shift end.
func scheduleBounds(day time.Time, ws models.WorkSchedule) (start, graceEnd, end time.Time, err error) {
	start, err = atClock(day, ws.Start)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}
	end, err = atClock(day, ws.End)
	if err != nil {
		return time.Time{}, time.Time{}, time.Time{}, err
	}
	graceEnd = start.Add(time.Duration(ws.GraceMinutes) * time.Minute)
	return start, graceEnd, end, nil
}

func atClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse schedule time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

// lateness classifies a check-in against the grace window. Minutes count
// from the end of grace, not from the shift start.
func lateness(checkIn, graceEnd time.Time) (models.AttendanceType, int) {
	if checkIn.After(graceEnd) {
		return models.AttendanceLate, int(checkIn.Sub(graceEnd).Minutes())
	}
	return models.AttendanceOnTime, 0
}

// checkOutClassification resolves the final session type. Priority when
// several conditions hold: Late > EarlyLeave > Overtime > OnTime.
func checkOutClassification(current models.AttendanceType, checkOut, end time.Time) (models.AttendanceType, int, int) {
	earlyLeave := 0
	overtime := 0
	if checkOut.Before(end) {
		earlyLeave = int(end.Sub(checkOut).Minutes())
	} else if checkOut.After(end) {
		overtime = int(checkOut.Sub(end).Minutes())
	}

	if current == models.AttendanceLate {
		return models.AttendanceLate, earlyLeave, overtime
	}
	if earlyLeave > 0 {
		return models.AttendanceEarlyLeave, earlyLeave, overtime
	}
	if overtime > 0 {
		return models.AttendanceOvertime, earlyLeave, overtime
	}
	return models.AttendanceOnTime, 0, 0
}
