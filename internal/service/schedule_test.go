package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baladia/fieldops-api/internal/models"
)

func TestEffectiveScheduleOverridePrecedence(t *testing.T) {
	mStart, mGrace := "07:00", 30
	m := &models.Municipality{ID: "m1", WorkStart: &mStart, GraceMinutes: &mGrace}

	uStart := "09:00"
	user := workerUser()
	user.WorkStart = &uStart

	ws := effectiveSchedule(user, m, testSchedule())
	// User beats municipality, municipality beats defaults, defaults fill
	// the rest.
	assert.Equal(t, "09:00", ws.Start)
	assert.Equal(t, "16:00", ws.End)
	assert.Equal(t, 30, ws.GraceMinutes)
}

func TestEffectiveScheduleDefaultsOnly(t *testing.T) {
	ws := effectiveSchedule(nil, nil, testSchedule())
	assert.Equal(t, models.WorkSchedule{Start: "08:00", End: "16:00", GraceMinutes: 15}, ws)
}

func TestScheduleBounds(t *testing.T) {
	day := at("00:00")
	start, graceEnd, end, err := scheduleBounds(day, models.WorkSchedule{Start: "08:00", End: "16:00", GraceMinutes: 15})
	require.NoError(t, err)
	assert.Equal(t, at("08:00"), start)
	assert.Equal(t, at("08:15"), graceEnd)
	assert.Equal(t, at("16:00"), end)
}

func TestScheduleBoundsBadClock(t *testing.T) {
	_, _, _, err := scheduleBounds(at("00:00"), models.WorkSchedule{Start: "8am", End: "16:00"})
	require.Error(t, err)
}

func TestLatenessCountsFromGraceEnd(t *testing.T) {
	graceEnd := at("08:15")

	typ, minutes := lateness(at("08:15"), graceEnd)
	assert.Equal(t, models.AttendanceOnTime, typ)
	assert.Zero(t, minutes)

	typ, minutes = lateness(at("08:20"), graceEnd)
	assert.Equal(t, models.AttendanceLate, typ)
	assert.Equal(t, 5, minutes)
}

func TestCheckOutClassificationPriority(t *testing.T) {
	end := at("16:00")

	// Late sticks even when the worker also leaves early or stays over.
	typ, early, over := checkOutClassification(models.AttendanceLate, at("15:00"), end)
	assert.Equal(t, models.AttendanceLate, typ)
	assert.Equal(t, 60, early)
	assert.Zero(t, over)

	typ, early, over = checkOutClassification(models.AttendanceLate, at("17:00"), end)
	assert.Equal(t, models.AttendanceLate, typ)
	assert.Zero(t, early)
	assert.Equal(t, 60, over)

	typ, early, _ = checkOutClassification(models.AttendanceOnTime, at("15:30"), end)
	assert.Equal(t, models.AttendanceEarlyLeave, typ)
	assert.Equal(t, 30, early)

	typ, _, over = checkOutClassification(models.AttendanceOnTime, at("16:45"), end)
	assert.Equal(t, models.AttendanceOvertime, typ)
	assert.Equal(t, 45, over)

	typ, early, over = checkOutClassification(models.AttendanceOnTime, end, end)
	assert.Equal(t, models.AttendanceOnTime, typ)
	assert.Zero(t, early)
	assert.Zero(t, over)
}
