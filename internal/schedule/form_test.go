package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewFormNormalizesTimes(t *testing.T) {
	form, err := NewForm("Mixer", "Networking night", day(2025, 1, 1), "6:00 PM", "9:30 PM")
	require.NoError(t, err)
	assert.Equal(t, "18:00", form.StartTime)
	assert.Equal(t, "21:30", form.EndTime)
	assert.Equal(t, day(2025, 1, 1), form.EndDate)
}

func TestApplyEndTimePastMidnightRollsEndDate(t *testing.T) {
	form, err := NewForm("Gala", "", day(2025, 1, 1), "10:00", "12:00")
	require.NoError(t, err)
	require.Equal(t, day(2025, 1, 1), form.EndDate)

	next, err := form.Apply(FieldEndTime, "02:00")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 1, 2), next.EndDate)
	assert.Equal(t, "02:00", next.EndTime)
	// original form is untouched
	assert.Equal(t, day(2025, 1, 1), form.EndDate)
}

func TestApplyEndTimeBackBeforeMidnightRestoresEndDate(t *testing.T) {
	form, err := NewForm("Gala", "", day(2025, 1, 1), "22:00", "02:00")
	require.NoError(t, err)
	require.Equal(t, day(2025, 1, 2), form.EndDate)

	next, err := form.Apply(FieldEndTime, "23:30")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 1, 1), next.EndDate)
}

func TestApplyStartDateKeepsDerivedEndDate(t *testing.T) {
	form, err := NewForm("Gala", "", day(2025, 1, 1), "23:00", "01:00")
	require.NoError(t, err)

	next, err := form.Apply(FieldStartDate, "2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 10), next.StartDate)
	assert.Equal(t, day(2025, 3, 11), next.EndDate)

	next, err = next.Apply(FieldEndTime, "23:45")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 10), next.EndDate)
}

func TestApplyAcceptsDisplayFormTimes(t *testing.T) {
	form, err := NewForm("Gala", "", day(2025, 1, 1), "10:00", "12:00")
	require.NoError(t, err)

	next, err := form.Apply(FieldStartTime, "9:15 PM")
	require.NoError(t, err)
	assert.Equal(t, "21:15", next.StartTime)
}

func TestApplyPlainFieldsSkipRecomputation(t *testing.T) {
	form, err := NewForm("Gala", "", day(2025, 1, 1), "22:00", "02:00")
	require.NoError(t, err)

	next, err := form.Apply(FieldName, "Winter Gala")
	require.NoError(t, err)
	assert.Equal(t, "Winter Gala", next.Name)
	assert.Equal(t, form.EndDate, next.EndDate)

	next, err = next.Apply(FieldDescription, "Annual fundraiser")
	require.NoError(t, err)
	assert.Equal(t, "Annual fundraiser", next.Description)
}

func TestApplyRejectsMalformedValues(t *testing.T) {
	form, err := NewForm("Gala", "", day(2025, 1, 1), "10:00", "12:00")
	require.NoError(t, err)

	_, err = form.Apply(FieldStartTime, "25:99")
	assert.Error(t, err)

	_, err = form.Apply(FieldStartDate, "10-03-2025")
	assert.Error(t, err)

	_, err = form.Apply(Field("endDate"), "2025-03-10")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	form, err := NewForm("Gala", "", day(2025, 1, 1), "22:00", "02:00")
	require.NoError(t, err)
	assert.NoError(t, form.Validate())

	form, err = NewForm("Gala", "", day(2025, 1, 1), "10:00", "10:00")
	require.NoError(t, err)
	assert.Error(t, form.Validate())
}
