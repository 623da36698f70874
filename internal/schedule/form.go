package schedule

import (
	"fmt"
	"time"
)

// Field names an editable attribute of an event form.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldStartDate   Field = "startDate"
	FieldStartTime   Field = "startTime"
	FieldEndTime     Field = "endTime"
)

// Form is the state of an event create/edit form. The end date is derived:
// whenever the start date or either time changes, it is recomputed through
// ResolveEndDate so a midnight-crossing time pair always lands the end date on
// the following day. It is never set directly.
type Form struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	StartTime   string
	EndTime     string
}

// NewForm builds a form from stored event attributes, normalizing both times
// to the canonical 24-hour representation and deriving the end date.
func NewForm(name, description string, startDate time.Time, startTime, endTime string) (Form, error) {
	start, err := Ensure24Hour(startTime)
	if err != nil {
		return Form{}, err
	}
	end, err := Ensure24Hour(endTime)
	if err != nil {
		return Form{}, err
	}
	f := Form{
		Name:        name,
		Description: description,
		StartDate:   startDate,
		StartTime:   start,
		EndTime:     end,
	}
	f.EndDate, err = ResolveEndDate(f.StartDate, f.StartTime, f.EndTime)
	if err != nil {
		return Form{}, err
	}
	return f, nil
}

// Apply is the pure transition applied on each field edit. It returns the
// next form state, re-deriving the end date for time and start-date changes
// and leaving every other field update untouched.
func (f Form) Apply(field Field, value string) (Form, error) {
	next := f
	switch field {
	case FieldName:
		next.Name = value
		return next, nil
	case FieldDescription:
		next.Description = value
		return next, nil
	case FieldStartTime, FieldEndTime:
		clock, err := Ensure24Hour(value)
		if err != nil {
			return f, err
		}
		if field == FieldStartTime {
			next.StartTime = clock
		} else {
			next.EndTime = clock
		}
	case FieldStartDate:
		parsed, err := time.Parse(DateLayout, value)
		if err != nil {
			return f, &ParseError{Input: value, Reason: "expected YYYY-MM-DD"}
		}
		next.StartDate = parsed
	default:
		return f, fmt.Errorf("unknown form field %q", field)
	}

	endDate, err := ResolveEndDate(next.StartDate, next.StartTime, next.EndTime)
	if err != nil {
		return f, err
	}
	next.EndDate = endDate
	return next, nil
}

// Validate checks the schedule invariant: the form's end instant must be
// strictly after its start instant.
func (f Form) Validate() error {
	ok, err := EndsAfterStart(f.StartDate, f.EndDate, f.StartTime, f.EndTime)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("event ending %s %s does not end after it starts", f.EndDate.Format(DateLayout), f.EndTime)
	}
	return nil
}
