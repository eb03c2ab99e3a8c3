package leave

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/warp/timekeeper/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// INPUT VALIDATION
// =============================================================================

// RequestInput is a leave request as submitted by an employee.
type RequestInput struct {
	StartDate string         `json:"startDate" validate:"required"`
	EndDate   string         `json:"endDate" validate:"required"`
	Type      core.LeaveType `json:"type" validate:"required,leavetype"`
	Reason    string         `json:"reason" validate:"max=1000"`
}

// ValidatedRequest is a RequestInput with dates resolved to UTC midnight.
type ValidatedRequest struct {
	StartDate time.Time
	EndDate   time.Time
	Type      core.LeaveType
	Reason    string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("leavetype", func(fl validator.FieldLevel) bool {
		return core.IsKnownLeaveType(core.LeaveType(fl.Field().String()))
	})
	return v
}

// ValidateRequest checks field presence, the leave type, date formats and
// start <= end. Every failing field is reported in Details["errors"].
func ValidateRequest(in RequestInput) (ValidatedRequest, error) {
	fieldErrors := map[string][]string{}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return ValidatedRequest{}, err
		}
		for _, fe := range verrs {
			fieldErrors[fe.Field()] = append(fieldErrors[fe.Field()], fieldMessage(fe))
		}
	}

	var start, end time.Time
	if in.StartDate != "" {
		d, err := ParseDate(in.StartDate)
		if err != nil {
			fieldErrors["startDate"] = append(fieldErrors["startDate"], "Invalid start date")
		}
		start = d
	}
	if in.EndDate != "" {
		d, err := ParseDate(in.EndDate)
		if err != nil {
			fieldErrors["endDate"] = append(fieldErrors["endDate"], "Invalid end date")
		}
		end = d
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		fieldErrors["endDate"] = append(fieldErrors["endDate"], "Start date must be before or equal to end date")
	}

	if len(fieldErrors) > 0 {
		return ValidatedRequest{}, &core.ValidationError{
			Message: "Invalid leave request data",
			Details: map[string]any{"errors": fieldErrors},
		}
	}

	return ValidatedRequest{
		StartDate: start,
		EndDate:   end,
		Type:      in.Type,
		Reason:    strings.TrimSpace(in.Reason),
	}, nil
}

// fieldMessage turns a validator failure into "Start Date is required" style text.
func fieldMessage(fe validator.FieldError) string {
	name := cases.Title(language.English).String(splitCamel(fe.Field()))
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "leavetype":
		return name + " must be one of " + joinLeaveTypes()
	case "max":
		return name + " is too long"
	default:
		return name + " is invalid"
	}
}

func splitCamel(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func joinLeaveTypes() string {
	types := core.LeaveTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// ParseDate accepts YYYY-MM-DD or an RFC 3339 timestamp and returns UTC
// midnight of that calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(core.DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, core.ErrInvalidDate
	}
	return core.DateOf(t).Time, nil
}

// DateRangesOverlap reports whether [start1, end1] and [start2, end2] share
// at least one instant.
func DateRangesOverlap(start1, end1, start2, end2 time.Time) bool {
	return !start1.After(end2) && !end1.Before(start2)
}
