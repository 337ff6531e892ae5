package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateJoinedLayout is the en-US short date form used for Date Joined (e.g. 2/14/2026)
const DateJoinedLayout = "1/2/2006"

// Columns is the fixed header order of the destination sheet
var Columns = []string{
	"First Name",
	"Last Name",
	"Business Email",
	"LinkedIn URL",
	"Company",
	"Job Title",
	"Date Joined",
}

// ErrNullBody is returned when a submission body is the JSON literal null
var ErrNullBody = errors.New("submission body must not be null")

// Submission is a single member registration captured by the site form
type Submission struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	LinkedInURL string `json:"linkedin_url"`
	Company     string `json:"company"`
	JobTitle    string `json:"job_title"`
	DateJoined  string `json:"date_joined"`
}

// ParseSubmission decodes a raw request body. Every field is optional; values
// are coerced with the form's falsy semantics so null, false, 0 and "" all
// become an empty cell. Arrays and scalars carry no fields and yield an
// all-empty submission; only null is rejected.
func ParseSubmission(raw []byte) (*Submission, error) {
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, ErrNullBody
	}
	fields, _ := body.(map[string]any)

	return &Submission{
		FirstName:   cellText(fields["first_name"]),
		LastName:    cellText(fields["last_name"]),
		Email:       cellText(fields["email"]),
		LinkedInURL: cellText(fields["linkedin_url"]),
		Company:     cellText(fields["company"]),
		JobTitle:    cellText(fields["job_title"]),
		DateJoined:  cellText(fields["date_joined"]),
	}, nil
}

// Row serializes the submission into the 7 cells of Columns. An empty
// DateJoined is replaced with now in DateJoinedLayout.
func (s *Submission) Row(now time.Time) []string {
	dateJoined := s.DateJoined
	if dateJoined == "" {
		dateJoined = now.Format(DateJoinedLayout)
	}
	return []string{
		s.FirstName,
		s.LastName,
		s.Email,
		s.LinkedInURL,
		s.Company,
		s.JobTitle,
		dateJoined,
	}
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
		return "true"
	case float64:
		if val == 0 {
			return ""
		}
		return numberText(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	}
}

// numberText renders v the way JavaScript's String(number) does: plain
// decimal inside [1e-6, 1e21), exponent form with an unpadded exponent outside.
func numberText(v float64) string {
	if abs := math.Abs(v); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	mantissa, exp, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, 64), "e")
	return mantissa + "e" + exp[:1] + strings.TrimLeft(exp[1:], "0")
}
