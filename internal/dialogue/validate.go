package dialogue

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
)

// ValidationError is a user-facing rejection of a slot value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

var (
	ErrInvalidName      = invalid("name", "Invalid name. Name cannot be a single alphabet or start with a numeric value.")
	ErrEmptyEmail       = invalid("email", "Please tell me your email address.")
	ErrMobileNotNumeric = invalid("mobile", "Phone number must be a numeric value.")
	ErrMobileLength     = invalid("mobile", "Invalid mobile number. Must be 10 digits.")
	ErrInvalidAge       = invalid("age", "Age must be a numeric value greater than 0.")
	ErrUnknownGender    = invalid("gender", "Please say Male, Female, or Transgender.")
	ErrUnparseableDate  = invalid("appointment_date", "I couldn't understand that date. Please say it like 2026-02-01 or 01/02/2026.")
	ErrPastDate         = invalid("appointment_date", "That date has already passed. Please choose today or a later date.")
	ErrUnparseableTime  = invalid("appointment_time", "I couldn't understand that time. Please say it like 10:30 AM.")
	ErrPastTime         = invalid("appointment_time", "That time has already passed today. Please choose a later time.")
)

var nonDigits = regexp.MustCompile(`\D`)

// ValidateName trims the name and requires at least two characters not starting with a digit.
func ValidateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len([]rune(name)) < 2 || unicode.IsDigit([]rune(name)[0]) {
		return "", ErrInvalidName
	}
	return name, nil
}

// NormalizeEmail lowercases the address and removes all whitespace. There is
// no format check.
func NormalizeEmail(raw string) (string, error) {
	email := strings.Join(strings.Fields(strings.ToLower(raw)), "")
	if email == "" {
		return "", ErrEmptyEmail
	}
	return email, nil
}

// ValidateMobile strips non-digits and requires exactly ten. Any letter in the
// raw input is rejected as non-numeric.
func ValidateMobile(raw string) (string, error) {
	for _, r := range raw {
		if unicode.IsLetter(r) {
			return "", ErrMobileNotNumeric
		}
	}
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) != 10 {
		return "", ErrMobileLength
	}
	return digits, nil
}

// ValidateAge strips non-digits and requires a positive integer.
func ValidateAge(raw string) (int, error) {
	digits := nonDigits.ReplaceAllString(raw, "")
	age, err := strconv.Atoi(digits)
	if err != nil || age <= 0 {
		return 0, ErrInvalidAge
	}
	return age, nil
}

// ValidateGender maps a spoken or typed answer to Male, Female or Transgender.
// "fem" is checked before "mal" so that "female" is not read as male.
func ValidateGender(raw string) (string, error) {
	g := strings.ToLower(raw)
	switch {
	case strings.Contains(g, "trans"):
		return "Transgender", nil
	case strings.Contains(g, "fem"):
		return "Female", nil
	case strings.Contains(g, "mal"), strings.Contains(g, "mail"):
		return "Male", nil
	}
	return "", ErrUnknownGender
}

var dateLayouts = []string{"2006-1-2", "2-1-2006", "1/2/2006", "2/1/2006"}

// ParseDate tries the fixed layouts in order (ISO, DD-MM-YYYY, MM/DD/YYYY,
// DD/MM/YYYY), with or without zero padding, and returns the ISO date.
func ParseDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(bookings.DateLayout), true
		}
	}
	return "", false
}

// CheckDate rejects ISO dates before today.
func CheckDate(iso string, now time.Time) error {
	d, err := time.Parse(bookings.DateLayout, iso)
	if err != nil {
		return ErrUnparseableDate
	}
	today, _ := time.Parse(bookings.DateLayout, now.Format(bookings.DateLayout))
	if d.Before(today) {
		return ErrPastDate
	}
	return nil
}

var timeLayouts = []string{"3:04pm", "3pm", "15:04"}

// ParseTime accepts 12-hour times with or without minutes, 24-hour times,
// dotted forms like "10.30 pm" and the words noon and midnight. The result uses
// the stored "03:04 PM" layout.
func ParseTime(raw string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, " ", "")
	t = strings.ReplaceAll(t, "a.m.", "am")
	t = strings.ReplaceAll(t, "p.m.", "pm")
	t = strings.ReplaceAll(t, ".", ":")
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, t); err == nil {
			return parsed.Format(bookings.TimeLayout), true
		}
	}
	switch {
	case strings.Contains(t, "noon"):
		return "12:00 PM", true
	case strings.Contains(t, "midnight"):
		return "12:00 AM", true
	}
	return "", false
}

// CheckTime rejects a time earlier than now when the date is today.
func CheckTime(iso, tm string, now time.Time) error {
	parsed, err := time.Parse(bookings.TimeLayout, tm)
	if err != nil {
		return ErrUnparseableTime
	}
	if iso != now.Format(bookings.DateLayout) {
		return nil
	}
	if parsed.Hour()*60+parsed.Minute() < now.Hour()*60+now.Minute() {
		return ErrPastTime
	}
	return nil
}

var (
	bareNumeral     = regexp.MustCompile(`^\d{1,2}$`)
	complexKeywords = []string{"and", "have", "with", "my", "is", "am", "at", "on"}
)

// IsComplex decides whether text likely carries several slots and should go
// through AI extraction instead of the step's deterministic parser.
func IsComplex(text string, step Step) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	switch step {
	case StepSymptoms, StepDate, StepTime:
		if !bareNumeral.MatchString(text) {
			return true
		}
	}
	words := strings.Fields(text)
	if len(words) > 4 {
		return true
	}
	lower := strings.ToLower(text)
	for _, k := range complexKeywords {
		if strings.Contains(lower, k) && len(words) > 2 {
			return true
		}
	}
	return false
}

// Intent is a normalized menu choice.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentBook
	IntentReschedule
	IntentCancel
	IntentMedicalInfo
	IntentExit
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
}

var firstNumber = regexp.MustCompile(`\d+`)

func tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ParseOrdinal returns the first number in text, written as digits or as a word.
func ParseOrdinal(text string) (int, bool) {
	if m := firstNumber.FindString(text); m != "" {
		n, err := strconv.Atoi(m)
		return n, err == nil
	}
	for _, tok := range tokens(text) {
		if n, ok := numberWords[tok]; ok {
			return n, true
		}
	}
	return 0, false
}

// ParseMenu maps digits 1-5, number words and action keywords to an intent.
func ParseMenu(text string) Intent {
	for _, tok := range tokens(text) {
		switch {
		case strings.HasPrefix(tok, "book"):
			return IntentBook
		case strings.HasPrefix(tok, "reschedul"), tok == "move", tok == "change":
			return IntentReschedule
		case strings.HasPrefix(tok, "cancel"):
			return IntentCancel
		case strings.HasPrefix(tok, "medic"), tok == "info", tok == "information", tok == "disease":
			return IntentMedicalInfo
		case tok == "exit", tok == "quit", tok == "bye", tok == "goodbye":
			return IntentExit
		}
	}
	if n, ok := ParseOrdinal(text); ok && n >= 1 && n <= 5 {
		return Intent(n)
	}
	return IntentUnknown
}

type answer int

const (
	answerUnknown answer = iota
	answerYes
	answerNo
)

var (
	yesWords = map[string]bool{"yes": true, "y": true, "yeah": true, "yep": true, "confirm": true, "sure": true, "ok": true, "okay": true, "1": true, "one": true}
	noWords  = map[string]bool{"no": true, "n": true, "nope": true, "cancel": true, "2": true, "two": true, "don't": true, "dont": true}
)

// parseYesNo reads a confirmation answer. Negative words win over positive ones.
func parseYesNo(text string) answer {
	lower := strings.ToLower(text)
	toks := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	result := answerUnknown
	for _, tok := range toks {
		if noWords[tok] {
			return answerNo
		}
		if yesWords[tok] {
			result = answerYes
		}
	}
	return result
}

// SelectDoctor resolves a 1-based ordinal or a case-insensitive name against
// the candidate list. A candidate matches when its full name appears in the
// input, or when the input (without a "Dr." title) is part of its name.
func SelectDoctor(candidates []string, input string) (string, bool) {
	if n, ok := ParseOrdinal(input); ok {
		if n >= 1 && n <= len(candidates) {
			return candidates[n-1], true
		}
	}
	said := " " + normalizeName(input) + " "
	want := doctorKey(input)
	for _, c := range candidates {
		full := normalizeName(c)
		if full == "" {
			continue
		}
		if strings.Contains(said, " "+full+" ") {
			return c, true
		}
		if want != "" && strings.Contains(doctorKey(c), want) {
			return c, true
		}
	}
	return "", false
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(strings.ToLower(name), ".", " ")), " ")
}

// doctorKey drops a leading "dr" or "doctor" title.
func doctorKey(name string) string {
	fields := strings.Fields(normalizeName(name))
	if len(fields) > 0 && (fields[0] == "dr" || fields[0] == "doctor") {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}
