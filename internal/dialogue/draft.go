package dialogue

import (
	"strconv"
	"strings"

	"github.com/wolfman30/medbook-assistant/internal/bookings"
)

// Draft is an appointment under construction. Empty strings and a zero Age mean unset.
type Draft struct {
	Name       string   `json:"name,omitempty"`
	Email      string   `json:"email,omitempty"`
	Mobile     string   `json:"mobile,omitempty"`
	Age        int      `json:"age,omitempty"`
	Gender     string   `json:"gender,omitempty"`
	Symptoms   string   `json:"symptoms,omitempty"`
	Specialty  string   `json:"specialty,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
	Doctor     string   `json:"doctor,omitempty"`
	Date       string   `json:"date,omitempty"`
	Time       string   `json:"time,omitempty"`
}

func set(v string) bool {
	return strings.TrimSpace(v) != ""
}

// IsSet reports whether the slot collected by step holds a value.
func (d Draft) IsSet(step Step) bool {
	switch step {
	case StepName:
		return set(d.Name)
	case StepEmail:
		return set(d.Email)
	case StepMobile:
		return set(d.Mobile)
	case StepAge:
		return d.Age > 0
	case StepGender:
		return set(d.Gender)
	case StepSymptoms:
		return set(d.Symptoms)
	case StepSelectDoc:
		return set(d.Doctor)
	case StepDate:
		return set(d.Date)
	case StepTime:
		return set(d.Time)
	}
	return false
}

// Complete reports whether all nine required slots are set.
func (d Draft) Complete() bool {
	return NextStep(d) == StepConfirm
}

// NextStep returns the step for the first unset slot, or StepConfirm when the
// draft is complete. It depends only on which slots are set.
func NextStep(d Draft) Step {
	for _, step := range fieldOrder {
		if !d.IsSet(step) {
			return step
		}
	}
	return StepConfirm
}

// Merge copies every set slot of p into d where d's slot is unset and returns
// the steps that were filled. Slots already in d are never overwritten.
func (d *Draft) Merge(p Draft) []Step {
	var filled []Step
	fill := func(step Step, dst *string, v string) {
		if !set(*dst) && set(v) {
			*dst = v
			filled = append(filled, step)
		}
	}
	fill(StepName, &d.Name, p.Name)
	fill(StepEmail, &d.Email, p.Email)
	fill(StepMobile, &d.Mobile, p.Mobile)
	if d.Age <= 0 && p.Age > 0 {
		d.Age = p.Age
		filled = append(filled, StepAge)
	}
	fill(StepGender, &d.Gender, p.Gender)
	fill(StepSymptoms, &d.Symptoms, p.Symptoms)
	fill(StepDate, &d.Date, p.Date)
	fill(StepTime, &d.Time, p.Time)
	return filled
}

// Appointment converts a complete draft into a booking record.
func (d Draft) Appointment() bookings.Appointment {
	return bookings.Appointment{
		Name:            d.Name,
		Email:           d.Email,
		Mobile:          d.Mobile,
		Age:             d.Age,
		Gender:          d.Gender,
		Symptoms:        d.Symptoms,
		Doctor:          d.Doctor,
		AppointmentDate: d.Date,
		AppointmentTime: d.Time,
	}
}

// Summary renders the draft for the confirmation prompt.
func (d Draft) Summary() string {
	var b strings.Builder
	b.WriteString("Please review your appointment:\n")
	b.WriteString("- Name: " + d.Name + "\n")
	b.WriteString("- Email: " + d.Email + "\n")
	b.WriteString("- Mobile: " + d.Mobile + "\n")
	b.WriteString("- Age: " + strconv.Itoa(d.Age) + "\n")
	b.WriteString("- Gender: " + d.Gender + "\n")
	b.WriteString("- Symptoms: " + d.Symptoms + "\n")
	b.WriteString("- Doctor: " + d.Doctor + "\n")
	b.WriteString("- Date: " + d.Date + "\n")
	b.WriteString("- Time: " + d.Time)
	return b.String()
}
