package dialogue

// Step is the manager's expectation for the next user input.
type Step string

const (
	StepNone        Step = "none"
	StepMenu        Step = "menu"
	StepName        Step = "name"
	StepEmail       Step = "email"
	StepMobile      Step = "mobile"
	StepAge         Step = "age"
	StepGender      Step = "gender"
	StepSymptoms    Step = "symptoms"
	StepSelectDoc   Step = "select_doctor"
	StepDate        Step = "appointment_date"
	StepTime        Step = "appointment_time"
	StepConfirm     Step = "confirm_appointment"
	StepMedicalInfo Step = "medical_info"

	StepRescheduleEmail  Step = "reschedule_email"
	StepRescheduleSelect Step = "reschedule_select"
	StepRescheduleDate   Step = "reschedule_date"
	StepRescheduleTime   Step = "reschedule_time"
	StepCancelEmail      Step = "cancel_email"
	StepCancelSelect     Step = "cancel_select"
)

// fieldOrder is the order in which booking slots are collected.
var fieldOrder = []Step{
	StepName, StepEmail, StepMobile, StepAge, StepGender,
	StepSymptoms, StepSelectDoc, StepDate, StepTime,
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	switch s {
	case StepNone, StepMenu, StepName, StepEmail, StepMobile, StepAge, StepGender,
		StepSymptoms, StepSelectDoc, StepDate, StepTime, StepConfirm, StepMedicalInfo,
		StepRescheduleEmail, StepRescheduleSelect, StepRescheduleDate, StepRescheduleTime,
		StepCancelEmail, StepCancelSelect:
		return true
	}
	return false
}

// freeForm reports whether complex input at this step is sent to the extractor.
func (s Step) freeForm() bool {
	switch s {
	case StepNone, StepMenu, StepMedicalInfo,
		StepRescheduleSelect, StepRescheduleDate, StepRescheduleTime, StepCancelSelect:
		return false
	}
	return s.Valid()
}

// bookingField reports whether the step collects a draft slot.
func (s Step) bookingField() bool {
	for _, f := range fieldOrder {
		if f == s {
			return true
		}
	}
	return false
}

// Outcome tags how a turn was resolved.
type Outcome string

const (
	OutcomeAccepted     Outcome = "accepted"
	OutcomeRejected     Outcome = "rejected"
	OutcomeUnrecognized Outcome = "unrecognized"
	OutcomeBooked       Outcome = "booked"
	OutcomeFailed       Outcome = "failed"
	OutcomeCancelled    Outcome = "cancelled"
	OutcomeRescheduled  Outcome = "rescheduled"
	OutcomeExited       Outcome = "exited"
)
