package dialogue

const (
	msgWelcome      = "Welcome! I'm your Medical Assistant. How can I help you today?"
	msgOptions      = "1. Book Appointment\n2. Reschedule\n3. Cancel\n4. Medical Info\n5. Exit"
	msgMenuRetry    = "Sorry, I didn't catch that. Please choose one of the options:"
	msgGoodbye      = "Goodbye! Take care."
	msgAnythingElse = "Is there anything else I can help you with?"

	msgAskMedical     = "Which condition or disease would you like to know about?"
	msgMedicalFailure = "I can't look that up right now. For questions about a condition, please consult a doctor."

	msgConfirmYesNo   = "Please say yes to confirm the booking or no to discard it."
	msgBookingFailed  = "We could not complete your booking right now. Your details are saved, so please try confirming again in a moment."
	msgBookingDropped = "Okay, I have discarded this booking."
	msgCheckFailed    = "I couldn't check the doctor's availability right now. Please try again in a moment."

	msgNoAppointments   = "I couldn't find any appointments for %s."
	msgLookupFailed     = "I couldn't look up your appointments right now. Please try again in a moment."
	msgAskCancelPick    = "Which appointment would you like to cancel? Say the number."
	msgAskReschedPick   = "Which appointment would you like to reschedule? Say the number."
	msgPickRange        = "Please say a number between 1 and %d."
	msgCancelled        = "Your appointment %s has been cancelled."
	msgCancelFailed     = "I couldn't cancel that appointment right now. Please try again."
	msgAskNewDate       = "What new date would you like?"
	msgAskNewTime       = "What new time would you prefer?"
	msgRescheduled      = "Your appointment %s has been moved to %s at %s."
	msgRescheduleFailed = "I couldn't move that appointment right now. Please try again."

	msgSlotTaken = "%s already has an appointment close to %s on %s. Please choose a time at least %d minutes apart."
	msgEmptyTurn = "I didn't get any input. Could you say that again?"
)

var stepPrompts = map[Step]string{
	StepName:     "What is your full name?",
	StepEmail:    "What is your email address?",
	StepMobile:   "What is your mobile number? Please speak only digits.",
	StepAge:      "What is your age?",
	StepGender:   "What is your gender? Male, Female, or Transgender?",
	StepSymptoms: "Please describe the symptoms you are experiencing.",
	StepDate:     "On which date would you like to visit?",
	StepTime:     "At what time would you prefer your appointment?",
	StepConfirm:  "Do you want to confirm this booking? Say yes or no.",

	StepRescheduleEmail:  "What is the email address you booked with?",
	StepCancelEmail:      "What is the email address you booked with?",
	StepRescheduleSelect: msgAskReschedPick,
	StepRescheduleDate:   msgAskNewDate,
	StepRescheduleTime:   msgAskNewTime,
	StepCancelSelect:     msgAskCancelPick,
	StepMedicalInfo:      msgAskMedical,
	StepMenu:             msgOptions,
}
