package notify

import (
	"bytes"
	"fmt"
	"text/template"
)

// render compiles tmpl with strict missing-key semantics.
func render(name, tmpl string, data any) (string, error) {
	if tmpl == "" {
		return "", fmt.Errorf("notify: template text required")
	}
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("notify: parse %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("notify: execute %s: %w", name, err)
	}
	return buf.String(), nil
}

// Template is a subject and body pair rendered against appointment data.
type Template struct {
	Subject string
	Body    string
}

var (
	ConfirmationTemplate = Template{
		Subject: "Appointment Confirmation - {{.Reference}}",
		Body: `Hello {{.Name}},

Your medical appointment has been successfully booked.

Details:
- Appointment ID: {{.Reference}}
- Doctor/Specialist: {{.Doctor}}
- Date: {{.Date}}
- Time: {{.Time}}
- Symptoms: {{.Symptoms}}

Thank you for using our AI Medical Assistant. Please arrive 15 minutes early.

Best Regards,
{{.Signature}}`,
	}

	CancellationTemplate = Template{
		Subject: "Appointment Cancelled - {{.Reference}}",
		Body: `Hello {{.Name}},

Your appointment {{.Reference}} with {{.Doctor}} on {{.Date}} at {{.Time}} has been cancelled.

If this was a mistake, you can book again at any time.

Best Regards,
{{.Signature}}`,
	}

	RescheduleTemplate = Template{
		Subject: "Appointment Rescheduled - {{.Reference}}",
		Body: `Hello {{.Name}},

Your appointment {{.Reference}} with {{.Doctor}} has been moved.

New schedule:
- Date: {{.Date}}
- Time: {{.Time}}

Please arrive 15 minutes early.

Best Regards,
{{.Signature}}`,
	}
)
