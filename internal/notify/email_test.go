package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEmail() Email {
	return Email{
		To:            "patient@example.com",
		ToName:        "Asha Verma",
		Subject:       "Appointment Confirmation - APPT-42",
		Text:          "plain",
		Kind:          "confirmation",
		AppointmentID: "42",
	}
}

type fakeSendGrid struct {
	msg    *mail.SGMailV3
	status int
	err    error
}

func (f *fakeSendGrid) SendWithContext(ctx context.Context, m *mail.SGMailV3) (*rest.Response, error) {
	f.msg = m
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status}, nil
}

func TestNewSendGridSenderNilWithoutAPIKey(t *testing.T) {
	assert.Nil(t, NewSendGridSender("", From{Address: "clinic@example.com"}, nil))
}

func TestSendGridSenderTagsAppointment(t *testing.T) {
	api := &fakeSendGrid{status: 202}
	sender := newSendGridSender(api, From{Address: "clinic@example.com", ReplyTo: "desk@example.com"}, nil)

	require.NoError(t, sender.Send(context.Background(), sampleEmail()))

	m := api.msg
	require.NotNil(t, m)
	assert.Equal(t, defaultFromName, m.From.Name)
	assert.Equal(t, "clinic@example.com", m.From.Address)
	assert.Equal(t, "desk@example.com", m.ReplyTo.Address)
	assert.Equal(t, []string{"appointment", "confirmation"}, m.Categories)
	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "patient@example.com", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "42", m.Personalizations[0].CustomArgs["appointment_id"])
	require.Len(t, m.Content, 1)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "plain", m.Content[0].Value)
}

func TestSendGridSenderErrors(t *testing.T) {
	rejected := newSendGridSender(&fakeSendGrid{status: 400}, From{}, nil)
	assert.ErrorContains(t, rejected.Send(context.Background(), sampleEmail()), "status 400")

	failing := newSendGridSender(&fakeSendGrid{err: errors.New("dial")}, From{}, nil)
	assert.Error(t, failing.Send(context.Background(), sampleEmail()))

	var unset *SendGridSender
	assert.Error(t, unset.Send(context.Background(), sampleEmail()))
}

func TestStubEmailSenderSend(t *testing.T) {
	assert.NoError(t, NewStubEmailSender(nil).Send(context.Background(), sampleEmail()))
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSenderSend(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, From{Address: "clinic@example.com"}, "", nil)

	require.NoError(t, sender.Send(context.Background(), sampleEmail()))

	in := api.input
	assert.Equal(t, "Hospital Management Team <clinic@example.com>", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"patient@example.com"}, in.Destination.ToAddresses)
	assert.Nil(t, in.Content.Simple.Body.Html)
	assert.Equal(t, "plain", aws.ToString(in.Content.Simple.Body.Text.Data))
	assert.Nil(t, in.ConfigurationSetName)
	assert.Empty(t, in.EmailTags)
	assert.Empty(t, in.ReplyToAddresses)
}

func TestSESSenderConfigurationSetTags(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, From{Address: "clinic@example.com", Name: "City Clinic", ReplyTo: "desk@example.com"}, "appointments", nil)
	email := sampleEmail()
	email.AppointmentID = "APPT 7/b"

	require.NoError(t, sender.Send(context.Background(), email))

	in := api.input
	assert.Equal(t, "City Clinic <clinic@example.com>", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, "appointments", aws.ToString(in.ConfigurationSetName))
	assert.Equal(t, []string{"desk@example.com"}, in.ReplyToAddresses)
	tags := map[string]string{}
	for _, tag := range in.EmailTags {
		tags[aws.ToString(tag.Name)] = aws.ToString(tag.Value)
	}
	assert.Equal(t, map[string]string{"kind": "confirmation", "appointment_id": "APPT_7_b"}, tags)
}

func TestSESSenderSendError(t *testing.T) {
	sender := newSESSender(&fakeSES{err: errors.New("throttled")}, From{}, "", nil)
	assert.ErrorContains(t, sender.Send(context.Background(), sampleEmail()), "throttled")
}

func TestNewSESSenderNilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, From{}, "", nil))
}
