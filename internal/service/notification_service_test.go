package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mintickets/helpdesk/internal/config"
	"github.com/mintickets/helpdesk/internal/domain"
	"github.com/mintickets/helpdesk/internal/events"
	"github.com/mintickets/helpdesk/internal/mail"
)

type captureSender struct {
	sent []mail.Message
	err  error
}

func (s *captureSender) Send(msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func newNotificationFixture(sender mail.Sender) (events.Dispatcher, *NotificationService) {
	dispatcher := events.NewInMemoryDispatcher()
	svc := NewNotificationService(dispatcher, sender, zap.NewNop(),
		config.MailConfig{FromAddress: "mesa@example.com"},
		config.FrontendConfig{BaseURL: "https://mesa.example.com"})
	svc.RegisterHandlers()
	return dispatcher, svc
}

func sampleTicket() domain.Ticket {
	return domain.Ticket{
		ID:              21,
		Subject:         "Acceso a la VPN",
		Status:          domain.TicketStatusOpen,
		RequesterName:   "Laura Pérez",
		RequesterEmail:  "laura@example.com",
		SpecialistName:  "Carlos Ruiz",
		SpecialistEmail: "carlos@example.com",
		Description:     "No conecta desde la red de casa",
	}
}

func TestCreatedMailGoesToRequesterAndSpecialist(t *testing.T) {
	sender := &captureSender{}
	dispatcher, _ := newNotificationFixture(sender)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: 21,
		Payload:  events.TicketCreatedPayload{Ticket: sampleTicket()},
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.ElementsMatch(t, []string{"laura@example.com", "carlos@example.com"}, msg.To)
	assert.Contains(t, msg.Subject, "Caso #21")
	assert.Contains(t, msg.HTMLBody, "Acceso a la VPN")
	assert.Contains(t, msg.HTMLBody, "No conecta desde la red de casa")
}

func TestFinalizedMailCarriesSurveyLinkAndAttachments(t *testing.T) {
	sender := &captureSender{}
	dispatcher, _ := newNotificationFixture(sender)

	ticket := sampleTicket()
	ticket.Status = domain.TicketStatusSolved
	solution := "Se renovó el certificado de la VPN"
	ticket.Solution = &solution

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketFinalized,
		TicketID: 21,
		Payload: events.TicketFinalizedPayload{
			Ticket: ticket,
			Attachments: []domain.Attachment{
				{FileName: "manual.pdf", MimeType: "application/pdf", Content: []byte("pdf"), Role: domain.AttachmentRoleResponse},
				{FileName: "captura.png", MimeType: "image/png", Content: []byte("png"), Role: domain.AttachmentRoleResponse},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, []string{"laura@example.com"}, msg.To)
	assert.Contains(t, msg.HTMLBody, "https://mesa.example.com/encuesta/21")
	assert.Contains(t, msg.HTMLBody, solution)
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "manual.pdf", msg.Attachments[0].Name)
	assert.Equal(t, "captura.png", msg.Attachments[1].Name)
}

func TestSenderFailureIsSwallowed(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	dispatcher, _ := newNotificationFixture(sender)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: 21,
		Payload:  events.TicketCreatedPayload{Ticket: sampleTicket()},
	})
	assert.NoError(t, err)
}

func TestUnknownPayloadIsIgnored(t *testing.T) {
	sender := &captureSender{}
	dispatcher, _ := newNotificationFixture(sender)

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: 21,
		Payload:  "not a payload",
	})
	require.NoError(t, err)
	assert.Empty(t, sender.sent)
}
