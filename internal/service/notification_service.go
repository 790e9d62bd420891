package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mintickets/helpdesk/internal/config"
	"github.com/mintickets/helpdesk/internal/events"
	"github.com/mintickets/helpdesk/internal/mail"
)

// NotificationService turns ticket events into outbound mails. Delivery is
// best-effort by contract: a ticket operation must never fail because the
// mail infrastructure is down, so every send error ends here, in the log.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     mail.Sender
	logger     *zap.Logger
	mailCfg    config.MailConfig
	frontend   config.FrontendConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender mail.Sender, logger *zap.Logger, mailCfg config.MailConfig, frontend config.FrontendConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
		mailCfg:    mailCfg,
		frontend:   frontend,
	}
}

// RegisterHandlers subscribes to ticket events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketFinalized, n.handleTicketFinalized)
}

func (n *NotificationService) handleTicketCreated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	ticket := payload.Ticket

	msg := mail.Message{
		To:      []string{ticket.RequesterEmail, ticket.SpecialistEmail},
		Subject: fmt.Sprintf("Caso #%d registrado: %s", ticket.ID, ticket.Subject),
		HTMLBody: fmt.Sprintf(`
			<html>
			<body>
				%s
				<h2>Caso #%d registrado</h2>
				<p><strong>Tema:</strong> %s</p>
				<p><strong>Estado:</strong> %s</p>
				<p><strong>Solicitante:</strong> %s</p>
				<p><strong>Especialista asignado:</strong> %s</p>
				<p><strong>Descripción:</strong></p>
				<p>%s</p>
			</body>
			</html>
		`, n.logoTag(), ticket.ID, ticket.Subject, ticket.Status,
			ticket.RequesterName, ticket.SpecialistName, ticket.Description),
		Inline: n.logoParts(),
	}

	n.deliver(event, msg)
	return nil
}

func (n *NotificationService) handleTicketFinalized(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketFinalizedPayload)
	if !ok {
		return nil
	}
	ticket := payload.Ticket

	solution := ""
	if ticket.Solution != nil {
		solution = *ticket.Solution
	}
	surveyURL := fmt.Sprintf("%s/encuesta/%d", n.frontend.BaseURL, ticket.ID)

	attachments := make([]mail.Part, 0, len(payload.Attachments))
	for _, att := range payload.Attachments {
		attachments = append(attachments, mail.Part{
			Name:     att.FileName,
			MimeType: att.MimeType,
			Content:  att.Content,
		})
	}

	msg := mail.Message{
		To:      []string{ticket.RequesterEmail},
		Subject: fmt.Sprintf("Caso #%d solucionado: %s", ticket.ID, ticket.Subject),
		HTMLBody: fmt.Sprintf(`
			<html>
			<body>
				%s
				<h2>Su caso #%d fue solucionado</h2>
				<p><strong>Tema:</strong> %s</p>
				<p><strong>Solución:</strong></p>
				<p>%s</p>
				<p>Por favor califique la atención recibida:</p>
				<p><a href="%s">Responder la encuesta de satisfacción</a></p>
			</body>
			</html>
		`, n.logoTag(), ticket.ID, ticket.Subject, solution, surveyURL),
		Inline:      n.logoParts(),
		Attachments: attachments,
	}

	n.deliver(event, msg)
	return nil
}

func (n *NotificationService) deliver(event events.Event, msg mail.Message) {
	if n.sender == nil {
		return
	}
	if err := n.sender.Send(msg); err != nil {
		n.logger.Error("notification delivery failed",
			zap.Int64("ticket_id", event.TicketID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return
	}
	n.logger.Info("notification sent",
		zap.Int64("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)),
		zap.Strings("to", msg.To))
}

func (n *NotificationService) logoParts() []mail.Part {
	if n.mailCfg.LogoPath == "" {
		return nil
	}
	content, err := os.ReadFile(n.mailCfg.LogoPath)
	if err != nil {
		n.logger.Warn("mail logo unreadable", zap.String("path", n.mailCfg.LogoPath), zap.Error(err))
		return nil
	}
	return []mail.Part{{
		Name:     filepath.Base(n.mailCfg.LogoPath),
		MimeType: "image/png",
		Content:  content,
	}}
}

func (n *NotificationService) logoTag() string {
	if n.mailCfg.LogoPath == "" {
		return ""
	}
	return fmt.Sprintf(`<img src="cid:%s" alt="logo"/>`, filepath.Base(n.mailCfg.LogoPath))
}
