package notify

import (
	"context"
	"fmt"

	appconfig "github.com/fireregsco/crm/internal/config"
	"github.com/fireregsco/crm/internal/domain"
	"github.com/fireregsco/crm/internal/pkg/logger"
)

// LeadNotifier sends the two emails a new inquiry triggers: an alert to the
// staff inbox and an acknowledgement to the customer. It implements
// sales.Notifier.
type LeadNotifier struct {
	sender     Sender
	templates  *Templates
	staffEmail string
}

// NewLeadNotifier creates a lead notifier. Build returns nil (disabled)
// when no provider is configured.
func NewLeadNotifier(sender Sender, staffEmail string) *LeadNotifier {
	return &LeadNotifier{
		sender:     sender,
		templates:  NewTemplates(),
		staffEmail: staffEmail,
	}
}

// Build constructs the configured sender and wraps it in a LeadNotifier.
// A nil, nil return means notifications are disabled.
func Build(ctx context.Context, cfg appconfig.NotifyConfig) (*LeadNotifier, error) {
	var sender Sender
	var err error

	switch cfg.Provider {
	case "ses":
		sender, err = NewSESSender(ctx, cfg)
	case "smtp":
		sender, err = NewSMTPSender(cfg)
	case "":
		logger.Info("notifications disabled: no provider configured")
		return nil, nil
	default:
		return nil, fmt.Errorf("notify: unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return NewLeadNotifier(sender, cfg.StaffEmail), nil
}

// NotifyNewLead sends the staff alert, then the customer acknowledgement.
// The staff alert failing fails the whole notification; a failed customer
// acknowledgement alone is only logged.
func (n *LeadNotifier) NotifyNewLead(ctx context.Context, sale *domain.Sale) error {
	if n.staffEmail != "" {
		html, err := n.templates.StaffAlert(sale)
		if err != nil {
			return err
		}
		if err := n.sender.Send(ctx, &Message{
			To:       n.staffEmail,
			Subject:  fmt.Sprintf("New inquiry: %s (%s)", sale.Name, sale.DoorCount),
			HTMLBody: html,
		}); err != nil {
			return err
		}
	}

	html, err := n.templates.CustomerAck(sale)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, &Message{
		To:       sale.Email,
		Subject:  "We received your fire door inspection inquiry",
		HTMLBody: html,
	}); err != nil {
		logger.Warn("customer acknowledgement failed",
			"sale_id", sale.ID, "error", err.Error())
	}
	return nil
}
