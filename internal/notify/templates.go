package notify

import (
	"fmt"
	"sync"

	"github.com/osteele/liquid"

	"github.com/fireregsco/crm/internal/domain"
)

// staffAlertHTML is the internal new-inquiry alert sent to the inspections team.
const staffAlertHTML = `
<h2>New fire door inspection inquiry</h2>
<p>A new inquiry has been submitted on the website.</p>
<table cellpadding="4">
  <tr><td><b>Name</b></td><td>{{ name }}</td></tr>
  <tr><td><b>Email</b></td><td>{{ email }}</td></tr>
  <tr><td><b>Phone</b></td><td>{{ phone }}</td></tr>
  <tr><td><b>Property type</b></td><td>{{ property_type | default: "not given" }}</td></tr>
  <tr><td><b>Door count</b></td><td>{{ door_count | default: "not given" }}</td></tr>
  {% if preferred_date != "" %}<tr><td><b>Preferred date</b></td><td>{{ preferred_date }}</td></tr>{% endif %}
</table>
{% if message != "" %}<p><b>Message:</b></p><blockquote>{{ message }}</blockquote>{% endif %}
`

// customerAckHTML is the acknowledgement sent back to the customer.
const customerAckHTML = `
<p>Hi {{ first_name }},</p>
<p>Thanks for getting in touch about a fire door inspection. We have received
your inquiry and a member of the team will contact you within one working day.</p>
{% if preferred_date != "" %}<p>We have noted your preferred date of {{ preferred_date }}
and will do our best to accommodate it.</p>{% endif %}
<p>Kind regards,<br>The Inspections Team</p>
`

// Templates renders the notification emails. Parsed templates are cached
// after first use.
type Templates struct {
	engine *liquid.Engine

	mu     sync.Mutex
	parsed map[string]*liquid.Template
}

// NewTemplates creates the template renderer.
func NewTemplates() *Templates {
	return &Templates{
		engine: liquid.NewEngine(),
		parsed: map[string]*liquid.Template{},
	}
}

func (t *Templates) render(name, source string, bindings map[string]interface{}) (string, error) {
	t.mu.Lock()
	tpl, ok := t.parsed[name]
	if !ok {
		var err error
		tpl, err = t.engine.ParseString(source)
		if err != nil {
			t.mu.Unlock()
			return "", fmt.Errorf("parse template %s: %w", name, err)
		}
		t.parsed[name] = tpl
	}
	t.mu.Unlock()

	out, err := tpl.Render(bindings)
	if err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return string(out), nil
}

func saleBindings(sale *domain.Sale) map[string]interface{} {
	preferred := ""
	if sale.PreferredDate != nil {
		preferred = sale.PreferredDate.Format("2 January 2006")
	}
	first := sale.Name
	for i, r := range sale.Name {
		if r == ' ' {
			first = sale.Name[:i]
			break
		}
	}
	return map[string]interface{}{
		"name":           sale.Name,
		"first_name":     first,
		"email":          sale.Email,
		"phone":          sale.Phone,
		"property_type":  sale.PropertyType,
		"door_count":     sale.DoorCount,
		"message":        sale.Message,
		"preferred_date": preferred,
	}
}

// StaffAlert renders the internal alert email for a new inquiry.
func (t *Templates) StaffAlert(sale *domain.Sale) (string, error) {
	return t.render("staff_alert", staffAlertHTML, saleBindings(sale))
}

// CustomerAck renders the customer acknowledgement email.
func (t *Templates) CustomerAck(sale *domain.Sale) (string, error) {
	return t.render("customer_ack", customerAckHTML, saleBindings(sale))
}
