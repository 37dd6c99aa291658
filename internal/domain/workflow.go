package domain

// Canonical status names. The workflow table may carry additional statuses;
// these are the ones the code itself needs to reason about.
const (
	StatusPending      = "pending"
	StatusCompleted    = "completed"
	StatusNotAvailable = "not available"
	StatusVoid         = "void"
)

// StatusInfo describes one status in the sales workflow: its position in the
// pipeline, a human description, and the statuses a lead may move to next.
type StatusInfo struct {
	Name         string   `json:"name" db:"status"`
	Description  string   `json:"description" db:"description"`
	Order        int      `json:"order" db:"display_order"`
	NextStatuses []string `json:"next_statuses" db:"next_statuses"`
}

// IsTerminal reports whether the status has no onward transitions.
func (s StatusInfo) IsTerminal() bool {
	return len(s.NextStatuses) == 0
}

// DefaultWorkflow is the hardcoded status workflow. It is the fallback when
// the persisted sales_statuses table is unreachable or incomplete, and the
// reference vocabulary the persisted table must cover.
var DefaultWorkflow = []StatusInfo{
	{
		Name:         StatusPending,
		Description:  "New inquiry, not yet contacted",
		Order:        0,
		NextStatuses: []string{"contacted", StatusNotAvailable, StatusVoid},
	},
	{
		Name:         "contacted",
		Description:  "Initial contact made with the customer",
		Order:        1,
		NextStatuses: []string{"interested", StatusNotAvailable, StatusVoid},
	},
	{
		Name:         "interested",
		Description:  "Customer confirmed interest in an inspection",
		Order:        2,
		NextStatuses: []string{"reserved booking", StatusNotAvailable, StatusVoid},
	},
	{
		Name:         "reserved booking",
		Description:  "Inspection slot reserved pending payment",
		Order:        3,
		NextStatuses: []string{"sent invoice", StatusVoid},
	},
	{
		Name:         "sent invoice",
		Description:  "Invoice issued to the customer",
		Order:        4,
		NextStatuses: []string{"payment received", StatusVoid},
	},
	{
		Name:         "payment received",
		Description:  "Payment cleared, booking confirmed",
		Order:        5,
		NextStatuses: []string{"booked"},
	},
	{
		Name:         "booked",
		Description:  "Inspection booked and scheduled",
		Order:        6,
		NextStatuses: []string{"completed inspection"},
	},
	{
		Name:         "completed inspection",
		Description:  "Inspection carried out, report pending",
		Order:        7,
		NextStatuses: []string{"aftersales", StatusCompleted},
	},
	{
		Name:         "aftersales",
		Description:  "Follow-up work or remediation in progress",
		Order:        8,
		NextStatuses: []string{StatusCompleted},
	},
	{
		Name:         StatusCompleted,
		Description:  "Job complete, report delivered",
		Order:        9,
		NextStatuses: []string{},
	},
	{
		Name:         StatusNotAvailable,
		Description:  "Customer unreachable or not available",
		Order:        10,
		NextStatuses: []string{},
	},
	{
		Name:         StatusVoid,
		Description:  "Inquiry voided (spam, duplicate, withdrawn)",
		Order:        11,
		NextStatuses: []string{},
	},
}

// TerminalStatuses are the statuses a lead's history can end on.
var TerminalStatuses = []string{StatusCompleted, StatusNotAvailable, StatusVoid}
