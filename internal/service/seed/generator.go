package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fireregsco/crm/internal/domain"
)

const (
	// MaxCount bounds a single generation run.
	MaxCount = 200

	// DefaultMaxHops is the loop-safety cap on status-walk transitions.
	DefaultMaxHops = 25

	// PreviewLimit is how many generated records a dry run returns.
	PreviewLimit = 5
)

// Options controls a generation run.
type Options struct {
	Count   int
	MaxHops int
	Now     time.Time
	Rand    *rand.Rand
}

// Generated is one synthetic lead together with its full status ledger.
type Generated struct {
	Sale    domain.Sale             `json:"sale"`
	History []domain.StatusTracking `json:"history"`
}

// monthWeights is the relative arrival density per calendar month
// (January first). Inspection demand peaks in spring and summer.
var monthWeights = [12]float64{3, 3, 5, 7, 9, 10, 10, 9, 6, 4, 3, 3}

// expectedDwellDays is the typical number of days a lead sits in each
// status before moving on. Actual dwell is jittered around these.
var expectedDwellDays = map[string]int{
	domain.StatusPending:   2,
	"contacted":            3,
	"interested":           4,
	"reserved booking":     3,
	"sent invoice":         4,
	"payment received":     1,
	"booked":               7,
	"completed inspection": 3,
	"aftersales":           5,
}

var firstNames = []string{
	"James", "Sarah", "David", "Emma", "Michael", "Olivia", "Robert", "Sophie",
	"Daniel", "Grace", "Thomas", "Lucy", "Andrew", "Hannah", "Peter", "Chloe",
}

var lastNames = []string{
	"Smith", "Jones", "Taylor", "Brown", "Williams", "Wilson", "Evans",
	"Thomas", "Roberts", "Walker", "Wright", "Robinson", "Hughes", "Green",
}

var messages = []string{
	"We need our fire doors inspected before the annual audit.",
	"Looking for a quote on a full fire door survey.",
	"Our building manager asked us to arrange an inspection.",
	"Some doors failed the last check and need re-inspecting.",
	"New to the building, want to make sure we are compliant.",
	"",
}

// Generate produces synthetic leads against the given workflow vocabulary.
// It has no side effects; persistence is the caller's concern.
func Generate(statuses []domain.StatusInfo, opts Options) []Generated {
	if opts.Count < 1 {
		opts.Count = 1
	}
	if opts.Count > MaxCount {
		opts.Count = MaxCount
	}
	if opts.MaxHops <= 0 {
		opts.MaxHops = DefaultMaxHops
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	byName := make(map[string]domain.StatusInfo, len(statuses))
	for _, st := range statuses {
		byName[st.Name] = st
	}

	out := make([]Generated, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		out = append(out, generateOne(i, byName, opts, rng))
	}
	return out
}

func generateOne(n int, byName map[string]domain.StatusInfo, opts Options, rng *rand.Rand) Generated {
	arrival := sampleArrival(opts.Now, rng)
	first := firstNames[rng.Intn(len(firstNames))]
	last := lastNames[rng.Intn(len(lastNames))]

	sale := domain.Sale{
		ID:           uuid.New().String(),
		Name:         first + " " + last,
		Email:        fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), n),
		Phone:        fmt.Sprintf("07%09d", rng.Intn(1_000_000_000)),
		PropertyType: domain.PropertyTypes[rng.Intn(len(domain.PropertyTypes))],
		DoorCount:    domain.DoorCountRanges[rng.Intn(len(domain.DoorCountRanges))],
		Message:      messages[rng.Intn(len(messages))],
		CreatedAt:    arrival,
	}
	if rng.Float64() < 0.4 {
		preferred := arrival.AddDate(0, 0, 7+rng.Intn(21))
		sale.PreferredDate = &preferred
	}

	history := walkStatuses(sale.ID, byName, arrival, opts, rng)
	lastEntry := history[len(history)-1]
	sale.Status = lastEntry.Status
	sale.UpdatedAt = lastEntry.CreatedAt

	return Generated{Sale: sale, History: history}
}

// walkStatuses simulates the lead's journey: start at the entry status and
// hop along the transition graph until a terminal status, the present day,
// or the hop cap, whichever comes first.
func walkStatuses(saleID string, byName map[string]domain.StatusInfo, arrival time.Time, opts Options, rng *rand.Rand) []domain.StatusTracking {
	current := domain.StatusPending
	at := arrival

	history := []domain.StatusTracking{{
		ID:        uuid.New().String(),
		SaleID:    saleID,
		Status:    current,
		Notes:     "Initial inquiry received",
		UpdatedBy: "seeder",
		CreatedAt: at,
	}}

	for hops := 0; hops < opts.MaxHops; hops++ {
		info, ok := byName[current]
		if !ok || len(info.NextStatuses) == 0 {
			break
		}

		at = at.Add(sampleDwell(current, rng))
		if at.After(opts.Now) {
			break
		}

		current = pickNext(info.NextStatuses, byName, rng)
		history = append(history, domain.StatusTracking{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			Status:    current,
			Notes:     "Status updated",
			UpdatedBy: "seeder",
			CreatedAt: at,
		})
	}

	return history
}

// pickNext chooses the next status, strongly favouring forward progression
// over terminal drop-outs when both are on offer.
func pickNext(candidates []string, byName map[string]domain.StatusInfo, rng *rand.Rand) string {
	var total float64
	weights := make([]float64, len(candidates))
	for i, name := range candidates {
		w := 1.0
		if info, ok := byName[name]; ok && !info.IsTerminal() {
			w = 6.0
		}
		weights[i] = w
		total += w
	}

	roll := rng.Float64() * total
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return candidates[i]
		}
	}
	return candidates[len(candidates)-1]
}

// sampleArrival picks an arrival time within the last twelve months, month
// chosen by seasonal weight, day and time uniform within the month.
func sampleArrival(now time.Time, rng *rand.Rand) time.Time {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var total float64
	starts := make([]time.Time, 12)
	weights := make([]float64, 12)
	for i := 0; i < 12; i++ {
		start := firstOfCurrent.AddDate(0, -i, 0)
		starts[i] = start
		weights[i] = monthWeights[int(start.Month())-1]
		total += weights[i]
	}

	roll := rng.Float64() * total
	start := starts[0]
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			start = starts[i]
			break
		}
	}

	end := start.AddDate(0, 1, 0)
	if end.After(now) {
		end = now
	}
	span := end.Sub(start)
	if span <= 0 {
		return start
	}
	return start.Add(time.Duration(rng.Int63n(int64(span))))
}

// sampleDwell jitters the expected per-status dwell between half and one and
// a half times its typical length.
func sampleDwell(status string, rng *rand.Rand) time.Duration {
	days := expectedDwellDays[status]
	if days <= 0 {
		days = 2
	}
	base := time.Duration(days) * 24 * time.Hour
	factor := 0.5 + rng.Float64()
	return time.Duration(float64(base) * factor)
}
