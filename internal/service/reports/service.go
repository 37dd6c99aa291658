package reports

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/fireregsco/crm/internal/domain"
	"github.com/fireregsco/crm/internal/service/workflow"
)

const msPerDay = 24 * 60 * 60 * 1000

// Service builds reports from a DataSource.
type Service struct {
	src DataSource
	wf  *workflow.Service

	now func() time.Time
}

// NewService creates a reporting service.
func NewService(src DataSource, wf *workflow.Service) *Service {
	return &Service{src: src, wf: wf, now: time.Now}
}

// Build reads the full dataset and derives every metric. Any read failure
// fails the whole report.
func (s *Service) Build(ctx context.Context) (*Report, error) {
	allSales, err := s.src.ListAllSales(ctx)
	if err != nil {
		return nil, fmt.Errorf("report: list sales: %w", err)
	}
	allTracking, err := s.src.ListAllTracking(ctx)
	if err != nil {
		return nil, fmt.Errorf("report: list tracking: %w", err)
	}

	report := &Report{
		Metrics: Metrics{
			AvgDaysInStatus:         map[string]float64{},
			TransitionTimes:         []TransitionStat{},
			CompletedByDoorCount:    map[string]int{},
			VoidedByDoorCount:       map[string]int{},
			CompletedByPropertyType: map[string]int{},
			VoidedByPropertyType:    map[string]int{},
		},
		SalesByStatus: map[string]int{},
		SalesByMonth:  []MonthBucket{},
	}

	report.Metrics.TotalSales = len(allSales)
	s.countByStatus(allSales, report)
	s.bucketByMonth(allSales, report)
	s.outcomeBreakdowns(allSales, report)

	// Ledger-derived metrics need per-lead ordered histories.
	histories := groupBySale(allTracking)
	s.cycleTimes(ctx, histories, report)
	s.dwellAndTransitions(histories, report)

	return report, nil
}

func (s *Service) countByStatus(allSales []domain.Sale, report *Report) {
	for _, sale := range allSales {
		report.SalesByStatus[sale.Status]++
		switch sale.Status {
		case domain.StatusCompleted:
			report.Metrics.CompletedSales++
		case domain.StatusVoid:
			report.Metrics.VoidedSales++
		}
	}
}

func (s *Service) bucketByMonth(allSales []domain.Sale, report *Report) {
	byMonth := map[string]*MonthBucket{}
	for _, sale := range allSales {
		key := sale.CreatedAt.UTC().Format("2006-01")
		b, ok := byMonth[key]
		if !ok {
			b = &MonthBucket{Month: key}
			byMonth[key] = b
		}
		b.Total++
		switch sale.Status {
		case domain.StatusCompleted:
			b.Completed++
		case domain.StatusVoid:
			b.Voided++
		}
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		report.SalesByMonth = append(report.SalesByMonth, *byMonth[m])
	}

	current := s.now().UTC().Format("2006-01")
	previous := s.now().UTC().AddDate(0, -1, 0).Format("2006-01")
	if b, ok := byMonth[current]; ok {
		report.Metrics.TotalCurrentMonth = b.Total
	}
	if b, ok := byMonth[previous]; ok {
		report.Metrics.TotalPreviousMonth = b.Total
	}
}

func (s *Service) outcomeBreakdowns(allSales []domain.Sale, report *Report) {
	for _, sale := range allSales {
		doors := sale.DoorCount
		if doors == "" {
			doors = "unspecified"
		}
		property := sale.PropertyType
		if property == "" {
			property = "unspecified"
		}
		switch sale.Status {
		case domain.StatusCompleted:
			report.Metrics.CompletedByDoorCount[doors]++
			report.Metrics.CompletedByPropertyType[property]++
		case domain.StatusVoid:
			report.Metrics.VoidedByDoorCount[doors]++
			report.Metrics.VoidedByPropertyType[property]++
		}
	}
}

// cycleTimes averages first-to-last ledger spans for leads whose history
// ends on a terminal status.
func (s *Service) cycleTimes(ctx context.Context, histories map[string][]domain.StatusTracking, report *Report) {
	var total float64
	var n int
	for _, hist := range histories {
		if len(hist) == 0 {
			continue
		}
		last := hist[len(hist)-1]
		if !s.wf.IsTerminal(ctx, last.Status) {
			continue
		}
		total += elapsedDays(hist[0].CreatedAt, last.CreatedAt)
		n++
	}
	if n > 0 {
		report.Metrics.AverageSalesCycle = total / float64(n)
	}
}

func (s *Service) dwellAndTransitions(histories map[string][]domain.StatusTracking, report *Report) {
	dwellTotals := map[string]float64{}
	dwellCounts := map[string]int{}
	transTotals := map[[2]string]float64{}
	transCounts := map[[2]string]int{}

	for _, hist := range histories {
		for i := 0; i+1 < len(hist); i++ {
			from, to := hist[i], hist[i+1]
			days := elapsedDays(from.CreatedAt, to.CreatedAt)

			// Elapsed time is charged to the earlier status
			dwellTotals[from.Status] += days
			dwellCounts[from.Status]++

			pair := [2]string{from.Status, to.Status}
			transTotals[pair] += days
			transCounts[pair]++
		}
	}

	for status, total := range dwellTotals {
		report.Metrics.AvgDaysInStatus[status] = total / float64(dwellCounts[status])
	}

	pairs := make([][2]string, 0, len(transTotals))
	for pair := range transTotals {
		pairs = append(pairs, pair)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	for _, pair := range pairs {
		report.Metrics.TransitionTimes = append(report.Metrics.TransitionTimes, TransitionStat{
			From:    pair[0],
			To:      pair[1],
			AvgDays: transTotals[pair] / float64(transCounts[pair]),
			Count:   transCounts[pair],
		})
	}
}

// groupBySale splits the ledger into per-lead histories ordered by created
// time, insertion order breaking ties (the input is already insertion-ordered).
func groupBySale(entries []domain.StatusTracking) map[string][]domain.StatusTracking {
	out := map[string][]domain.StatusTracking{}
	for _, e := range entries {
		out[e.SaleID] = append(out[e.SaleID], e)
	}
	for id := range out {
		hist := out[id]
		sort.SliceStable(hist, func(i, j int) bool { return hist[i].CreatedAt.Before(hist[j].CreatedAt) })
	}
	return out
}

// elapsedDays returns the whole-day span between two instants: the ceiling
// of the absolute millisecond difference over a day. Equal instants give 0;
// any nonzero difference rounds up, so same-day transitions count as 1.
func elapsedDays(a, b time.Time) float64 {
	ms := b.Sub(a).Milliseconds()
	if ms < 0 {
		ms = -ms
	}
	return math.Ceil(float64(ms) / msPerDay)
}
