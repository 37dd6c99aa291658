package reports

// Report is the full metrics payload consumed by the admin dashboard.
type Report struct {
	Metrics       Metrics        `json:"metrics"`
	SalesByStatus map[string]int `json:"salesByStatus"`
	SalesByMonth  []MonthBucket  `json:"salesByMonth"`
}

// Metrics holds the derived aggregate numbers.
type Metrics struct {
	TotalSales         int `json:"totalSales"`
	TotalCurrentMonth  int `json:"totalCurrentMonth"`
	TotalPreviousMonth int `json:"totalPreviousMonth"`
	CompletedSales     int `json:"completedSales"`
	VoidedSales        int `json:"voidedSales"`

	// AverageSalesCycle is the mean whole-day span between the first and
	// last ledger entry of leads that reached a terminal status.
	AverageSalesCycle float64 `json:"averageSalesCycle"`

	// AvgDaysInStatus buckets every adjacent ledger-entry pair under the
	// earlier status and averages the elapsed days per status.
	AvgDaysInStatus map[string]float64 `json:"avgDaysInStatus"`

	// TransitionTimes aggregates every observed (from -> to) transition.
	TransitionTimes []TransitionStat `json:"transitionTimes"`

	CompletedByDoorCount    map[string]int `json:"completedByDoorCount"`
	VoidedByDoorCount       map[string]int `json:"voidedByDoorCount"`
	CompletedByPropertyType map[string]int `json:"completedByPropertyType"`
	VoidedByPropertyType    map[string]int `json:"voidedByPropertyType"`
}

// TransitionStat is one aggregated (from -> to) transition.
type TransitionStat struct {
	From    string  `json:"from"`
	To      string  `json:"to"`
	AvgDays float64 `json:"avgDays"`
	Count   int     `json:"count"`
}

// MonthBucket is one month of lead arrivals and outcomes.
type MonthBucket struct {
	Month     string `json:"month"` // "2026-08"
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Voided    int    `json:"voided"`
}
