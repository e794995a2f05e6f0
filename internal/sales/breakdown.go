package sales

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nholding/clearvue/internal/domain/utils"
	"github.com/nholding/clearvue/internal/period/domain"
)

// Bucket is the revenue of one reporting period, e.g. "2024-Q1".
type Bucket struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
	Units   int             `json:"units"`
}

// RegionTotal is the revenue of one region.
type RegionTotal struct {
	Region  string          `json:"region"`
	Revenue decimal.Decimal `json:"revenue"`
	Share   decimal.Decimal `json:"share"` // Fraction of the filtered total, 4 dp
}

// Aggregate
//
// Sums revenue and units of every record that passes the filter into
// buckets of the requested granularity. Buckets are sorted by their key,
// which for every granularity is also chronological order.
//
// Example:
//
//	buckets := Aggregate(records, Filter{Regions: []string{"West"}}, domain.Quarterly)
//	// → [{Period: "2023-Q4", ...}, {Period: "2024-Q1", ...}, ...]
func Aggregate(records []Record, f Filter, g domain.Granularity) []Bucket {
	index := make(map[string]int)
	var buckets []Bucket

	for _, r := range records {
		if !f.Match(r) {
			continue
		}

		key := domain.BucketKey(r.Date, g)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Period: key, Revenue: decimal.Zero})
		}
		buckets[i].Revenue = buckets[i].Revenue.Add(r.Revenue)
		buckets[i].Units += r.Units
	}

	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Period < buckets[j].Period
	})
	return buckets
}

// ByRegion sums filtered revenue per region, sorted by region name.
func ByRegion(records []Record, f Filter) []RegionTotal {
	totals := make(map[string]decimal.Decimal)
	grand := decimal.Zero

	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		totals[r.Region] = totals[r.Region].Add(r.Revenue)
		grand = grand.Add(r.Revenue)
	}

	out := make([]RegionTotal, 0, len(totals))
	for region, revenue := range totals {
		share := decimal.Zero
		if !grand.IsZero() {
			share = revenue.DivRound(grand, 4)
		}
		out = append(out, RegionTotal{Region: region, Revenue: revenue, Share: share})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Region < out[j].Region
	})
	return out
}

// Summary holds the headline figures shown on the dashboard's metric cards.
type Summary struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalUnits     int             `json:"total_units"`
	RegionalLeader string          `json:"regional_leader"`
	PeriodRevenue  decimal.Decimal `json:"financial_month_revenue"`
	FinancialMonth string          `json:"financial_month,omitempty"`
}

// Summarize computes the headline figures. When current is non-nil,
// PeriodRevenue holds the revenue booked inside that financial month's
// window.
func Summarize(records []Record, f Filter, current *domain.FiscalPeriod) Summary {
	s := Summary{TotalRevenue: decimal.Zero, PeriodRevenue: decimal.Zero}
	if current != nil {
		s.FinancialMonth = current.Month.String()
	}

	for _, r := range records {
		if !f.Match(r) {
			continue
		}
		s.TotalRevenue = s.TotalRevenue.Add(r.Revenue)
		s.TotalUnits += r.Units

		if current != nil && utils.DateInRange(r.Date, current.StartDate, current.EndDate) {
			s.PeriodRevenue = s.PeriodRevenue.Add(r.Revenue)
		}
	}

	var best decimal.Decimal
	for _, rt := range ByRegion(records, f) {
		if s.RegionalLeader == "" || rt.Revenue.GreaterThan(best) {
			s.RegionalLeader = rt.Region
			best = rt.Revenue
		}
	}
	return s
}
