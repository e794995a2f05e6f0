package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one day of sales for a single region and product subcategory.
type Record struct {
	Date        time.Time       `json:"date"`
	Region      string          `json:"region"`
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Revenue     decimal.Decimal `json:"revenue"`
	Units       int             `json:"units"`
}

// Filter restricts a report to a subset of regions and categories. An empty
// list means "no restriction" for that dimension.
type Filter struct {
	Regions    []string
	Categories []string
}

// Match reports whether r passes the filter.
func (f Filter) Match(r Record) bool {
	return allowed(f.Regions, r.Region) && allowed(f.Categories, r.Category)
}

func allowed(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
