package supplier

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/nholding/clearvue/internal/audit"
	"github.com/nholding/clearvue/internal/utils"
)

// Performance ratings, best first.
const (
	PerformanceExcellent = "Excellent"
	PerformanceGood      = "Good"
	PerformanceAverage   = "Average"
	PerformancePoor      = "Poor"
)

// Performances lists every rating, best first.
var Performances = []string{PerformanceExcellent, PerformanceGood, PerformanceAverage, PerformancePoor}

// Names of the suppliers ClearVue buys from.
var Names = []string{"TechGlobal", "FurnitureWorld", "OfficePlus", "ApplianceDirect", "ElectroMart"}

// Supplier is the scorecard of one supplier for one product category.
type Supplier struct {
	ID           string          `json:"id"`           // Stable ULID
	BusinessKey  string          `json:"business_key"` // Deterministic hash of name + category
	Version      string          `json:"version"`      // ID generation version, e.g. "S1"
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Performance  string          `json:"performance"`
	DeliveryDays int             `json:"delivery_days"`
	DefectRate   decimal.Decimal `json:"defect_rate_pct"`
	Spend        decimal.Decimal `json:"spend_usd"`
	AuditInfo    audit.AuditInfo `json:"audit"`
}

// GenerateKeys assigns a fresh ID and the deterministic business key.
func (s *Supplier) GenerateKeys() {
	s.Version = utils.SupplierKeyVersion
	s.ID = utils.NewSupplierID()
	s.BusinessKey = utils.SupplierBusinessKey(s.Name, s.Category)
}

// NewSupplier builds a supplier scorecard with generated keys.
func NewSupplier(name, category, performance string, deliveryDays int, defectRate, spend decimal.Decimal, user string) Supplier {
	s := Supplier{
		Name:         name,
		Category:     category,
		Performance:  performance,
		DeliveryDays: deliveryDays,
		DefectRate:   defectRate,
		Spend:        spend,
		AuditInfo:    *audit.NewAuditInfo(user),
	}

	s.GenerateKeys()

	return s
}

// PerformanceRank maps a rating to its position, Excellent being 1. Unknown
// ratings sort last.
func PerformanceRank(performance string) int {
	for i, p := range Performances {
		if p == performance {
			return i + 1
		}
	}
	return 99
}

// SortBySpend orders suppliers by spend, highest first. Ties keep their
// original order.
func SortBySpend(suppliers []Supplier) {
	sort.SliceStable(suppliers, func(i, j int) bool {
		return suppliers[i].Spend.GreaterThan(suppliers[j].Spend)
	})
}

// SortByPerformance orders suppliers from best to worst rating.
func SortByPerformance(suppliers []Supplier) {
	sort.SliceStable(suppliers, func(i, j int) bool {
		return PerformanceRank(suppliers[i].Performance) < PerformanceRank(suppliers[j].Performance)
	})
}
