package mockdata

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nholding/clearvue/internal/audit"
	"github.com/nholding/clearvue/internal/domain/supplier"
	"github.com/nholding/clearvue/internal/domain/utils"
	"github.com/nholding/clearvue/internal/payment"
	"github.com/nholding/clearvue/internal/sales"
	idutil "github.com/nholding/clearvue/internal/utils"
)

// DefaultHistoryDays is how far back the sales history reaches.
const DefaultHistoryDays = 730

// Products sold through the live payment stream.
var Products = []string{
	"Laptop Pro", "SmartPhone X", "4K TV", "Ergo Chair", "Desk Lamp",
	"Notebook Set", "Refrigerator", "Microwave Oven",
}

// PaymentMethods accepted at checkout.
var PaymentMethods = []string{"Credit Card", "Debit Card", "PayPal", "Bank Transfer"}

// CustomerCount is the size of the simulated customer base (Cust-001..Cust-100).
const CustomerCount = 100

// GenerateSales
//
// Produces one record per day, region, category and subcategory for the
// days+1 calendar days ending at end. Revenue starts from a uniform base of
// 50..200 and is then shaped:
//
//	×1.3     on Saturdays and Sundays
//	×1.5     in December
//	×0.8–1.2 random fluctuation
//	×1.1     North, ×1.2 West
//
// and rounded to cents. Units are uniform in 1..20.
func GenerateSales(src RandomDataSource, end time.Time, days int) []sales.Record {
	dates := utils.DaysBack(end, days)

	lines := 0
	for _, c := range sales.Categories {
		lines += len(sales.Subcategories[c])
	}
	records := make([]sales.Record, 0, len(dates)*len(sales.Regions)*lines)

	for _, d := range dates {
		for _, region := range sales.Regions {
			for _, category := range sales.Categories {
				for _, sub := range sales.Subcategories[category] {
					revenue := float64(src.IntN(50, 200))
					if utils.IsWeekend(d) {
						revenue *= 1.3
					}
					if d.Month() == time.December {
						revenue *= 1.5
					}
					revenue *= src.Float(0.8, 1.2)
					revenue *= sales.RegionFactor(region)

					records = append(records, sales.Record{
						Date:        d,
						Region:      region,
						Category:    category,
						Subcategory: sub,
						Revenue:     decimal.NewFromFloat(revenue).Round(2),
						Units:       src.IntN(1, 20),
					})
				}
			}
		}
	}
	return records
}

// GenerateSuppliers produces one scorecard per supplier and category.
func GenerateSuppliers(src RandomDataSource) []supplier.Supplier {
	out := make([]supplier.Supplier, 0, len(supplier.Names)*len(sales.Categories))
	for _, name := range supplier.Names {
		for _, category := range sales.Categories {
			out = append(out, supplier.NewSupplier(
				name,
				category,
				supplier.Performances[src.Pick(len(supplier.Performances))],
				src.IntN(1, 10),
				decimal.NewFromFloat(src.Float(0.1, 5.0)).Round(2),
				decimal.NewFromInt(int64(src.IntN(10000, 100000))),
				audit.SystemUser,
			))
		}
	}
	return out
}

// NewPayment simulates a single payment taking place at now.
func NewPayment(src RandomDataSource, now time.Time) payment.Payment {
	return payment.Payment{
		ID:        idutil.NewPaymentID(now),
		Timestamp: now,
		Product:   Products[src.Pick(len(Products))],
		Amount:    decimal.NewFromFloat(src.Float(10, 1000)).Round(2),
		Customer:  fmt.Sprintf("Cust-%03d", src.IntN(1, CustomerCount)),
		Region:    sales.Regions[src.Pick(len(sales.Regions))],
		Method:    PaymentMethods[src.Pick(len(PaymentMethods))],
	}
}

// PaymentSource adapts NewPayment to the payment.Source signature.
func PaymentSource(src RandomDataSource) payment.Source {
	return func(now time.Time) payment.Payment {
		return NewPayment(src, now)
	}
}
