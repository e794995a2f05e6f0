package sales

// Regions served by ClearVue, in display order.
var Regions = []string{"North", "South", "East", "West"}

// Categories of products sold, in display order.
var Categories = []string{"Electronics", "Furniture", "Office Supplies", "Appliances"}

// Subcategories maps each category to its product lines.
var Subcategories = map[string][]string{
	"Electronics":     {"Phones", "Laptops", "TVs", "Accessories"},
	"Furniture":       {"Chairs", "Desks", "Storage", "Tables"},
	"Office Supplies": {"Paper", "Pens", "Notebooks", "Binders"},
	"Appliances":      {"Refrigerators", "Microwaves", "Ovens", "Dishwashers"},
}

// RegionFactor is the revenue multiplier applied to a region's sales.
func RegionFactor(region string) float64 {
	switch region {
	case "North":
		return 1.1
	case "West":
		return 1.2
	default:
		return 1.0
	}
}
