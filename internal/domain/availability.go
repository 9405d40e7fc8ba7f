package domain

// AvailabilityRow is one product with a per-restaurant availability flag,
// aligned with the restaurant order of the matrix.
type AvailabilityRow struct {
	Product   Product `json:"product"`
	Available []bool  `json:"available"`
}

// AvailabilityMatrix is the product × restaurant grid shown to managers.
type AvailabilityMatrix struct {
	Restaurants []Restaurant      `json:"restaurants"`
	Rows        []AvailabilityRow `json:"rows"`
}

// BuildAvailabilityMatrix lays out availability records as a grid. Missing
// records read as unavailable. Restaurants and products keep the order they
// were supplied in.
func BuildAvailabilityMatrix(restaurants []Restaurant, products []Product, records []MenuAvailability) AvailabilityMatrix {
	type key struct {
		r RestaurantID
		p ProductID
	}
	avail := make(map[key]bool, len(records))
	for _, rec := range records {
		avail[key{rec.RestaurantID, rec.ProductID}] = rec.Available
	}

	rows := make([]AvailabilityRow, 0, len(products))
	for _, p := range products {
		row := AvailabilityRow{Product: p, Available: make([]bool, len(restaurants))}
		for i, r := range restaurants {
			row.Available[i] = avail[key{r.ID, p.ID}]
		}
		rows = append(rows, row)
	}
	return AvailabilityMatrix{Restaurants: restaurants, Rows: rows}
}
