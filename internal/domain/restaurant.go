package domain

// RestaurantID identifies a restaurant.
type RestaurantID int64

// Restaurant is a kitchen that can prepare orders.
type Restaurant struct {
	ID      RestaurantID `json:"id"`
	Name    string       `json:"name"`
	Address Address      `json:"address"`
}

// MenuAvailability records whether a restaurant currently offers a product.
type MenuAvailability struct {
	RestaurantID RestaurantID `json:"restaurant_id"`
	ProductID    ProductID    `json:"product_id"`
	Available    bool         `json:"available"`
}
