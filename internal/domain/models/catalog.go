package models

// Service is a bookable salon treatment.
type Service struct {
	ID              string  `bson:"_id" json:"id"`
	Name            string  `bson:"name" json:"name"`
	Price           float64 `bson:"price" json:"price"`
	DurationMinutes int     `bson:"duration_minutes" json:"duration_minutes"`
	Active          bool    `bson:"active" json:"active"`
}

// Product is a retail or back-bar stock item.
type Product struct {
	ID            string  `bson:"_id" json:"id"`
	Name          string  `bson:"name" json:"name"`
	HSNCode       string  `bson:"hsn_code,omitempty" json:"hsn_code,omitempty"`
	Price         float64 `bson:"price" json:"price"`
	GSTPercentage float64 `bson:"gst_percentage" json:"gst_percentage"`
	StockQuantity int     `bson:"stock_quantity" json:"stock_quantity"`
}
