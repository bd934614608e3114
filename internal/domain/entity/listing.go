package entity

// Listing is the normalized shape served to the dashboard for a Browse API
// item lookup. Fields the Browse API does not expose default to zero values.
type Listing struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Price       float64         `json:"price"`
	Currency    string          `json:"currency,omitempty"`
	Quantity    int             `json:"quantity"`
	Status      string          `json:"status"`
	Category    string          `json:"category"`
	Condition   string          `json:"condition"`
	Description string          `json:"description,omitempty"`
	Images      []string        `json:"images,omitempty"`
	Seller      ListingSeller   `json:"seller"`
	Location    string          `json:"location"`
	Shipping    ListingShipping `json:"shipping"`
	Created     string          `json:"created,omitempty"`
	Updated     string          `json:"updated,omitempty"`
}

type ListingSeller struct {
	Username      string `json:"username"`
	FeedbackScore int    `json:"feedbackScore"`
}

type ListingShipping struct {
	Cost   float64 `json:"cost"`
	Method string  `json:"method"`
}
