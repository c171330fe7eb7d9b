package domain

// RawRecord is one CSV row keyed by header name. Produced by the parser,
// consumed by the normalizer, then discarded.
type RawRecord map[string]string

// Listing is a normalized property record. Numeric attributes are pointers:
// nil means "unknown", which is not the same as zero for range filters.
type Listing struct {
	ID           string `json:"id"`
	PropertyType string `json:"propertyType"`
	Lot          string `json:"lot"`
	Address      string `json:"address"`
	Suburb       string `json:"suburb"`
	Availability string `json:"availability"`

	Frontage  *float64 `json:"frontage,omitempty"`
	LandSize  *float64 `json:"landSize,omitempty"`
	BuildSize *float64 `json:"buildSize,omitempty"`
	Bed       *float64 `json:"bed,omitempty"`
	Bath      *float64 `json:"bath,omitempty"`
	Garage    *float64 `json:"garage,omitempty"`

	RegoStatus string `json:"registrationConstructionStatus"`

	// Price is the display string ("$1,250,000", "Price on request").
	// PriceNumber is derived by stripping every non-digit from Price; it is
	// nil when that leaves nothing.
	Price       string `json:"price"`
	PriceNumber *int64 `json:"priceNumber,omitempty"`

	// Media is the raw media column as stored in the CSV. Images holds the
	// resolved display URLs and is populated asynchronously by the gateway,
	// never by the normalizer.
	Media  string   `json:"media"`
	Images []string `json:"images,omitempty"`

	Remark      string `json:"remark"`
	Description string `json:"description"`
	UpdatedAt   string `json:"updatedAt"`

	// "0"/"1" flags. A listing with PropertyCustomerVisibility=="0" never
	// appears in customer-facing views.
	PropertyCustomerVisibility string `json:"propertyCustomerVisibility"`
	PriceCustomerVisibility    string `json:"priceCustomerVisibility"`
}

// FilterState holds the current filter values. An empty string means "no
// constraint" for that field. ClearAll short-circuits the whole evaluation.
type FilterState struct {
	QuickSearch  string `json:"quickSearch"`
	Suburb       string `json:"suburb"`
	Address      string `json:"address"`
	PropertyType string `json:"propertyType"`
	Availability string `json:"availability"`
	RegoStatus   string `json:"registrationConstructionStatus"`

	PriceMin     string `json:"priceMin"`
	PriceMax     string `json:"priceMax"`
	BedMin       string `json:"bedMin"`
	BedMax       string `json:"bedMax"`
	BathMin      string `json:"bathMin"`
	BathMax      string `json:"bathMax"`
	GarageMin    string `json:"garageMin"`
	GarageMax    string `json:"garageMax"`
	FrontageMin  string `json:"frontageMin"`
	FrontageMax  string `json:"frontageMax"`
	LandSizeMin  string `json:"landSizeMin"`
	LandSizeMax  string `json:"landSizeMax"`
	BuildSizeMin string `json:"buildSizeMin"`
	BuildSizeMax string `json:"buildSizeMax"`

	ClearAll bool `json:"clearAll"`
}

// IsZero reports whether no filter field is set at all.
func (f FilterState) IsZero() bool {
	return f == FilterState{}
}

// ContactMessage is one contact-form submission.
type ContactMessage struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	Subject   string `db:"subject"`
	Message   string `db:"message"`
	CreatedAt string `db:"created_at"`
}
