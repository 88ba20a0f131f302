package domain

// PropertyType classifies a property.
type PropertyType string

// Known property types. Anything else from the catalog maps to TypeOther.
const (
	TypeApartment PropertyType = "apartment"
	TypeHouse     PropertyType = "house"
	TypeRoom      PropertyType = "room"
	TypeOther     PropertyType = "other"
)

// ParsePropertyType maps a raw catalog value to a PropertyType.
func ParsePropertyType(s string) PropertyType {
	switch PropertyType(s) {
	case TypeApartment, TypeHouse, TypeRoom:
		return PropertyType(s)
	default:
		return TypeOther
	}
}

// Host is the host summary embedded in a listing.
type Host struct {
	ID          string
	Name        string
	IsSuperhost bool
	Verified    bool
	JoinDate    string
	URL         string
	Description string
	Location    string
}

// HostProfile is the full host view returned by the profile endpoint.
type HostProfile struct {
	Host
	TotalProperties int
	AverageRating   float64
	TotalReviews    int
}

// Property is the property summary embedded in a listing.
type Property struct {
	ID           string
	Name         string
	Description  string
	Type         PropertyType
	Capacity     int
	Bedrooms     int
	Beds         int
	Bathrooms    int
	Amenities    []string
	Neighborhood string
	Latitude     float64
	Longitude    float64

	// Populated only by availability-window searches.
	TotalAmenities         int
	AvailableDaysInPeriod  int
	HasAvailabilityDetails bool
}

// Listing is one bookable offer: a property published by a host at a price.
// Identity is ID. A listing is never mutated after it leaves the catalog;
// refetches replace it wholesale.
type Listing struct {
	ID              string
	PropertyID      string
	HostID          string
	Price           float64
	URL             string
	Rating          float64
	NumberOfReviews int
	Property        Property
	Host            Host

	// Server-computed rankings, opaque display attributes.
	RankingAmongHostProperties int
	NeighborhoodRanking        int
}

// Review is a single property review.
type Review struct {
	ID               string
	PropertyID       string
	UserID           string
	UserName         string
	Comment          string
	Date             string
	UserTotalReviews int
}
