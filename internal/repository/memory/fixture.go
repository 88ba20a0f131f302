package memory

import (
	"fmt"

	"github.com/rioscope/rioscope/internal/domain"
)

// fixtureRow is the compact seed form of one demo listing.
type fixtureRow struct {
	id           string
	name         string
	hood         string
	lat, lng     float64
	price        float64
	rating       float64
	reviews      int
	capacity     int
	bedrooms     int
	ptype        domain.PropertyType
	hostID       string
	hostName     string
	superhost    bool
	verified     bool
	amenities    []string
	availability []string // ISO dates in the dataset year
}

// Fixture returns the deterministic demo dataset used by the memory driver.
// Coordinates are real Rio de Janeiro neighborhoods; everything else is
// synthetic.
func Fixture() Dataset {
	rows := []fixtureRow{
		{"101", "Vista do Arpoador", "Copacabana", -22.9711, -43.1822, 350, 4.9, 182, 4, 2, domain.TypeApartment, "h1", "Marina", true, true,
			[]string{"Wifi", "Kitchen", "Air conditioning", "Beach access"}, janDates(1, 20)},
		{"102", "Estúdio Posto 6", "Copacabana", -22.9841, -43.1893, 220, 4.7, 95, 2, 1, domain.TypeApartment, "h1", "Marina", true, true,
			[]string{"Wifi", "Kitchen"}, janDates(5, 25)},
		{"103", "Cobertura Princesinha", "Copacabana", -22.9650, -43.1770, 780, 4.8, 64, 6, 3, domain.TypeApartment, "h2", "Rafael", false, true,
			[]string{"Wifi", "Pool", "Kitchen", "Washer", "Elevator"}, janDates(1, 31)},
		{"104", "Quarto na Siqueira Campos", "Copacabana", -22.9672, -43.1850, 110, 4.3, 41, 1, 1, domain.TypeRoom, "h3", "Dona Lúcia", false, false,
			[]string{"Wifi"}, janDates(10, 15)},
		{"105", "Loft de Ipanema", "Ipanema", -22.9838, -43.2045, 520, 4.9, 230, 3, 1, domain.TypeApartment, "h4", "Beatriz", true, true,
			[]string{"Wifi", "Kitchen", "Air conditioning", "Balcony"}, janDates(2, 28)},
		{"106", "Casa Vieira Souto", "Ipanema", -22.9868, -43.1986, 1200, 5.0, 87, 8, 4, domain.TypeHouse, "h4", "Beatriz", true, true,
			[]string{"Wifi", "Pool", "Kitchen", "Garden", "Parking"}, janDates(1, 10)},
		{"107", "Apartamento Garcia d'Ávila", "Ipanema", -22.9820, -43.2102, 410, 4.6, 120, 4, 2, domain.TypeApartment, "h5", "Carlos", false, true,
			[]string{"Wifi", "Kitchen", "Washer"}, janDates(8, 30)},
		{"108", "Refúgio do Leblon", "Leblon", -22.9849, -43.2230, 640, 4.8, 152, 4, 2, domain.TypeApartment, "h2", "Rafael", false, true,
			[]string{"Wifi", "Kitchen", "Air conditioning", "Doorman"}, janDates(1, 31)},
		{"109", "Quarto com vista no Leblon", "Leblon", -22.9832, -43.2194, 180, 4.4, 38, 2, 1, domain.TypeRoom, "h6", "Paulo", false, false,
			[]string{"Wifi", "Breakfast"}, janDates(12, 22)},
		{"110", "Charme de Botafogo", "Botafogo", -22.9519, -43.1845, 160, 4.5, 77, 3, 1, domain.TypeApartment, "h7", "Fernanda", true, false,
			[]string{"Wifi", "Kitchen"}, janDates(1, 26)},
		{"111", "Casa de vila em Botafogo", "Botafogo", -22.9487, -43.1910, 290, 4.2, 29, 5, 2, domain.TypeHouse, "h7", "Fernanda", true, false,
			[]string{"Wifi", "Kitchen", "Patio"}, janDates(3, 18)},
		{"112", "Ateliê de Santa Teresa", "Santa Teresa", -22.9215, -43.1870, 240, 4.7, 101, 2, 1, domain.TypeOther, "h8", "Jorge", false, true,
			[]string{"Wifi", "Garden", "View"}, janDates(1, 31)},
		{"113", "Casarão das Laranjeiras", "Laranjeiras", -22.9330, -43.1872, 380, 4.6, 54, 6, 3, domain.TypeHouse, "h8", "Jorge", false, true,
			[]string{"Wifi", "Kitchen", "Washer", "Parking"}, janDates(6, 27)},
		{"114", "Flat da Lapa", "Lapa", -22.9133, -43.1809, 130, 4.0, 210, 2, 1, domain.TypeApartment, "h9", "Aline", false, false,
			[]string{"Wifi", "Kitchen"}, janDates(1, 31)},
	}

	ds := Dataset{
		AvailableDates: map[string][]string{},
		Reviews:        map[string][]domain.Review{},
	}

	for _, r := range rows {
		ds.Listings = append(ds.Listings, domain.Listing{
			ID:              r.id,
			PropertyID:      r.id,
			HostID:          r.hostID,
			Price:           r.price,
			URL:             "https://example.com/rooms/" + r.id,
			Rating:          r.rating,
			NumberOfReviews: r.reviews,
			Property: domain.Property{
				ID:           r.id,
				Name:         r.name,
				Type:         r.ptype,
				Capacity:     r.capacity,
				Bedrooms:     r.bedrooms,
				Beds:         r.capacity,
				Bathrooms:    1 + r.bedrooms/2,
				Amenities:    r.amenities,
				Neighborhood: r.hood,
				Latitude:     r.lat,
				Longitude:    r.lng,
			},
			Host: domain.Host{
				ID:          r.hostID,
				Name:        r.hostName,
				IsSuperhost: r.superhost,
				Verified:    r.verified,
				JoinDate:    "2019-06-01",
			},
		})
		ds.AvailableDates[r.id] = r.availability
		ds.Reviews[r.id] = fixtureReviews(r.id, r.reviews)
	}

	return ds
}

// fixtureReviews synthesizes a deterministic review history, capped so the
// fixture stays small while still exercising pagination.
func fixtureReviews(propertyID string, total int) []domain.Review {
	n := total
	if n > 25 {
		n = 25
	}
	out := make([]domain.Review, 0, n)
	for i := 0; i < n; i++ {
		month := 1 + i%12
		year := 2025 - i%3
		out = append(out, domain.Review{
			ID:         fmt.Sprintf("%s-r%d", propertyID, i+1),
			PropertyID: propertyID,
			UserID:     fmt.Sprintf("u%d", (i*7)%40+1),
			UserName:   fmt.Sprintf("Guest %d", (i*7)%40+1),
			Comment:    "Ótima estadia, voltaria com certeza.",
			Date:       fmt.Sprintf("%04d-%02d-%02d", year, month, 1+i%28),
		})
	}
	return out
}

// janDates returns the dataset-year January dates [from, to] as ISO strings.
func janDates(from, to int) []string {
	var out []string
	for d := from; d <= to; d++ {
		out = append(out, fmt.Sprintf("2025-01-%02d", d))
	}
	return out
}
