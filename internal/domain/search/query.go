package search

import (
	"net/url"
	"strconv"
	"strings"
)

// Pagination limits.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// Fixed page sizes of the incremental detail feeds.
	ReviewsPageSize        = 10
	HostPropertiesPageSize = 5
)

// Page is an offset/limit window into a result set.
type Page struct {
	Offset int
	Limit  int
}

// Next returns the window immediately after this one.
func (p Page) Next() Page { return Page{Offset: p.Offset + p.Limit, Limit: p.Limit} }

// Bounds is the map viewport rectangle used for bounds-scoped queries.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
	Zoom  int
}

// Contains reports whether the point lies inside the rectangle.
func (b Bounds) Contains(lat, lng float64) bool {
	return lat <= b.North && lat >= b.South && lng <= b.East && lng >= b.West
}

type param struct {
	key   string
	value string
}

// Query is the canonical request form: an ordered set of key/value pairs with
// every unset, empty, or false filter omitted. The same Filters value always
// builds a byte-identical Query, regardless of neighborhood selection order.
// Its serialization doubles as the fingerprint for request de-duplication and
// stale-response detection.
type Query struct {
	params  []param
	filters Filters
	page    Page
	bounds  *Bounds
}

// BuildQuery canonicalizes filters plus pagination (and an optional viewport
// rectangle) into a Query. Total function: no failure mode.
func BuildQuery(f Filters, p Page, b *Bounds) Query {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	q := Query{filters: f.Clone(), page: p}

	q.addFloat("min_price", f.MinPrice)
	q.addFloat("max_price", f.MaxPrice)
	if hoods := f.canonicalNeighborhoods(); len(hoods) > 0 {
		q.add("neighborhoods", strings.Join(hoods, ","))
	}
	q.addFloat("min_rating", f.MinRating)
	q.addInt("min_capacity", f.MinCapacity)
	q.addInt("min_reviews", f.MinReviews)
	if f.SuperhostOnly {
		q.add("superhost_only", "true")
	}
	if f.CheckIn != "" {
		q.add("check_in", f.CheckIn)
	}
	if f.CheckOut != "" {
		q.add("check_out", f.CheckOut)
	}
	q.addInt("min_available_days", f.MinAvailableDays)

	if b != nil {
		bc := *b
		q.bounds = &bc
		q.add("north", formatFloat(b.North))
		q.add("south", formatFloat(b.South))
		q.add("east", formatFloat(b.East))
		q.add("west", formatFloat(b.West))
		q.add("zoom", strconv.Itoa(b.Zoom))
	}

	q.add("limit", strconv.Itoa(p.Limit))
	if p.Offset > 0 {
		q.add("offset", strconv.Itoa(p.Offset))
	}

	return q
}

// Fingerprint is the stable serialization of the full query, pagination
// included. Equal fingerprints mean the same request.
func (q Query) Fingerprint() string {
	return q.serialize(true)
}

// FilterFingerprint is the fingerprint with pagination stripped. Two queries
// with equal filter fingerprints are pages of the same result set; a change in
// filter fingerprint discards all accumulated pages and supersedes every
// in-flight request.
func (q Query) FilterFingerprint() string {
	return q.serialize(false)
}

func (q Query) serialize(withPage bool) string {
	var sb strings.Builder
	for _, p := range q.params {
		if !withPage && (p.key == "limit" || p.key == "offset") {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(p.value)
	}
	return sb.String()
}

// Values renders the query as URL parameters for the HTTP catalog client.
func (q Query) Values() url.Values {
	v := url.Values{}
	for _, p := range q.params {
		v.Set(p.key, p.value)
	}
	return v
}

// Filters returns a copy of the filters the query was built from.
func (q Query) Filters() Filters { return q.filters.Clone() }

// Page returns the pagination window.
func (q Query) Page() Page { return q.page }

// Bounds returns the viewport rectangle, or nil for an unscoped query.
func (q Query) Bounds() *Bounds {
	if q.bounds == nil {
		return nil
	}
	b := *q.bounds
	return &b
}

func (q *Query) add(key, value string) {
	q.params = append(q.params, param{key: key, value: value})
}

func (q *Query) addFloat(key string, v *float64) {
	if v != nil {
		q.add(key, formatFloat(*v))
	}
}

func (q *Query) addInt(key string, v *int) {
	if v != nil {
		q.add(key, strconv.Itoa(*v))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
