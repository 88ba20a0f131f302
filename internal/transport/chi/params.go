package chi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rioscope/rioscope/internal/domain/search"
)

// parseSearchParams maps the query string onto filters, pagination, and the
// optional viewport rectangle. Absent parameters stay unset; the canonical
// query builder then omits them.
func parseSearchParams(values url.Values) (search.Filters, search.Page, *search.Bounds, error) {
	var f search.Filters

	var err error
	if f.MinPrice, err = floatParam(values, "min_price"); err != nil {
		return f, search.Page{}, nil, err
	}
	if f.MaxPrice, err = floatParam(values, "max_price"); err != nil {
		return f, search.Page{}, nil, err
	}
	if f.MinRating, err = floatParam(values, "min_rating"); err != nil {
		return f, search.Page{}, nil, err
	}
	if f.MinCapacity, err = intParam(values, "min_capacity"); err != nil {
		return f, search.Page{}, nil, err
	}
	if f.MinReviews, err = intParam(values, "min_reviews"); err != nil {
		return f, search.Page{}, nil, err
	}
	if f.MinAvailableDays, err = intParam(values, "min_available_days"); err != nil {
		return f, search.Page{}, nil, err
	}

	if raw := values.Get("neighborhoods"); raw != "" {
		for _, n := range strings.Split(raw, ",") {
			if n = strings.TrimSpace(n); n != "" {
				f.Neighborhoods = append(f.Neighborhoods, n)
			}
		}
	}
	f.SuperhostOnly = values.Get("superhost_only") == "true"
	f.CheckIn = values.Get("check_in")
	f.CheckOut = values.Get("check_out")

	page, err := parsePageParams(values, search.DefaultPageSize)
	if err != nil {
		return f, search.Page{}, nil, err
	}

	bounds, err := parseBoundsParams(values)
	if err != nil {
		return f, search.Page{}, nil, err
	}

	return f, page, bounds, nil
}

func parsePageParams(values url.Values, defaultLimit int) (search.Page, error) {
	page := search.Page{Limit: defaultLimit}
	if p, err := intParam(values, "limit"); err != nil {
		return page, err
	} else if p != nil {
		page.Limit = *p
	}
	if p, err := intParam(values, "offset"); err != nil {
		return page, err
	} else if p != nil {
		page.Offset = *p
	}
	return page, nil
}

// parseBoundsParams returns a rectangle only when all four edges are present.
func parseBoundsParams(values url.Values) (*search.Bounds, error) {
	edges := []string{"north", "south", "east", "west"}
	present := 0
	for _, e := range edges {
		if values.Get(e) != "" {
			present++
		}
	}
	if present == 0 {
		return nil, nil
	}
	if present < len(edges) {
		return nil, fmt.Errorf("bounds require all of north, south, east, west")
	}

	var b search.Bounds
	for _, pair := range []struct {
		key string
		dst *float64
	}{
		{"north", &b.North}, {"south", &b.South}, {"east", &b.East}, {"west", &b.West},
	} {
		v, err := strconv.ParseFloat(values.Get(pair.key), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", pair.key, values.Get(pair.key))
		}
		*pair.dst = v
	}

	if raw := values.Get("zoom"); raw != "" {
		z, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid zoom: %q", raw)
		}
		b.Zoom = z
	}
	return &b, nil
}

func floatParam(values url.Values, key string) (*float64, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &v, nil
}

func intParam(values url.Values, key string) (*int, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &v, nil
}
