// Package geo holds the branch map picker: coordinates chosen on the map
// and the state of the picker dialog.
package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/corpweb/sitedesk/internal/contentapi"
)

var (
	ErrMissing    = errors.New("latitude and longitude are required")
	ErrOutOfRange = errors.New("coordinates out of range")
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// Default is where the map opens when the branch has no coordinates yet.
var Default = Point{Lat: 7.9465, Lng: -1.0232}

const DefaultZoom = 7

// TileURL is the OpenStreetMap tile template the picker loads.
const TileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"

// ParsePoint reads the form's lat and lng fields.
func ParsePoint(lat, lng string) (Point, error) {
	lat, lng = strings.TrimSpace(lat), strings.TrimSpace(lng)
	if lat == "" || lng == "" {
		return Point{}, ErrMissing
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return Point{}, fmt.Errorf("latitude %q: %w", lat, err)
	}
	ln, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return Point{}, fmt.Errorf("longitude %q: %w", lng, err)
	}
	p := Point{Lat: la, Lng: ln}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 || p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: %s", ErrOutOfRange, p)
	}
	return nil
}

func (p Point) String() string {
	return p.LatString() + "," + p.LngString()
}

func (p Point) LatString() string { return strconv.FormatFloat(p.Lat, 'f', -1, 64) }
func (p Point) LngString() string { return strconv.FormatFloat(p.Lng, 'f', -1, 64) }

// GPS converts p for a branch record.
func (p Point) GPS() *contentapi.GPS {
	return &contentapi.GPS{Lat: contentapi.Coord(p.Lat), Lng: contentapi.Coord(p.Lng)}
}

// FromGPS returns the branch's coordinates, if it has any.
func FromGPS(g *contentapi.GPS) (Point, bool) {
	if g == nil {
		return Point{}, false
	}
	return Point{Lat: float64(g.Lat), Lng: float64(g.Lng)}, true
}
