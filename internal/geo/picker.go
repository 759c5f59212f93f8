package geo

// Fields are the branch form inputs the picker reads from.
type Fields struct {
	Lat string
	Lng string
}

// Picker is the map dialog on the branch form. It opens centred on the
// branch's current coordinates, or on Default when there are none. Clicks
// on the map are handled by the page script, which writes the point into
// the form and closes the dialog.
type Picker struct {
	center   Point
	zoom     int
	selected *Point
}

func NewPicker() *Picker {
	return &Picker{center: Default, zoom: DefaultZoom}
}

// Open prepares the map for f. When f holds valid coordinates the map is
// centred there and they are shown as the current selection.
func (p *Picker) Open(f Fields) {
	p.center = Default
	p.selected = nil
	if pt, err := ParsePoint(f.Lat, f.Lng); err == nil {
		p.center = pt
		p.selected = &pt
	}
}

func (p *Picker) Center() Point { return p.center }
func (p *Picker) Zoom() int     { return p.zoom }

// Selected is the point marked on the map when it opens.
func (p *Picker) Selected() (Point, bool) {
	if p.selected == nil {
		return Point{}, false
	}
	return *p.selected, true
}
