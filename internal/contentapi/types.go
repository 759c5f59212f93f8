package contentapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a record identifier as issued by the content API. The API hands
// out numeric ids for most tables but some endpoints return them quoted,
// so both forms are accepted and normalised to a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids back as numbers so the API sees the same
// type it issued.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) IsNumeric() bool {
	if id == "" {
		return false
	}
	_, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil
}

func (id ID) String() string { return string(id) }

// Flag is a boolean the API stores as 0/1.
type Flag bool

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch strings.Trim(string(bytes.TrimSpace(b)), `"`) {
	case "1", "true":
		*f = true
	case "0", "false", "null", "":
		*f = false
	default:
		return fmt.Errorf("flag: unexpected value %s", b)
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

// StringList is a list of strings that older rows store as a JSON-encoded
// string rather than an array.
type StringList []string

func (l *StringList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] == '"' {
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return err
		}
		if strings.TrimSpace(inner) == "" {
			*l = nil
			return nil
		}
		b = []byte(inner)
	}
	var items []string
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	*l = items
	return nil
}

// Coord is a latitude or longitude that may arrive as a number or a string.
type Coord float64

func (c *Coord) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("coord: %w", err)
	}
	*c = Coord(f)
	return nil
}

type CarouselItem struct {
	ID           ID     `json:"id,omitempty"`
	Title        string `json:"title"`
	Text         string `json:"text"`
	TextBtn      string `json:"text_btn"`
	Link         string `json:"link"`
	Image        string `json:"image_url"`
	DisplayOrder int    `json:"display_order"`
}

// OrderEntry is one element of the batched display-order update.
type OrderEntry struct {
	ID           ID  `json:"id"`
	DisplayOrder int `json:"display_order"`
}

type Product struct {
	ID            ID         `json:"id,omitempty"`
	Title         string     `json:"title"`
	CategoryID    ID         `json:"category_id,omitempty"`
	SubcategoryID ID         `json:"subcategory_id,omitempty"`
	Category      string     `json:"category,omitempty"`
	Subcategory   string     `json:"subcategory,omitempty"`
	Description   string     `json:"description"`
	Features      StringList `json:"features"`
	Featured      Flag       `json:"featured"`
	Image         string     `json:"image,omitempty"`
}

type Category struct {
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name"`
}

type Subcategory struct {
	ID         ID     `json:"id,omitempty"`
	Name       string `json:"name"`
	CategoryID ID     `json:"category_id"`
}

type TeamMember struct {
	ID        ID     `json:"id,omitempty"`
	Name      string `json:"name"`
	Position  string `json:"position"`
	Category  string `json:"category"`
	Biography string `json:"biography"`
	Image     string `json:"image_url"`
}

type Award struct {
	ID      ID     `json:"id,omitempty"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Image   string `json:"image"`
}

type Notice struct {
	ID          ID     `json:"id,omitempty"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type Career struct {
	ID               ID         `json:"id,omitempty"`
	Category         string     `json:"category"`
	Title            string     `json:"title"`
	Location         string     `json:"location"`
	Type             string     `json:"type"`
	Description      string     `json:"description"`
	PayStart         string     `json:"payStart"`
	PayEnd           string     `json:"payEnd"`
	Skills           StringList `json:"skills"`
	Responsibilities StringList `json:"responsibilities"`
	Qualifications   StringList `json:"qualifications"`
	Certifications   StringList `json:"certifications"`
	SalaryBenefits   StringList `json:"salaryBenefits"`
}

type GPS struct {
	Lat Coord `json:"lat"`
	Lng Coord `json:"lng"`
}

// Branch is an office location. RegionName is not part of the branch row
// itself; the directory endpoint groups branches under it.
type Branch struct {
	ID         ID     `json:"id,omitempty"`
	RegionName string `json:"regionName,omitempty"`
	Location   string `json:"location"`
	Area       string `json:"area"`
	GPS        *GPS   `json:"gps,omitempty"`
}

// branchInput is the write shape the branches endpoint expects.
type branchInput struct {
	RegionName string `json:"regionName"`
	Location   string `json:"location"`
	Lat        string `json:"lat"`
	Lng        string `json:"lng"`
	Area       string `json:"area"`
}

func (b Branch) input() branchInput {
	in := branchInput{RegionName: b.RegionName, Location: b.Location, Area: b.Area}
	if b.GPS != nil {
		in.Lat = strconv.FormatFloat(float64(b.GPS.Lat), 'f', -1, 64)
		in.Lng = strconv.FormatFloat(float64(b.GPS.Lng), 'f', -1, 64)
	}
	return in
}

// BranchDirectory is the grouped listing returned by GET /branches.
type BranchDirectory struct {
	Regions       map[string][]Branch `json:"regions"`
	TotalBranches int                 `json:"totalBranches"`
}

type Region struct {
	ID   ID     `json:"id,omitempty"`
	Name string `json:"name"`
}

// Story is the shared record shape of articles, blogs and galleries.
// Gallery rows only carry Img.
type Story struct {
	ID          ID     `json:"id,omitempty"`
	Title       string `json:"title"`
	SubTitle    string `json:"subTitle"`
	Img         string `json:"img,omitempty"`
	Image       string `json:"image,omitempty"`
	Excerpt     string `json:"excerpt"`
	Story       string `json:"story"`
	QuotePerson string `json:"quote_person"`
	QuoteText   string `json:"quote_text"`
	Description string `json:"description,omitempty"`
}

type GalleryImage struct {
	ID        ID     `json:"id,omitempty"`
	GalleryID ID     `json:"gallery_id"`
	Image     string `json:"image_url"`
}

func (c CarouselItem) RecordID() ID { return c.ID }
func (p Product) RecordID() ID      { return p.ID }
func (c Category) RecordID() ID     { return c.ID }
func (s Subcategory) RecordID() ID  { return s.ID }
func (t TeamMember) RecordID() ID   { return t.ID }
func (a Award) RecordID() ID        { return a.ID }
func (n Notice) RecordID() ID       { return n.ID }
func (c Career) RecordID() ID       { return c.ID }
func (b Branch) RecordID() ID       { return b.ID }
func (s Story) RecordID() ID        { return s.ID }
func (g GalleryImage) RecordID() ID { return g.ID }

func (c CarouselItem) ImageURL() string { return c.Image }
func (p Product) ImageURL() string      { return p.Image }
func (t TeamMember) ImageURL() string   { return t.Image }
func (a Award) ImageURL() string        { return a.Image }
func (n Notice) ImageURL() string       { return n.Image }

func (s Story) ImageURL() string {
	if s.Img != "" {
		return s.Img
	}
	return s.Image
}

func (c CarouselItem) WithImage(url string) CarouselItem { c.Image = url; return c }
func (p Product) WithImage(url string) Product           { p.Image = url; return p }
func (t TeamMember) WithImage(url string) TeamMember     { t.Image = url; return t }
func (a Award) WithImage(url string) Award               { a.Image = url; return a }
func (n Notice) WithImage(url string) Notice             { n.Image = url; return n }

// WithImage sets both image columns; use AsGallery afterwards for gallery rows.
func (s Story) WithImage(url string) Story {
	s.Img = url
	s.Image = url
	return s
}

// AsGallery drops the image column gallery rows do not have.
func (s Story) AsGallery() Story {
	if s.Img == "" {
		s.Img = s.Image
	}
	s.Image = ""
	return s
}
