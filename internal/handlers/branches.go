package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/geo"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/corpweb/sitedesk/views/helpers"
	"github.com/labstack/echo/v4"
)

type RegionLister interface {
	List(ctx context.Context) ([]contentapi.Region, error)
}

func NewBranchesScreen(base *Base, store screen.Store[contentapi.Branch], regions RegionLister) *Screen[contentapi.Branch] {
	regionOptions := func(ctx context.Context, selected string) []views.Option {
		list, err := regions.List(ctx)
		if err != nil {
			slog.Error("failed to load regions", "error", err)
		}
		out := make([]views.Option, 0, len(list)+1)
		found := false
		for _, r := range list {
			out = append(out, views.Option{Value: r.Name, Label: r.Name, Selected: r.Name == selected})
			found = found || r.Name == selected
		}
		if selected != "" && !found {
			out = append(out, views.Option{Value: selected, Label: selected, Selected: true})
		}
		return out
	}

	return &Screen[contentapi.Branch]{
		Base:    base,
		Manager: screen.NewManager("Branch", store, base.uploader),
		Title:   "Branches",
		Key:     "branches",
		Path:    "/admin/settings/branches",
		ListURL: "/admin/settings/branches",
		Columns: []string{"Location", "Area", "Coordinates"},
		Row: func(b contentapi.Branch) []views.Cell {
			coords := ""
			if pt, ok := geo.FromGPS(b.GPS); ok {
				coords = pt.String()
			}
			return []views.Cell{text(b.Location), text(b.Area), text(coords)}
		},
		Fields: func(ctx context.Context, b contentapi.Branch) []views.Field {
			lat, lng := "", ""
			if pt, ok := geo.FromGPS(b.GPS); ok {
				lat, lng = pt.LatString(), pt.LngString()
			}
			return []views.Field{
				{Name: "regionName", Label: "Region", Kind: views.FieldSelect, Options: regionOptions(ctx, b.RegionName), Required: true},
				{Name: "location", Label: "Location", Kind: views.FieldText, Value: b.Location, Required: true},
				{Name: "area", Label: "Area", Kind: views.FieldText, Value: b.Area},
				{Name: "lat", Label: "Latitude", Kind: views.FieldNumber, Value: lat, Required: true},
				{Name: "lng", Label: "Longitude", Kind: views.FieldNumber, Value: lng, Required: true},
			}
		},
		Bind: bindBranch,
		Map: func(b contentapi.Branch) *views.MapPicker {
			picker := geo.NewPicker()
			fields := geo.Fields{}
			if pt, ok := geo.FromGPS(b.GPS); ok {
				fields = geo.Fields{Lat: pt.LatString(), Lng: pt.LngString()}
			}
			picker.Open(fields)
			center := picker.Center()
			_, marked := picker.Selected()
			return &views.MapPicker{
				Marked:   marked,
				Lat:      center.Lat,
				Lng:      center.Lng,
				Zoom:     picker.Zoom(),
				TileURL:  geo.TileURL,
				LatField: "lat",
				LngField: "lng",
			}
		},
		Filter: func(c echo.Context, items []contentapi.Branch) ([]contentapi.Branch, *views.Filter) {
			region := c.QueryParam("region")
			filter := &views.Filter{
				Action:      "/admin/settings/branches",
				SelectName:  "region",
				SelectLabel: "regions",
				Options:     regionOptions(c.Request().Context(), region),
			}
			if region == "" {
				return items, filter
			}
			out := make([]contentapi.Branch, 0, len(items))
			for _, b := range items {
				if b.RegionName == region {
					out = append(out, b)
				}
			}
			return out, filter
		},
		Layout: groupBranches,
		Label:  func(b contentapi.Branch) string { return b.RegionName + " / " + b.Location },
	}
}

func bindBranch(c echo.Context, b contentapi.Branch) (contentapi.Branch, error) {
	b.RegionName = formText(c, "regionName")
	b.Location = formText(c, "location")
	b.Area = formText(c, "area")

	pt, err := geo.ParsePoint(c.FormValue("lat"), c.FormValue("lng"))
	if err != nil {
		return b, fmt.Errorf("%w: %v", screen.ErrInvalid, err)
	}
	b.GPS = pt.GPS()

	if err := required(b.RegionName, "Region"); err != nil {
		return b, err
	}
	return b, required(b.Location, "Location")
}

// groupBranches shows the branches under their region, regions in name
// order, with the overall count.
func groupBranches(_ echo.Context, items []contentapi.Branch, v *views.Manager) {
	byRegion := map[string][]views.Row{}
	for i, b := range items {
		byRegion[b.RegionName] = append(byRegion[b.RegionName], v.Table.Rows[i])
	}
	names := make([]string, 0, len(byRegion))
	for name := range byRegion {
		names = append(names, name)
	}
	sort.Strings(names)

	v.Groups = make([]views.Group, len(names))
	for i, name := range names {
		rows := byRegion[name]
		v.Groups[i] = views.Group{
			Title:    name,
			Subtitle: fmt.Sprintf("%d %s", len(rows), helpers.Plural(len(rows), "branch", "branches")),
			Table:    views.Table{Columns: v.Table.Columns, Rows: rows},
		}
	}
	v.Total = len(items)
	v.Table.Empty = "No branches found."
}
