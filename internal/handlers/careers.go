package handlers

import (
	"context"
	"slices"
	"strings"

	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/labstack/echo/v4"
)

var defaultCareerCategories = []string{"HR", "Operations", "Corporate Communication", "Audit", "IT"}

var careerTypes = []choice{
	{"Full time", "Full time"},
	{"Part time", "Part time"},
	{"Contract", "Contract"},
	{"Temporary", "Temporary"},
}

func NewCareersScreen(base *Base, store screen.Store[contentapi.Career]) *Screen[contentapi.Career] {
	return &Screen[contentapi.Career]{
		Base:    base,
		Manager: screen.NewManager("Role", store, base.uploader),
		Title:   "Careers",
		Key:     "careers",
		Path:    "/admin/careers",
		ListURL: "/admin/careers",
		Columns: []string{"Title", "Category", "Location", "Type", "Pay", "Skills"},
		Row: func(r contentapi.Career) []views.Cell {
			return []views.Cell{
				text(r.Title),
				text(r.Category),
				text(r.Location),
				text(r.Type),
				text(payRange(r)),
				{Kind: views.CellTags, Tags: r.Skills},
			}
		},
		Fields: func(_ context.Context, r contentapi.Career) []views.Field {
			return []views.Field{
				{Name: "title", Label: "Title", Kind: views.FieldText, Value: r.Title, Required: true},
				{Name: "category", Label: "Category", Kind: views.FieldSelect, Options: careerCategoryOptions(nil, r.Category), Required: true},
				{Name: "location", Label: "Location", Kind: views.FieldText, Value: r.Location},
				{Name: "type", Label: "Type", Kind: views.FieldSelect, Options: choices(careerTypes, r.Type), Required: true},
				{Name: "description", Label: "Description", Kind: views.FieldTextarea, Value: r.Description},
				{Name: "payStart", Label: "Pay from", Kind: views.FieldText, Value: r.PayStart},
				{Name: "payEnd", Label: "Pay to", Kind: views.FieldText, Value: r.PayEnd},
				{Name: "skills", Label: "Skills", Kind: views.FieldList, Value: listValue(r.Skills)},
				{Name: "responsibilities", Label: "Responsibilities", Kind: views.FieldList, Value: listValue(r.Responsibilities)},
				{Name: "qualifications", Label: "Qualifications", Kind: views.FieldList, Value: listValue(r.Qualifications)},
				{Name: "certifications", Label: "Certifications", Kind: views.FieldList, Value: listValue(r.Certifications)},
				{Name: "salaryBenefits", Label: "Salary & benefits", Kind: views.FieldList, Value: listValue(r.SalaryBenefits)},
			}
		},
		Bind: func(c echo.Context, r contentapi.Career) (contentapi.Career, error) {
			r.Title = formText(c, "title")
			r.Category = formText(c, "category")
			r.Location = formText(c, "location")
			r.Type = formText(c, "type")
			r.Description = formText(c, "description")
			r.PayStart = formText(c, "payStart")
			r.PayEnd = formText(c, "payEnd")
			r.Skills = formList(c, "skills")
			r.Responsibilities = formList(c, "responsibilities")
			r.Qualifications = formList(c, "qualifications")
			r.Certifications = formList(c, "certifications")
			r.SalaryBenefits = formList(c, "salaryBenefits")
			if err := required(r.Title, "Title"); err != nil {
				return r, err
			}
			return r, required(r.Category, "Category")
		},
		Filter: filterCareers,
		Label:  func(r contentapi.Career) string { return r.Title },
	}
}

// filterCareers applies the search term (title or description) and the
// category select.
func filterCareers(c echo.Context, roles []contentapi.Career) ([]contentapi.Career, *views.Filter) {
	q := strings.TrimSpace(c.QueryParam("q"))
	category := c.QueryParam("category")

	needle := strings.ToLower(q)
	out := make([]contentapi.Career, 0, len(roles))
	for _, r := range roles {
		if needle != "" &&
			!strings.Contains(strings.ToLower(r.Title), needle) &&
			!strings.Contains(strings.ToLower(r.Description), needle) {
			continue
		}
		if category != "" && r.Category != category {
			continue
		}
		out = append(out, r)
	}

	return out, &views.Filter{
		Action:      "/admin/careers",
		Query:       q,
		SelectName:  "category",
		SelectLabel: "categories",
		Options:     careerCategoryOptions(roles, category),
	}
}

// careerCategoryOptions is the default categories plus any other category
// the roles use.
func careerCategoryOptions(roles []contentapi.Career, selected string) []views.Option {
	names := slices.Clone(defaultCareerCategories)
	add := func(name string) {
		if name != "" && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	for _, r := range roles {
		add(r.Category)
	}
	add(selected)

	out := make([]views.Option, len(names))
	for i, n := range names {
		out[i] = views.Option{Value: n, Label: n, Selected: n == selected}
	}
	return out
}

func payRange(r contentapi.Career) string {
	switch {
	case r.PayStart != "" && r.PayEnd != "":
		return r.PayStart + " – " + r.PayEnd
	case r.PayStart != "":
		return "From " + r.PayStart
	case r.PayEnd != "":
		return "Up to " + r.PayEnd
	}
	return ""
}
