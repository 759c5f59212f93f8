package handlers

import "github.com/corpweb/sitedesk/views"

type choice struct {
	value string
	label string
}

func choices(list []choice, selected string) []views.Option {
	out := make([]views.Option, len(list))
	for i, ch := range list {
		out[i] = views.Option{Value: ch.value, Label: ch.label, Selected: ch.value == selected}
	}
	return out
}

func labelOf(list []choice, value string) string {
	for _, ch := range list {
		if ch.value == value {
			return ch.label
		}
	}
	return value
}

func text(s string) views.Cell  { return views.Cell{Kind: views.CellText, Text: s} }
func image(s string) views.Cell { return views.Cell{Kind: views.CellImage, URL: s} }
