package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/gridpaint/interaction"
	"github.com/milk9111/gridpaint/placement"
	"github.com/milk9111/gridpaint/registry"
)

type paletteEntry struct {
	kind placement.Kind
	id   string
	name string
}

// Palette lists every tile and character type. Picking an entry makes it
// the thing the Create tool places.
type Palette struct {
	container *widget.Container
	list      *widget.List
	entries   []any
	svc       *interaction.Service
	suppress  bool
}

func buildPalette(fontFace *text.Face, svc *interaction.Service, set *registry.Set) *Palette {
	p := &Palette{svc: svc}
	p.container = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(200, 400),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelColor)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Left: 8, Right: 8}),
			),
		),
	)
	p.container.AddChild(widget.NewLabel(
		widget.LabelOpts.Text("Palette", fontFace, labelColor),
	))

	p.entries = paletteEntries(set)
	p.list = widget.NewList(
		widget.ListOpts.Entries(p.entries),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if entry, ok := e.(paletteEntry); ok {
				if entry.kind == placement.KindCharacter {
					return "@ " + entry.name
				}
				return entry.name
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			entry, ok := args.Entry.(paletteEntry)
			if !ok || p.suppress {
				return
			}
			p.apply(entry)
		}),
	)
	p.container.AddChild(p.list)
	return p
}

func paletteEntries(set *registry.Set) []any {
	entries := make([]any, 0, set.Tiles.Len()+set.Characters.Len())
	for _, id := range set.Tiles.IDs() {
		def, err := set.Tiles.Lookup(id)
		if err != nil {
			continue
		}
		entries = append(entries, paletteEntry{kind: placement.KindTile, id: id, name: def.DisplayName()})
	}
	for _, id := range set.Characters.IDs() {
		def, err := set.Characters.Lookup(id)
		if err != nil {
			continue
		}
		entries = append(entries, paletteEntry{kind: placement.KindCharacter, id: id, name: def.DisplayName()})
	}
	return entries
}

func (p *Palette) apply(entry paletteEntry) {
	if entry.kind == placement.KindCharacter {
		p.svc.SetSelectedCharacter(entry.id)
	} else {
		p.svc.SetSelectedTile(entry.id)
	}
}

// Select highlights the entry and makes it the current selection.
func (p *Palette) Select(kind placement.Kind, id string) {
	for _, e := range p.entries {
		entry := e.(paletteEntry)
		if entry.kind != kind || entry.id != id {
			continue
		}
		p.suppress = true
		p.list.SetSelectedEntry(e)
		p.suppress = false
		p.apply(entry)
		return
	}
}

// SetEntries rebuilds the list for a reloaded registry, keeping the current
// selection when its type still exists.
func (p *Palette) SetEntries(set *registry.Set) {
	st := p.svc.State()
	p.entries = paletteEntries(set)
	p.suppress = true
	p.list.SetEntries(p.entries)
	p.suppress = false
	switch {
	case st.SelectedTile != "" && set.Tiles.Has(st.SelectedTile):
		p.Select(placement.KindTile, st.SelectedTile)
	case st.SelectedCharacter != "":
		if _, err := set.Characters.Lookup(st.SelectedCharacter); err == nil {
			p.Select(placement.KindCharacter, st.SelectedCharacter)
		}
	}
}
