package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/slidedeck/ecs"
)

type entityRow struct {
	ID         ecs.EntityId
	Components []string
}

func (r entityRow) matches(filter string) bool {
	if filter == "" {
		return true
	}
	filter = strings.ToLower(filter)
	if strings.Contains(fmt.Sprintf("%d", r.ID.Index()), filter) {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(r.Components, " ")), filter)
}

const (
	columnID = iota
	columnComponents
	columnCount
)

type entityBrowser struct {
	storage  *ecs.Storage
	rows     []entityRow
	selected ecs.EntityId
	filter   string
	perPage  int
	page     int

	sortColumn    int
	sortAscending bool
}

func newEntityBrowser(storage *ecs.Storage, perPage int) *entityBrowser {
	return &entityBrowser{storage: storage, perPage: perPage, sortAscending: true}
}

// Selected returns the selected entity, or zero when it was destroyed.
func (b *entityBrowser) Selected() ecs.EntityId {
	if b.selected.IsZero() || !b.storage.Alive(b.selected) {
		return 0
	}
	return b.selected
}

func collectEntities(storage *ecs.Storage) []entityRow {
	rows := make([]entityRow, 0, storage.Len())
	for id := range storage.Entities() {
		types := storage.ComponentTypes(id)
		names := make([]string, len(types))
		for i, t := range types {
			names[i] = t.String()
		}
		rows = append(rows, entityRow{ID: id, Components: names})
	}
	return rows
}

func sortEntities(rows []entityRow, column int, ascending bool) {
	slices.SortStableFunc(rows, func(a, b entityRow) int {
		var c int
		switch column {
		case columnComponents:
			c = strings.Compare(strings.Join(a.Components, ","), strings.Join(b.Components, ","))
		case columnCount:
			c = cmp.Compare(len(a.Components), len(b.Components))
		default:
			c = cmp.Compare(a.ID.Index(), b.ID.Index())
		}
		if !ascending {
			c = -c
		}
		return c
	})
}

func filterEntities(rows []entityRow, filter string) []entityRow {
	if filter == "" {
		return rows
	}
	out := make([]entityRow, 0, len(rows))
	for _, r := range rows {
		if r.matches(filter) {
			out = append(out, r)
		}
	}
	return out
}

func (b *entityBrowser) render() {
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	b.rows = collectEntities(b.storage)
	sortEntities(b.rows, b.sortColumn, b.sortAscending)

	imgui.InputTextWithHint("##search", "Search...", &b.filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear") {
		b.filter = ""
		b.page = 0
	}

	visible := filterEntities(b.rows, b.filter)
	pages := max(1, (len(visible)+b.perPage-1)/b.perPage)
	b.page = min(b.page, pages-1)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 3, tableFlags, imgui.NewVec2(0, 300), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		specs := imgui.TableGetSortSpecs()
		if specs.SpecsDirty() && specs.SpecsCount() > 0 {
			spec := specs.Specs()
			b.sortColumn = int(spec.ColumnIndex())
			b.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortEntities(visible, b.sortColumn, b.sortAscending)
			specs.SetSpecsDirty(false)
		}

		start := b.page * b.perPage
		end := min(start+b.perPage, len(visible))
		for _, row := range visible[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			label := fmt.Sprintf("%d (gen %d)", row.ID.Index(), row.ID.Generation())
			if imgui.SelectableBoolV(label, b.selected == row.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				b.selected = row.ID
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.Components, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(row.Components)))
		}
		imgui.EndTable()
	}

	if pages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", b.page+1, pages, len(visible)))
		imgui.SameLine()
		if imgui.Button("Prev") && b.page > 0 {
			b.page--
		}
		imgui.SameLine()
		if imgui.Button("Next") && b.page < pages-1 {
			b.page++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(visible)))
	}

	imgui.End()
}
