package store

import (
	"context"

	"tagsheet/internal/tagcell"
)

// SeedSheet is the sheet a fresh database starts with.
func SeedSheet() *Sheet {
	return &Sheet{
		Title: "Products",
		Columns: []Column{
			{ID: "product", Title: "Product", Kind: ColumnText, Width: 18},
			{ID: "price", Title: "Price", Kind: ColumnNumber, Width: 9},
			{ID: "info", Title: "Info", Kind: ColumnText, Width: 24},
			{
				ID: "tags", Title: "Tags", Kind: ColumnTags, Width: 32,
				Options: tagcell.OptionInputs{
					tagcell.Record("new", "New", "#2f9e44"),
					tagcell.Record("sale", "On sale", "#e03131"),
					tagcell.Record("organic", "Organic", "#ffd43b"),
					tagcell.Bare("imported"),
				},
				AllowCreation: true,
			},
			{ID: "labels", Title: "Labels", Kind: ColumnTags, Width: 24, AllowCreation: true, AllowDuplicates: true},
		},
		Rows: []Row{
			{ID: "r1", Cells: map[string]CellValue{
				"product": TextValue("Apples"),
				"price":   TextValue("1.2"),
				"info":    TextValue("Crisp, sweet"),
				"tags":    TagsValue([]string{"organic", "new"}),
				"labels":  TagsValue([]string{"fruit"}),
			}},
			{ID: "r2", Cells: map[string]CellValue{
				"product": TextValue("Coffee beans"),
				"price":   TextValue("12.5"),
				"info":    TextValue("Medium roast"),
				"tags":    TagsValue([]string{"imported", "sale"}),
				"labels":  TagsValue([]string{"pantry", "pantry"}),
			}},
			{ID: "r3", Cells: map[string]CellValue{
				"product": TextValue("Olive oil"),
				"price":   TextValue("8"),
				"info":    TextValue("Cold pressed"),
				"tags":    TagsValue([]string{"imported", "organic", "sale", "fair-trade"}),
				"labels":  TagsValue(nil),
			}},
		},
	}
}

// SeedIfEmpty writes SeedSheet into an empty database and reports whether it did.
func (s Store) SeedIfEmpty(ctx context.Context) (bool, error) {
	empty, err := s.Empty(ctx)
	if err != nil || !empty {
		return false, err
	}
	return true, s.Save(ctx, SeedSheet())
}
