// docsgen renders the builtin crafting catalogs to markdown under
// docs/reference/catalogs. Run it after changing internal/content.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/appengine-ltd/craft-it/internal/content"
	"github.com/appengine-ltd/craft-it/internal/crafting"
)

type docFile struct {
	Name    string
	Title   string
	Content string
}

func main() {
	reg := crafting.NewRegistry()
	content.RegisterBuiltin(reg)

	root := filepath.Join("docs", "reference", "catalogs")
	if err := os.MkdirAll(root, 0o755); err != nil {
		fatal(err)
	}

	files := []docFile{
		generateMaterialsDoc(reg),
		generateComponentKindsDoc(reg),
		generateItemsDoc(reg),
		generateRecipesDoc(reg),
	}
	for _, f := range files {
		path := filepath.Join(root, f.Name)
		if err := os.WriteFile(path, []byte(f.Content), 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	index := generateCatalogIndex(files)
	indexPath := filepath.Join(root, "README.md")
	if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %s\n", indexPath)
}

func generateCatalogIndex(files []docFile) string {
	var b strings.Builder
	b.WriteString("# Data Catalogs\n\n")
	b.WriteString("Generated from the current Go source using `go run ./cmd/docsgen`.\n\n")
	for _, f := range files {
		b.WriteString(fmt.Sprintf("- [%s](./%s)\n", f.Title, f.Name))
	}
	return b.String()
}

func generateMaterialsDoc(reg *crafting.Registry) docFile {
	mats := reg.AllMaterials()
	sort.Slice(mats, func(i, j int) bool { return mats[i].ID < mats[j].ID })
	subs := reg.AllSubmaterials()
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })

	var b strings.Builder
	b.WriteString("# Materials\n\n")
	b.WriteString("Source: `internal/content/builtin.go`.\n\n")
	b.WriteString(fmt.Sprintf("Total materials: **%d**, submaterials: **%d**.\n\n", len(mats), len(subs)))
	b.WriteString("| Material | Submaterial | Name |\n")
	b.WriteString("| --- | --- | --- |\n")
	for _, m := range mats {
		b.WriteString(fmt.Sprintf("| %s | | %s |\n", escape(string(m.ID)), escape(m.Name)))
		for _, s := range subs {
			if s.Material != m.ID {
				continue
			}
			b.WriteString(fmt.Sprintf("| | %s | %s |\n", escape(string(s.ID)), escape(s.Name)))
		}
	}
	return docFile{Name: "materials.md", Title: "Materials", Content: b.String()}
}

func generateComponentKindsDoc(reg *crafting.Registry) docFile {
	kinds := reg.AllComponentKinds()
	sort.Slice(kinds, func(i, j int) bool { return kinds[i].ID < kinds[j].ID })

	var b strings.Builder
	b.WriteString("# Component Kinds\n\n")
	b.WriteString("| ID | Name | Accepted Materials | Makeshift Tags |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, k := range kinds {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escape(string(k.ID)), escape(k.Name),
			escape(joinIDs(k.AcceptedMaterials)),
			escape(joinIDs(k.MakeshiftTags))))
	}
	return docFile{Name: "component_kinds.md", Title: "Component Kinds", Content: b.String()}
}

func generateItemsDoc(reg *crafting.Registry) docFile {
	items := reg.AllItems()
	sort.Slice(items, func(i, j int) bool {
		if items[i].Tier() != items[j].Tier() {
			return items[i].Tier() < items[j].Tier()
		}
		return items[i].ID < items[j].ID
	})

	var b strings.Builder
	b.WriteString("# Items\n\n")
	b.WriteString(fmt.Sprintf("Total items: **%d**.\n\n", len(items)))
	b.WriteString("| ID | Tier | Name | Notes |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, it := range items {
		notes := make([]string, 0, 3)
		if !it.Pickupable {
			notes = append(notes, "fixture")
		}
		if it.Placeable != nil {
			notes = append(notes, "places "+it.Placeable.String())
		}
		if ck, ok := it.Kind.(crafting.CompositeItem); ok {
			slots := make([]string, 0, len(ck.Slots))
			for _, s := range ck.Slots {
				slots = append(slots, fmt.Sprintf("%s:%s", s.Name, s.ComponentKind))
			}
			notes = append(notes, "slots "+strings.Join(slots, ", "))
			if ck.ToolType != "" {
				notes = append(notes, string(ck.ToolType)+" tool")
			}
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escape(string(it.ID)), escape(string(it.Tier())), escape(it.Name),
			escape(strings.Join(notes, "; "))))
	}
	return docFile{Name: "items.md", Title: "Items", Content: b.String()}
}

func generateRecipesDoc(reg *crafting.Registry) docFile {
	var b strings.Builder
	b.WriteString("# Recipes\n\n")

	b.WriteString("## Simple\n\n")
	b.WriteString("| ID | Inputs | Output | Gates |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	simples := reg.AllSimpleRecipes()
	sort.Slice(simples, func(i, j int) bool { return simples[i].ID < simples[j].ID })
	for _, r := range simples {
		inputs := make([]string, 0, len(r.Inputs))
		for _, in := range r.Inputs {
			inputs = append(inputs, describeInput(in))
		}
		out := string(r.Output)
		if r.OutputQuantity > 1 {
			out = fmt.Sprintf("%s x%d", out, r.OutputQuantity)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escape(string(r.ID)), escape(strings.Join(inputs, " + ")), escape(out),
			escape(describeGates(r.Tool, r.WorldObject))))
	}

	b.WriteString("\n## Component\n\n")
	b.WriteString("| ID | Input | Output Kind | Gates |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	components := reg.AllComponentRecipes()
	sort.Slice(components, func(i, j int) bool { return components[i].ID < components[j].ID })
	for _, r := range components {
		input := "any accepted submaterial"
		if r.Input != nil {
			input = describeInput(*r.Input)
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escape(string(r.ID)), escape(input), escape(string(r.Output)),
			escape(describeGates(r.Tool, r.WorldObject))))
	}

	b.WriteString("\n## Composite\n\n")
	b.WriteString("| ID | Output | Slot Requirements | Gates |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	composites := reg.AllCompositeRecipes()
	sort.Slice(composites, func(i, j int) bool { return composites[i].ID < composites[j].ID })
	for _, r := range composites {
		reqs := make([]string, 0, len(r.SlotReqs))
		for _, sr := range r.SlotReqs {
			reqs = append(reqs, sr.FillsSlot+": "+describeInput(sr))
		}
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escape(string(r.ID)), escape(string(r.Output)),
			escape(strings.Join(reqs, "; ")),
			escape(describeGates(r.Tool, r.WorldObject))))
	}

	return docFile{Name: "recipes.md", Title: "Recipes", Content: b.String()}
}

func describeInput(in crafting.MaterialInput) string {
	parts := make([]string, 0, 3)
	if in.ItemID != "" {
		parts = append(parts, string(in.ItemID))
	}
	if len(in.RequiredTags) > 0 {
		parts = append(parts, "tags "+joinIDs(in.RequiredTags))
	}
	if in.Quantity > 1 {
		parts = append(parts, fmt.Sprintf("x%d", in.Quantity))
	}
	if in.MinQuality > crafting.QualityMakeshift {
		parts = append(parts, in.MinQuality.String()+"+")
	}
	if in.ProvenanceReqs != nil {
		parts = append(parts, "provenance-gated")
	}
	if len(parts) == 0 {
		return "any"
	}
	return strings.Join(parts, " ")
}

func describeGates(tool *crafting.ToolRequirement, wo *crafting.WorldObjectRequirement) string {
	parts := make([]string, 0, 2)
	if tool != nil {
		parts = append(parts, fmt.Sprintf("%s %s+", tool.ToolType, tool.MinQuality))
	}
	if wo != nil {
		if wo.Kind != nil {
			parts = append(parts, "at "+wo.Kind.String())
		}
		if len(wo.RequiredTags) > 0 {
			parts = append(parts, "tags "+joinIDs(wo.RequiredTags))
		}
	}
	return strings.Join(parts, ", ")
}

func joinIDs[T ~string](ids []T) string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, string(id))
	}
	return strings.Join(out, ", ")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "docsgen:", err)
	os.Exit(1)
}
