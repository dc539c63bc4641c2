package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appengine-ltd/craft-it/internal/crafting"
)

const obsidianPack = `
materials:
  - id: glass
    name: Glass
    description: Volcanic glass
submaterials:
  - id: obsidian
    material: glass
    name: Obsidian
component_kinds:
  - id: razor_blade
    name: Razor Blade
    accepted_materials: [glass]
    makeshift_tags: [knife]
items:
  - id: obsidian_shard
    name: Obsidian Shard
    submaterial: obsidian
  - id: razor
    name: Razor
    tier: composite
    category: tool
    tool_type: knife
    slots:
      - name: blade
        kind: razor_blade
      - name: handle
        kind: handle
recipes:
  component:
    - id: flake_razor_blade
      name: Flake Razor Blade
      output: razor_blade
      input:
        tags: [glass]
      formula:
        kind: custom
        custom: tool_quality_based
  composite:
    - id: assemble_razor
      name: Assemble Razor
      output: razor
      slot_requirements:
        - slot: blade
          min_quality: common
          provenance:
            tool:
              tags: [hammer]
      formula:
        kind: weighted
        weights:
          blade: 0.8
          handle: 0.2
`

func TestLoadCatalogAppliesOnTopOfBuiltin(t *testing.T) {
	reg := crafting.NewRegistry()
	RegisterBuiltin(reg)

	cat, err := LoadCatalog(strings.NewReader(obsidianPack))
	require.NoError(t, err)
	require.NoError(t, cat.Apply(reg))

	_, ok := reg.Material("glass")
	assert.True(t, ok)
	razor, ok := reg.Item("razor")
	require.True(t, ok)
	comp, ok := razor.Kind.(crafting.CompositeItem)
	require.True(t, ok)
	// The handle slot resolves against the builtin component kind.
	require.Len(t, comp.Slots, 2)
	assert.Equal(t, crafting.ComponentKindID("handle"), comp.Slots[1].ComponentKind)

	rec, ok := reg.CompositeRecipe("assemble_razor")
	require.True(t, ok)
	require.Len(t, rec.SlotReqs, 1)
	assert.Equal(t, "blade", rec.SlotReqs[0].FillsSlot)
	assert.Equal(t, crafting.QualityCommon, rec.SlotReqs[0].MinQuality)
	require.NotNil(t, rec.SlotReqs[0].ProvenanceReqs)
	require.NotNil(t, rec.SlotReqs[0].ProvenanceReqs.Tool)
	assert.Equal(t, []crafting.MaterialTag{"hammer"}, rec.SlotReqs[0].ProvenanceReqs.Tool.RequiredTags)
}

func TestLoadCatalogRejectsUnknownFields(t *testing.T) {
	_, err := LoadCatalog(strings.NewReader("materials:\n  - id: glass\n    colour: black\n"))
	assert.Error(t, err)
}

func TestApplyRejectsDanglingReferences(t *testing.T) {
	reg := crafting.NewRegistry()

	cat, err := LoadCatalog(strings.NewReader("submaterials:\n  - id: obsidian\n    material: glass\n"))
	require.NoError(t, err)
	err = cat.Apply(reg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown material")

	// Nothing may be registered from a catalog that failed validation.
	assert.Empty(t, reg.AllSubmaterials())
}

func TestApplyRejectsBadQualityName(t *testing.T) {
	reg := crafting.NewRegistry()
	RegisterBuiltin(reg)

	doc := `
recipes:
  component:
    - id: bad
      name: Bad
      output: handle
      input:
        min_quality: shoddy
`
	cat, err := LoadCatalog(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Error(t, cat.Apply(reg))
}
