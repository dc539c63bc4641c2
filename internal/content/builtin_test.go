package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appengine-ltd/craft-it/internal/crafting"
)

func TestRegisterBuiltin(t *testing.T) {
	reg := crafting.NewRegistry()
	RegisterBuiltin(reg)

	for _, id := range []crafting.MaterialID{"stone", "wood", "bone", "fiber", "leather", "metal", "clay", "meat"} {
		_, ok := reg.Material(id)
		assert.True(t, ok, "material %s", id)
	}
	for _, id := range []crafting.SubmaterialID{"flint_stone", "plant_fiber", "wolf_bone", "copper_ore"} {
		_, ok := reg.Submaterial(id)
		assert.True(t, ok, "submaterial %s", id)
	}
	for _, id := range []crafting.ComponentKindID{"handle", "binding", "knife_blade", "hammer_head"} {
		_, ok := reg.ComponentKind(id)
		assert.True(t, ok, "component kind %s", id)
	}
	for _, id := range []crafting.ItemID{"stick", "rock", "flint", "knife", "axe", "pickaxe", "hammer", "forge"} {
		_, ok := reg.Item(id)
		assert.True(t, ok, "item %s", id)
	}

	_, ok := reg.SimpleRecipe("knap_flint_blade")
	assert.True(t, ok)
	_, ok = reg.ComponentRecipe("craft_wood_handle")
	assert.True(t, ok)
	_, ok = reg.CompositeRecipe("assemble_knife")
	assert.True(t, ok)
}

func TestKnifeHasThreeSlots(t *testing.T) {
	reg := crafting.NewRegistry()
	RegisterBuiltin(reg)

	knife, ok := reg.Item("knife")
	require.True(t, ok)
	comp, ok := knife.Kind.(crafting.CompositeItem)
	require.True(t, ok, "knife should be a composite")
	require.Len(t, comp.Slots, 3)
	assert.Equal(t, "blade", comp.Slots[0].Name)
	assert.Equal(t, "handle", comp.Slots[1].Name)
	assert.Equal(t, "binding", comp.Slots[2].Name)
	assert.Equal(t, crafting.ToolKnife, comp.ToolType)
}

func TestHandleAcceptsWoodAndBone(t *testing.T) {
	reg := crafting.NewRegistry()
	RegisterBuiltin(reg)

	handle, ok := reg.ComponentKind("handle")
	require.True(t, ok)
	assert.True(t, handle.Accepts("wood"))
	assert.True(t, handle.Accepts("bone"))
	assert.False(t, handle.Accepts("metal"))
}

func TestBuiltinDefinitionsAreInternallyConsistent(t *testing.T) {
	reg := crafting.NewRegistry()
	RegisterBuiltin(reg)

	for _, sub := range reg.AllSubmaterials() {
		_, ok := reg.Material(sub.Material)
		assert.True(t, ok, "submaterial %s references material %s", sub.ID, sub.Material)
	}
	for _, kind := range reg.AllComponentKinds() {
		for _, m := range kind.AcceptedMaterials {
			_, ok := reg.Material(m)
			assert.True(t, ok, "kind %s accepts material %s", kind.ID, m)
		}
	}
	for _, def := range reg.AllItems() {
		switch k := def.Kind.(type) {
		case crafting.SimpleItem:
			if k.Submaterial != "" {
				_, ok := reg.Submaterial(k.Submaterial)
				assert.True(t, ok, "item %s references submaterial %s", def.ID, k.Submaterial)
			}
		case crafting.ComponentItem:
			_, ok := reg.ComponentKind(k.ComponentKind)
			assert.True(t, ok, "item %s references kind %s", def.ID, k.ComponentKind)
		case crafting.CompositeItem:
			for _, sl := range k.Slots {
				_, ok := reg.ComponentKind(sl.ComponentKind)
				assert.True(t, ok, "item %s slot %s references kind %s", def.ID, sl.Name, sl.ComponentKind)
			}
		}
	}
	for _, rec := range reg.AllSimpleRecipes() {
		_, ok := reg.Item(rec.Output)
		assert.True(t, ok, "recipe %s outputs item %s", rec.ID, rec.Output)
	}
	for _, rec := range reg.AllComponentRecipes() {
		_, ok := reg.ComponentKind(rec.Output)
		assert.True(t, ok, "recipe %s outputs kind %s", rec.ID, rec.Output)
	}
	for _, rec := range reg.AllCompositeRecipes() {
		_, ok := reg.Item(rec.Output)
		assert.True(t, ok, "recipe %s outputs item %s", rec.ID, rec.Output)
	}
}

func TestBuiltinProgressionPlaysThrough(t *testing.T) {
	reg := crafting.NewRegistry()
	RegisterBuiltin(reg)
	eng := crafting.NewEngine(reg)

	// Bootstrap a makeshift hammer by hand, the way a harvested tool would
	// enter the world, then work up to a knife.
	hammerID := reg.NextInstanceID()
	reg.RegisterInstance(crafting.CompositeInstance{
		ID:         hammerID,
		Definition: "hammer",
		Quality:    crafting.QualityMakeshift,
		Provenance: crafting.Provenance{RecipeID: crafting.WorldDropRecipeID},
	})

	flint := reg.CreateSimpleItem("flint", 0)
	bladeStock, err := eng.Resolve("knap_flint_blade", crafting.Binding{
		Inputs: []crafting.InstanceID{flint},
		Tool:   &hammerID,
	})
	require.NoError(t, err)

	blade, err := eng.Resolve("craft_flint_knife_blade", crafting.Binding{
		Inputs: []crafting.InstanceID{bladeStock.InstanceID()},
	})
	require.NoError(t, err)

	log := reg.CreateSimpleItem("wood_log", 0)
	handle, err := eng.Resolve("craft_wood_handle", crafting.Binding{
		Inputs: []crafting.InstanceID{log},
		Tool:   &hammerID, // wrong type on purpose
	})
	require.Error(t, err, "a hammer is not a knife")
	assert.True(t, crafting.IsReject(err, crafting.RejectToolMismatch))

	// A bare flint knife blade is itself a makeshift knife, but tools must
	// be composites; assemble the knife first with a fiber binding.
	fiber := reg.CreateSimpleItem("plant_fiber", 0)
	binding, err := eng.Resolve("craft_fiber_binding", crafting.Binding{
		Inputs: []crafting.InstanceID{fiber},
	})
	require.NoError(t, err)

	bone := reg.CreateSimpleItem("wolf_bone", 0)
	knifeForHandle := seedKnife(t, reg)
	handle, err = eng.Resolve("craft_bone_handle", crafting.Binding{
		Inputs: []crafting.InstanceID{bone},
		Tool:   &knifeForHandle,
	})
	require.NoError(t, err)

	knife, err := eng.Resolve("assemble_knife", crafting.Binding{Slots: []crafting.SlotBinding{
		{Slot: "blade", Instance: blade.InstanceID()},
		{Slot: "handle", Instance: handle.InstanceID()},
		{Slot: "binding", Instance: binding.InstanceID()},
	}})
	require.NoError(t, err)
	assert.Equal(t, crafting.TierComposite, knife.Tier())
}

func seedKnife(t *testing.T, reg *crafting.Registry) crafting.InstanceID {
	t.Helper()
	id := reg.NextInstanceID()
	reg.RegisterInstance(crafting.CompositeInstance{
		ID:         id,
		Definition: "knife",
		Quality:    crafting.QualityCrude,
		Provenance: crafting.Provenance{RecipeID: crafting.WorldDropRecipeID},
	})
	return id
}
