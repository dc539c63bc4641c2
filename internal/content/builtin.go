// Package content ships the built-in progression catalog and loads
// additional catalogs from YAML. The built-in content is organized by
// progression stage: foraged starting resources, flint knapping, bone
// tools after hunting, then the metal age behind the forge.
package content

import (
	"github.com/appengine-ltd/craft-it/internal/crafting"
)

// RegisterBuiltin populates the registry with the stock progression
// content. It is safe to call on a registry that already holds instances;
// definitions are insert-or-replace.
func RegisterBuiltin(reg *crafting.Registry) {
	registerMaterials(reg)
	registerSubmaterials(reg)
	registerComponentKinds(reg)
	registerItems(reg)
	registerRecipes(reg)
}

func registerMaterials(reg *crafting.Registry) {
	for _, m := range []crafting.Material{
		{ID: "stone", Name: "Stone", Description: "Hard rock materials"},
		{ID: "wood", Name: "Wood", Description: "Timber and wooden materials"},
		{ID: "bone", Name: "Bone", Description: "Hard skeletal material from animals"},
		{ID: "fiber", Name: "Fiber", Description: "Flexible binding materials"},
		{ID: "leather", Name: "Leather", Description: "Processed hide material"},
		{ID: "metal", Name: "Metal", Description: "Metallic materials"},
		{ID: "clay", Name: "Clay", Description: "Moldable earth material"},
		{ID: "meat", Name: "Meat", Description: "Animal flesh for food"},
	} {
		reg.RegisterMaterial(m)
	}
}

func registerSubmaterials(reg *crafting.Registry) {
	for _, s := range []crafting.Submaterial{
		// Foraged starting materials.
		{ID: "flint_stone", Material: "stone", Name: "Flint", Description: "Sharp-edged stone for knapping"},
		{ID: "plant_fiber", Material: "fiber", Name: "Plant Fiber", Description: "Natural fibers from plants"},
		{ID: "clay_lump", Material: "clay", Name: "Clay", Description: "Wet clay for building"},

		// Knapped flint.
		{ID: "flint_blade", Material: "stone", Name: "Flint Blade", Description: "Sharp knapped flint blade"},
		{ID: "flint_axe_head", Material: "stone", Name: "Flint Axe Head", Description: "Knapped axe head"},

		// Animal materials.
		{ID: "wolf_bone", Material: "bone", Name: "Wolf Bone", Description: "Dense bone from a wolf"},
		{ID: "wolf_sinew", Material: "fiber", Name: "Wolf Sinew", Description: "Strong animal tendon"},
		{ID: "wolf_hide", Material: "leather", Name: "Wolf Hide", Description: "Untanned wolf pelt"},
		{ID: "wolf_meat", Material: "meat", Name: "Wolf Meat", Description: "Raw wolf meat"},
		{ID: "deer_bone", Material: "bone", Name: "Deer Bone", Description: "Light deer bone"},
		{ID: "deer_sinew", Material: "fiber", Name: "Deer Sinew", Description: "Flexible animal tendon"},
		{ID: "deer_hide", Material: "leather", Name: "Deer Hide", Description: "Soft untanned deer pelt"},
		{ID: "deer_meat", Material: "meat", Name: "Deer Meat", Description: "Raw deer meat"},

		// Wood processing.
		{ID: "wood_log", Material: "wood", Name: "Wood Log", Description: "Chopped wood from a tree"},

		// Metal age.
		{ID: "copper_ore", Material: "metal", Name: "Copper Ore", Description: "Raw copper ore for smelting"},
		{ID: "tin_ore", Material: "metal", Name: "Tin Ore", Description: "Raw tin ore, found in mountains"},
		{ID: "iron_ore", Material: "metal", Name: "Iron Ore", Description: "Raw iron ore"},
		{ID: "copper_bar", Material: "metal", Name: "Copper Bar", Description: "Smelted copper bar"},
		{ID: "bronze_bar", Material: "metal", Name: "Bronze Bar", Description: "Alloyed bronze bar (copper + tin)"},
		{ID: "iron_bar", Material: "metal", Name: "Iron Bar", Description: "Smelted iron bar"},
	} {
		reg.RegisterSubmaterial(s)
	}
}

func registerComponentKinds(reg *crafting.Registry) {
	for _, ck := range []crafting.ComponentKind{
		{
			ID: "handle", Name: "Handle",
			Description:       "Tool grip, can be made from wood or bone",
			AcceptedMaterials: []crafting.MaterialID{"wood", "bone"},
		},
		{
			ID: "binding", Name: "Binding",
			Description:       "Wrapping to secure tool components",
			AcceptedMaterials: []crafting.MaterialID{"fiber", "leather"},
		},
		{
			ID: "knife_blade", Name: "Knife Blade",
			Description:       "Cutting edge for a knife",
			AcceptedMaterials: []crafting.MaterialID{"stone", "bone", "metal"},
			// A bare blade can stand in for a knife.
			MakeshiftTags: []crafting.MaterialTag{"knife"},
		},
		{
			ID: "axe_head", Name: "Axe Head",
			Description:       "Chopping head for an axe",
			AcceptedMaterials: []crafting.MaterialID{"stone", "bone", "metal"},
		},
		{
			ID: "pickaxe_head", Name: "Pickaxe Head",
			Description:       "Mining head for a pickaxe",
			AcceptedMaterials: []crafting.MaterialID{"bone", "metal"},
		},
		{
			ID: "hammer_head", Name: "Hammer Head",
			Description:       "Striking head for a hammer",
			AcceptedMaterials: []crafting.MaterialID{"stone", "metal"},
			MakeshiftTags:     []crafting.MaterialTag{"hammer"},
		},
	} {
		reg.RegisterComponentKind(ck)
	}
}

func simple(id crafting.ItemID, name, desc string, sub crafting.SubmaterialID) crafting.ItemDefinition {
	return crafting.ItemDefinition{
		ID: id, Name: name, Description: desc,
		Kind:       crafting.SimpleItem{Submaterial: sub},
		Pickupable: true,
	}
}

func registerItems(reg *crafting.Registry) {
	// Foraged starting resources.
	stick := simple("stick", "Stick", "A fallen branch. Can be used as a makeshift weapon.", "")
	stick.StatBonuses = crafting.StatBonuses{Attack: 1}
	reg.RegisterItem(stick)
	reg.RegisterItem(simple("rock", "Rock", "A large stone. Good for knapping.", ""))
	reg.RegisterItem(simple("flint", "Flint", "Sharp-edged stone perfect for knapping into blades.", "flint_stone"))
	reg.RegisterItem(simple("plant_fiber", "Plant Fiber", "Natural plant fibers for binding", "plant_fiber"))
	reg.RegisterItem(simple("clay", "Clay", "Wet clay, useful for building", "clay_lump"))

	tree := simple("tree", "Tree", "A living tree that can be chopped for wood", "")
	tree.Pickupable = false
	reg.RegisterItem(tree)

	// Carcasses from hunting.
	for _, animal := range []string{"wolf", "deer", "rabbit", "fox", "spider", "snake", "lion", "dragon"} {
		reg.RegisterItem(simple(
			crafting.ItemID(animal+"_carcass"),
			title(animal)+" Carcass",
			"Remains of a slain "+animal+". Can be processed for materials.",
			"",
		))
	}

	// Processed materials.
	reg.RegisterItem(simple("flint_blade", "Flint Blade", "Knapped flint blade, sharp but fragile.", "flint_blade"))
	reg.RegisterItem(simple("flint_axe_head", "Flint Axe Head", "Knapped axe head for chopping", "flint_axe_head"))
	reg.RegisterItem(simple("wolf_bone", "Wolf Bone", "Dense wolf bone, good for tools", "wolf_bone"))
	reg.RegisterItem(simple("wolf_sinew", "Wolf Sinew", "Strong animal tendon for binding", "wolf_sinew"))
	reg.RegisterItem(simple("wolf_hide", "Wolf Hide", "Untanned wolf pelt", "wolf_hide"))
	reg.RegisterItem(simple("wolf_meat", "Wolf Meat", "Raw wolf meat, can be cooked", "wolf_meat"))
	reg.RegisterItem(simple("deer_bone", "Deer Bone", "Light deer bone", "deer_bone"))
	reg.RegisterItem(simple("deer_sinew", "Deer Sinew", "Flexible animal tendon", "deer_sinew"))
	reg.RegisterItem(simple("deer_hide", "Deer Hide", "Soft untanned deer pelt", "deer_hide"))
	reg.RegisterItem(simple("deer_meat", "Deer Meat", "Raw deer meat, can be cooked", "deer_meat"))
	reg.RegisterItem(simple("wood_log", "Wood Log", "Chopped wood from a tree", "wood_log"))
	reg.RegisterItem(simple("copper_ore", "Copper Ore", "Raw copper ore", "copper_ore"))
	reg.RegisterItem(simple("tin_ore", "Tin Ore", "Raw tin ore, found in mountains", "tin_ore"))
	reg.RegisterItem(simple("iron_ore", "Iron Ore", "Raw iron ore", "iron_ore"))
	reg.RegisterItem(simple("copper_bar", "Copper Bar", "Smelted copper bar", "copper_bar"))
	reg.RegisterItem(simple("bronze_bar", "Bronze Bar", "Alloyed bronze bar (copper + tin)", "bronze_bar"))
	reg.RegisterItem(simple("iron_bar", "Iron Bar", "Smelted iron bar", "iron_bar"))

	// Placeable crafting stations.
	for _, st := range []struct {
		id   crafting.ItemID
		name string
		desc string
	}{
		{"forge", "Forge", "A high-heat crafting station for smelting metal ores into bars."},
		{"workbench", "Workbench", "A sturdy work surface for precise crafting."},
		{"anvil", "Anvil", "A heavy iron anvil for forging metal tools and weapons."},
	} {
		kind := crafting.CraftingStation(crafting.CraftingStationID(st.id))
		def := simple(st.id, st.name, st.desc, "")
		def.Placeable = &kind
		reg.RegisterItem(def)
	}

	// Component item definitions, one per kind.
	for _, c := range []struct {
		id   crafting.ItemID
		name string
		desc string
		kind crafting.ComponentKindID
	}{
		{"handle", "Handle", "Tool handle, made from wood or bone", "handle"},
		{"binding", "Binding", "Binding to secure tool parts", "binding"},
		{"knife_blade", "Knife Blade", "Blade for a knife", "knife_blade"},
		{"axe_head", "Axe Head", "Head for an axe", "axe_head"},
		{"pickaxe_head", "Pickaxe Head", "Head for a pickaxe", "pickaxe_head"},
		{"hammer_head", "Hammer Head", "Head for a hammer", "hammer_head"},
	} {
		reg.RegisterItem(crafting.ItemDefinition{
			ID: c.id, Name: c.name, Description: c.desc,
			Kind:       crafting.ComponentItem{ComponentKind: c.kind},
			Pickupable: true,
		})
	}

	// Composite tools. All share the head/handle/binding shape.
	for _, tool := range []struct {
		id       crafting.ItemID
		name     string
		desc     string
		headSlot string
		headKind crafting.ComponentKindID
		toolType crafting.ToolType
	}{
		{"knife", "Knife", "Multi-purpose cutting tool", "blade", "knife_blade", crafting.ToolKnife},
		{"axe", "Axe", "Woodcutting tool", "head", "axe_head", crafting.ToolAxe},
		{"pickaxe", "Pickaxe", "Mining tool for breaking rock and ore", "head", "pickaxe_head", crafting.ToolPickaxe},
		{"hammer", "Hammer", "Striking tool for knapping and forging", "head", "hammer_head", crafting.ToolHammer},
	} {
		reg.RegisterItem(crafting.ItemDefinition{
			ID: tool.id, Name: tool.name, Description: tool.desc,
			Kind: crafting.CompositeItem{
				Slots: []crafting.CompositeSlot{
					{Name: tool.headSlot, ComponentKind: tool.headKind},
					{Name: "handle", ComponentKind: "handle"},
					{Name: "binding", ComponentKind: "binding"},
				},
				Category: crafting.CategoryTool,
				ToolType: tool.toolType,
			},
			Pickupable: true,
		})
	}
}

func registerRecipes(reg *crafting.Registry) {
	forge := crafting.CraftingStation("forge")
	atForge := &crafting.WorldObjectRequirement{Kind: &forge}

	// Stations first: infrastructure gates the later stages.
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "build_forge", Name: "Build Forge",
		Inputs: []crafting.MaterialInput{
			{ItemID: "rock", Quantity: 5},
			{ItemID: "clay", Quantity: 3},
		},
		Output: "forge", OutputQuantity: 1,
		Formula: crafting.MinOfInputs(),
	})
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "build_workbench", Name: "Build Workbench",
		Inputs: []crafting.MaterialInput{
			{ItemID: "wood_log", Quantity: 4},
		},
		Tool:   &crafting.ToolRequirement{ToolType: crafting.ToolAxe, MinQuality: crafting.QualityCrude},
		Output: "workbench", OutputQuantity: 1,
		Formula: crafting.MinOfInputs(),
	})
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "build_anvil", Name: "Build Anvil",
		Inputs: []crafting.MaterialInput{
			{ItemID: "iron_bar", Quantity: 3},
		},
		Tool:        &crafting.ToolRequirement{ToolType: crafting.ToolHammer, MinQuality: crafting.QualityCrude},
		WorldObject: atForge,
		Output:      "anvil", OutputQuantity: 1,
		Formula: crafting.MinOfInputs(),
	})

	// Flint knapping.
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "knap_flint_blade", Name: "Knap Flint Blade",
		Inputs: []crafting.MaterialInput{
			{ItemID: "flint", Quantity: 1},
		},
		Tool:   &crafting.ToolRequirement{ToolType: crafting.ToolHammer, MinQuality: crafting.QualityMakeshift},
		Output: "flint_blade", OutputQuantity: 1,
		Formula: crafting.CustomFormula("tool_quality_based"),
	})
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "knap_flint_axe_head", Name: "Knap Flint Axe Head",
		Inputs: []crafting.MaterialInput{
			{ItemID: "flint", Quantity: 1},
		},
		Tool:   &crafting.ToolRequirement{ToolType: crafting.ToolHammer, MinQuality: crafting.QualityMakeshift},
		Output: "flint_axe_head", OutputQuantity: 1,
		Formula: crafting.CustomFormula("tool_quality_based"),
	})

	// Components.
	reg.RegisterComponentRecipe(crafting.ComponentRecipe{
		ID: "craft_wood_handle", Name: "Craft Handle from Wood",
		Output: "handle",
		Input:  &crafting.MaterialInput{RequiredTags: []crafting.MaterialTag{"wood"}},
		Tool:   &crafting.ToolRequirement{ToolType: crafting.ToolKnife, MinQuality: crafting.QualityMakeshift},
	})
	reg.RegisterComponentRecipe(crafting.ComponentRecipe{
		ID: "craft_bone_handle", Name: "Craft Handle from Bone",
		Output: "handle",
		Input:  &crafting.MaterialInput{RequiredTags: []crafting.MaterialTag{"bone"}},
		Tool:   &crafting.ToolRequirement{ToolType: crafting.ToolKnife, MinQuality: crafting.QualityMakeshift},
	})
	reg.RegisterComponentRecipe(crafting.ComponentRecipe{
		ID: "craft_fiber_binding", Name: "Craft Binding from Fiber",
		Output: "binding",
		Input:  &crafting.MaterialInput{RequiredTags: []crafting.MaterialTag{"fiber"}},
	})
	reg.RegisterComponentRecipe(crafting.ComponentRecipe{
		ID: "craft_hide_binding", Name: "Craft Binding from Hide",
		Output: "binding",
		Input:  &crafting.MaterialInput{RequiredTags: []crafting.MaterialTag{"leather"}},
	})
	reg.RegisterComponentRecipe(crafting.ComponentRecipe{
		ID: "craft_flint_knife_blade", Name: "Craft Knife Blade from Flint",
		Output: "knife_blade",
		Input:  &crafting.MaterialInput{ItemID: "flint_blade"},
	})
	reg.RegisterComponentRecipe(crafting.ComponentRecipe{
		ID: "craft_flint_axe_head", Name: "Craft Axe Head from Flint",
		Output: "axe_head",
		Input:  &crafting.MaterialInput{ItemID: "flint_axe_head"},
	})
	reg.RegisterComponentRecipe(crafting.ComponentRecipe{
		ID: "craft_stone_hammer_head", Name: "Craft Hammer Head from Stone",
		Output: "hammer_head",
		Input:  &crafting.MaterialInput{RequiredTags: []crafting.MaterialTag{"stone"}},
	})
	reg.RegisterComponentRecipe(crafting.ComponentRecipe{
		ID: "craft_bone_pickaxe_head", Name: "Craft Pickaxe Head from Bone",
		Output: "pickaxe_head",
		Input:  &crafting.MaterialInput{RequiredTags: []crafting.MaterialTag{"bone"}},
		Tool:   &crafting.ToolRequirement{ToolType: crafting.ToolKnife, MinQuality: crafting.QualityCrude},
	})

	// Assembly. The head drives the quality; the binding barely matters.
	assemblyFormula := crafting.Weighted(
		crafting.SlotWeight{Name: "blade", Weight: 0.6},
		crafting.SlotWeight{Name: "head", Weight: 0.6},
		crafting.SlotWeight{Name: "handle", Weight: 0.25},
		crafting.SlotWeight{Name: "binding", Weight: 0.15},
	)
	for _, a := range []struct {
		id     crafting.RecipeID
		name   string
		output crafting.ItemID
	}{
		{"assemble_knife", "Assemble Knife", "knife"},
		{"assemble_axe", "Assemble Axe", "axe"},
		{"assemble_pickaxe", "Assemble Pickaxe", "pickaxe"},
		{"assemble_hammer", "Assemble Hammer", "hammer"},
	} {
		reg.RegisterCompositeRecipe(crafting.CompositeRecipe{
			ID: a.id, Name: a.name,
			Output:  a.output,
			Formula: assemblyFormula,
		})
	}

	// Carcass processing and wood chopping.
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "process_wolf_carcass", Name: "Process Wolf Carcass",
		Inputs: []crafting.MaterialInput{
			{ItemID: "wolf_carcass", Quantity: 1},
		},
		Tool:   &crafting.ToolRequirement{ToolType: crafting.ToolKnife, MinQuality: crafting.QualityMakeshift},
		Output: "wolf_bone", OutputQuantity: 2,
		Formula: crafting.MinOfInputs(),
	})
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "process_deer_carcass", Name: "Process Deer Carcass",
		Inputs: []crafting.MaterialInput{
			{ItemID: "deer_carcass", Quantity: 1},
		},
		Tool:   &crafting.ToolRequirement{ToolType: crafting.ToolKnife, MinQuality: crafting.QualityMakeshift},
		Output: "deer_bone", OutputQuantity: 2,
		Formula: crafting.MinOfInputs(),
	})
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "chop_tree", Name: "Chop Tree",
		Inputs: []crafting.MaterialInput{
			{ItemID: "tree", Quantity: 1},
		},
		Tool:   &crafting.ToolRequirement{ToolType: crafting.ToolAxe, MinQuality: crafting.QualityCrude},
		Output: "wood_log", OutputQuantity: 4,
		Formula: crafting.MinOfInputs(),
	})

	// Smelting, all gated on the forge.
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "smelt_copper_bar", Name: "Smelt Copper Bar",
		Inputs: []crafting.MaterialInput{
			{ItemID: "copper_ore", Quantity: 2},
		},
		WorldObject: atForge,
		Output:      "copper_bar", OutputQuantity: 1,
		Formula: crafting.MinOfInputs(),
	})
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "smelt_bronze_bar", Name: "Smelt Bronze Bar",
		Inputs: []crafting.MaterialInput{
			{ItemID: "copper_ore", Quantity: 3},
			{ItemID: "tin_ore", Quantity: 1},
		},
		WorldObject: atForge,
		Output:      "bronze_bar", OutputQuantity: 2,
		Formula: crafting.MinOfInputs(),
	})
	reg.RegisterSimpleRecipe(crafting.SimpleRecipe{
		ID: "smelt_iron_bar", Name: "Smelt Iron Bar",
		Inputs: []crafting.MaterialInput{
			{ItemID: "iron_ore", Quantity: 2},
		},
		WorldObject: atForge,
		Output:      "iron_bar", OutputQuantity: 1,
		Formula: crafting.MinOfInputs(),
	})
}

func title(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
