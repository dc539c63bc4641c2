package crafting

import (
	"testing"
	"time"
)

const testCraftedAt = 1700000000

// newTestWorld builds a small progression world: leather/fiber/wood/stone/
// bone/metal materials, a scimitar weapon line and a hammer tool line.
func newTestWorld(t *testing.T) (*Registry, *Engine) {
	t.Helper()
	reg := NewRegistry()

	for _, m := range []Material{
		{ID: "leather", Name: "Leather"},
		{ID: "fiber", Name: "Fiber"},
		{ID: "wood", Name: "Wood"},
		{ID: "stone", Name: "Stone"},
		{ID: "bone", Name: "Bone"},
		{ID: "metal", Name: "Metal"},
	} {
		reg.RegisterMaterial(m)
	}

	for _, s := range []Submaterial{
		{ID: "deer_leather", Material: "leather", Name: "Deer Leather"},
		{ID: "plant_fiber", Material: "fiber", Name: "Plant Fiber"},
		{ID: "oak_wood", Material: "wood", Name: "Oak"},
		{ID: "flint_stone", Material: "stone", Name: "Flint"},
		{ID: "wolf_bone", Material: "bone", Name: "Wolf Bone"},
		{ID: "iron_metal", Material: "metal", Name: "Iron"},
	} {
		reg.RegisterSubmaterial(s)
	}

	for _, ck := range []ComponentKind{
		{ID: "binding", Name: "Binding", AcceptedMaterials: []MaterialID{"leather", "fiber"}},
		{ID: "handle", Name: "Handle", AcceptedMaterials: []MaterialID{"wood", "bone"}},
		{ID: "scimitar_blade", Name: "Scimitar Blade", AcceptedMaterials: []MaterialID{"metal"}},
		{ID: "tool_head", Name: "Tool Head", AcceptedMaterials: []MaterialID{"stone", "bone", "metal"}},
	} {
		reg.RegisterComponentKind(ck)
	}

	for _, def := range []ItemDefinition{
		{ID: "deer_leather", Name: "Deer Leather", Kind: SimpleItem{Submaterial: "deer_leather"}, Pickupable: true},
		{ID: "plant_fiber", Name: "Plant Fiber", Kind: SimpleItem{Submaterial: "plant_fiber"}, Pickupable: true},
		{ID: "oak_log", Name: "Oak Log", Kind: SimpleItem{Submaterial: "oak_wood"}, Pickupable: true},
		{ID: "flint", Name: "Flint", Kind: SimpleItem{Submaterial: "flint_stone"}, Pickupable: true},
		{ID: "wolf_bone", Name: "Wolf Bone", Kind: SimpleItem{Submaterial: "wolf_bone"}, Pickupable: true},
		{ID: "iron_ore", Name: "Iron Ore", Kind: SimpleItem{Submaterial: "iron_metal"}, Pickupable: true},
		{ID: "iron_bar", Name: "Iron Bar", Kind: SimpleItem{Submaterial: "iron_metal"}, Pickupable: true},
		{
			ID: "scimitar", Name: "Scimitar",
			Kind: CompositeItem{
				Slots: []CompositeSlot{
					{Name: "blade", ComponentKind: "scimitar_blade"},
					{Name: "handle", ComponentKind: "handle"},
					{Name: "binding", ComponentKind: "binding"},
				},
				Category: CategoryWeapon,
			},
			Pickupable: true,
		},
		{
			ID: "hammer", Name: "Hammer",
			Kind: CompositeItem{
				Slots: []CompositeSlot{
					{Name: "head", ComponentKind: "tool_head"},
					{Name: "handle", ComponentKind: "handle"},
				},
				Category: CategoryTool,
				ToolType: ToolHammer,
			},
			Pickupable: true,
		},
	} {
		reg.RegisterItem(def)
	}

	forgeKind := CraftingStation("forge")
	reg.RegisterSimpleRecipe(SimpleRecipe{
		ID: "smelt_iron_bar", Name: "Smelt Iron Bar",
		Inputs: []MaterialInput{
			{ItemID: "iron_ore", Quantity: 2},
		},
		WorldObject:    &WorldObjectRequirement{Kind: &forgeKind, RequiredTags: []WorldObjectTag{"high_heat"}},
		Output:         "iron_bar",
		OutputQuantity: 1,
		Formula:        MinOfInputs(),
	})

	reg.RegisterComponentRecipe(ComponentRecipe{
		ID: "carve_binding", Name: "Carve Binding",
		Output:  "binding",
		Formula: MinOfInputs(),
	})
	reg.RegisterComponentRecipe(ComponentRecipe{
		ID: "carve_handle", Name: "Carve Handle",
		Output:  "handle",
		Formula: MinOfInputs(),
	})
	reg.RegisterComponentRecipe(ComponentRecipe{
		ID: "knap_tool_head", Name: "Knap Tool Head",
		Output:  "tool_head",
		Formula: MinOfInputs(),
	})
	reg.RegisterComponentRecipe(ComponentRecipe{
		ID: "forge_blade", Name: "Forge Blade",
		Output:      "scimitar_blade",
		Tool:        &ToolRequirement{ToolType: ToolHammer, MinQuality: QualityCrude},
		WorldObject: &WorldObjectRequirement{RequiredTags: []WorldObjectTag{"high_heat"}},
		Formula:     CustomFormula("tool_quality_based"),
	})
	reg.RegisterComponentRecipe(ComponentRecipe{
		ID: "cast_blade", Name: "Cast Blade",
		Output:      "scimitar_blade",
		WorldObject: &WorldObjectRequirement{RequiredTags: []WorldObjectTag{"high_heat"}},
		Formula:     MinOfInputs(),
	})
	reg.RegisterComponentRecipe(ComponentRecipe{
		ID: "grind_blade", Name: "Grind Blade",
		Output:  "scimitar_blade",
		Formula: CustomFormula("grind_bonus"),
	})

	reg.RegisterCompositeRecipe(CompositeRecipe{
		ID: "assemble_scimitar", Name: "Assemble Scimitar",
		Output: "scimitar",
		Formula: Weighted(
			SlotWeight{Name: "blade", Weight: 0.5},
			SlotWeight{Name: "handle", Weight: 0.3},
			SlotWeight{Name: "binding", Weight: 0.2},
		),
	})
	reg.RegisterCompositeRecipe(CompositeRecipe{
		ID: "assemble_hammer", Name: "Assemble Hammer",
		Output:  "hammer",
		Formula: AverageOfInputs(),
	})
	reg.RegisterCompositeRecipe(CompositeRecipe{
		ID: "heirloom_scimitar", Name: "Heirloom Scimitar",
		Output: "scimitar",
		SlotReqs: []MaterialInput{
			{
				FillsSlot: "blade",
				ProvenanceReqs: &ProvenanceRequirements{
					Tool: &MaterialInput{RequiredTags: []MaterialTag{"hammer"}},
				},
			},
		},
		Formula: MinOfInputs(),
	})

	eng := NewEngine(reg, WithClock(func() time.Time { return time.Unix(testCraftedAt, 0) }))
	return reg, eng
}

func seedComponent(t *testing.T, reg *Registry, kind ComponentKindID, sub SubmaterialID, q Quality) InstanceID {
	t.Helper()
	id := reg.NextInstanceID()
	reg.RegisterInstance(ComponentInstance{
		ID: id, Kind: kind, Submaterial: sub, Quality: q,
		Provenance: Provenance{RecipeID: WorldDropRecipeID},
	})
	return id
}

func seedComposite(t *testing.T, reg *Registry, def ItemID, q Quality) InstanceID {
	t.Helper()
	id := reg.NextInstanceID()
	reg.RegisterInstance(CompositeInstance{
		ID: id, Definition: def, Quality: q,
		Provenance: Provenance{RecipeID: WorldDropRecipeID},
	})
	return id
}

func placeForge(reg *Registry) WorldObjectInstanceID {
	return reg.PlaceWorldObject(CraftingStation("forge"), "high_heat")
}

func idRef(id InstanceID) *InstanceID { return &id }

func woRef(id WorldObjectInstanceID) *WorldObjectInstanceID { return &id }

func TestCraftBindingFromDeerLeather(t *testing.T) {
	reg, eng := newTestWorld(t)
	leather := reg.CreateSimpleItem("deer_leather", 0)

	out, err := eng.Resolve("carve_binding", Binding{Inputs: []InstanceID{leather}})
	if err != nil {
		t.Fatalf("expected craft to succeed, got: %v", err)
	}
	comp, ok := out.(ComponentInstance)
	if !ok {
		t.Fatalf("expected a component instance, got %T", out)
	}
	if comp.Kind != "binding" {
		t.Fatalf("expected component kind binding, got %q", comp.Kind)
	}
	if comp.Submaterial != "deer_leather" {
		t.Fatalf("expected submaterial deer_leather, got %q", comp.Submaterial)
	}
	if comp.Quality != QualityCommon {
		t.Fatalf("expected common quality from baseline input, got %v", comp.Quality)
	}

	prov := comp.Provenance
	if prov.RecipeID != "carve_binding" {
		t.Fatalf("expected provenance recipe carve_binding, got %q", prov.RecipeID)
	}
	if len(prov.ConsumedInputs) != 1 || prov.ConsumedInputs[0].InstanceID != leather {
		t.Fatalf("expected exactly the leather input in provenance, got %+v", prov.ConsumedInputs)
	}
	if prov.CraftedAt != testCraftedAt {
		t.Fatalf("expected crafted_at %d, got %d", testCraftedAt, prov.CraftedAt)
	}

	stored, ok := reg.Instance(comp.ID)
	if !ok {
		t.Fatalf("expected output instance to be registered")
	}
	if stored.(ComponentInstance).ID != comp.ID {
		t.Fatalf("registered instance does not match returned one")
	}
}

func TestCraftBindingRejectsWrongMaterial(t *testing.T) {
	reg, eng := newTestWorld(t)
	ore := reg.CreateSimpleItem("iron_ore", 0)
	before := reg.InstanceCount()
	instWM, woWM := reg.IDWatermarks()

	_, err := eng.Resolve("carve_binding", Binding{Inputs: []InstanceID{ore}})
	if err == nil {
		t.Fatalf("expected rejection for metal input into a leather/fiber kind")
	}
	if !IsReject(err, RejectMissingRequiredTag) {
		t.Fatalf("expected missing_required_tag, got: %v", err)
	}

	if reg.InstanceCount() != before {
		t.Fatalf("expected registry unchanged on rejection")
	}
	if i, w := reg.IDWatermarks(); i != instWM || w != woWM {
		t.Fatalf("expected no identifier consumed on rejection")
	}
}

func TestComponentRecipeRejectsNonSimpleInput(t *testing.T) {
	reg, eng := newTestWorld(t)
	blade := seedComponent(t, reg, "scimitar_blade", "iron_metal", QualityCommon)

	_, err := eng.Resolve("carve_binding", Binding{Inputs: []InstanceID{blade}})
	if !IsReject(err, RejectWrongTier) {
		t.Fatalf("expected wrong_tier for component input, got: %v", err)
	}
}

func TestAssembleScimitar(t *testing.T) {
	reg, eng := newTestWorld(t)
	blade := seedComponent(t, reg, "scimitar_blade", "iron_metal", QualityEpic)
	handle := seedComponent(t, reg, "handle", "oak_wood", QualityCommon)
	binding := seedComponent(t, reg, "binding", "deer_leather", QualityCommon)

	out, err := eng.Resolve("assemble_scimitar", Binding{Slots: []SlotBinding{
		{Slot: "blade", Instance: blade},
		{Slot: "handle", Instance: handle},
		{Slot: "binding", Instance: binding},
	}})
	if err != nil {
		t.Fatalf("expected assembly to succeed, got: %v", err)
	}
	scim, ok := out.(CompositeInstance)
	if !ok {
		t.Fatalf("expected a composite instance, got %T", out)
	}
	if scim.Definition != "scimitar" {
		t.Fatalf("expected a scimitar, got %q", scim.Definition)
	}
	// 5*0.5 + 2*0.3 + 2*0.2 = 3.5, floored to 3.
	if scim.Quality != QualityUncommon {
		t.Fatalf("expected uncommon quality, got %v", scim.Quality)
	}
	if len(scim.Components) != 3 {
		t.Fatalf("expected exactly three filled slots, got %d", len(scim.Components))
	}
	if scim.Components["blade"].ID != blade {
		t.Fatalf("expected blade slot to hold instance %d", blade)
	}
	if len(scim.Provenance.ConsumedInputs) != 3 {
		t.Fatalf("expected three consumed inputs, got %d", len(scim.Provenance.ConsumedInputs))
	}
}

func TestAssembleScimitarSlotViolations(t *testing.T) {
	reg, eng := newTestWorld(t)
	blade := seedComponent(t, reg, "scimitar_blade", "iron_metal", QualityCommon)
	binding := seedComponent(t, reg, "binding", "deer_leather", QualityCommon)
	before := reg.InstanceCount()

	_, err := eng.Resolve("assemble_scimitar", Binding{Slots: []SlotBinding{
		{Slot: "blade", Instance: blade},
		{Slot: "blade", Instance: blade},
		{Slot: "binding", Instance: binding},
	}})
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if !IsReject(err, RejectSlotFilledTwice) {
		t.Fatalf("expected slot_filled_twice to be identifiable, got: %v", err)
	}
	if !IsReject(err, RejectSlotUnfilled) {
		t.Fatalf("expected slot_unfilled to be identifiable, got: %v", err)
	}
	if reg.InstanceCount() != before {
		t.Fatalf("expected registry unchanged on rejection")
	}
}

func TestAssembleScimitarWrongComponentKind(t *testing.T) {
	reg, eng := newTestWorld(t)
	handle := seedComponent(t, reg, "handle", "oak_wood", QualityCommon)
	binding := seedComponent(t, reg, "binding", "deer_leather", QualityCommon)

	_, err := eng.Resolve("assemble_scimitar", Binding{Slots: []SlotBinding{
		{Slot: "blade", Instance: handle},
		{Slot: "handle", Instance: handle},
		{Slot: "binding", Instance: binding},
	}})
	if !IsReject(err, RejectWrongComponentKindForSlot) {
		t.Fatalf("expected wrong_component_kind_for_slot, got: %v", err)
	}
}

func TestAssembleScimitarUndeclaredSlot(t *testing.T) {
	reg, eng := newTestWorld(t)
	blade := seedComponent(t, reg, "scimitar_blade", "iron_metal", QualityCommon)
	handle := seedComponent(t, reg, "handle", "oak_wood", QualityCommon)
	binding := seedComponent(t, reg, "binding", "deer_leather", QualityCommon)

	_, err := eng.Resolve("assemble_scimitar", Binding{Slots: []SlotBinding{
		{Slot: "blade", Instance: blade},
		{Slot: "handle", Instance: handle},
		{Slot: "binding", Instance: binding},
		{Slot: "pommel", Instance: binding},
	}})
	if !IsReject(err, RejectUnknownIdentifier) {
		t.Fatalf("expected unknown_identifier for undeclared slot, got: %v", err)
	}
}

func TestToolGating(t *testing.T) {
	reg, eng := newTestWorld(t)
	forge := placeForge(reg)

	bar := reg.CreateSimpleItem("iron_bar", 0)
	b := Binding{Inputs: []InstanceID{bar}, WorldObject: woRef(forge)}

	// No tool bound while the recipe requires one.
	if _, err := eng.Resolve("forge_blade", b); !IsReject(err, RejectToolMismatch) {
		t.Fatalf("expected tool_mismatch without a tool, got: %v", err)
	}

	// A weapon is not a hammer.
	scim := seedComposite(t, reg, "scimitar", QualityRare)
	b.Tool = idRef(scim)
	if _, err := eng.Resolve("forge_blade", b); !IsReject(err, RejectToolMismatch) {
		t.Fatalf("expected tool_mismatch for wrong tool type, got: %v", err)
	}

	// The right type but below the minimum quality.
	weak := seedComposite(t, reg, "hammer", QualityMakeshift)
	b.Tool = idRef(weak)
	if _, err := eng.Resolve("forge_blade", b); !IsReject(err, RejectToolQualityTooLow) {
		t.Fatalf("expected tool_quality_too_low, got: %v", err)
	}

	hammer := seedComposite(t, reg, "hammer", QualityEpic)
	b.Tool = idRef(hammer)
	out, err := eng.Resolve("forge_blade", b)
	if err != nil {
		t.Fatalf("expected forging to succeed, got: %v", err)
	}
	blade := out.(ComponentInstance)
	// forge_blade derives quality from the tool.
	if blade.Quality != QualityEpic {
		t.Fatalf("expected blade quality to follow the hammer, got %v", blade.Quality)
	}
	if blade.Provenance.ToolUsed == nil || *blade.Provenance.ToolUsed != hammer {
		t.Fatalf("expected the hammer recorded in provenance, got %+v", blade.Provenance.ToolUsed)
	}
	if blade.Provenance.WorldObject == nil || blade.Provenance.WorldObject.ID != "forge" {
		t.Fatalf("expected the forge recorded in provenance, got %+v", blade.Provenance.WorldObject)
	}
}

func TestWorldObjectGating(t *testing.T) {
	reg, eng := newTestWorld(t)
	ore1 := reg.CreateSimpleItem("iron_ore", 0)
	ore2 := reg.CreateSimpleItem("iron_ore", 0)
	inputs := []InstanceID{ore1, ore2}

	// No world object bound.
	if _, err := eng.Resolve("smelt_iron_bar", Binding{Inputs: inputs}); !IsReject(err, RejectWorldObjectMismatch) {
		t.Fatalf("expected world_object_mismatch without a station, got: %v", err)
	}

	// Wrong kind, even with the right tag.
	campfire := reg.PlaceWorldObject(CraftingStation("campfire"), "high_heat")
	if _, err := eng.Resolve("smelt_iron_bar", Binding{Inputs: inputs, WorldObject: woRef(campfire)}); !IsReject(err, RejectWorldObjectMismatch) {
		t.Fatalf("expected world_object_mismatch for a campfire, got: %v", err)
	}

	// Right kind, missing tag.
	coldForge := reg.PlaceWorldObject(CraftingStation("forge"))
	if _, err := eng.Resolve("smelt_iron_bar", Binding{Inputs: inputs, WorldObject: woRef(coldForge)}); !IsReject(err, RejectWorldObjectMismatch) {
		t.Fatalf("expected world_object_mismatch for an unlit forge, got: %v", err)
	}

	forge := placeForge(reg)
	out, err := eng.Resolve("smelt_iron_bar", Binding{Inputs: inputs, WorldObject: woRef(forge)})
	if err != nil {
		t.Fatalf("expected smelting to succeed, got: %v", err)
	}
	bar := out.(SimpleInstance)
	if bar.Definition != "iron_bar" {
		t.Fatalf("expected an iron bar, got %q", bar.Definition)
	}
	if len(bar.Provenance.ConsumedInputs) != 2 {
		t.Fatalf("expected two consumed ores, got %d", len(bar.Provenance.ConsumedInputs))
	}
}

func TestSimpleRecipeQuantityShortfall(t *testing.T) {
	reg, eng := newTestWorld(t)
	forge := placeForge(reg)
	ore := reg.CreateSimpleItem("iron_ore", 0)

	_, err := eng.Resolve("smelt_iron_bar", Binding{Inputs: []InstanceID{ore}, WorldObject: woRef(forge)})
	if !IsReject(err, RejectMissingRequiredTag) {
		t.Fatalf("expected missing_required_tag with one ore of two, got: %v", err)
	}
}

func TestSimpleRecipeMultiUnitOutput(t *testing.T) {
	reg, eng := newTestWorld(t)
	reg.RegisterItem(ItemDefinition{ID: "oak_plank", Name: "Oak Plank", Kind: SimpleItem{Submaterial: "oak_wood"}, Pickupable: true})
	reg.RegisterSimpleRecipe(SimpleRecipe{
		ID: "split_oak_log", Name: "Split Oak Log",
		Inputs:         []MaterialInput{{ItemID: "oak_log", Quantity: 1}},
		Output:         "oak_plank",
		OutputQuantity: 3,
		Formula:        MinOfInputs(),
	})
	log := reg.CreateSimpleItem("oak_log", 0)

	out, err := eng.Resolve("split_oak_log", Binding{Inputs: []InstanceID{log}})
	if err != nil {
		t.Fatalf("expected split to succeed, got: %v", err)
	}

	planks := make([]SimpleInstance, 0, 3)
	for _, inst := range reg.AllInstances() {
		si, ok := inst.(SimpleInstance)
		if ok && si.Definition == "oak_plank" {
			planks = append(planks, si)
		}
	}
	if len(planks) != 3 {
		t.Fatalf("expected 3 planks from one log, got %d", len(planks))
	}
	first := out.(SimpleInstance)
	for _, p := range planks {
		if len(p.Provenance.ConsumedInputs) != 1 || p.Provenance.ConsumedInputs[0].InstanceID != log {
			t.Fatalf("plank %d does not record the consumed log", p.ID)
		}
		if p.ID < first.ID {
			t.Fatalf("returned instance %d is not the first of the batch", first.ID)
		}
	}
}

func TestSimpleRecipeRejectsNonSimpleInput(t *testing.T) {
	reg, eng := newTestWorld(t)
	forge := placeForge(reg)
	ore := reg.CreateSimpleItem("iron_ore", 0)
	blade := seedComponent(t, reg, "scimitar_blade", "iron_metal", QualityCommon)

	_, err := eng.Resolve("smelt_iron_bar", Binding{Inputs: []InstanceID{ore, blade}, WorldObject: woRef(forge)})
	if !IsReject(err, RejectWrongTier) {
		t.Fatalf("expected wrong_tier for component input, got: %v", err)
	}
}

func TestUnknownRecipe(t *testing.T) {
	_, eng := newTestWorld(t)
	_, err := eng.Resolve("brew_potion", Binding{})
	if !IsReject(err, RejectUnknownIdentifier) {
		t.Fatalf("expected unknown_identifier, got: %v", err)
	}
}

func TestCustomFormulaRegistration(t *testing.T) {
	reg, eng := newTestWorld(t)
	bar := reg.CreateSimpleItem("iron_bar", 0)

	_, err := eng.Resolve("grind_blade", Binding{Inputs: []InstanceID{bar}})
	if !IsReject(err, RejectUnknownQualityFormula) {
		t.Fatalf("expected unknown_quality_formula before registration, got: %v", err)
	}

	eng.RegisterFormula("grind_bonus", func(inputs []BoundInput, tool Quality) (Quality, error) {
		best := QualityMakeshift
		for _, in := range inputs {
			if in.Quality > best {
				best = in.Quality
			}
		}
		return clampQuality(int(best) + 1), nil
	})

	out, err := eng.Resolve("grind_blade", Binding{Inputs: []InstanceID{bar}})
	if err != nil {
		t.Fatalf("expected grinding to succeed once registered, got: %v", err)
	}
	if q := out.(ComponentInstance).Quality; q != QualityUncommon {
		t.Fatalf("expected baseline+1 quality, got %v", q)
	}
}

// forgeBladeWith builds a full tool chain and forges a blade with it:
// flint/bone -> tool head -> hammer -> blade. Returns the blade instance.
func forgeBladeWith(t *testing.T, reg *Registry, eng *Engine, headStock ItemID) ComponentInstance {
	t.Helper()
	forge := placeForge(reg)

	stock := reg.CreateSimpleItem(headStock, 0)
	head, err := eng.Resolve("knap_tool_head", Binding{Inputs: []InstanceID{stock}})
	if err != nil {
		t.Fatalf("knap_tool_head: %v", err)
	}
	log := reg.CreateSimpleItem("oak_log", 0)
	handle, err := eng.Resolve("carve_handle", Binding{Inputs: []InstanceID{log}})
	if err != nil {
		t.Fatalf("carve_handle: %v", err)
	}
	hammer, err := eng.Resolve("assemble_hammer", Binding{Slots: []SlotBinding{
		{Slot: "head", Instance: head.InstanceID()},
		{Slot: "handle", Instance: handle.InstanceID()},
	}})
	if err != nil {
		t.Fatalf("assemble_hammer: %v", err)
	}

	bar := reg.CreateSimpleItem("iron_bar", 0)
	blade, err := eng.Resolve("forge_blade", Binding{
		Inputs:      []InstanceID{bar},
		Tool:        idRef(hammer.InstanceID()),
		WorldObject: woRef(forge),
	})
	if err != nil {
		t.Fatalf("forge_blade: %v", err)
	}
	return blade.(ComponentInstance)
}

func TestProvenanceRecursionThreeLevels(t *testing.T) {
	reg, eng := newTestWorld(t)

	// Accept only blades forged with a hammer whose head was knapped
	// from flint.
	req := MaterialInput{
		RequiredTags: []MaterialTag{"scimitar_blade"},
		ProvenanceReqs: &ProvenanceRequirements{
			Tool: &MaterialInput{
				RequiredTags: []MaterialTag{"hammer"},
				ProvenanceReqs: &ProvenanceRequirements{
					Inputs: []MaterialInput{
						{
							RequiredTags: []MaterialTag{"tool_head"},
							ProvenanceReqs: &ProvenanceRequirements{
								Inputs: []MaterialInput{
									{RequiredTags: []MaterialTag{"flint_stone"}},
								},
							},
						},
					},
				},
			},
		},
	}

	flintBlade := forgeBladeWith(t, reg, eng, "flint")
	if err := matchMaterialInput(reg, flintBlade, req); err != nil {
		t.Fatalf("expected flint-chain blade to match, got: %v", err)
	}

	boneBlade := forgeBladeWith(t, reg, eng, "wolf_bone")
	err := matchMaterialInput(reg, boneBlade, req)
	if !IsReject(err, RejectProvenanceChainBroken) {
		t.Fatalf("expected provenance_chain_broken for the bone-headed chain, got: %v", err)
	}
}

func TestProvenanceToolLegRequiresRecordedTool(t *testing.T) {
	reg, eng := newTestWorld(t)
	forge := placeForge(reg)

	bar := reg.CreateSimpleItem("iron_bar", 0)
	out, err := eng.Resolve("cast_blade", Binding{Inputs: []InstanceID{bar}, WorldObject: woRef(forge)})
	if err != nil {
		t.Fatalf("cast_blade: %v", err)
	}

	req := MaterialInput{
		ProvenanceReqs: &ProvenanceRequirements{
			Tool: &MaterialInput{RequiredTags: []MaterialTag{"hammer"}},
		},
	}
	if err := matchMaterialInput(reg, out.(ComponentInstance), req); !IsReject(err, RejectProvenanceChainBroken) {
		t.Fatalf("expected provenance_chain_broken for a toolless blade, got: %v", err)
	}
}

func TestHeirloomScimitarSlotRequirements(t *testing.T) {
	reg, eng := newTestWorld(t)

	handle := seedComponent(t, reg, "handle", "oak_wood", QualityCommon)
	binding := seedComponent(t, reg, "binding", "deer_leather", QualityCommon)

	// A world-dropped blade has no tool in its provenance.
	dropped := seedComponent(t, reg, "scimitar_blade", "iron_metal", QualityRare)
	_, err := eng.Resolve("heirloom_scimitar", Binding{Slots: []SlotBinding{
		{Slot: "blade", Instance: dropped},
		{Slot: "handle", Instance: handle},
		{Slot: "binding", Instance: binding},
	}})
	if !IsReject(err, RejectProvenanceChainBroken) {
		t.Fatalf("expected provenance_chain_broken for a dropped blade, got: %v", err)
	}

	forged := forgeBladeWith(t, reg, eng, "flint")
	out, err := eng.Resolve("heirloom_scimitar", Binding{Slots: []SlotBinding{
		{Slot: "blade", Instance: forged.ID},
		{Slot: "handle", Instance: handle},
		{Slot: "binding", Instance: binding},
	}})
	if err != nil {
		t.Fatalf("expected heirloom assembly to succeed, got: %v", err)
	}
	if out.(CompositeInstance).Definition != "scimitar" {
		t.Fatalf("expected a scimitar")
	}
}

func TestResolvedIDsStayMonotonicAcrossFailures(t *testing.T) {
	reg, eng := newTestWorld(t)
	leather := reg.CreateSimpleItem("deer_leather", 0)
	ore := reg.CreateSimpleItem("iron_ore", 0)

	if _, err := eng.Resolve("carve_binding", Binding{Inputs: []InstanceID{ore}}); err == nil {
		t.Fatalf("expected rejection")
	}
	out, err := eng.Resolve("carve_binding", Binding{Inputs: []InstanceID{leather}})
	if err != nil {
		t.Fatalf("carve_binding: %v", err)
	}
	if got, want := out.InstanceID(), ore+1; got != want {
		t.Fatalf("expected next identifier %d after a failed attempt, got %d", want, got)
	}
}
