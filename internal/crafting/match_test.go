package crafting

import "testing"

func wantTags(t *testing.T, got map[MaterialTag]bool, want ...MaterialTag) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d tags, got %v", len(want), got)
	}
	for _, tag := range want {
		if !got[tag] {
			t.Fatalf("expected tag %q in %v", tag, got)
		}
	}
}

func TestInstanceTagsSimple(t *testing.T) {
	reg, _ := newTestWorld(t)
	id := reg.CreateSimpleItem("deer_leather", 0)
	inst, _ := reg.Instance(id)

	tags, err := InstanceTags(reg, inst)
	if err != nil {
		t.Fatalf("InstanceTags: %v", err)
	}
	wantTags(t, tags, "deer_leather", "leather")
}

func TestInstanceTagsComponentIncludeMakeshift(t *testing.T) {
	reg, _ := newTestWorld(t)
	reg.RegisterComponentKind(ComponentKind{
		ID:                "club_head",
		Name:              "Club Head",
		AcceptedMaterials: []MaterialID{"stone", "wood"},
		MakeshiftTags:     []MaterialTag{"blunt"},
	})
	id := seedComponent(t, reg, "club_head", "flint_stone", QualityMakeshift)
	inst, _ := reg.Instance(id)

	tags, err := InstanceTags(reg, inst)
	if err != nil {
		t.Fatalf("InstanceTags: %v", err)
	}
	wantTags(t, tags, "club_head", "flint_stone", "stone", "blunt")
}

func TestInstanceTagsComposite(t *testing.T) {
	reg, _ := newTestWorld(t)
	id := seedComposite(t, reg, "hammer", QualityCommon)
	inst, _ := reg.Instance(id)

	tags, err := InstanceTags(reg, inst)
	if err != nil {
		t.Fatalf("InstanceTags: %v", err)
	}
	wantTags(t, tags, "hammer", "tool")
}

func TestExactItemRequirementUsesKindForComponents(t *testing.T) {
	reg, _ := newTestWorld(t)
	id := seedComponent(t, reg, "binding", "deer_leather", QualityCommon)
	inst, _ := reg.Instance(id)

	if err := matchMaterialInput(reg, inst, MaterialInput{ItemID: "binding"}); err != nil {
		t.Fatalf("expected kind id to satisfy an exact-item requirement, got: %v", err)
	}
	err := matchMaterialInput(reg, inst, MaterialInput{ItemID: "handle"})
	if !IsReject(err, RejectMissingRequiredTag) {
		t.Fatalf("expected missing_required_tag for the wrong item, got: %v", err)
	}
}

func TestQualityFloor(t *testing.T) {
	reg, _ := newTestWorld(t)
	id := seedComponent(t, reg, "binding", "deer_leather", QualityCrude)
	inst, _ := reg.Instance(id)

	err := matchMaterialInput(reg, inst, MaterialInput{MinQuality: QualityCommon})
	if !IsReject(err, RejectQualityBelowMinimum) {
		t.Fatalf("expected quality_below_minimum, got: %v", err)
	}
	// The zero value imposes no floor, so a makeshift part still passes.
	if err := matchMaterialInput(reg, inst, MaterialInput{}); err != nil {
		t.Fatalf("expected no floor by default, got: %v", err)
	}
}

func TestComponentRequirementsApplyToComposites(t *testing.T) {
	reg, eng := newTestWorld(t)
	blade := seedComponent(t, reg, "scimitar_blade", "iron_metal", QualityCommon)
	handle := seedComponent(t, reg, "handle", "wolf_bone", QualityCommon)
	binding := seedComponent(t, reg, "binding", "plant_fiber", QualityCommon)

	out, err := eng.Resolve("assemble_scimitar", Binding{Slots: []SlotBinding{
		{Slot: "blade", Instance: blade},
		{Slot: "handle", Instance: handle},
		{Slot: "binding", Instance: binding},
	}})
	if err != nil {
		t.Fatalf("assemble_scimitar: %v", err)
	}
	scim := out.(CompositeInstance)

	req := MaterialInput{ComponentReqs: []ComponentReq{
		{Slot: "handle", RequiredTags: []MaterialTag{"bone"}},
	}}
	if err := matchMaterialInput(reg, scim, req); err != nil {
		t.Fatalf("expected the bone handle to satisfy the slot requirement, got: %v", err)
	}

	req.ComponentReqs[0].RequiredTags = []MaterialTag{"wood"}
	if err := matchMaterialInput(reg, scim, req); !IsReject(err, RejectMissingRequiredTag) {
		t.Fatalf("expected missing_required_tag for a bone handle, got: %v", err)
	}

	req.ComponentReqs[0].Slot = "pommel"
	if err := matchMaterialInput(reg, scim, req); !IsReject(err, RejectSlotUnfilled) {
		t.Fatalf("expected slot_unfilled for an absent slot, got: %v", err)
	}

	// Component requirements are meaningless on non-composites.
	bladeInst, _ := reg.Instance(blade)
	if err := matchMaterialInput(reg, bladeInst, req); !IsReject(err, RejectWrongTier) {
		t.Fatalf("expected wrong_tier, got: %v", err)
	}
}

func TestProvenanceWorldObjectLeg(t *testing.T) {
	reg, eng := newTestWorld(t)
	forge := placeForge(reg)
	ore1 := reg.CreateSimpleItem("iron_ore", 0)
	ore2 := reg.CreateSimpleItem("iron_ore", 0)

	out, err := eng.Resolve("smelt_iron_bar", Binding{Inputs: []InstanceID{ore1, ore2}, WorldObject: woRef(forge)})
	if err != nil {
		t.Fatalf("smelt_iron_bar: %v", err)
	}
	bar := out.(SimpleInstance)

	forgeKind := CraftingStation("forge")
	req := MaterialInput{ProvenanceReqs: &ProvenanceRequirements{
		WorldObject: &WorldObjectRequirement{Kind: &forgeKind},
	}}
	if err := matchMaterialInput(reg, bar, req); err != nil {
		t.Fatalf("expected forge-smelted bar to match, got: %v", err)
	}

	campfireKind := CraftingStation("campfire")
	req.ProvenanceReqs.WorldObject.Kind = &campfireKind
	if err := matchMaterialInput(reg, bar, req); !IsReject(err, RejectWorldObjectMismatch) {
		t.Fatalf("expected world_object_mismatch, got: %v", err)
	}

	// Only the kind is recorded at craft time, so tag demands on ancestors
	// cannot be checked.
	req.ProvenanceReqs.WorldObject = &WorldObjectRequirement{RequiredTags: []WorldObjectTag{"high_heat"}}
	if err := matchMaterialInput(reg, bar, req); !IsReject(err, RejectProvenanceChainBroken) {
		t.Fatalf("expected provenance_chain_broken for tag demands, got: %v", err)
	}

	// A world-dropped item was made nowhere in particular.
	leather := reg.CreateSimpleItem("deer_leather", 0)
	leatherInst, _ := reg.Instance(leather)
	req.ProvenanceReqs.WorldObject = &WorldObjectRequirement{Kind: &forgeKind}
	if err := matchMaterialInput(reg, leatherInst, req); !IsReject(err, RejectProvenanceChainBroken) {
		t.Fatalf("expected provenance_chain_broken for a world drop, got: %v", err)
	}
}
