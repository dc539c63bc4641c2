package snapshot

import (
	"fmt"

	"github.com/appengine-ltd/craft-it/internal/crafting"
)

func materialIDs(in []crafting.MaterialID) []string {
	out := make([]string, 0, len(in))
	for _, m := range in {
		out = append(out, string(m))
	}
	return out
}

func materialTags(in []crafting.MaterialTag) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		out = append(out, string(t))
	}
	return out
}

func worldTags(in []crafting.WorldObjectTag) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		out = append(out, string(t))
	}
	return out
}

func encodeWorldObjectKind(k crafting.WorldObjectKind) worldObjectKindDoc {
	return worldObjectKindDoc{Class: string(k.Class), ID: k.ID}
}

func decodeWorldObjectKind(d worldObjectKindDoc) crafting.WorldObjectKind {
	return crafting.WorldObjectKind{Class: crafting.WorldObjectClass(d.Class), ID: d.ID}
}

func encodeItem(def crafting.ItemDefinition) itemDoc {
	doc := itemDoc{
		ID: string(def.ID), Name: def.Name, Description: def.Description,
		Tier:       string(def.Tier()),
		Pickupable: def.Pickupable,
		Health:     def.StatBonuses.Health,
		Attack:     def.StatBonuses.Attack,
	}
	switch k := def.Kind.(type) {
	case crafting.SimpleItem:
		doc.Submaterial = string(k.Submaterial)
	case crafting.ComponentItem:
		doc.ComponentKind = string(k.ComponentKind)
	case crafting.CompositeItem:
		for _, sl := range k.Slots {
			doc.Slots = append(doc.Slots, slotDoc{Name: sl.Name, Kind: string(sl.ComponentKind)})
		}
		doc.Category = string(k.Category)
		doc.ToolType = string(k.ToolType)
	}
	if def.Placeable != nil {
		p := encodeWorldObjectKind(*def.Placeable)
		doc.Placeable = &p
	}
	return doc
}

func decodeItem(doc itemDoc) (crafting.ItemDefinition, error) {
	def := crafting.ItemDefinition{
		ID: crafting.ItemID(doc.ID), Name: doc.Name, Description: doc.Description,
		Pickupable:  doc.Pickupable,
		StatBonuses: crafting.StatBonuses{Health: doc.Health, Attack: doc.Attack},
	}
	switch crafting.Tier(doc.Tier) {
	case crafting.TierSimple:
		def.Kind = crafting.SimpleItem{Submaterial: crafting.SubmaterialID(doc.Submaterial)}
	case crafting.TierComponent:
		def.Kind = crafting.ComponentItem{ComponentKind: crafting.ComponentKindID(doc.ComponentKind)}
	case crafting.TierComposite:
		comp := crafting.CompositeItem{
			Category: crafting.CompositeCategory(doc.Category),
			ToolType: crafting.ToolType(doc.ToolType),
		}
		for _, sl := range doc.Slots {
			comp.Slots = append(comp.Slots, crafting.CompositeSlot{
				Name: sl.Name, ComponentKind: crafting.ComponentKindID(sl.Kind),
			})
		}
		def.Kind = comp
	default:
		return def, fmt.Errorf("item %q: unknown tier %q", doc.ID, doc.Tier)
	}
	if doc.Placeable != nil {
		kind := decodeWorldObjectKind(*doc.Placeable)
		def.Placeable = &kind
	}
	return def, nil
}

func encodeInputs(in []crafting.MaterialInput) []inputDoc {
	if len(in) == 0 {
		return nil
	}
	out := make([]inputDoc, 0, len(in))
	for _, mi := range in {
		out = append(out, encodeInput(mi))
	}
	return out
}

func encodeInput(mi crafting.MaterialInput) inputDoc {
	doc := inputDoc{
		Item:       string(mi.ItemID),
		Tags:       materialTags(mi.RequiredTags),
		Quantity:   mi.Quantity,
		MinQuality: mi.MinQuality,
		Slot:       mi.FillsSlot,
	}
	if len(doc.Tags) == 0 {
		doc.Tags = nil
	}
	for _, cr := range mi.ComponentReqs {
		tags := materialTags(cr.RequiredTags)
		if len(tags) == 0 {
			tags = nil
		}
		doc.Components = append(doc.Components, componentReqDoc{Slot: cr.Slot, Tags: tags})
	}
	if mi.ProvenanceReqs != nil {
		preq := &provenanceReqsDoc{
			Inputs:      encodeInputs(mi.ProvenanceReqs.Inputs),
			WorldObject: encodeWorldObjReq(mi.ProvenanceReqs.WorldObject),
		}
		if mi.ProvenanceReqs.Tool != nil {
			tool := encodeInput(*mi.ProvenanceReqs.Tool)
			preq.Tool = &tool
		}
		doc.Provenance = preq
	}
	return doc
}

func decodeInputs(in []inputDoc) []crafting.MaterialInput {
	if len(in) == 0 {
		return nil
	}
	out := make([]crafting.MaterialInput, 0, len(in))
	for _, doc := range in {
		out = append(out, decodeInput(doc))
	}
	return out
}

func decodeInput(doc inputDoc) crafting.MaterialInput {
	mi := crafting.MaterialInput{
		ItemID:     crafting.ItemID(doc.Item),
		Quantity:   doc.Quantity,
		MinQuality: doc.MinQuality,
		FillsSlot:  doc.Slot,
	}
	for _, t := range doc.Tags {
		mi.RequiredTags = append(mi.RequiredTags, crafting.MaterialTag(t))
	}
	for _, cr := range doc.Components {
		req := crafting.ComponentReq{Slot: cr.Slot}
		for _, t := range cr.Tags {
			req.RequiredTags = append(req.RequiredTags, crafting.MaterialTag(t))
		}
		mi.ComponentReqs = append(mi.ComponentReqs, req)
	}
	if doc.Provenance != nil {
		preq := &crafting.ProvenanceRequirements{
			Inputs:      decodeInputs(doc.Provenance.Inputs),
			WorldObject: decodeWorldObjReq(doc.Provenance.WorldObject),
		}
		if doc.Provenance.Tool != nil {
			tool := decodeInput(*doc.Provenance.Tool)
			preq.Tool = &tool
		}
		mi.ProvenanceReqs = preq
	}
	return mi
}

func encodeTool(req *crafting.ToolRequirement) *toolDoc {
	if req == nil {
		return nil
	}
	return &toolDoc{Type: string(req.ToolType), MinQuality: req.MinQuality}
}

func decodeTool(doc *toolDoc) *crafting.ToolRequirement {
	if doc == nil {
		return nil
	}
	return &crafting.ToolRequirement{ToolType: crafting.ToolType(doc.Type), MinQuality: doc.MinQuality}
}

func encodeWorldObjReq(req *crafting.WorldObjectRequirement) *worldObjReqDoc {
	if req == nil {
		return nil
	}
	doc := &worldObjReqDoc{Tags: worldTags(req.RequiredTags)}
	if len(doc.Tags) == 0 {
		doc.Tags = nil
	}
	if req.Kind != nil {
		kind := encodeWorldObjectKind(*req.Kind)
		doc.Kind = &kind
	}
	return doc
}

func decodeWorldObjReq(doc *worldObjReqDoc) *crafting.WorldObjectRequirement {
	if doc == nil {
		return nil
	}
	req := &crafting.WorldObjectRequirement{}
	if doc.Kind != nil {
		kind := decodeWorldObjectKind(*doc.Kind)
		req.Kind = &kind
	}
	for _, t := range doc.Tags {
		req.RequiredTags = append(req.RequiredTags, crafting.WorldObjectTag(t))
	}
	return req
}

func encodeFormula(f crafting.QualityFormula) formulaDoc {
	doc := formulaDoc{Kind: string(f.Kind), Custom: f.Custom}
	if doc.Kind == "" {
		doc.Kind = string(crafting.FormulaMin)
	}
	for _, w := range f.Weights {
		doc.Weights = append(doc.Weights, weightEntry{Name: w.Name, Weight: w.Weight})
	}
	return doc
}

func decodeFormula(doc formulaDoc) (crafting.QualityFormula, error) {
	switch crafting.FormulaKind(doc.Kind) {
	case crafting.FormulaMin:
		return crafting.MinOfInputs(), nil
	case crafting.FormulaAverage:
		return crafting.AverageOfInputs(), nil
	case crafting.FormulaWeighted:
		weights := make([]crafting.SlotWeight, 0, len(doc.Weights))
		for _, w := range doc.Weights {
			weights = append(weights, crafting.SlotWeight{Name: w.Name, Weight: w.Weight})
		}
		return crafting.Weighted(weights...), nil
	case crafting.FormulaCustom:
		return crafting.CustomFormula(doc.Custom), nil
	default:
		return crafting.QualityFormula{}, fmt.Errorf("unknown formula kind %q", doc.Kind)
	}
}

func encodeInstance(inst crafting.ItemInstance) instanceDoc {
	switch v := inst.(type) {
	case crafting.SimpleInstance:
		return instanceDoc{
			ID:         uint64(v.ID),
			Tier:       string(crafting.TierSimple),
			Definition: string(v.Definition),
			Provenance: encodeProvenance(v.Provenance),
		}
	case crafting.ComponentInstance:
		return instanceDoc{
			ID:          uint64(v.ID),
			Tier:        string(crafting.TierComponent),
			Kind:        string(v.Kind),
			Submaterial: string(v.Submaterial),
			Quality:     v.Quality,
			Provenance:  encodeProvenance(v.Provenance),
		}
	case crafting.CompositeInstance:
		doc := instanceDoc{
			ID:         uint64(v.ID),
			Tier:       string(crafting.TierComposite),
			Definition: string(v.Definition),
			Quality:    v.Quality,
			Provenance: encodeProvenance(v.Provenance),
		}
		if len(v.Components) > 0 {
			doc.Components = make(map[string]instanceDoc, len(v.Components))
			for slot, comp := range v.Components {
				doc.Components[slot] = encodeInstance(comp)
			}
		}
		return doc
	default:
		return instanceDoc{ID: uint64(inst.InstanceID()), Tier: string(inst.Tier())}
	}
}

func decodeInstance(doc instanceDoc) (crafting.ItemInstance, error) {
	switch crafting.Tier(doc.Tier) {
	case crafting.TierSimple:
		return crafting.SimpleInstance{
			ID:         crafting.InstanceID(doc.ID),
			Definition: crafting.ItemID(doc.Definition),
			Provenance: decodeProvenance(doc.Provenance),
		}, nil
	case crafting.TierComponent:
		return crafting.ComponentInstance{
			ID:          crafting.InstanceID(doc.ID),
			Kind:        crafting.ComponentKindID(doc.Kind),
			Submaterial: crafting.SubmaterialID(doc.Submaterial),
			Quality:     doc.Quality,
			Provenance:  decodeProvenance(doc.Provenance),
		}, nil
	case crafting.TierComposite:
		inst := crafting.CompositeInstance{
			ID:         crafting.InstanceID(doc.ID),
			Definition: crafting.ItemID(doc.Definition),
			Quality:    doc.Quality,
			Provenance: decodeProvenance(doc.Provenance),
		}
		if len(doc.Components) > 0 {
			inst.Components = make(map[string]crafting.ComponentInstance, len(doc.Components))
			for slot, cd := range doc.Components {
				part, err := decodeInstance(cd)
				if err != nil {
					return nil, err
				}
				comp, ok := part.(crafting.ComponentInstance)
				if !ok {
					return nil, fmt.Errorf("instance %d: slot %q holds a %s, not a component", doc.ID, slot, cd.Tier)
				}
				inst.Components[slot] = comp
			}
		}
		return inst, nil
	default:
		return nil, fmt.Errorf("instance %d: unknown tier %q", doc.ID, doc.Tier)
	}
}

func encodeProvenance(p crafting.Provenance) provenanceDoc {
	doc := provenanceDoc{
		Recipe:    string(p.RecipeID),
		CraftedAt: p.CraftedAt,
	}
	for _, ci := range p.ConsumedInputs {
		doc.Consumed = append(doc.Consumed, consumedDoc{
			Instance: uint64(ci.InstanceID), Quantity: ci.Quantity,
		})
	}
	if p.ToolUsed != nil {
		tool := uint64(*p.ToolUsed)
		doc.Tool = &tool
	}
	if p.WorldObject != nil {
		kind := encodeWorldObjectKind(*p.WorldObject)
		doc.WorldObject = &kind
	}
	return doc
}

func decodeProvenance(doc provenanceDoc) crafting.Provenance {
	p := crafting.Provenance{
		RecipeID:  crafting.RecipeID(doc.Recipe),
		CraftedAt: doc.CraftedAt,
	}
	for _, ci := range doc.Consumed {
		p.ConsumedInputs = append(p.ConsumedInputs, crafting.ConsumedInput{
			InstanceID: crafting.InstanceID(ci.Instance), Quantity: ci.Quantity,
		})
	}
	if doc.Tool != nil {
		tool := crafting.InstanceID(*doc.Tool)
		p.ToolUsed = &tool
	}
	if doc.WorldObject != nil {
		kind := decodeWorldObjectKind(*doc.WorldObject)
		p.WorldObject = &kind
	}
	return p
}
