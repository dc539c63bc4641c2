package crafting

import "fmt"

// InstanceTags computes the tag set requirement matching checks RequiredTags
// against. Tags are derived, not stored:
//   - Simple: the definition id, plus the submaterial id and its parent
//     material id when the item carries a submaterial.
//   - Component: the component kind id, the submaterial actually used and
//     its parent material id, plus the kind's makeshift tags.
//   - Composite: the definition id, the category, and the tool type if any.
func InstanceTags(reg *Registry, inst ItemInstance) (map[MaterialTag]bool, error) {
	tags := make(map[MaterialTag]bool)
	switch v := inst.(type) {
	case SimpleInstance:
		def, ok := reg.Item(v.Definition)
		if !ok {
			return nil, reject(RejectUnknownIdentifier, "item definition %q is not registered", v.Definition)
		}
		tags[MaterialTag(def.ID)] = true
		if sk, ok := def.Kind.(SimpleItem); ok && sk.Submaterial != "" {
			sub, ok := reg.Submaterial(sk.Submaterial)
			if !ok {
				return nil, reject(RejectUnknownIdentifier, "submaterial %q is not registered", sk.Submaterial)
			}
			tags[MaterialTag(sub.ID)] = true
			tags[MaterialTag(sub.Material)] = true
		}
	case ComponentInstance:
		kind, ok := reg.ComponentKind(v.Kind)
		if !ok {
			return nil, reject(RejectUnknownIdentifier, "component kind %q is not registered", v.Kind)
		}
		sub, ok := reg.Submaterial(v.Submaterial)
		if !ok {
			return nil, reject(RejectUnknownIdentifier, "submaterial %q is not registered", v.Submaterial)
		}
		tags[MaterialTag(kind.ID)] = true
		tags[MaterialTag(sub.ID)] = true
		tags[MaterialTag(sub.Material)] = true
		for _, t := range kind.MakeshiftTags {
			tags[t] = true
		}
	case CompositeInstance:
		def, ok := reg.Item(v.Definition)
		if !ok {
			return nil, reject(RejectUnknownIdentifier, "item definition %q is not registered", v.Definition)
		}
		tags[MaterialTag(def.ID)] = true
		if ck, ok := def.Kind.(CompositeItem); ok {
			tags[MaterialTag(ck.Category)] = true
			if ck.ToolType != "" {
				tags[MaterialTag(ck.ToolType)] = true
			}
		}
	}
	return tags, nil
}

// definitionRef is the identifier an exact-item requirement compares
// against: the definition id for simples and composites, the component kind
// id for components.
func definitionRef(inst ItemInstance) string {
	switch v := inst.(type) {
	case SimpleInstance:
		return string(v.Definition)
	case ComponentInstance:
		return string(v.Kind)
	case CompositeInstance:
		return string(v.Definition)
	default:
		return ""
	}
}

// matchMaterialInput checks one candidate against one requirement node:
// exact item, required tags (conjunctive), quality floor, per-slot component
// requirements, then recursion into the candidate's provenance. Matching is
// all-or-nothing; the first violated constraint is returned.
func matchMaterialInput(reg *Registry, inst ItemInstance, req MaterialInput) error {
	if req.ItemID != "" && definitionRef(inst) != string(req.ItemID) {
		return rejectSlot(RejectMissingRequiredTag, req.FillsSlot,
			"expected item %q, got %q", req.ItemID, definitionRef(inst))
	}

	if len(req.RequiredTags) > 0 {
		tags, err := InstanceTags(reg, inst)
		if err != nil {
			return err
		}
		for _, t := range req.RequiredTags {
			if !tags[t] {
				return rejectSlot(RejectMissingRequiredTag, req.FillsSlot,
					"instance %d lacks required tag %q", inst.InstanceID(), t)
			}
		}
	}

	if q := InstanceQuality(inst); q < req.MinQuality {
		return rejectSlot(RejectQualityBelowMinimum, req.FillsSlot,
			"instance %d is %s, requirement floor is %s", inst.InstanceID(), q, req.MinQuality)
	}

	if len(req.ComponentReqs) > 0 {
		comp, ok := inst.(CompositeInstance)
		if !ok {
			return rejectSlot(RejectWrongTier, req.FillsSlot,
				"component requirements apply to composites; instance %d is a %s", inst.InstanceID(), inst.Tier())
		}
		for _, cr := range req.ComponentReqs {
			part, ok := comp.Components[cr.Slot]
			if !ok {
				return rejectSlot(RejectSlotUnfilled, cr.Slot,
					"composite %d has no component in slot %q", comp.ID, cr.Slot)
			}
			partTags, err := InstanceTags(reg, part)
			if err != nil {
				return err
			}
			for _, t := range cr.RequiredTags {
				if !partTags[t] {
					return rejectSlot(RejectMissingRequiredTag, cr.Slot,
						"component %d in slot %q lacks required tag %q", part.ID, cr.Slot, t)
				}
			}
		}
	}

	if req.ProvenanceReqs != nil {
		return matchProvenance(reg, inst, req.ProvenanceReqs)
	}
	return nil
}

// matchProvenance recursively checks how a candidate was made. A nested
// input requirement's Quantity is how many of the recorded consumed-input
// entries must qualify, not a constraint on those entries' own quantities.
func matchProvenance(reg *Registry, inst ItemInstance, preq *ProvenanceRequirements) error {
	prov := InstanceProvenance(inst)

	for _, nested := range preq.Inputs {
		need := nested.Quantity
		if need <= 0 {
			need = 1
		}
		got := 0
		var lastErr error
		for _, ci := range prov.ConsumedInputs {
			ancestor, ok := reg.Instance(ci.InstanceID)
			if !ok {
				lastErr = reject(RejectProvenanceChainBroken,
					"consumed input %d of instance %d is no longer resolvable", ci.InstanceID, inst.InstanceID())
				continue
			}
			if err := matchMaterialInput(reg, ancestor, nested); err != nil {
				lastErr = err
				continue
			}
			got++
			if got == need {
				break
			}
		}
		if got < need {
			return reject(RejectProvenanceChainBroken,
				"instance %d: %d of %d consumed inputs satisfy %s (last failure: %v)",
				inst.InstanceID(), got, need, describeInput(nested), lastErr)
		}
	}

	if preq.Tool != nil {
		if prov.ToolUsed == nil {
			return reject(RejectProvenanceChainBroken,
				"instance %d was made without a tool but the requirement demands one", inst.InstanceID())
		}
		tool, ok := reg.Instance(*prov.ToolUsed)
		if !ok {
			return reject(RejectProvenanceChainBroken,
				"tool instance %d recorded for instance %d is no longer resolvable", *prov.ToolUsed, inst.InstanceID())
		}
		if err := matchMaterialInput(reg, tool, *preq.Tool); err != nil {
			return err
		}
	}

	if preq.WorldObject != nil {
		if prov.WorldObject == nil {
			return reject(RejectProvenanceChainBroken,
				"instance %d was made without a world object but the requirement demands one", inst.InstanceID())
		}
		if preq.WorldObject.Kind != nil && *preq.WorldObject.Kind != *prov.WorldObject {
			return reject(RejectWorldObjectMismatch,
				"instance %d was made at %s, requirement demands %s", inst.InstanceID(), prov.WorldObject, preq.WorldObject.Kind)
		}
		// Provenance records the kind only, so tag requirements can never
		// be satisfied retroactively.
		if len(preq.WorldObject.RequiredTags) > 0 {
			return reject(RejectProvenanceChainBroken,
				"provenance records a world-object kind, not tags; gate on kind for ancestor requirements")
		}
	}
	return nil
}

// describeInput renders a requirement node for error messages.
func describeInput(req MaterialInput) string {
	if req.ItemID != "" {
		return fmt.Sprintf("item %q", req.ItemID)
	}
	if len(req.RequiredTags) > 0 {
		return fmt.Sprintf("tags %v", req.RequiredTags)
	}
	return "any input"
}
