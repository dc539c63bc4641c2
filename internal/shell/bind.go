package shell

import (
	"fmt"

	"github.com/appengine-ltd/craft-it/internal/crafting"
)

// autoBind assembles a Binding for the recipe from held instances: inputs in
// inventory order, the best qualifying tool, and the first qualifying placed
// station. The engine re-validates everything; binding only has to be a
// reasonable guess.
func (s *Session) autoBind(recipeID crafting.RecipeID) (crafting.Binding, error) {
	held := s.heldInstances()

	if rec, ok := s.reg.SimpleRecipe(recipeID); ok {
		return s.bindSimple(rec, held)
	}
	if rec, ok := s.reg.ComponentRecipe(recipeID); ok {
		return s.bindComponent(rec, held)
	}
	if rec, ok := s.reg.CompositeRecipe(recipeID); ok {
		return s.bindComposite(rec, held)
	}
	return crafting.Binding{}, fmt.Errorf("recipe %q is not registered", recipeID)
}

func (s *Session) bindSimple(rec crafting.SimpleRecipe, held []crafting.ItemInstance) (crafting.Binding, error) {
	b := crafting.Binding{}
	taken := map[crafting.InstanceID]bool{}

	for _, input := range rec.Inputs {
		want := input.Quantity
		if want <= 0 {
			want = 1
		}
		found := 0
		for _, inst := range held {
			if taken[inst.InstanceID()] {
				continue
			}
			if !s.satisfiesInput(inst, input) {
				continue
			}
			taken[inst.InstanceID()] = true
			b.Inputs = append(b.Inputs, inst.InstanceID())
			found++
			if found == want {
				break
			}
		}
		if found < want {
			return b, fmt.Errorf("need %d x %s, have %d", want, describeNeed(input), found)
		}
	}

	s.bindTool(&b, rec.Tool, held)
	s.bindStation(&b, rec.WorldObject)
	return b, nil
}

func (s *Session) bindComponent(rec crafting.ComponentRecipe, held []crafting.ItemInstance) (crafting.Binding, error) {
	kind, ok := s.reg.ComponentKind(rec.Output)
	if !ok {
		return crafting.Binding{}, fmt.Errorf("component kind %q is not registered", rec.Output)
	}

	b := crafting.Binding{}
	for _, inst := range held {
		simple, isSimple := inst.(crafting.SimpleInstance)
		if !isSimple {
			continue
		}
		if !s.simpleFeedsKind(simple, kind) {
			continue
		}
		if rec.Input != nil && !s.satisfiesInput(inst, *rec.Input) {
			continue
		}
		b.Inputs = []crafting.InstanceID{inst.InstanceID()}
		break
	}
	if len(b.Inputs) == 0 {
		return b, fmt.Errorf("no held item can be shaped into a %s", kind.ID)
	}

	s.bindTool(&b, rec.Tool, held)
	s.bindStation(&b, rec.WorldObject)
	return b, nil
}

func (s *Session) bindComposite(rec crafting.CompositeRecipe, held []crafting.ItemInstance) (crafting.Binding, error) {
	def, ok := s.reg.Item(rec.Output)
	if !ok {
		return crafting.Binding{}, fmt.Errorf("item %q is not registered", rec.Output)
	}
	composite, ok := def.Kind.(crafting.CompositeItem)
	if !ok {
		return crafting.Binding{}, fmt.Errorf("item %q is not a composite", rec.Output)
	}

	b := crafting.Binding{}
	taken := map[crafting.InstanceID]bool{}
	for _, slot := range composite.Slots {
		req, hasReq := slotRequirement(rec, slot.Name)
		bound := false
		for _, inst := range held {
			comp, isComp := inst.(crafting.ComponentInstance)
			if !isComp || taken[comp.ID] || comp.Kind != slot.ComponentKind {
				continue
			}
			if hasReq && !s.satisfiesInput(inst, req) {
				continue
			}
			taken[comp.ID] = true
			b.Slots = append(b.Slots, crafting.SlotBinding{Slot: slot.Name, Instance: comp.ID})
			bound = true
			break
		}
		if !bound {
			return b, fmt.Errorf("no held component fits slot %q (%s)", slot.Name, slot.ComponentKind)
		}
	}

	s.bindTool(&b, rec.Tool, held)
	s.bindStation(&b, rec.WorldObject)
	return b, nil
}

func slotRequirement(rec crafting.CompositeRecipe, slot string) (crafting.MaterialInput, bool) {
	for _, req := range rec.SlotReqs {
		if req.FillsSlot == slot {
			return req, true
		}
	}
	return crafting.MaterialInput{}, false
}

// satisfiesInput mirrors the engine's per-input checks closely enough to
// pick candidates. Provenance requirements are skipped; a wrong guess
// surfaces as an engine rejection.
func (s *Session) satisfiesInput(inst crafting.ItemInstance, req crafting.MaterialInput) bool {
	if req.ItemID != "" && s.instanceItemID(inst) != req.ItemID {
		return false
	}
	if len(req.RequiredTags) > 0 {
		tags, err := crafting.InstanceTags(s.reg, inst)
		if err != nil {
			return false
		}
		for _, tag := range req.RequiredTags {
			if !tags[tag] {
				return false
			}
		}
	}
	if req.MinQuality > crafting.QualityMakeshift && crafting.InstanceQuality(inst) < req.MinQuality {
		return false
	}
	return true
}

func (s *Session) simpleFeedsKind(inst crafting.SimpleInstance, kind crafting.ComponentKind) bool {
	def, ok := s.reg.Item(inst.Definition)
	if !ok {
		return false
	}
	simple, ok := def.Kind.(crafting.SimpleItem)
	if !ok || simple.Submaterial == "" {
		return false
	}
	sub, ok := s.reg.Submaterial(simple.Submaterial)
	if !ok {
		return false
	}
	return kind.Accepts(sub.Material)
}

// bindTool picks the highest-quality held composite of the required tool
// type. Without a requirement no tool is bound.
func (s *Session) bindTool(b *crafting.Binding, req *crafting.ToolRequirement, held []crafting.ItemInstance) {
	if req == nil {
		return
	}
	var best *crafting.CompositeInstance
	for _, inst := range held {
		comp, ok := inst.(crafting.CompositeInstance)
		if !ok {
			continue
		}
		def, ok := s.reg.Item(comp.Definition)
		if !ok {
			continue
		}
		ck, ok := def.Kind.(crafting.CompositeItem)
		if !ok || ck.ToolType != req.ToolType {
			continue
		}
		if best == nil || comp.Quality > best.Quality {
			c := comp
			best = &c
		}
	}
	if best != nil {
		id := best.ID
		b.Tool = &id
	}
}

// bindStation picks the first placed world object satisfying the
// requirement, lowest ID first.
func (s *Session) bindStation(b *crafting.Binding, req *crafting.WorldObjectRequirement) {
	if req == nil {
		return
	}
	objs := s.reg.AllWorldObjects()
	var best *crafting.WorldObjectInstance
	for i := range objs {
		obj := objs[i]
		if req.Kind != nil && obj.Kind != *req.Kind {
			continue
		}
		qualifies := true
		for _, tag := range req.RequiredTags {
			if !obj.HasTag(tag) {
				qualifies = false
				break
			}
		}
		if !qualifies {
			continue
		}
		if best == nil || obj.ID < best.ID {
			o := obj
			best = &o
		}
	}
	if best != nil {
		id := best.ID
		b.WorldObject = &id
	}
}

func describeNeed(req crafting.MaterialInput) string {
	if req.ItemID != "" {
		return displayName(req.ItemID)
	}
	if len(req.RequiredTags) > 0 {
		return fmt.Sprintf("item tagged %v", req.RequiredTags)
	}
	return "matching item"
}
