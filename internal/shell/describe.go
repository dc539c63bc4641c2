package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/appengine-ltd/craft-it/internal/crafting"
)

func (s *Session) describeInstance(inst crafting.ItemInstance) string {
	name := displayName(string(s.instanceItemID(inst)))
	switch v := inst.(type) {
	case crafting.SimpleInstance:
		return fmt.Sprintf("%s #%d", name, v.ID)
	case crafting.ComponentInstance:
		return fmt.Sprintf("%s #%d (%s, %s)", name, v.ID, v.Quality, displayName(v.Submaterial))
	case crafting.CompositeInstance:
		return fmt.Sprintf("%s #%d (%s)", name, v.ID, v.Quality)
	default:
		return fmt.Sprintf("instance #%d", inst.InstanceID())
	}
}

func (s *Session) describeInstanceLong(inst crafting.ItemInstance) string {
	lines := []string{s.describeInstance(inst)}

	if def, ok := s.reg.Item(s.instanceItemID(inst)); ok && def.Description != "" {
		lines = append(lines, "  "+def.Description)
	}

	if comp, ok := inst.(crafting.CompositeInstance); ok {
		slots := make([]string, 0, len(comp.Components))
		for name := range comp.Components {
			slots = append(slots, name)
		}
		sort.Strings(slots)
		for _, slot := range slots {
			c := comp.Components[slot]
			lines = append(lines, fmt.Sprintf("  %s: %s (%s, %s)",
				slot, displayName(c.Kind), c.Quality, displayName(c.Submaterial)))
		}
	}

	prov := crafting.InstanceProvenance(inst)
	if prov.RecipeID == crafting.WorldDropRecipeID {
		lines = append(lines, "  Found in the world.")
	} else if prov.RecipeID != "" {
		lines = append(lines, "  Made with "+displayName(prov.RecipeID)+".")
	}
	return strings.Join(lines, "\n")
}

func describeDefinition(def crafting.ItemDefinition) string {
	out := fmt.Sprintf("%s (%s item)", displayName(def.ID), def.Tier())
	if def.Description != "" {
		out += ": " + def.Description
	}
	if def.Placeable != nil {
		out += " Can be placed as a " + displayName(def.Placeable.ID) + "."
	}
	return out
}

func (s *Session) describeSimpleRecipe(rec crafting.SimpleRecipe) string {
	parts := make([]string, 0, len(rec.Inputs))
	for _, input := range rec.Inputs {
		qty := input.Quantity
		if qty <= 0 {
			qty = 1
		}
		parts = append(parts, fmt.Sprintf("%d x %s", qty, describeNeed(input)))
	}
	out := fmt.Sprintf("%s: %s -> %s", displayName(rec.ID), strings.Join(parts, " + "), displayName(rec.Output))
	out += describeGates(rec.Tool, rec.WorldObject)
	return out
}

func (s *Session) describeComponentRecipe(rec crafting.ComponentRecipe) string {
	feed := "any accepted material"
	if kind, ok := s.reg.ComponentKind(rec.Output); ok {
		mats := make([]string, 0, len(kind.AcceptedMaterials))
		for _, m := range kind.AcceptedMaterials {
			mats = append(mats, displayName(m))
		}
		feed = strings.Join(mats, "/")
	}
	if rec.Input != nil && rec.Input.ItemID != "" {
		feed = displayName(rec.Input.ItemID)
	}
	out := fmt.Sprintf("%s: %s -> %s", displayName(rec.ID), feed, displayName(rec.Output))
	out += describeGates(rec.Tool, rec.WorldObject)
	return out
}

func (s *Session) describeCompositeRecipe(rec crafting.CompositeRecipe) string {
	slots := "?"
	if def, ok := s.reg.Item(rec.Output); ok {
		if composite, ok := def.Kind.(crafting.CompositeItem); ok {
			parts := make([]string, 0, len(composite.Slots))
			for _, slot := range composite.Slots {
				parts = append(parts, fmt.Sprintf("%s(%s)", slot.Name, displayName(slot.ComponentKind)))
			}
			slots = strings.Join(parts, " + ")
		}
	}
	out := fmt.Sprintf("%s: %s -> %s", displayName(rec.ID), slots, displayName(rec.Output))
	out += describeGates(rec.Tool, rec.WorldObject)
	return out
}

func describeGates(tool *crafting.ToolRequirement, wo *crafting.WorldObjectRequirement) string {
	out := ""
	if tool != nil {
		out += fmt.Sprintf(" | needs %s (%s+)", tool.ToolType, tool.MinQuality)
	}
	if wo != nil {
		if wo.Kind != nil {
			out += " | at " + displayName(wo.Kind.ID)
		} else if len(wo.RequiredTags) > 0 {
			out += fmt.Sprintf(" | at station with %v", wo.RequiredTags)
		}
	}
	return out
}
