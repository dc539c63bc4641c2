package shell

import (
	"fmt"
	"strings"
	"time"

	"github.com/appengine-ltd/craft-it/internal/crafting"
)

// renderTrace prints an instance's full ancestry, following consumed-input
// references down to world drops.
func (s *Session) renderTrace(inst crafting.ItemInstance) string {
	var b strings.Builder
	s.traceInto(&b, inst, 0)
	return strings.TrimRight(b.String(), "\n")
}

func (s *Session) traceInto(b *strings.Builder, inst crafting.ItemInstance, depth int) {
	indent := strings.Repeat("  ", depth)
	prov := crafting.InstanceProvenance(inst)

	line := indent + s.describeInstance(inst)
	switch {
	case prov.RecipeID == crafting.WorldDropRecipeID:
		line += " <- world drop"
	case prov.RecipeID != "":
		line += " <- " + displayName(prov.RecipeID)
	}
	if prov.CraftedAt > 0 {
		line += " @ " + time.Unix(prov.CraftedAt, 0).UTC().Format("2006-01-02 15:04")
	}
	b.WriteString(line + "\n")

	if prov.ToolUsed != nil {
		if tool, ok := s.reg.Instance(*prov.ToolUsed); ok {
			b.WriteString(fmt.Sprintf("%s  using %s\n", indent, s.describeInstance(tool)))
		} else {
			b.WriteString(fmt.Sprintf("%s  using instance #%d (no longer known)\n", indent, *prov.ToolUsed))
		}
	}
	if prov.WorldObject != nil {
		b.WriteString(fmt.Sprintf("%s  at %s\n", indent, displayName(prov.WorldObject.ID)))
	}

	for _, consumed := range prov.ConsumedInputs {
		child, ok := s.reg.Instance(consumed.InstanceID)
		if !ok {
			b.WriteString(fmt.Sprintf("%s  instance #%d (no longer known)\n", indent, consumed.InstanceID))
			continue
		}
		s.traceInto(b, child, depth+1)
	}
}
