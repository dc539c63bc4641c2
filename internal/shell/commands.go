package shell

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/appengine-ltd/craft-it/internal/crafting"
	"github.com/appengine-ltd/craft-it/internal/parser"
	"github.com/appengine-ltd/craft-it/internal/snapshot"
)

const harvestCap = 20

func (s *Session) cmdHelp() Result {
	return Result{Message: "Commands: inventory, items, recipes, materials, stations, " +
		"show <thing>, craft <recipe>, harvest <item> [n], place <item>, " +
		"trace <item>, save [path], load [path], help, quit."}
}

func (s *Session) cmdInventory() Result {
	held := s.heldInstances()
	if len(held) == 0 {
		return Result{Message: "Inventory: empty."}
	}
	parts := make([]string, 0, len(held))
	for _, inst := range held {
		parts = append(parts, s.describeInstance(inst))
	}
	return Result{Message: "Inventory: " + strings.Join(parts, ", ")}
}

func (s *Session) cmdItems() Result {
	defs := s.reg.AllItems()
	sort.Slice(defs, func(i, j int) bool { return defs[i].ID < defs[j].ID })
	parts := make([]string, 0, len(defs))
	for _, def := range defs {
		parts = append(parts, fmt.Sprintf("%s(%s)", displayName(def.ID), def.Tier()))
	}
	return Result{Message: "Items -> " + strings.Join(parts, ", ")}
}

func (s *Session) cmdRecipes() Result {
	type entry struct{ id, label string }
	var entries []entry
	for _, rec := range s.reg.AllSimpleRecipes() {
		entries = append(entries, entry{string(rec.ID), fmt.Sprintf("%s -> %s", displayName(rec.ID), displayName(rec.Output))})
	}
	for _, rec := range s.reg.AllComponentRecipes() {
		entries = append(entries, entry{string(rec.ID), fmt.Sprintf("%s -> %s", displayName(rec.ID), displayName(rec.Output))})
	}
	for _, rec := range s.reg.AllCompositeRecipes() {
		entries = append(entries, entry{string(rec.ID), fmt.Sprintf("%s -> %s", displayName(rec.ID), displayName(rec.Output))})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.label)
	}
	return Result{Message: "Recipes -> " + strings.Join(parts, " | ")}
}

func (s *Session) cmdMaterials() Result {
	mats := s.reg.AllMaterials()
	sort.Slice(mats, func(i, j int) bool { return mats[i].ID < mats[j].ID })
	subs := s.reg.AllSubmaterials()
	byMaterial := map[crafting.MaterialID][]string{}
	for _, sub := range subs {
		byMaterial[sub.Material] = append(byMaterial[sub.Material], displayName(sub.ID))
	}
	parts := make([]string, 0, len(mats))
	for _, mat := range mats {
		variants := byMaterial[mat.ID]
		sort.Strings(variants)
		if len(variants) == 0 {
			parts = append(parts, displayName(mat.ID))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s[%s]", displayName(mat.ID), strings.Join(variants, "/")))
	}
	return Result{Message: "Materials -> " + strings.Join(parts, ", ")}
}

func (s *Session) cmdStations() Result {
	objs := s.reg.AllWorldObjects()
	if len(objs) == 0 {
		return Result{Message: "Stations: none placed."}
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].ID < objs[j].ID })
	parts := make([]string, 0, len(objs))
	for _, obj := range objs {
		label := fmt.Sprintf("%s #%d", displayName(obj.Kind.ID), obj.ID)
		if len(obj.Tags) > 0 {
			tags := make([]string, 0, len(obj.Tags))
			for _, t := range obj.Tags {
				tags = append(tags, string(t))
			}
			label += " {" + strings.Join(tags, ",") + "}"
		}
		parts = append(parts, label)
	}
	return Result{Message: "Placed -> " + strings.Join(parts, ", ")}
}

func (s *Session) cmdShow(args []string) Result {
	if len(args) == 0 {
		return Result{Message: "Show what? Try 'show <item or recipe>'."}
	}
	name := args[0]
	id := entityID(name)
	s.lastEntity = name

	if inst, ok := s.heldByName(name); ok {
		return Result{Message: s.describeInstanceLong(inst)}
	}
	if rec, ok := s.reg.SimpleRecipe(crafting.RecipeID(id)); ok {
		return Result{Message: s.describeSimpleRecipe(rec)}
	}
	if rec, ok := s.reg.ComponentRecipe(crafting.RecipeID(id)); ok {
		return Result{Message: s.describeComponentRecipe(rec)}
	}
	if rec, ok := s.reg.CompositeRecipe(crafting.RecipeID(id)); ok {
		return Result{Message: s.describeCompositeRecipe(rec)}
	}
	if def, ok := s.reg.Item(crafting.ItemID(id)); ok {
		return Result{Message: describeDefinition(def)}
	}
	return Result{Message: fmt.Sprintf("Nothing called %q here.", name)}
}

func (s *Session) cmdCraft(args []string) Result {
	if len(args) == 0 {
		return Result{Message: "Craft what? 'recipes' lists what you know."}
	}
	recipeID := crafting.RecipeID(entityID(args[0]))

	binding, err := s.autoBind(recipeID)
	if err != nil {
		return Result{Message: fmt.Sprintf("Can't craft %s: %v.", args[0], err)}
	}

	inst, err := s.eng.Resolve(recipeID, binding)
	if err != nil {
		s.log.Info("craft rejected", zap.String("recipe", string(recipeID)), zap.Error(err))
		return Result{Message: renderRejections(args[0], err)}
	}

	s.lastEntity = displayName(string(s.instanceItemID(inst)))
	if rec, ok := s.reg.SimpleRecipe(recipeID); ok && rec.OutputQuantity > 1 {
		return Result{Message: fmt.Sprintf("Crafted %d x %s.", rec.OutputQuantity,
			displayName(string(rec.Output)))}
	}
	return Result{Message: fmt.Sprintf("Crafted %s.", s.describeInstance(inst))}
}

func (s *Session) cmdHarvest(args []string, qty *parser.Quantity) Result {
	if len(args) == 0 {
		return Result{Message: "Harvest what?"}
	}
	name := args[0]
	def, ok := s.reg.Item(crafting.ItemID(entityID(name)))
	if !ok {
		return Result{Message: fmt.Sprintf("No such item %q.", name)}
	}
	if def.Tier() != crafting.TierSimple {
		return Result{Message: fmt.Sprintf("%s has to be crafted, not harvested.", name)}
	}

	count := 1
	if qty != nil {
		switch {
		case qty.N < 0:
			count = harvestCap
		case qty.N > 0:
			count = qty.N
		}
	}
	if count > harvestCap {
		count = harvestCap
	}

	var last crafting.InstanceID
	for i := 0; i < count; i++ {
		last = s.reg.CreateSimpleItem(def.ID, s.now())
	}
	s.lastEntity = name
	if count == 1 {
		return Result{Message: fmt.Sprintf("Picked up %s #%d.", name, last)}
	}
	return Result{Message: fmt.Sprintf("Picked up %d x %s.", count, name)}
}

func (s *Session) cmdPlace(args []string) Result {
	if len(args) == 0 {
		return Result{Message: "Place what?"}
	}
	name := args[0]
	inst, ok := s.heldByName(name)
	if !ok {
		return Result{Message: fmt.Sprintf("You are not holding a %s.", name)}
	}
	def, ok := s.reg.Item(s.instanceItemID(inst))
	if !ok || def.Placeable == nil {
		return Result{Message: fmt.Sprintf("%s can't be placed.", name)}
	}

	id := s.reg.PlaceWorldObject(*def.Placeable)
	s.spent[inst.InstanceID()] = true
	s.lastEntity = name
	return Result{Message: fmt.Sprintf("Placed %s (#%d).", displayName(def.Placeable.ID), id)}
}

func (s *Session) cmdTrace(args []string) Result {
	if len(args) == 0 {
		return Result{Message: "Trace what?"}
	}
	name := args[0]
	inst, ok := s.heldByName(name)
	if !ok {
		return Result{Message: fmt.Sprintf("You are not holding a %s.", name)}
	}
	s.lastEntity = name
	return Result{Message: s.renderTrace(inst)}
}

func (s *Session) cmdSave(args []string) Result {
	path := s.savePath
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	}
	if err := snapshot.SaveFile(s.reg, path); err != nil {
		return Result{Message: fmt.Sprintf("Save failed: %v", err)}
	}
	return Result{Message: "Saved to " + path + "."}
}

func (s *Session) cmdLoad(args []string) Result {
	path := s.savePath
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	}
	reg, err := snapshot.LoadFile(path)
	if err != nil {
		return Result{Message: fmt.Sprintf("Load failed: %v", err)}
	}
	s.reg = reg
	s.eng = crafting.NewEngine(reg, crafting.WithLogger(s.log))
	s.spent = map[crafting.InstanceID]bool{}
	s.lastEntity = ""
	return Result{Message: "Loaded " + path + "."}
}

// heldByName finds the most recently acquired held instance whose item name
// matches.
func (s *Session) heldByName(name string) (crafting.ItemInstance, bool) {
	id := entityID(name)
	held := s.heldInstances()
	for i := len(held) - 1; i >= 0; i-- {
		if string(s.instanceItemID(held[i])) == id {
			return held[i], true
		}
	}
	return nil, false
}

func renderRejections(recipe string, err error) string {
	rejections := crafting.Rejections(err)
	if len(rejections) == 0 {
		return fmt.Sprintf("Craft %s failed: %v", recipe, err)
	}
	parts := make([]string, 0, len(rejections))
	for _, r := range rejections {
		parts = append(parts, r.Detail)
	}
	return fmt.Sprintf("Can't craft %s: %s.", recipe, strings.Join(parts, "; "))
}
