package content

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/appengine-ltd/craft-it/internal/crafting"
)

// Catalog is the YAML document shape for external content packs. A pack may
// carry any subset of the sections; entries with an id that already exists
// replace the built-in definition.
type Catalog struct {
	Materials      []materialDoc      `yaml:"materials"`
	Submaterials   []submaterialDoc   `yaml:"submaterials"`
	ComponentKinds []componentKindDoc `yaml:"component_kinds"`
	Items          []itemDoc          `yaml:"items"`
	Recipes        recipesDoc         `yaml:"recipes"`
}

type materialDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type submaterialDoc struct {
	ID          string `yaml:"id"`
	Material    string `yaml:"material"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type componentKindDoc struct {
	ID                string   `yaml:"id"`
	Name              string   `yaml:"name"`
	Description       string   `yaml:"description"`
	AcceptedMaterials []string `yaml:"accepted_materials"`
	MakeshiftTags     []string `yaml:"makeshift_tags"`
}

type itemDoc struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Tier        string `yaml:"tier"`
	Pickupable  *bool  `yaml:"pickupable"`

	// Simple items.
	Submaterial string `yaml:"submaterial"`

	// Component items.
	ComponentKind string `yaml:"component_kind"`

	// Composite items.
	Slots    []slotDoc `yaml:"slots"`
	Category string    `yaml:"category"`
	ToolType string    `yaml:"tool_type"`

	// Placeable items become world objects of this station id.
	PlaceableStation string `yaml:"placeable_station"`

	Health int `yaml:"health"`
	Attack int `yaml:"attack"`
}

type slotDoc struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type recipesDoc struct {
	Simple    []simpleRecipeDoc    `yaml:"simple"`
	Component []componentRecipeDoc `yaml:"component"`
	Composite []compositeRecipeDoc `yaml:"composite"`
}

type simpleRecipeDoc struct {
	ID             string          `yaml:"id"`
	Name           string          `yaml:"name"`
	Inputs         []inputDoc      `yaml:"inputs"`
	Tool           *toolDoc        `yaml:"tool"`
	WorldObject    *worldObjectDoc `yaml:"world_object"`
	Output         string          `yaml:"output"`
	OutputQuantity int             `yaml:"output_quantity"`
	Formula        *formulaDoc     `yaml:"formula"`
}

type componentRecipeDoc struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Output      string          `yaml:"output"`
	Input       *inputDoc       `yaml:"input"`
	Tool        *toolDoc        `yaml:"tool"`
	WorldObject *worldObjectDoc `yaml:"world_object"`
	Formula     *formulaDoc     `yaml:"formula"`
}

type compositeRecipeDoc struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Output      string          `yaml:"output"`
	SlotReqs    []inputDoc      `yaml:"slot_requirements"`
	Tool        *toolDoc        `yaml:"tool"`
	WorldObject *worldObjectDoc `yaml:"world_object"`
	Formula     *formulaDoc     `yaml:"formula"`
}

// inputDoc mirrors a material requirement, including the recursive
// provenance legs.
type inputDoc struct {
	Item       string            `yaml:"item"`
	Tags       []string          `yaml:"tags"`
	Quantity   int               `yaml:"quantity"`
	MinQuality string            `yaml:"min_quality"`
	Slot       string            `yaml:"slot"`
	Components []componentReqDoc `yaml:"components"`
	Provenance *provenanceDoc    `yaml:"provenance"`
}

type componentReqDoc struct {
	Slot string   `yaml:"slot"`
	Tags []string `yaml:"tags"`
}

type provenanceDoc struct {
	Inputs      []inputDoc      `yaml:"inputs"`
	Tool        *inputDoc       `yaml:"tool"`
	WorldObject *worldObjectDoc `yaml:"world_object"`
}

type toolDoc struct {
	Type       string `yaml:"type"`
	MinQuality string `yaml:"min_quality"`
}

type worldObjectDoc struct {
	Station      string   `yaml:"station"`
	ResourceNode string   `yaml:"resource_node"`
	Tags         []string `yaml:"tags"`
}

type formulaDoc struct {
	Kind    string             `yaml:"kind"`
	Weights map[string]float64 `yaml:"weights"`
	Custom  string             `yaml:"custom"`
}

// LoadCatalog decodes a catalog document. Unknown fields are rejected so
// typos in content packs surface immediately.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var cat Catalog
	if err := dec.Decode(&cat); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return &cat, nil
}

// LoadCatalogFile reads and decodes a catalog from disk.
func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", path, err)
	}
	defer f.Close()
	cat, err := LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Apply validates the catalog's references and registers its content. The
// registry is only mutated if the whole catalog validates; a catalog that
// half-applies would leave dangling references behind.
func (c *Catalog) Apply(reg *crafting.Registry) error {
	if err := c.validate(reg); err != nil {
		return err
	}

	for _, m := range c.Materials {
		reg.RegisterMaterial(crafting.Material{
			ID: crafting.MaterialID(m.ID), Name: m.Name, Description: m.Description,
		})
	}
	for _, s := range c.Submaterials {
		reg.RegisterSubmaterial(crafting.Submaterial{
			ID:       crafting.SubmaterialID(s.ID),
			Material: crafting.MaterialID(s.Material),
			Name:     s.Name, Description: s.Description,
		})
	}
	for _, ck := range c.ComponentKinds {
		kind := crafting.ComponentKind{
			ID: crafting.ComponentKindID(ck.ID), Name: ck.Name, Description: ck.Description,
		}
		for _, m := range ck.AcceptedMaterials {
			kind.AcceptedMaterials = append(kind.AcceptedMaterials, crafting.MaterialID(m))
		}
		for _, t := range ck.MakeshiftTags {
			kind.MakeshiftTags = append(kind.MakeshiftTags, crafting.MaterialTag(t))
		}
		reg.RegisterComponentKind(kind)
	}
	for _, it := range c.Items {
		def, err := it.toDefinition()
		if err != nil {
			return err
		}
		reg.RegisterItem(def)
	}

	for _, r := range c.Recipes.Simple {
		rec, err := r.toRecipe()
		if err != nil {
			return err
		}
		reg.RegisterSimpleRecipe(rec)
	}
	for _, r := range c.Recipes.Component {
		rec, err := r.toRecipe()
		if err != nil {
			return err
		}
		reg.RegisterComponentRecipe(rec)
	}
	for _, r := range c.Recipes.Composite {
		rec, err := r.toRecipe()
		if err != nil {
			return err
		}
		reg.RegisterCompositeRecipe(rec)
	}
	return nil
}

// validate checks reference integrity against the union of the catalog's
// own entries and what the registry already holds.
func (c *Catalog) validate(reg *crafting.Registry) error {
	materials := make(map[string]bool)
	submaterials := make(map[string]bool)
	kinds := make(map[string]bool)
	items := make(map[string]bool)
	for _, m := range reg.AllMaterials() {
		materials[string(m.ID)] = true
	}
	for _, s := range reg.AllSubmaterials() {
		submaterials[string(s.ID)] = true
	}
	for _, k := range reg.AllComponentKinds() {
		kinds[string(k.ID)] = true
	}
	for _, it := range reg.AllItems() {
		items[string(it.ID)] = true
	}
	for _, m := range c.Materials {
		if m.ID == "" {
			return fmt.Errorf("material with empty id")
		}
		materials[m.ID] = true
	}
	for _, s := range c.Submaterials {
		submaterials[s.ID] = true
	}
	for _, k := range c.ComponentKinds {
		kinds[k.ID] = true
	}
	for _, it := range c.Items {
		items[it.ID] = true
	}

	for _, s := range c.Submaterials {
		if !materials[s.Material] {
			return fmt.Errorf("submaterial %q references unknown material %q", s.ID, s.Material)
		}
	}
	for _, k := range c.ComponentKinds {
		for _, m := range k.AcceptedMaterials {
			if !materials[m] {
				return fmt.Errorf("component kind %q accepts unknown material %q", k.ID, m)
			}
		}
	}
	for _, it := range c.Items {
		switch it.Tier {
		case "simple", "":
			if it.Submaterial != "" && !submaterials[it.Submaterial] {
				return fmt.Errorf("item %q references unknown submaterial %q", it.ID, it.Submaterial)
			}
		case "component":
			if !kinds[it.ComponentKind] {
				return fmt.Errorf("item %q references unknown component kind %q", it.ID, it.ComponentKind)
			}
		case "composite":
			if len(it.Slots) == 0 {
				return fmt.Errorf("composite item %q declares no slots", it.ID)
			}
			for _, sl := range it.Slots {
				if !kinds[sl.Kind] {
					return fmt.Errorf("item %q slot %q references unknown component kind %q", it.ID, sl.Name, sl.Kind)
				}
			}
		default:
			return fmt.Errorf("item %q has unknown tier %q", it.ID, it.Tier)
		}
	}

	for _, r := range c.Recipes.Simple {
		if !items[r.Output] {
			return fmt.Errorf("recipe %q outputs unknown item %q", r.ID, r.Output)
		}
	}
	for _, r := range c.Recipes.Component {
		if !kinds[r.Output] {
			return fmt.Errorf("recipe %q outputs unknown component kind %q", r.ID, r.Output)
		}
	}
	for _, r := range c.Recipes.Composite {
		if !items[r.Output] {
			return fmt.Errorf("recipe %q outputs unknown item %q", r.ID, r.Output)
		}
	}
	return nil
}

func (it itemDoc) toDefinition() (crafting.ItemDefinition, error) {
	def := crafting.ItemDefinition{
		ID: crafting.ItemID(it.ID), Name: it.Name, Description: it.Description,
		Pickupable:  it.Pickupable == nil || *it.Pickupable,
		StatBonuses: crafting.StatBonuses{Health: it.Health, Attack: it.Attack},
	}
	switch it.Tier {
	case "simple", "":
		def.Kind = crafting.SimpleItem{Submaterial: crafting.SubmaterialID(it.Submaterial)}
	case "component":
		def.Kind = crafting.ComponentItem{ComponentKind: crafting.ComponentKindID(it.ComponentKind)}
	case "composite":
		comp := crafting.CompositeItem{
			Category: crafting.CompositeCategory(it.Category),
			ToolType: crafting.ToolType(it.ToolType),
		}
		for _, sl := range it.Slots {
			comp.Slots = append(comp.Slots, crafting.CompositeSlot{
				Name:          sl.Name,
				ComponentKind: crafting.ComponentKindID(sl.Kind),
			})
		}
		def.Kind = comp
	default:
		return def, fmt.Errorf("item %q has unknown tier %q", it.ID, it.Tier)
	}
	if it.PlaceableStation != "" {
		kind := crafting.CraftingStation(crafting.CraftingStationID(it.PlaceableStation))
		def.Placeable = &kind
	}
	return def, nil
}

func (r simpleRecipeDoc) toRecipe() (crafting.SimpleRecipe, error) {
	rec := crafting.SimpleRecipe{
		ID: crafting.RecipeID(r.ID), Name: r.Name,
		Output:         crafting.ItemID(r.Output),
		OutputQuantity: r.OutputQuantity,
	}
	if rec.OutputQuantity <= 0 {
		rec.OutputQuantity = 1
	}
	for _, in := range r.Inputs {
		mi, err := in.toInput()
		if err != nil {
			return rec, fmt.Errorf("recipe %q: %w", r.ID, err)
		}
		rec.Inputs = append(rec.Inputs, mi)
	}
	var err error
	if rec.Tool, err = r.Tool.toRequirement(); err != nil {
		return rec, fmt.Errorf("recipe %q: %w", r.ID, err)
	}
	rec.WorldObject = r.WorldObject.toRequirement()
	if rec.Formula, err = r.Formula.toFormula(); err != nil {
		return rec, fmt.Errorf("recipe %q: %w", r.ID, err)
	}
	return rec, nil
}

func (r componentRecipeDoc) toRecipe() (crafting.ComponentRecipe, error) {
	rec := crafting.ComponentRecipe{
		ID: crafting.RecipeID(r.ID), Name: r.Name,
		Output: crafting.ComponentKindID(r.Output),
	}
	if r.Input != nil {
		mi, err := r.Input.toInput()
		if err != nil {
			return rec, fmt.Errorf("recipe %q: %w", r.ID, err)
		}
		rec.Input = &mi
	}
	var err error
	if rec.Tool, err = r.Tool.toRequirement(); err != nil {
		return rec, fmt.Errorf("recipe %q: %w", r.ID, err)
	}
	rec.WorldObject = r.WorldObject.toRequirement()
	if rec.Formula, err = r.Formula.toFormula(); err != nil {
		return rec, fmt.Errorf("recipe %q: %w", r.ID, err)
	}
	return rec, nil
}

func (r compositeRecipeDoc) toRecipe() (crafting.CompositeRecipe, error) {
	rec := crafting.CompositeRecipe{
		ID: crafting.RecipeID(r.ID), Name: r.Name,
		Output: crafting.ItemID(r.Output),
	}
	for _, in := range r.SlotReqs {
		mi, err := in.toInput()
		if err != nil {
			return rec, fmt.Errorf("recipe %q: %w", r.ID, err)
		}
		rec.SlotReqs = append(rec.SlotReqs, mi)
	}
	var err error
	if rec.Tool, err = r.Tool.toRequirement(); err != nil {
		return rec, fmt.Errorf("recipe %q: %w", r.ID, err)
	}
	rec.WorldObject = r.WorldObject.toRequirement()
	if rec.Formula, err = r.Formula.toFormula(); err != nil {
		return rec, fmt.Errorf("recipe %q: %w", r.ID, err)
	}
	return rec, nil
}

func (in inputDoc) toInput() (crafting.MaterialInput, error) {
	mi := crafting.MaterialInput{
		ItemID:    crafting.ItemID(in.Item),
		Quantity:  in.Quantity,
		FillsSlot: in.Slot,
	}
	for _, t := range in.Tags {
		mi.RequiredTags = append(mi.RequiredTags, crafting.MaterialTag(t))
	}
	if in.MinQuality != "" {
		q, err := crafting.ParseQuality(in.MinQuality)
		if err != nil {
			return mi, err
		}
		mi.MinQuality = q
	}
	for _, cr := range in.Components {
		req := crafting.ComponentReq{Slot: cr.Slot}
		for _, t := range cr.Tags {
			req.RequiredTags = append(req.RequiredTags, crafting.MaterialTag(t))
		}
		mi.ComponentReqs = append(mi.ComponentReqs, req)
	}
	if in.Provenance != nil {
		preq := &crafting.ProvenanceRequirements{}
		for _, nested := range in.Provenance.Inputs {
			ni, err := nested.toInput()
			if err != nil {
				return mi, err
			}
			preq.Inputs = append(preq.Inputs, ni)
		}
		if in.Provenance.Tool != nil {
			ti, err := in.Provenance.Tool.toInput()
			if err != nil {
				return mi, err
			}
			preq.Tool = &ti
		}
		preq.WorldObject = in.Provenance.WorldObject.toRequirement()
		mi.ProvenanceReqs = preq
	}
	return mi, nil
}

func (t *toolDoc) toRequirement() (*crafting.ToolRequirement, error) {
	if t == nil {
		return nil, nil
	}
	req := &crafting.ToolRequirement{ToolType: crafting.ToolType(t.Type)}
	if t.MinQuality != "" {
		q, err := crafting.ParseQuality(t.MinQuality)
		if err != nil {
			return nil, err
		}
		req.MinQuality = q
	}
	return req, nil
}

func (w *worldObjectDoc) toRequirement() *crafting.WorldObjectRequirement {
	if w == nil {
		return nil
	}
	req := &crafting.WorldObjectRequirement{}
	switch {
	case w.Station != "":
		kind := crafting.CraftingStation(crafting.CraftingStationID(w.Station))
		req.Kind = &kind
	case w.ResourceNode != "":
		kind := crafting.ResourceNode(crafting.ResourceNodeID(w.ResourceNode))
		req.Kind = &kind
	}
	for _, t := range w.Tags {
		req.RequiredTags = append(req.RequiredTags, crafting.WorldObjectTag(t))
	}
	return req
}

func (f *formulaDoc) toFormula() (crafting.QualityFormula, error) {
	if f == nil {
		return crafting.MinOfInputs(), nil
	}
	switch f.Kind {
	case "min", "":
		return crafting.MinOfInputs(), nil
	case "average":
		return crafting.AverageOfInputs(), nil
	case "weighted":
		weights := make([]crafting.SlotWeight, 0, len(f.Weights))
		for name, w := range f.Weights {
			weights = append(weights, crafting.SlotWeight{Name: name, Weight: w})
		}
		return crafting.Weighted(weights...), nil
	case "custom":
		if f.Custom == "" {
			return crafting.QualityFormula{}, fmt.Errorf("custom formula without a name")
		}
		return crafting.CustomFormula(f.Custom), nil
	default:
		return crafting.QualityFormula{}, fmt.Errorf("unknown formula kind %q", f.Kind)
	}
}
