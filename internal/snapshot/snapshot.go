// Package snapshot serializes a crafting registry to a JSON document and
// restores it. The document carries everything the registry owns: catalog
// definitions, recipes, live instances with their provenance, placed world
// objects and the identifier watermarks, so a restored registry keeps
// issuing fresh identifiers.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/appengine-ltd/craft-it/internal/crafting"
)

// Document is one saved registry. ID is a fresh UUID per capture so saves
// can be told apart even when their content is identical.
type Document struct {
	ID         string     `json:"id"`
	SavedAt    time.Time  `json:"saved_at"`
	Watermarks Watermarks `json:"watermarks"`

	Materials      []materialDoc      `json:"materials,omitempty"`
	Submaterials   []submaterialDoc   `json:"submaterials,omitempty"`
	ComponentKinds []componentKindDoc `json:"component_kinds,omitempty"`
	Items          []itemDoc          `json:"items,omitempty"`

	SimpleRecipes    []simpleRecipeDoc    `json:"simple_recipes,omitempty"`
	ComponentRecipes []componentRecipeDoc `json:"component_recipes,omitempty"`
	CompositeRecipes []compositeRecipeDoc `json:"composite_recipes,omitempty"`

	Instances    []instanceDoc    `json:"instances,omitempty"`
	WorldObjects []worldObjectDoc `json:"world_objects,omitempty"`
}

type Watermarks struct {
	Instance    uint64 `json:"instance"`
	WorldObject uint64 `json:"world_object"`
}

type materialDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type submaterialDoc struct {
	ID          string `json:"id"`
	Material    string `json:"material"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

type componentKindDoc struct {
	ID                string   `json:"id"`
	Name              string   `json:"name,omitempty"`
	Description       string   `json:"description,omitempty"`
	AcceptedMaterials []string `json:"accepted_materials,omitempty"`
	MakeshiftTags     []string `json:"makeshift_tags,omitempty"`
}

type itemDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Tier        string `json:"tier"`

	Submaterial   string    `json:"submaterial,omitempty"`
	ComponentKind string    `json:"component_kind,omitempty"`
	Slots         []slotDoc `json:"slots,omitempty"`
	Category      string    `json:"category,omitempty"`
	ToolType      string    `json:"tool_type,omitempty"`

	Placeable  *worldObjectKindDoc `json:"placeable,omitempty"`
	Pickupable bool                `json:"pickupable"`
	Health     int                 `json:"health,omitempty"`
	Attack     int                 `json:"attack,omitempty"`
}

type slotDoc struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type worldObjectKindDoc struct {
	Class string `json:"class"`
	ID    string `json:"id"`
}

type simpleRecipeDoc struct {
	ID             string          `json:"id"`
	Name           string          `json:"name,omitempty"`
	Inputs         []inputDoc      `json:"inputs,omitempty"`
	Tool           *toolDoc        `json:"tool,omitempty"`
	WorldObject    *worldObjReqDoc `json:"world_object,omitempty"`
	Output         string          `json:"output"`
	OutputQuantity int             `json:"output_quantity"`
	Formula        formulaDoc      `json:"formula"`
}

type componentRecipeDoc struct {
	ID          string          `json:"id"`
	Name        string          `json:"name,omitempty"`
	Output      string          `json:"output"`
	Input       *inputDoc       `json:"input,omitempty"`
	Tool        *toolDoc        `json:"tool,omitempty"`
	WorldObject *worldObjReqDoc `json:"world_object,omitempty"`
	Formula     formulaDoc      `json:"formula"`
}

type compositeRecipeDoc struct {
	ID          string          `json:"id"`
	Name        string          `json:"name,omitempty"`
	Output      string          `json:"output"`
	SlotReqs    []inputDoc      `json:"slot_requirements,omitempty"`
	Tool        *toolDoc        `json:"tool,omitempty"`
	WorldObject *worldObjReqDoc `json:"world_object,omitempty"`
	Formula     formulaDoc      `json:"formula"`
}

type inputDoc struct {
	Item       string             `json:"item,omitempty"`
	Tags       []string           `json:"tags,omitempty"`
	Quantity   int                `json:"quantity,omitempty"`
	MinQuality crafting.Quality   `json:"min_quality,omitempty"`
	Slot       string             `json:"slot,omitempty"`
	Components []componentReqDoc  `json:"components,omitempty"`
	Provenance *provenanceReqsDoc `json:"provenance,omitempty"`
}

type componentReqDoc struct {
	Slot string   `json:"slot"`
	Tags []string `json:"tags,omitempty"`
}

type provenanceReqsDoc struct {
	Inputs      []inputDoc      `json:"inputs,omitempty"`
	Tool        *inputDoc       `json:"tool,omitempty"`
	WorldObject *worldObjReqDoc `json:"world_object,omitempty"`
}

type toolDoc struct {
	Type       string           `json:"type"`
	MinQuality crafting.Quality `json:"min_quality"`
}

type worldObjReqDoc struct {
	Kind *worldObjectKindDoc `json:"kind,omitempty"`
	Tags []string            `json:"tags,omitempty"`
}

type formulaDoc struct {
	Kind    string        `json:"kind"`
	Weights []weightEntry `json:"weights,omitempty"`
	Custom  string        `json:"custom,omitempty"`
}

type weightEntry struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type instanceDoc struct {
	ID   uint64 `json:"id"`
	Tier string `json:"tier"`

	Definition  string           `json:"definition,omitempty"`
	Kind        string           `json:"kind,omitempty"`
	Submaterial string           `json:"submaterial,omitempty"`
	Quality     crafting.Quality `json:"quality"`

	// Composite only: the embedded component in each filled slot.
	Components map[string]instanceDoc `json:"components,omitempty"`

	Provenance provenanceDoc `json:"provenance"`
}

type provenanceDoc struct {
	Recipe      string              `json:"recipe"`
	Consumed    []consumedDoc       `json:"consumed,omitempty"`
	Tool        *uint64             `json:"tool,omitempty"`
	WorldObject *worldObjectKindDoc `json:"world_object,omitempty"`
	CraftedAt   int64               `json:"crafted_at"`
}

type consumedDoc struct {
	Instance uint64 `json:"instance"`
	Quantity int    `json:"quantity"`
}

type worldObjectDoc struct {
	ID   uint64             `json:"id"`
	Kind worldObjectKindDoc `json:"kind"`
	Tags []string           `json:"tags,omitempty"`
}

// Capture builds a document from the registry's current state. Sections are
// sorted by identifier so two captures of the same state differ only in
// their header.
func Capture(reg *crafting.Registry) *Document {
	doc := &Document{
		ID:      uuid.NewString(),
		SavedAt: time.Now().UTC(),
	}
	doc.Watermarks.Instance, doc.Watermarks.WorldObject = reg.IDWatermarks()

	for _, m := range reg.AllMaterials() {
		doc.Materials = append(doc.Materials, materialDoc{
			ID: string(m.ID), Name: m.Name, Description: m.Description,
		})
	}
	sort.Slice(doc.Materials, func(i, j int) bool { return doc.Materials[i].ID < doc.Materials[j].ID })

	for _, s := range reg.AllSubmaterials() {
		doc.Submaterials = append(doc.Submaterials, submaterialDoc{
			ID: string(s.ID), Material: string(s.Material), Name: s.Name, Description: s.Description,
		})
	}
	sort.Slice(doc.Submaterials, func(i, j int) bool { return doc.Submaterials[i].ID < doc.Submaterials[j].ID })

	for _, ck := range reg.AllComponentKinds() {
		doc.ComponentKinds = append(doc.ComponentKinds, componentKindDoc{
			ID: string(ck.ID), Name: ck.Name, Description: ck.Description,
			AcceptedMaterials: materialIDs(ck.AcceptedMaterials),
			MakeshiftTags:     materialTags(ck.MakeshiftTags),
		})
	}
	sort.Slice(doc.ComponentKinds, func(i, j int) bool { return doc.ComponentKinds[i].ID < doc.ComponentKinds[j].ID })

	for _, def := range reg.AllItems() {
		doc.Items = append(doc.Items, encodeItem(def))
	}
	sort.Slice(doc.Items, func(i, j int) bool { return doc.Items[i].ID < doc.Items[j].ID })

	for _, rec := range reg.AllSimpleRecipes() {
		doc.SimpleRecipes = append(doc.SimpleRecipes, simpleRecipeDoc{
			ID: string(rec.ID), Name: rec.Name,
			Inputs:      encodeInputs(rec.Inputs),
			Tool:        encodeTool(rec.Tool),
			WorldObject: encodeWorldObjReq(rec.WorldObject),
			Output:      string(rec.Output), OutputQuantity: rec.OutputQuantity,
			Formula: encodeFormula(rec.Formula),
		})
	}
	sort.Slice(doc.SimpleRecipes, func(i, j int) bool { return doc.SimpleRecipes[i].ID < doc.SimpleRecipes[j].ID })

	for _, rec := range reg.AllComponentRecipes() {
		d := componentRecipeDoc{
			ID: string(rec.ID), Name: rec.Name,
			Output:      string(rec.Output),
			Tool:        encodeTool(rec.Tool),
			WorldObject: encodeWorldObjReq(rec.WorldObject),
			Formula:     encodeFormula(rec.Formula),
		}
		if rec.Input != nil {
			in := encodeInput(*rec.Input)
			d.Input = &in
		}
		doc.ComponentRecipes = append(doc.ComponentRecipes, d)
	}
	sort.Slice(doc.ComponentRecipes, func(i, j int) bool { return doc.ComponentRecipes[i].ID < doc.ComponentRecipes[j].ID })

	for _, rec := range reg.AllCompositeRecipes() {
		doc.CompositeRecipes = append(doc.CompositeRecipes, compositeRecipeDoc{
			ID: string(rec.ID), Name: rec.Name,
			Output:      string(rec.Output),
			SlotReqs:    encodeInputs(rec.SlotReqs),
			Tool:        encodeTool(rec.Tool),
			WorldObject: encodeWorldObjReq(rec.WorldObject),
			Formula:     encodeFormula(rec.Formula),
		})
	}
	sort.Slice(doc.CompositeRecipes, func(i, j int) bool { return doc.CompositeRecipes[i].ID < doc.CompositeRecipes[j].ID })

	for _, inst := range reg.AllInstances() {
		doc.Instances = append(doc.Instances, encodeInstance(inst))
	}
	sort.Slice(doc.Instances, func(i, j int) bool { return doc.Instances[i].ID < doc.Instances[j].ID })

	for _, w := range reg.AllWorldObjects() {
		doc.WorldObjects = append(doc.WorldObjects, worldObjectDoc{
			ID:   uint64(w.ID),
			Kind: encodeWorldObjectKind(w.Kind),
			Tags: worldTags(w.Tags),
		})
	}
	sort.Slice(doc.WorldObjects, func(i, j int) bool { return doc.WorldObjects[i].ID < doc.WorldObjects[j].ID })

	return doc
}

// Restore builds a fresh registry from the document.
func (d *Document) Restore() (*crafting.Registry, error) {
	reg := crafting.NewRegistry()

	for _, m := range d.Materials {
		reg.RegisterMaterial(crafting.Material{
			ID: crafting.MaterialID(m.ID), Name: m.Name, Description: m.Description,
		})
	}
	for _, s := range d.Submaterials {
		reg.RegisterSubmaterial(crafting.Submaterial{
			ID: crafting.SubmaterialID(s.ID), Material: crafting.MaterialID(s.Material),
			Name: s.Name, Description: s.Description,
		})
	}
	for _, ck := range d.ComponentKinds {
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
	for _, it := range d.Items {
		def, err := decodeItem(it)
		if err != nil {
			return nil, err
		}
		reg.RegisterItem(def)
	}

	for _, r := range d.SimpleRecipes {
		rec := crafting.SimpleRecipe{
			ID: crafting.RecipeID(r.ID), Name: r.Name,
			Inputs:      decodeInputs(r.Inputs),
			Tool:        decodeTool(r.Tool),
			WorldObject: decodeWorldObjReq(r.WorldObject),
			Output:      crafting.ItemID(r.Output), OutputQuantity: r.OutputQuantity,
		}
		var err error
		if rec.Formula, err = decodeFormula(r.Formula); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", r.ID, err)
		}
		reg.RegisterSimpleRecipe(rec)
	}
	for _, r := range d.ComponentRecipes {
		rec := crafting.ComponentRecipe{
			ID: crafting.RecipeID(r.ID), Name: r.Name,
			Output:      crafting.ComponentKindID(r.Output),
			Tool:        decodeTool(r.Tool),
			WorldObject: decodeWorldObjReq(r.WorldObject),
		}
		if r.Input != nil {
			in := decodeInput(*r.Input)
			rec.Input = &in
		}
		var err error
		if rec.Formula, err = decodeFormula(r.Formula); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", r.ID, err)
		}
		reg.RegisterComponentRecipe(rec)
	}
	for _, r := range d.CompositeRecipes {
		rec := crafting.CompositeRecipe{
			ID: crafting.RecipeID(r.ID), Name: r.Name,
			Output:      crafting.ItemID(r.Output),
			SlotReqs:    decodeInputs(r.SlotReqs),
			Tool:        decodeTool(r.Tool),
			WorldObject: decodeWorldObjReq(r.WorldObject),
		}
		var err error
		if rec.Formula, err = decodeFormula(r.Formula); err != nil {
			return nil, fmt.Errorf("recipe %q: %w", r.ID, err)
		}
		reg.RegisterCompositeRecipe(rec)
	}

	for _, it := range d.Instances {
		inst, err := decodeInstance(it)
		if err != nil {
			return nil, err
		}
		reg.RegisterInstance(inst)
	}
	for _, w := range d.WorldObjects {
		obj := crafting.WorldObjectInstance{
			ID:   crafting.WorldObjectInstanceID(w.ID),
			Kind: decodeWorldObjectKind(w.Kind),
		}
		for _, t := range w.Tags {
			obj.Tags = append(obj.Tags, crafting.WorldObjectTag(t))
		}
		reg.RegisterWorldObject(obj)
	}

	reg.RestoreIDWatermarks(d.Watermarks.Instance, d.Watermarks.WorldObject)
	return reg, nil
}

// Write encodes the document as indented JSON.
func (d *Document) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// Read decodes a document.
func Read(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &doc, nil
}

// SaveFile captures the registry and writes it to path.
func SaveFile(reg *crafting.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot %s: %w", path, err)
	}
	defer f.Close()
	if err := Capture(reg).Write(f); err != nil {
		return err
	}
	return f.Close()
}

// LoadFile reads a snapshot from path and restores a registry from it.
func LoadFile(path string) (*crafting.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer f.Close()
	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", path, err)
	}
	return doc.Restore()
}
