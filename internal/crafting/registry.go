package crafting

// Registry is the exclusive owner of all definitions, recipes and instances,
// and the only allocator of instance identifiers. It is owned by the
// surrounding game-state layer and mutated by one in-flight operation at a
// time; registration is insert-or-replace with no reference validation
// (catalog loaders validate references before registering).
type Registry struct {
	materials      map[MaterialID]Material
	submaterials   map[SubmaterialID]Submaterial
	componentKinds map[ComponentKindID]ComponentKind

	items            map[ItemID]ItemDefinition
	simpleRecipes    map[RecipeID]SimpleRecipe
	componentRecipes map[RecipeID]ComponentRecipe
	compositeRecipes map[RecipeID]CompositeRecipe

	instances      map[InstanceID]ItemInstance
	nextInstanceID uint64

	worldObjects      map[WorldObjectInstanceID]WorldObjectInstance
	nextWorldObjectID uint64
}

func NewRegistry() *Registry {
	return &Registry{
		materials:        make(map[MaterialID]Material),
		submaterials:     make(map[SubmaterialID]Submaterial),
		componentKinds:   make(map[ComponentKindID]ComponentKind),
		items:            make(map[ItemID]ItemDefinition),
		simpleRecipes:    make(map[RecipeID]SimpleRecipe),
		componentRecipes: make(map[RecipeID]ComponentRecipe),
		compositeRecipes: make(map[RecipeID]CompositeRecipe),
		instances:        make(map[InstanceID]ItemInstance),
		worldObjects:     make(map[WorldObjectInstanceID]WorldObjectInstance),
	}
}

func (r *Registry) RegisterMaterial(m Material) {
	r.materials[m.ID] = m
}

func (r *Registry) RegisterSubmaterial(s Submaterial) {
	r.submaterials[s.ID] = s
}

func (r *Registry) RegisterComponentKind(ck ComponentKind) {
	r.componentKinds[ck.ID] = ck
}

func (r *Registry) RegisterItem(def ItemDefinition) {
	r.items[def.ID] = def
}

func (r *Registry) RegisterSimpleRecipe(rec SimpleRecipe) {
	r.simpleRecipes[rec.ID] = rec
}

func (r *Registry) RegisterComponentRecipe(rec ComponentRecipe) {
	r.componentRecipes[rec.ID] = rec
}

func (r *Registry) RegisterCompositeRecipe(rec CompositeRecipe) {
	r.compositeRecipes[rec.ID] = rec
}

// RegisterInstance stores an instance under its own identifier. Identifiers
// come from NextInstanceID, so an overwrite here is a caller bug, not a
// recoverable condition.
func (r *Registry) RegisterInstance(inst ItemInstance) {
	r.instances[inst.InstanceID()] = inst
}

// RemoveInstance takes an instance out of circulation. The identifier is
// never reissued.
func (r *Registry) RemoveInstance(id InstanceID) (ItemInstance, bool) {
	inst, ok := r.instances[id]
	if ok {
		delete(r.instances, id)
	}
	return inst, ok
}

func (r *Registry) Material(id MaterialID) (Material, bool) {
	m, ok := r.materials[id]
	return m, ok
}

func (r *Registry) Submaterial(id SubmaterialID) (Submaterial, bool) {
	s, ok := r.submaterials[id]
	return s, ok
}

func (r *Registry) ComponentKind(id ComponentKindID) (ComponentKind, bool) {
	ck, ok := r.componentKinds[id]
	return ck, ok
}

func (r *Registry) Item(id ItemID) (ItemDefinition, bool) {
	def, ok := r.items[id]
	return def, ok
}

func (r *Registry) SimpleRecipe(id RecipeID) (SimpleRecipe, bool) {
	rec, ok := r.simpleRecipes[id]
	return rec, ok
}

func (r *Registry) ComponentRecipe(id RecipeID) (ComponentRecipe, bool) {
	rec, ok := r.componentRecipes[id]
	return rec, ok
}

func (r *Registry) CompositeRecipe(id RecipeID) (CompositeRecipe, bool) {
	rec, ok := r.compositeRecipes[id]
	return rec, ok
}

func (r *Registry) Instance(id InstanceID) (ItemInstance, bool) {
	inst, ok := r.instances[id]
	return inst, ok
}

// NextInstanceID allocates a fresh instance identifier. IDs start at zero,
// increase strictly and are never reused, even after RemoveInstance.
func (r *Registry) NextInstanceID() InstanceID {
	id := InstanceID(r.nextInstanceID)
	r.nextInstanceID++
	return id
}

// CreateSimpleItem seeds a Simple instance outside of recipe resolution, for
// world drops and harvest results. The provenance records the world-drop
// marker recipe.
func (r *Registry) CreateSimpleItem(itemID ItemID, craftedAt int64) InstanceID {
	id := r.NextInstanceID()
	r.RegisterInstance(SimpleInstance{
		ID:         id,
		Definition: itemID,
		Provenance: Provenance{
			RecipeID:  WorldDropRecipeID,
			CraftedAt: craftedAt,
		},
	})
	return id
}

func (r *Registry) NextWorldObjectID() WorldObjectInstanceID {
	id := WorldObjectInstanceID(r.nextWorldObjectID)
	r.nextWorldObjectID++
	return id
}

func (r *Registry) RegisterWorldObject(w WorldObjectInstance) {
	r.worldObjects[w.ID] = w
}

func (r *Registry) WorldObject(id WorldObjectInstanceID) (WorldObjectInstance, bool) {
	w, ok := r.worldObjects[id]
	return w, ok
}

// PlaceWorldObject allocates an identifier and registers the object in one
// step.
func (r *Registry) PlaceWorldObject(kind WorldObjectKind, tags ...WorldObjectTag) WorldObjectInstanceID {
	id := r.NextWorldObjectID()
	r.RegisterWorldObject(WorldObjectInstance{ID: id, Kind: kind, Tags: tags})
	return id
}

// Iteration accessors. Order is not significant; callers that need stable
// output sort on the returned slices.

func (r *Registry) AllMaterials() []Material {
	out := make([]Material, 0, len(r.materials))
	for _, m := range r.materials {
		out = append(out, m)
	}
	return out
}

func (r *Registry) AllSubmaterials() []Submaterial {
	out := make([]Submaterial, 0, len(r.submaterials))
	for _, s := range r.submaterials {
		out = append(out, s)
	}
	return out
}

func (r *Registry) AllComponentKinds() []ComponentKind {
	out := make([]ComponentKind, 0, len(r.componentKinds))
	for _, ck := range r.componentKinds {
		out = append(out, ck)
	}
	return out
}

func (r *Registry) AllItems() []ItemDefinition {
	out := make([]ItemDefinition, 0, len(r.items))
	for _, def := range r.items {
		out = append(out, def)
	}
	return out
}

func (r *Registry) AllSimpleRecipes() []SimpleRecipe {
	out := make([]SimpleRecipe, 0, len(r.simpleRecipes))
	for _, rec := range r.simpleRecipes {
		out = append(out, rec)
	}
	return out
}

func (r *Registry) AllComponentRecipes() []ComponentRecipe {
	out := make([]ComponentRecipe, 0, len(r.componentRecipes))
	for _, rec := range r.componentRecipes {
		out = append(out, rec)
	}
	return out
}

func (r *Registry) AllCompositeRecipes() []CompositeRecipe {
	out := make([]CompositeRecipe, 0, len(r.compositeRecipes))
	for _, rec := range r.compositeRecipes {
		out = append(out, rec)
	}
	return out
}

func (r *Registry) AllInstances() []ItemInstance {
	out := make([]ItemInstance, 0, len(r.instances))
	for _, inst := range r.instances {
		out = append(out, inst)
	}
	return out
}

func (r *Registry) AllWorldObjects() []WorldObjectInstance {
	out := make([]WorldObjectInstance, 0, len(r.worldObjects))
	for _, w := range r.worldObjects {
		out = append(out, w)
	}
	return out
}

// InstanceCount reports how many instances are currently registered.
func (r *Registry) InstanceCount() int {
	return len(r.instances)
}

// IDWatermarks reports the next instance and world-object identifiers to be
// allocated, for serialization.
func (r *Registry) IDWatermarks() (instance, worldObject uint64) {
	return r.nextInstanceID, r.nextWorldObjectID
}

// RestoreIDWatermarks sets the allocation counters when reloading a saved
// registry, so reloaded registries keep issuing fresh identifiers.
func (r *Registry) RestoreIDWatermarks(instance, worldObject uint64) {
	r.nextInstanceID = instance
	r.nextWorldObjectID = worldObject
}
