package crafting

// Material is a broad material category ("wood", "metal", "leather").
type Material struct {
	ID          MaterialID
	Name        string
	Description string
}

// Submaterial is a concrete variant belonging to exactly one Material
// ("oak_wood" under "wood", "deer_leather" under "leather"). Submaterials
// correspond to actual Simple items.
type Submaterial struct {
	ID          SubmaterialID
	Material    MaterialID
	Name        string
	Description string
}

// ComponentKind defines a type of component that can be crafted from
// submaterials ("handle", "binding", "scimitar_blade").
type ComponentKind struct {
	ID          ComponentKindID
	Name        string
	Description string

	// Broad categories this component can be made from. Any one qualifying
	// material suffices (OR semantics).
	AcceptedMaterials []MaterialID

	// What this component can stand in for outside of crafting, e.g. a
	// knife_blade with makeshift tag "knife" can act as a makeshift knife.
	MakeshiftTags []MaterialTag
}

// Accepts reports whether the component kind can be made from the given
// material category.
func (ck ComponentKind) Accepts(material MaterialID) bool {
	for _, m := range ck.AcceptedMaterials {
		if m == material {
			return true
		}
	}
	return false
}
