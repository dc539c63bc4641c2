package crafting

// ItemInstance is one crafted or harvested item. Like ItemKind it is a
// sealed union: an instance is exactly one of Simple, Component or
// Composite, mirroring the tier of its definition.
type ItemInstance interface {
	InstanceID() InstanceID
	Tier() Tier
	isItemInstance()
}

// SimpleInstance is a raw material, consumable or other tier-one item.
// Simple instances carry no quality of their own; formulas treat them as
// BaselineQuality.
type SimpleInstance struct {
	ID         InstanceID
	Definition ItemID
	Provenance Provenance
}

func (s SimpleInstance) InstanceID() InstanceID { return s.ID }
func (s SimpleInstance) Tier() Tier             { return TierSimple }
func (SimpleInstance) isItemInstance()          {}

// ComponentInstance is a part crafted from one submaterial-bearing Simple
// item. It records which submaterial was actually used, distinct from the
// kinds of material the component kind would have accepted.
type ComponentInstance struct {
	ID          InstanceID
	Kind        ComponentKindID
	Submaterial SubmaterialID
	Quality     Quality
	Provenance  Provenance
}

func (c ComponentInstance) InstanceID() InstanceID { return c.ID }
func (c ComponentInstance) Tier() Tier             { return TierComponent }
func (ComponentInstance) isItemInstance()          {}

// CompositeInstance is a fully assembled tool, weapon or armor piece. Its
// filled slots are exactly the slot set declared by its definition.
type CompositeInstance struct {
	ID         InstanceID
	Definition ItemID
	Quality    Quality
	Components map[string]ComponentInstance
	Provenance Provenance
}

func (c CompositeInstance) InstanceID() InstanceID { return c.ID }
func (c CompositeInstance) Tier() Tier             { return TierComposite }
func (CompositeInstance) isItemInstance()          {}

// InstanceQuality returns the effective quality of any instance: the stored
// quality for components and composites, BaselineQuality for simples.
func InstanceQuality(inst ItemInstance) Quality {
	switch v := inst.(type) {
	case ComponentInstance:
		return v.Quality
	case CompositeInstance:
		return v.Quality
	default:
		return BaselineQuality
	}
}

// InstanceProvenance returns the creation record of any instance.
func InstanceProvenance(inst ItemInstance) Provenance {
	switch v := inst.(type) {
	case SimpleInstance:
		return v.Provenance
	case ComponentInstance:
		return v.Provenance
	case CompositeInstance:
		return v.Provenance
	default:
		return Provenance{}
	}
}
