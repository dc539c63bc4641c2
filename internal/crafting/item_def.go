package crafting

// StatBonuses are granted by an item when equipped. Combat resolution lives
// outside this package; the bonuses just travel with the definition.
type StatBonuses struct {
	Health int
	Attack int
}

// ItemDefinition is the immutable template for an item. Every definition is
// exactly one of the three tiers, carried by the sealed ItemKind union.
type ItemDefinition struct {
	ID          ItemID
	Name        string
	Description string
	Kind        ItemKind

	// If the item can be placed as a world object, what kind it becomes.
	Placeable *WorldObjectKind
	// False for trees, boulders and other fixtures that cannot be carried.
	Pickupable bool

	StatBonuses StatBonuses
}

// Tier reports which of the three tiers the definition belongs to.
func (d ItemDefinition) Tier() Tier {
	if d.Kind == nil {
		return ""
	}
	return d.Kind.Tier()
}

// Tier is one of the three mutually exclusive item categories.
type Tier string

const (
	TierSimple    Tier = "simple"
	TierComponent Tier = "component"
	TierComposite Tier = "composite"
)

// ItemKind is the tier payload of an item definition. The interface is
// sealed: the only implementations are SimpleItem,
// ComponentItem and CompositeItem, so a definition can never satisfy two tiers at once.
type ItemKind interface {
	Tier() Tier
	isItemKind()
}

// SimpleItem marks raw materials, consumables, creatures and resource
// markers. Submaterial is empty for non-material simples (cooked food,
// creatures).
type SimpleItem struct {
	Submaterial SubmaterialID
}

func (SimpleItem) Tier() Tier  { return TierSimple }
func (SimpleItem) isItemKind() {}

// ComponentItem marks parts made from submaterials ("blade", "handle").
type ComponentItem struct {
	ComponentKind ComponentKindID
}

func (ComponentItem) Tier() Tier  { return TierComponent }
func (ComponentItem) isItemKind() {}

// CompositeItem marks final assembled items: tools, weapons and armor.
type CompositeItem struct {
	Slots    []CompositeSlot
	Category CompositeCategory
	ToolType ToolType // empty unless Category is a tool
}

func (CompositeItem) Tier() Tier  { return TierComposite }
func (CompositeItem) isItemKind() {}

// Slot returns the declared slot with the given name.
func (ck CompositeItem) Slot(name string) (CompositeSlot, bool) {
	for _, s := range ck.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return CompositeSlot{}, false
}

// CompositeSlot binds a slot name to the component kind that fits there.
// Slot names within one composite are unique.
type CompositeSlot struct {
	Name          string
	ComponentKind ComponentKindID
}

// CompositeCategory classifies an assembled item.
type CompositeCategory string

const (
	CategoryTool   CompositeCategory = "tool"
	CategoryWeapon CompositeCategory = "weapon"
	CategoryArmor  CompositeCategory = "armor"
)
