package crafting

import "fmt"

// WorldObjectClass separates resource nodes (harvest sources) from crafting
// stations (forges, tanning racks).
type WorldObjectClass string

const (
	ClassResourceNode    WorldObjectClass = "resource_node"
	ClassCraftingStation WorldObjectClass = "crafting_station"
)

// WorldObjectKind identifies a kind of placed, non-portable game object,
// e.g. {crafting_station forge} or {resource_node copper_boulder}.
// Comparable, so kinds can be matched with ==.
type WorldObjectKind struct {
	Class WorldObjectClass
	ID    string
}

func ResourceNode(id ResourceNodeID) WorldObjectKind {
	return WorldObjectKind{Class: ClassResourceNode, ID: string(id)}
}

func CraftingStation(id CraftingStationID) WorldObjectKind {
	return WorldObjectKind{Class: ClassCraftingStation, ID: string(id)}
}

func (k WorldObjectKind) String() string {
	return fmt.Sprintf("%s/%s", k.Class, k.ID)
}

// IsZero reports whether the kind is unset.
func (k WorldObjectKind) IsZero() bool {
	return k.Class == "" && k.ID == ""
}

// WorldObjectInstance is one placed world object. Tags describe capabilities
// recipes can gate on ("high_heat" matches forge, kiln and bonfire alike).
type WorldObjectInstance struct {
	ID   WorldObjectInstanceID
	Kind WorldObjectKind
	Tags []WorldObjectTag
}

// HasTag reports whether the instance carries the given tag.
func (w WorldObjectInstance) HasTag(tag WorldObjectTag) bool {
	for _, t := range w.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
