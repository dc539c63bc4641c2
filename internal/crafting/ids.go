package crafting

import "strconv"

// Identifier types for crafting content. Definitions and catalog entries use
// string IDs so content files and generated content can reference them
// directly; runtime instances use monotonic numeric IDs issued by the
// registry.

type ItemID string

type RecipeID string

type MaterialID string

type SubmaterialID string

type ComponentKindID string

type ResourceNodeID string

type CraftingStationID string

type WorldObjectTag string

type MaterialTag string

// InstanceID identifies one crafted or harvested item instance. IDs are
// allocated by the registry, start at zero and are never reused.
type InstanceID uint64

func (id InstanceID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// WorldObjectInstanceID identifies one placed world object.
type WorldObjectInstanceID uint64

func (id WorldObjectInstanceID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ToolType classifies composite tools ("pickaxe", "knife", ...). Open-ended
// string so content packs can introduce new tool types without code changes.
type ToolType string

const (
	ToolPickaxe ToolType = "pickaxe"
	ToolAxe     ToolType = "axe"
	ToolHatchet ToolType = "hatchet"
	ToolHammer  ToolType = "hammer"
	ToolKnife   ToolType = "knife"
	ToolSaw     ToolType = "saw"
	ToolNeedle  ToolType = "needle"
)
