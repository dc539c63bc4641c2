// Package forage seeds a fresh registry with a deterministic scatter of
// foraged resources. The same seed always yields the same starting stash.
package forage

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"sort"

	"github.com/appengine-ltd/craft-it/internal/crafting"
)

// Drop is one spawnable resource with an inclusive count range.
type Drop struct {
	Item crafting.ItemID
	Min  int
	Max  int
}

// defaultDrops lean towards the stone-age opening: plenty of rock and
// flint, a little of everything else, and at most one carcass.
var defaultDrops = []Drop{
	{Item: "rock", Min: 4, Max: 8},
	{Item: "flint", Min: 2, Max: 5},
	{Item: "stick", Min: 2, Max: 6},
	{Item: "plant_fiber", Min: 2, Max: 5},
	{Item: "clay", Min: 1, Max: 4},
	{Item: "wood_log", Min: 0, Max: 2},
	{Item: "copper_ore", Min: 0, Max: 2},
	{Item: "wolf_carcass", Min: 0, Max: 1},
	{Item: "deer_carcass", Min: 0, Max: 1},
}

// Options controls a scatter run. The zero value uses the default drop
// table and a craftedAt of 0.
type Options struct {
	Seed int64

	// CraftedAt stamps every spawned instance; typically the session
	// start time.
	CraftedAt int64

	// Drops overrides the default table when non-nil.
	Drops []Drop
}

// Scatter creates fresh world-drop instances in reg and returns the count
// spawned per item, keyed by item ID. Items missing from the registry are
// skipped so a trimmed catalog does not fail generation.
func Scatter(reg *crafting.Registry, opts Options) (map[crafting.ItemID]int, error) {
	table := opts.Drops
	if table == nil {
		table = defaultDrops
	}
	rng := seededRNG(opts.Seed)

	counts := make(map[crafting.ItemID]int, len(table))
	for _, d := range table {
		if d.Max < d.Min {
			return nil, fmt.Errorf("drop %s: max %d below min %d", d.Item, d.Max, d.Min)
		}
		def, ok := reg.Item(d.Item)
		if !ok {
			continue
		}
		if _, isSimple := def.Kind.(crafting.SimpleItem); !isSimple {
			return nil, fmt.Errorf("drop %s: only simple items spawn as world drops", d.Item)
		}
		n := d.Min
		if span := d.Max - d.Min; span > 0 {
			n += rng.IntN(span + 1)
		}
		for i := 0; i < n; i++ {
			reg.CreateSimpleItem(d.Item, opts.CraftedAt)
		}
		if n > 0 {
			counts[d.Item] = n
		}
	}
	return counts, nil
}

// Describe renders a scatter result as a stable one-line summary, for the
// session banner.
func Describe(counts map[crafting.ItemID]int) string {
	if len(counts) == 0 {
		return "nothing useful nearby"
	}
	ids := make([]crafting.ItemID, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%d x %s", counts[id], id)
	}
	return out
}

func seededRNG(seed int64) *rand.Rand {
	// Non-cryptographic PRNG is intentional for deterministic world seeds.
	// #nosec G404
	return rand.New(rand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}
