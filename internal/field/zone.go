package field

import "github.com/vovakirdan/bubblemath/internal/core"

// Zone is an axis-aligned rectangle where bubbles must not be placed,
// typically the area under fixed HUD elements.
type Zone struct {
	Center     core.Vec2 `yaml:"center"`
	HalfExtent core.Vec2 `yaml:"half_extent"`
}

// Rect returns the zone as a rectangle.
func (z Zone) Rect() core.Rect {
	return core.RectAround(z.Center, z.HalfExtent)
}

// Contains reports whether p lies inside the zone. Edges count as inside.
func (z Zone) Contains(p core.Vec2) bool {
	return z.Rect().Contains(p)
}

// ZoneSet is an immutable collection of forbidden zones.
type ZoneSet struct {
	zones []Zone
}

// NewZoneSet builds a zone set. The input slice is copied.
func NewZoneSet(zones ...Zone) ZoneSet {
	return ZoneSet{zones: append([]Zone(nil), zones...)}
}

// Contains reports whether any zone contains p.
func (s ZoneSet) Contains(p core.Vec2) bool {
	for _, z := range s.zones {
		if z.Contains(p) {
			return true
		}
	}
	return false
}

// Len returns the number of zones.
func (s ZoneSet) Len() int {
	return len(s.zones)
}

