// Package core provides fundamental types and utilities for the bubble arena.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Vec2 is a point or offset in world units.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// V creates a new vector.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale multiplies both components by k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Dist returns the Euclidean distance between two points.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Rect is an axis-aligned rectangle in world units, given by its corners.
type Rect struct {
	Min Vec2 `yaml:"min"`
	Max Vec2 `yaml:"max"`
}

// NewRect creates a rectangle from its min and max corners.
func NewRect(min, max Vec2) Rect {
	return Rect{Min: min, Max: max}
}

// RectAround creates a rectangle from a center and half-extent.
func RectAround(center, half Vec2) Rect {
	return Rect{Min: center.Sub(half), Max: center.Add(half)}
}

// Width returns the horizontal size.
func (r Rect) Width() float64 {
	return r.Max.X - r.Min.X
}

// Height returns the vertical size.
func (r Rect) Height() float64 {
	return r.Max.Y - r.Min.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return r.Min.Add(r.Max).Scale(0.5)
}

// Contains reports whether p lies inside r. Edges count as inside.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ComputeBounds returns the visible rectangle of a viewport centered on center
// with the given height and width/height aspect ratio.
// A non-positive aspect falls back to 1 and a negative height is treated as 0.
func ComputeBounds(center Vec2, viewportHeight, aspect float64) Rect {
	if aspect <= 0 || math.IsNaN(aspect) {
		aspect = 1
	}
	if viewportHeight < 0 || math.IsNaN(viewportHeight) {
		viewportHeight = 0
	}
	half := Vec2{X: viewportHeight * aspect / 2, Y: viewportHeight / 2}
	return RectAround(center, half)
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

