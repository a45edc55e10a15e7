package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID identifies a toggleable debug layer.
type OverlayID uint8

const (
	OverlayStateIcons OverlayID = iota
	OverlayEffects
	OverlayPerception
	OverlayTreeCanopy
	OverlayDropLines
	OverlayUsableRadius
	overlayCount
)

// OverlayDescriptor is the display metadata for one overlay.
type OverlayDescriptor struct {
	ID       OverlayID
	Name     string
	Key      int32
	KeyLabel string
}

var overlayTable = [overlayCount]OverlayDescriptor{
	{OverlayStateIcons, "State Icons", rl.KeyI, "I"},
	{OverlayEffects, "Effects", rl.KeyE, "E"},
	{OverlayPerception, "Perception", rl.KeyP, "P"},
	{OverlayTreeCanopy, "Tree Canopy", rl.KeyT, "T"},
	{OverlayDropLines, "Drop Lines", rl.KeyL, "L"},
	{OverlayUsableRadius, "Boundary", rl.KeyB, "B"},
}

// OverlayRegistry tracks which overlays are switched on.
type OverlayRegistry struct {
	on uint32 // bit per OverlayID
}

// NewOverlayRegistry returns a registry with every overlay off.
func NewOverlayRegistry() *OverlayRegistry {
	return &OverlayRegistry{}
}

// SetEnabled switches one overlay. Unknown IDs are ignored.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	if id >= overlayCount {
		return
	}
	if enabled {
		r.on |= 1 << id
	} else {
		r.on &^= 1 << id
	}
}

// Toggle flips an overlay and returns its new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	r.SetEnabled(id, !r.IsEnabled(id))
	return r.IsEnabled(id)
}

// IsEnabled reports whether an overlay is on.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.on&(1<<id) != 0
}

// All returns the overlay descriptors in menu order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return overlayTable[:]
}

// HandleKeyPress toggles the overlay bound to key. ok is false when no
// overlay uses that key.
func (r *OverlayRegistry) HandleKeyPress(key int32) (id OverlayID, on, ok bool) {
	for _, d := range overlayTable {
		if d.Key == key {
			return d.ID, r.Toggle(d.ID), true
		}
	}
	return 0, false, false
}
