package telemetry

// LifetimeStats tracks per-creature statistics over its lifetime.
type LifetimeStats struct {
	BirthTick uint64
	BirthTime float64
	Lifespan  float32 // Set on removal

	// Lineage tracking
	ParentID   uint32
	LineageID  uint32 // ID of the generation-zero founder
	Generation int

	// Reproduction
	Children int

	// Feeding
	FoodEaten   int
	TotalGained float32
	PeakEnergy  float32
}

// LifetimeRecord is the flat CSV row for a completed lifetime.
type LifetimeRecord struct {
	ID          uint32  `csv:"id"`
	ParentID    uint32  `csv:"parent_id"`
	LineageID   uint32  `csv:"lineage_id"`
	Generation  int     `csv:"generation"`
	BirthTick   uint64  `csv:"birth_tick"`
	Lifespan    float32 `csv:"lifespan"`
	Children    int     `csv:"children"`
	FoodEaten   int     `csv:"food_eaten"`
	TotalGained float32 `csv:"energy_gained"`
	PeakEnergy  float32 `csv:"peak_energy"`
}

// Record flattens s for output.
func (s *LifetimeStats) Record(id uint32) LifetimeRecord {
	return LifetimeRecord{
		ID:          id,
		ParentID:    s.ParentID,
		LineageID:   s.LineageID,
		Generation:  s.Generation,
		BirthTick:   s.BirthTick,
		Lifespan:    s.Lifespan,
		Children:    s.Children,
		FoodEaten:   s.FoodEaten,
		TotalGained: s.TotalGained,
		PeakEnergy:  s.PeakEnergy,
	}
}

// LifetimeTracker manages per-creature lifetime statistics.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new creature. A creature whose
// parent is tracked joins the parent's lineage; any other creature founds
// its own.
func (lt *LifetimeTracker) Register(id, parentID uint32, generation int, birthTick uint64, birthTime float64) {
	lineage := id
	if generation > 0 {
		if p := lt.stats[parentID]; p != nil {
			lineage = p.LineageID
		}
	}
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		BirthTime:  birthTime,
		ParentID:   parentID,
		LineageID:  lineage,
		Generation: generation,
	}
}

// Get returns the lifetime stats for a creature, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a creature's stats, fills in its lifespan and returns them.
func (lt *LifetimeTracker) Remove(id uint32, now float64) *LifetimeStats {
	stats := lt.stats[id]
	if stats == nil {
		return nil
	}
	stats.Lifespan = float32(now - stats.BirthTime)
	delete(lt.stats, id)
	return stats
}

// RecordChild increments children count.
func (lt *LifetimeTracker) RecordChild(parentID uint32) {
	if s := lt.stats[parentID]; s != nil {
		s.Children++
	}
}

// RecordEat adds one meal and its energy gain.
func (lt *LifetimeTracker) RecordEat(id uint32, gained float32) {
	if s := lt.stats[id]; s != nil {
		s.FoodEaten++
		s.TotalGained += gained
	}
}

// UpdateEnergy tracks peak energy.
func (lt *LifetimeTracker) UpdateEnergy(id uint32, energy float32) {
	if s := lt.stats[id]; s != nil {
		if energy > s.PeakEnergy {
			s.PeakEnergy = energy
		}
	}
}

// Clear forgets every tracked creature.
func (lt *LifetimeTracker) Clear() {
	clear(lt.stats)
}

// Count returns the number of tracked creatures.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}

// ActiveLineageCount returns the number of founder lineages with a living
// member.
func (lt *LifetimeTracker) ActiveLineageCount() int {
	seen := make(map[uint32]struct{})
	for _, stats := range lt.stats {
		seen[stats.LineageID] = struct{}{}
	}
	return len(seen)
}
