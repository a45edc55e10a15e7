package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/isle/components"
)

// Neighbor holds a nearby entity with precomputed horizontal offsets.
type Neighbor struct {
	E      ecs.Entity
	DX, DZ float32 // Delta from query origin
	DistSq float32 // Squared horizontal distance
}

// SpatialGrid provides neighbor lookups on the horizontal plane using a
// cell-based grid covering the square [-halfExtent, halfExtent]².
type SpatialGrid struct {
	cellSize   float32
	cols       int
	rows       int
	halfExtent float32
	cells      [][]ecs.Entity
}

// NewSpatialGrid creates a grid covering the island's bounding square.
func NewSpatialGrid(halfExtent, cellSize float32) *SpatialGrid {
	size := 2 * halfExtent
	cols := int(size/cellSize) + 1
	rows := cols

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &SpatialGrid{
		cellSize:   cellSize,
		cols:       cols,
		rows:       rows,
		halfExtent: halfExtent,
		cells:      cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given horizontal position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, z float32) {
	col, row := g.cellCoords(x, z)
	g.cells[row*g.cols+col] = append(g.cells[row*g.cols+col], e)
}

// MaxQueryResults caps the number of neighbors returned by QueryRadiusInto.
const MaxQueryResults = 128

// QueryRadiusInto appends entities within radius of (x, z) to dst, up to
// MaxQueryResults. Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, z, radius float32, posMap *ecs.Map1[components.Position]) []Neighbor {
	radiusSq := radius * radius
	g.visit(x, z, radius, func(e ecs.Entity) bool {
		pos := posMap.Get(e)
		dx, dz := pos.X-x, pos.Z-z
		distSq := dx*dx + dz*dz
		if distSq <= radiusSq {
			dst = append(dst, Neighbor{E: e, DX: dx, DZ: dz, DistSq: distSq})
			if len(dst) >= MaxQueryResults {
				return false
			}
		}
		return true
	})
	return dst
}

// visit calls fn for every entity in cells overlapping the query circle's
// bounding box, in row-major order. fn returns false to stop.
func (g *SpatialGrid) visit(x, z, radius float32, fn func(ecs.Entity) bool) {
	minCol, minRow := g.cellCoords(x-radius, z-radius)
	maxCol, maxRow := g.cellCoords(x+radius, z+radius)

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, e := range g.cells[row*g.cols+col] {
				if !fn(e) {
					return
				}
			}
		}
	}
}

// cellCoords returns the clamped cell for a world position.
func (g *SpatialGrid) cellCoords(x, z float32) (col, row int) {
	col = int((x + g.halfExtent) / g.cellSize)
	row = int((z + g.halfExtent) / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// FoodTarget is a food item found by a nearest-food query.
type FoodTarget struct {
	Entity ecs.Entity
	Pos    *components.Position
	Food   *components.Food
}

// FoodIndex answers nearest-food queries. It is rebuilt once per tick
// before creatures update; food consumed mid-tick is filtered by its flag.
type FoodIndex struct {
	grid    *SpatialGrid
	posMap  *ecs.Map1[components.Position]
	foodMap *ecs.Map1[components.Food]
}

// NewFoodIndex creates an index over the island's bounding square.
func NewFoodIndex(w *ecs.World, halfExtent, cellSize float32) *FoodIndex {
	return &FoodIndex{
		grid:    NewSpatialGrid(halfExtent, cellSize),
		posMap:  ecs.NewMap1[components.Position](w),
		foodMap: ecs.NewMap1[components.Food](w),
	}
}

// Rebuild re-inserts the given food entities in order.
func (fi *FoodIndex) Rebuild(food []ecs.Entity) {
	fi.grid.Clear()
	for _, e := range food {
		pos := fi.posMap.Get(e)
		fi.grid.Insert(e, pos.X, pos.Z)
	}
}

// Nearest returns the closest available food within radius of (x, z),
// measured horizontally. Ties go to the item found first.
func (fi *FoodIndex) Nearest(x, z, radius float32) (FoodTarget, bool) {
	var best FoodTarget
	bestDistSq := radius * radius
	found := false

	fi.grid.visit(x, z, radius, func(e ecs.Entity) bool {
		food := fi.foodMap.Get(e)
		if !food.Available() {
			return true
		}
		pos := fi.posMap.Get(e)
		distSq := distanceSq2D(x, z, pos.X, pos.Z)
		if distSq < bestDistSq || (!found && distSq <= bestDistSq) {
			best = FoodTarget{Entity: e, Pos: pos, Food: food}
			bestDistSq = distSq
			found = true
		}
		return true
	})

	return best, found
}
