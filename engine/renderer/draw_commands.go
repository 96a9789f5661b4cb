package renderer

import (
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/chewxy/math32"
)

// maxGridLines bounds the lines emitted per grid direction.
const maxGridLines = 4096

// defaultAxisLength is the axis gizmo length when the entity does not set Size.
const defaultAxisLength = 100

// Vertex is the GPU vertex layout shared by the line and triangle pipelines.
type Vertex struct {
	Position [3]float32
	Color    [4]float32
}

// Batch collects the vertices of one frame. Lines holds vertex pairs, Triangles vertex triples.
type Batch struct {
	Lines     []Vertex
	Triangles []Vertex
}

// Reset empties the batch, keeping its storage.
func (b *Batch) Reset() {
	b.Lines = b.Lines[:0]
	b.Triangles = b.Triangles[:0]
}

func (b *Batch) line(from, to [3]float32, color [4]float32) {
	b.Lines = append(b.Lines, Vertex{Position: from, Color: color}, Vertex{Position: to, Color: color})
}

// DrawCommand appends the vertices of one entity to the batch.
type DrawCommand func(b *Batch, cam camera.Camera, e Entity)

// DrawCommands maps draw command keys to implementations.
type DrawCommands map[string]DrawCommand

// DefaultDrawCommands returns the grid, axis, and mesh commands.
func DefaultDrawCommands() DrawCommands {
	return DrawCommands{
		DrawGridKey: DrawGrid,
		DrawAxisKey: DrawAxis,
		DrawMeshKey: DrawMesh,
	}
}

// DrawGrid draws a grid on the Z=0 plane centered at the origin. Sub lines are drawn every Ticks[1]
// units except where a main line falls, main lines every Ticks[0] units. With FadeOut the alpha falls
// off linearly toward the edge; without Transparent every line is opaque.
func DrawGrid(b *Batch, _ camera.Camera, e Entity) {
	halfW, halfH := e.Size[0]/2, e.Size[1]/2
	if halfW <= 0 || halfH <= 0 {
		return
	}
	main, sub := e.Ticks[0], e.Ticks[1]
	if sub > 0 {
		gridLines(b, halfW, halfH, sub, main, e.Visuals.SubColor, e.Visuals)
	}
	if main > 0 {
		gridLines(b, halfW, halfH, main, 0, e.Visuals.Color, e.Visuals)
	}
}

// gridLines emits lines every spacing units in both directions, skipping multiples of skip when skip > 0.
func gridLines(b *Batch, halfW, halfH, spacing, skip float32, color [4]float32, v Visuals) {
	countX := int(math32.Floor(halfW / spacing))
	countY := int(math32.Floor(halfH / spacing))
	countX = min(countX, maxGridLines)
	countY = min(countY, maxGridLines)

	for i := -countX; i <= countX; i++ {
		x := float32(i) * spacing
		if onTick(x, skip) {
			continue
		}
		c := gridColor(color, x, halfW, v)
		b.line([3]float32{x, -halfH, 0}, [3]float32{x, halfH, 0}, c)
	}
	for i := -countY; i <= countY; i++ {
		y := float32(i) * spacing
		if onTick(y, skip) {
			continue
		}
		c := gridColor(color, y, halfH, v)
		b.line([3]float32{-halfW, y, 0}, [3]float32{halfW, y, 0}, c)
	}
}

func onTick(v, tick float32) bool {
	if tick <= 0 {
		return false
	}
	r := math32.Mod(math32.Abs(v), tick)
	return r < 1e-4 || tick-r < 1e-4
}

func gridColor(color [4]float32, offset, half float32, v Visuals) [4]float32 {
	if !v.Transparent {
		color[3] = 1
		return color
	}
	if v.FadeOut {
		color[3] *= 1 - math32.Abs(offset)/half
	}
	return color
}

// DrawAxis draws the X, Y, and Z axes from the origin in red, green, and blue.
func DrawAxis(b *Batch, _ camera.Camera, e Entity) {
	length := e.Size[0]
	if length <= 0 {
		length = defaultAxisLength
	}
	origin := [3]float32{0, 0, 0}
	b.line(origin, [3]float32{length, 0, 0}, [4]float32{1, 0, 0, 1})
	b.line(origin, [3]float32{0, length, 0}, [4]float32{0, 1, 0, 1})
	b.line(origin, [3]float32{0, 0, length}, [4]float32{0, 0, 1, 1})
}

// DrawMesh draws the entity's triangles flat shaded by a headlight along the camera's view direction.
func DrawMesh(b *Batch, cam camera.Camera, e Entity) {
	g := e.Geometry
	if g == nil {
		return
	}
	light := cam.Position.Sub(cam.Target)
	if l := light.Len(); l > 0 {
		light = light.Mul(1 / l)
	}
	for t := 0; t < len(g.Normals) && 3*t+2 < len(g.Indices); t++ {
		shade := 0.35 + 0.65*math32.Abs(g.Normals[t].Dot(light))
		c := e.Visuals.Color
		c[0] *= shade
		c[1] *= shade
		c[2] *= shade
		for _, idx := range g.Indices[3*t : 3*t+3] {
			b.Triangles = append(b.Triangles, Vertex{Position: g.Positions[idx], Color: c})
		}
	}
}
