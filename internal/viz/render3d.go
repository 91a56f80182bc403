package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/coiler"
)

const circleSegments = 32

// Camera orbits a target point.
type Camera struct {
	Target     mgl64.Vec3
	Yaw, Pitch float64
	Distance   float64
	Zoom       float64
	Near       float64
}

func NewCamera(target mgl64.Vec3) *Camera {
	return &Camera{Target: target, Yaw: 0.35, Pitch: 0.3, Distance: 8, Zoom: 1.0, Near: 0.1}
}

func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw += dYaw
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -1.4, 1.4)
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) eye() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	off := mgl64.Vec3{cp * math.Sin(c.Yaw), math.Sin(c.Pitch), cp * math.Cos(c.Yaw)}
	return c.Target.Add(off.Mul(c.Distance))
}

func (c *Camera) view() mgl64.Mat4 {
	return mgl64.LookAtV(c.eye(), c.Target, mgl64.Vec3{0, 1, 0})
}

// Project maps a world point to sub-pixel coordinates on a sw x sh
// surface. It returns x, y, view depth and whether the point is in front
// of the camera and on screen.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	return c.project(c.view(), p, sw, sh)
}

func (c *Camera) project(view mgl64.Mat4, p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	v := view.Mul4x1(p.Vec4(1))
	depth := -v.Z()
	if depth < c.Near {
		return 0, 0, depth, false
	}
	scale := c.Distance / depth * c.Zoom * float64(min(sw, sh)) / 6
	sx := int(v.X()*scale) + sw/2
	sy := int(-v.Y()*scale) + sh/2
	return sx, sy, depth, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe { return &Wireframe{Edges: make([]Edge, 0, 128)} }

func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p mgl64.Vec3)   { w.Edges = append(w.Edges, Edge{p, p}) }

// AddPolyline joins consecutive points.
func (w *Wireframe) AddPolyline(pts []mgl64.Vec3) {
	for i := 1; i < len(pts); i++ {
		w.AddEdge(pts[i-1], pts[i])
	}
	if len(pts) == 1 {
		w.AddPoint(pts[0])
	}
}

// AddCircle draws a circle of radius r in the plane z = center.Z().
func (w *Wireframe) AddCircle(center mgl64.Vec3, r float64) {
	prev := center.Add(mgl64.Vec3{r, 0, 0})
	for i := 1; i <= circleSegments; i++ {
		a := float64(i) / circleSegments * 2 * math.Pi
		p := center.Add(mgl64.Vec3{r * math.Cos(a), r * math.Sin(a), 0})
		w.AddEdge(prev, p)
		prev = p
	}
}

// CoilerWireframe outlines the core, its rotating spokes and the barrier
// rims.
func CoilerWireframe(v coiler.Variant, center mgl64.Vec3, angle float64) *Wireframe {
	w := NewWireframe()
	half := mgl64.Vec3{0, 0, v.Height / 2}
	front, back := center.Add(half), center.Sub(half)
	w.AddCircle(front, v.Radius)
	w.AddCircle(back, v.Radius)
	for i := range 4 {
		a := angle + float64(i)*math.Pi/2
		rim := coiler.Radial(a).Mul(v.Radius)
		w.AddEdge(front, front.Add(rim))
		w.AddEdge(front.Add(rim), back.Add(rim))
	}
	for _, z := range []float64{v.SideOffset1, v.SideOffset2} {
		w.AddCircle(mgl64.Vec3{center.X(), center.Y(), z}, v.BarrierRadius())
	}
	return w
}

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe far-to-near onto the canvas.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.PixelSize()
	view := cam.view()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.project(view, e.Start, sw, sh)
		x2, y2, d2, v2 := cam.project(view, e.End, sw, sh)
		if d1 < cam.Near || d2 < cam.Near || (!v1 && !v2) {
			continue
		}
		proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}
