package levels

import(
	"fmt"
	"math"
	"strings"

	"github.com/abworrall/symalign/pkg/emath"
)

// ControlPoints are the three input handles on the histogram track.
// Dragging keeps Black < Mid < White.
type ControlPoints struct {
	Black, Mid, White int
}

func (c ControlPoints)String() string { return fmt.Sprintf("[%d < %d < %d]", c.Black, c.Mid, c.White) }

func (c ControlPoints)Ordered() bool { return c.Black < c.Mid && c.Mid < c.White }

// Handle names one of the control points.
type Handle int

const(
	NoHandle Handle = iota
	BlackHandle
	MidHandle
	WhiteHandle
)

func (h Handle)String() string {
	switch h {
	case BlackHandle: return "black"
	case MidHandle:   return "mid"
	case WhiteHandle: return "white"
	}
	return "none"
}

func ParseHandle(s string) (Handle, error) {
	switch strings.ToLower(s) {
	case "black", "b":        return BlackHandle, nil
	case "mid", "m", "gamma": return MidHandle, nil
	case "white", "w":        return WhiteHandle, nil
	}
	return NoHandle, fmt.Errorf("handle '%s' not recognized (want black, mid or white)", s)
}

// An Edit is the result of one pointer move: a new value for one handle.
type Edit struct {
	Handle Handle
	Value  int
}

// Apply writes the edit into the field of s that the handle controls.
func (e Edit)Apply(s *Settings) {
	switch e.Handle {
	case BlackHandle: s.InputBlack = e.Value
	case MidHandle:   s.Midpoint = e.Value
	case WhiteHandle: s.InputWhite = e.Value
	}
}

// ApplyWithin is Apply, with the value first saturated against the
// points already in s. A composite edit goes through this for each
// channel, as the channels may have been edited apart.
func (e Edit)ApplyWithin(s *Settings) {
	Edit{Handle: e.Handle, Value: s.ControlPoints().Constrain(e.Handle, e.Value)}.Apply(s)
}

func (e Edit)String() string { return fmt.Sprintf("%s=%d", e.Handle, e.Value) }

// Constrain saturates a candidate value for handle h against the other
// two points, so that the edit always lands somewhere legal.
func (c ControlPoints)Constrain(h Handle, v int) int {
	v = emath.Clamp(v, 0, 255)
	switch h {
	case BlackHandle:
		if v > c.Mid-1   { v = c.Mid-1 }
		if v > c.White-2 { v = c.White-2 }
	case WhiteHandle:
		if v < c.Mid+1   { v = c.Mid+1 }
		if v < c.Black+2 { v = c.Black+2 }
	case MidHandle:
		v = emath.Clamp(v, c.Black+1, c.White-1)
	}
	return v
}

// A Track maps 0..255 onto Width pixels of screen.
type Track struct {
	Width float64
}

func (t Track)ValToX(v int) float64 { return float64(v) / 255.0 * t.Width }

func (t Track)XToVal(x float64) int {
	if t.Width <= 0 {
		return 0
	}
	return emath.Clamp(int(math.Round(x / t.Width * 255.0)), 0, 255)
}

// DragState is the pointer state machine.
type DragState int

const(
	Idle DragState = iota
	DraggingBlack
	DraggingWhite
	DraggingMid
)

var dragStateNames = [...]string{"idle", "dragging-black", "dragging-white", "dragging-mid"}

func (s DragState)String() string {
	if s < Idle || int(s) >= len(dragStateNames) {
		return fmt.Sprintf("DragState(%d)", int(s))
	}
	return dragStateNames[s]
}

func (s DragState)Handle() Handle {
	switch s {
	case DraggingBlack: return BlackHandle
	case DraggingWhite: return WhiteHandle
	case DraggingMid:   return MidHandle
	}
	return NoHandle
}

// DragModel turns pointer events, in track pixel coordinates, into
// edits. It holds no settings itself; every call is given the current
// points.
type DragModel struct {
	Track     Track
	HitRadius float64
	State     DragState
}

func NewDragModel(trackWidth, hitRadius float64) *DragModel {
	return &DragModel{Track: Track{Width: trackWidth}, HitRadius: hitRadius}
}

func (m *DragModel)hit(x float64, v int) bool {
	return math.Abs(x - m.Track.ValToX(v)) <= m.HitRadius
}

// PointerDown starts a drag if x is within HitRadius of a handle. The
// mid handle is tried first, as it sits between the other two.
func (m *DragModel)PointerDown(x float64, pts ControlPoints) DragState {
	switch {
	case m.hit(x, pts.Mid):   m.State = DraggingMid
	case m.hit(x, pts.Black): m.State = DraggingBlack
	case m.hit(x, pts.White): m.State = DraggingWhite
	default:                  m.State = Idle
	}
	return m.State
}

// PointerMove returns the constrained edit for the handle being
// dragged; ok is false when idle.
func (m *DragModel)PointerMove(x float64, pts ControlPoints) (e Edit, ok bool) {
	if e, ok = m.Target(x); ok {
		e.Value = pts.Constrain(e.Handle, e.Value)
	}
	return e, ok
}

// Target is the edit the pointer asks for, before any constraint.
func (m *DragModel)Target(x float64) (Edit, bool) {
	h := m.State.Handle()
	if h == NoHandle {
		return Edit{}, false
	}
	return Edit{Handle: h, Value: m.Track.XToVal(x)}, true
}

// Grab starts dragging h without a pointer-down hit test.
func (m *DragModel)Grab(h Handle) bool {
	switch h {
	case BlackHandle: m.State = DraggingBlack
	case MidHandle:   m.State = DraggingMid
	case WhiteHandle: m.State = DraggingWhite
	default:          return false
	}
	return true
}

func (m *DragModel)PointerUp()    { m.State = Idle }
func (m *DragModel)PointerLeave() { m.State = Idle }

func (m *DragModel)Dragging() bool { return m.State != Idle }
