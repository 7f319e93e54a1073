package scene

// OpKind names a recorded drawing call.
type OpKind string

// Recorded operation kinds.
const (
	FillRectOp   OpKind = "fill_rect"
	StrokeRectOp OpKind = "stroke_rect"
	LineOp       OpKind = "line"
	TextOp       OpKind = "text"
	PushClipOp   OpKind = "push_clip"
	PopClipOp    OpKind = "pop_clip"
)

// Op is one entry of a display list.
type Op struct {
	Kind   OpKind
	Rect   Rect
	X1, Y1 float64
	X2, Y2 float64
	Text   string
	Color  Color
	Width  float64
	Clip   *Rect // active clip when the op was issued
}

// Recorder is a Canvas that keeps a display list instead of drawing.
type Recorder struct {
	Ops   []Op
	clips []Rect
}

var _ Canvas = &Recorder{} // Compile-time check

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Reset clears the display list.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
	r.clips = r.clips[:0]
}

// Count returns how many ops of a kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) record(op Op) {
	if len(r.clips) > 0 {
		clip := r.clips[len(r.clips)-1]
		op.Clip = &clip
	}
	r.Ops = append(r.Ops, op)
}

// FillRect implements Canvas.
func (r *Recorder) FillRect(rect Rect, c Color) {
	r.record(Op{Kind: FillRectOp, Rect: rect, Color: c})
}

// StrokeRect implements Canvas.
func (r *Recorder) StrokeRect(rect Rect, c Color, lineWidth float64) {
	r.record(Op{Kind: StrokeRectOp, Rect: rect, Color: c, Width: lineWidth})
}

// Line implements Canvas.
func (r *Recorder) Line(x1, y1, x2, y2 float64, c Color, lineWidth float64) {
	r.record(Op{Kind: LineOp, X1: x1, Y1: y1, X2: x2, Y2: y2, Color: c, Width: lineWidth})
}

// Text implements Canvas.
func (r *Recorder) Text(x, y float64, s string, c Color, size float64) {
	r.record(Op{Kind: TextOp, X1: x, Y1: y, Text: s, Color: c, Width: size})
}

// PushClip implements Canvas. Nested clips intersect.
func (r *Recorder) PushClip(rect Rect) {
	r.record(Op{Kind: PushClipOp, Rect: rect})
	if len(r.clips) > 0 {
		rect = rect.Intersect(r.clips[len(r.clips)-1])
	}
	r.clips = append(r.clips, rect)
}

// PopClip implements Canvas.
func (r *Recorder) PopClip() {
	if len(r.clips) > 0 {
		r.clips = r.clips[:len(r.clips)-1]
	}
	r.record(Op{Kind: PopClipOp})
}
