package ripples

// Background is the computed background style of a host element.
type Background struct {
	// Image is the computed background-image, e.g. `url("sea.jpg")` or `none`.
	Image      string
	Position   string
	Size       string
	Attachment string
}

// Surface is the host element an effect renders over.
type Surface interface {
	// Offset is the page position of the element's border box.
	Offset() (x, y float64)
	// InnerSize is the size of the client (padding) box. The output target
	// matches it.
	InnerSize() (w, h float64)
	// Borders are the left and top border widths.
	Borders() (left, top float64)
	// Viewport is the scroll offset and window size of the page.
	Viewport() Rect
	Background() Background
	// InlineBackgroundImage is the element's own inline background-image
	// declaration, "" when it has none.
	InlineBackgroundImage() string
	// SetBackgroundImage replaces the inline background-image declaration.
	SetBackgroundImage(value string)
}

// clientBox returns the page rectangle of s's client box.
func clientBox(s Surface) Rect {
	x, y := s.Offset()
	bl, bt := s.Borders()
	w, h := s.InnerSize()
	return Rect{X: x + bl, Y: y + bt, W: w, H: h}
}

// Element is an in-memory Surface. The computed background-image is the
// inline declaration when present, then the stylesheet value, then `none`.
type Element struct {
	X, Y                  float64
	Width, Height         float64
	BorderLeft, BorderTop float64
	View                  Rect

	StylesheetImage      string
	BackgroundPosition   string
	BackgroundSize       string
	BackgroundAttachment string

	inlineImage string
}

// NewElement returns an element at (x, y) with the given client size, in a
// viewport of the same size at the page origin.
func NewElement(x, y, w, h float64) *Element {
	return &Element{
		X: x, Y: y, Width: w, Height: h,
		View: Rect{W: x + w, H: y + h},
	}
}

func (e *Element) Offset() (float64, float64)    { return e.X, e.Y }
func (e *Element) InnerSize() (float64, float64) { return e.Width, e.Height }
func (e *Element) Borders() (float64, float64)   { return e.BorderLeft, e.BorderTop }
func (e *Element) Viewport() Rect                { return e.View }

func (e *Element) Background() Background {
	img := e.inlineImage
	if img == "" {
		img = e.StylesheetImage
	}
	if img == "" {
		img = "none"
	}
	return Background{
		Image:      img,
		Position:   e.BackgroundPosition,
		Size:       e.BackgroundSize,
		Attachment: e.BackgroundAttachment,
	}
}

func (e *Element) InlineBackgroundImage() string   { return e.inlineImage }
func (e *Element) SetBackgroundImage(value string) { e.inlineImage = value }
