package ripples

import (
	"fmt"
	"strconv"
	"strings"
)

// Length is a CSS length-percentage: Pct percent of a reference size plus Px
// pixels. Auto marks the `auto` keyword, only meaningful for sizes.
type Length struct {
	Pct  float64
	Px   float64
	Auto bool
}

// Percent returns a pure percentage length.
func Percent(p float64) Length { return Length{Pct: p} }

// Pixels returns a pure pixel length.
func Pixels(px float64) Length { return Length{Px: px} }

// Auto is the `auto` length.
var Auto = Length{Auto: true}

// Resolve converts the length to pixels against ref.
func (l Length) Resolve(ref float64) float64 {
	return ref*l.Pct/100 + l.Px
}

func (l Length) String() string {
	switch {
	case l.Auto:
		return "auto"
	case l.Pct != 0 && l.Px != 0:
		return fmt.Sprintf("calc(%g%% + %gpx)", l.Pct, l.Px)
	case l.Pct != 0:
		return fmt.Sprintf("%g%%", l.Pct)
	default:
		return fmt.Sprintf("%gpx", l.Px)
	}
}

// Position is a resolved background-position.
type Position struct {
	X, Y Length
}

// SizeMode selects how background-size is computed.
type SizeMode int

const (
	SizeExplicit SizeMode = iota
	SizeCover
	SizeContain
)

// Size is a parsed background-size. Width and Height are used only with
// SizeExplicit.
type Size struct {
	Mode          SizeMode
	Width, Height Length
}

// Attachment is a parsed background-attachment.
type Attachment int

const (
	// AttachScroll places the background relative to the element. `local`
	// is treated the same way.
	AttachScroll Attachment = iota
	// AttachFixed places the background relative to the viewport.
	AttachFixed
)

// firstLayer returns the first comma-separated background layer.
func firstLayer(v string) string {
	if i := strings.IndexByte(v, ','); i >= 0 {
		v = v[:i]
	}
	return strings.TrimSpace(v)
}

// parseLength parses a percentage, a px length or a unitless number.
func parseLength(s string) (Length, error) {
	switch {
	case s == "auto":
		return Auto, nil
	case strings.HasSuffix(s, "%"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Length{}, fmt.Errorf("parsing percentage %q: %w", s, err)
		}
		return Percent(v), nil
	default:
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
		if err != nil {
			return Length{}, fmt.Errorf("parsing length %q: %w", s, err)
		}
		return Pixels(v), nil
	}
}

// edgeKeyword maps a position keyword to its percentage and axis. Axis is
// 'x', 'y' or 0 for `center`, which fits either.
func edgeKeyword(s string) (pct float64, axis byte, ok bool) {
	switch s {
	case "left":
		return 0, 'x', true
	case "right":
		return 100, 'x', true
	case "top":
		return 0, 'y', true
	case "bottom":
		return 100, 'y', true
	case "center":
		return 50, 0, true
	}
	return 0, 0, false
}

// ParsePosition parses a background-position value. One keyword maps to the
// usual synonyms (`top` is 50% 0%), one length centers the other axis, two
// values are read as X Y unless keywords say otherwise, and the four-value
// edge-offset form (`right 10px bottom 20%`) is supported. An empty value is
// the initial `0% 0%`.
func ParsePosition(v string) (Position, error) {
	parts := strings.Fields(firstLayer(v))
	switch len(parts) {
	case 0:
		return Position{X: Percent(0), Y: Percent(0)}, nil
	case 1:
		if pct, axis, ok := edgeKeyword(parts[0]); ok {
			if axis == 'y' {
				return Position{X: Percent(50), Y: Percent(pct)}, nil
			}
			return Position{X: Percent(pct), Y: Percent(50)}, nil
		}
		x, err := parseLength(parts[0])
		if err != nil || x.Auto {
			return Position{}, fmt.Errorf("invalid background-position %q", v)
		}
		return Position{X: x, Y: Percent(50)}, nil
	case 2:
		return parseTwoValuePosition(v, parts[0], parts[1])
	case 4:
		return parseEdgeOffsetPosition(v, parts)
	}
	return Position{}, fmt.Errorf("unsupported background-position %q", v)
}

func parseTwoValuePosition(v, a, b string) (Position, error) {
	pa, axisA, kwA := edgeKeyword(a)
	pb, axisB, kwB := edgeKeyword(b)
	if axisA == 'y' || axisB == 'x' {
		a, b = b, a
		pa, pb = pb, pa
		kwA, kwB = kwB, kwA
		axisA, axisB = axisB, axisA
	}
	if axisA == 'y' || axisB == 'x' {
		return Position{}, fmt.Errorf("conflicting keywords in background-position %q", v)
	}
	var pos Position
	if kwA {
		pos.X = Percent(pa)
	} else {
		l, err := parseLength(a)
		if err != nil || l.Auto {
			return Position{}, fmt.Errorf("invalid background-position %q", v)
		}
		pos.X = l
	}
	if kwB {
		pos.Y = Percent(pb)
	} else {
		l, err := parseLength(b)
		if err != nil || l.Auto {
			return Position{}, fmt.Errorf("invalid background-position %q", v)
		}
		pos.Y = l
	}
	return pos, nil
}

func parseEdgeOffsetPosition(v string, parts []string) (Position, error) {
	var pos Position
	var haveX, haveY bool
	for i := 0; i < 4; i += 2 {
		pct, axis, ok := edgeKeyword(parts[i])
		if !ok || axis == 0 {
			return Position{}, fmt.Errorf("invalid background-position %q", v)
		}
		off, err := parseLength(parts[i+1])
		if err != nil || off.Auto {
			return Position{}, fmt.Errorf("invalid background-position %q", v)
		}
		// right/bottom offsets are measured from the far edge
		if pct == 100 {
			off = Length{Pct: 100 - off.Pct, Px: -off.Px}
		}
		if axis == 'x' {
			pos.X, haveX = off, true
		} else {
			pos.Y, haveY = off, true
		}
	}
	if !haveX || !haveY {
		return Position{}, fmt.Errorf("invalid background-position %q", v)
	}
	return pos, nil
}

// ParseSize parses a background-size value. A single explicit value sets the
// width and leaves the height `auto`.
func ParseSize(v string) (Size, error) {
	parts := strings.Fields(firstLayer(v))
	if len(parts) == 1 {
		switch parts[0] {
		case "cover":
			return Size{Mode: SizeCover}, nil
		case "contain":
			return Size{Mode: SizeContain}, nil
		}
	}
	switch len(parts) {
	case 0:
		return Size{Width: Auto, Height: Auto}, nil
	case 1:
		w, err := parseLength(parts[0])
		if err != nil {
			return Size{}, fmt.Errorf("invalid background-size %q: %w", v, err)
		}
		return Size{Width: w, Height: Auto}, nil
	case 2:
		w, err := parseLength(parts[0])
		if err != nil {
			return Size{}, fmt.Errorf("invalid background-size %q: %w", v, err)
		}
		h, err := parseLength(parts[1])
		if err != nil {
			return Size{}, fmt.Errorf("invalid background-size %q: %w", v, err)
		}
		return Size{Width: w, Height: h}, nil
	}
	return Size{}, fmt.Errorf("unsupported background-size %q", v)
}

// ParseAttachment parses background-attachment.
func ParseAttachment(v string) Attachment {
	if firstLayer(v) == "fixed" {
		return AttachFixed
	}
	return AttachScroll
}

// ExtractURL returns the first url(...) target in a background-image value,
// or "" when there is none.
func ExtractURL(v string) string {
	i := strings.Index(v, "url(")
	if i < 0 {
		return ""
	}
	rest := strings.TrimSpace(v[i+len("url("):])
	if rest != "" && (rest[0] == '"' || rest[0] == '\'') {
		if end := strings.IndexByte(rest[1:], rest[0]); end >= 0 {
			return rest[1 : end+1]
		}
		return ""
	}
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}

// isDataURI reports whether src is an inline data URI.
func isDataURI(src string) bool {
	return strings.HasPrefix(src, "data:")
}
