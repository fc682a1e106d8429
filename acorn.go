package acorn

import (
	"math/bits"
	"strconv"
	"strings"
)

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Flags is a bitmask of validation flags. Each bit names one kind of derived
// state that can be valid or invalid. Values combine with bitwise OR.
type Flags uint32

const (
	FlagStyles                Flags = 1 << iota // style values resolved
	FlagHierarchyAscending                      // a descendant was added, removed or changed
	FlagHierarchyDescending                     // an ancestor was added, removed or changed
	FlagSizeConstraints                         // measured (preferred) size
	FlagLayout                                  // final size and child arrangement
	FlagLayoutEnabled                           // include-in-layout toggled
	FlagTransform                               // local affine transform
	FlagConcatenatedTransform                   // global affine transform
	FlagInteractivityMode                       // hit-testing participation
)

// Reserved bits for application-defined validation concerns.
const (
	FlagReserved1 Flags = 1 << (iota + 16)
	FlagReserved2
	FlagReserved3
	FlagReserved4
	FlagReserved5
	FlagReserved6
	FlagReserved7
	FlagReserved8
)

// FlagsAll has every bit set.
const FlagsAll Flags = ^Flags(0)

var flagNames = [...]string{
	"STYLES",
	"HIERARCHY_ASCENDING",
	"HIERARCHY_DESCENDING",
	"SIZE_CONSTRAINTS",
	"LAYOUT",
	"LAYOUT_ENABLED",
	"TRANSFORM",
	"CONCATENATED_TRANSFORM",
	"INTERACTIVITY_MODE",
}

// Has reports whether every bit of other is set in f.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// Any reports whether f and other share at least one bit.
func (f Flags) Any(other Flags) bool {
	return f&other != 0
}

// Count returns the number of set bits.
func (f Flags) Count() int {
	return bits.OnesCount32(uint32(f))
}

// String renders the set bits joined by "|", e.g. "SIZE_CONSTRAINTS|LAYOUT".
// Reserved bits render as RESERVED_n, unnamed bits as BIT_n.
func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var b strings.Builder
	for i := 0; i < 32; i++ {
		if f&(1<<i) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		switch {
		case i < len(flagNames):
			b.WriteString(flagNames[i])
		case i >= 16 && i < 24:
			b.WriteString("RESERVED_")
			b.WriteString(strconv.Itoa(i - 15))
		default:
			b.WriteString("BIT_")
			b.WriteString(strconv.Itoa(i))
		}
	}
	return b.String()
}
