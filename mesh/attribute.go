package mesh

import (
	"errors"
	"fmt"

	"github.com/soypat/glgl/math/ms3"
)

var (
	// ErrIndexOutOfRange is returned when an item index is outside an attribute.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrItemSizeMismatch is returned when an item component or item size is
	// incompatible with an attribute.
	ErrItemSizeMismatch = errors.New("item size mismatch")
	// ErrMissingAttribute is returned when a required attribute was never set.
	ErrMissingAttribute = errors.New("missing attribute")
)

// Attribute is a flat per-vertex buffer holding ItemSize floats per vertex.
type Attribute struct {
	Array    []float32
	ItemSize int
}

// NewAttribute wraps array. Its length must be a multiple of itemSize.
func NewAttribute(array []float32, itemSize int) (*Attribute, error) {
	if itemSize <= 0 {
		return nil, fmt.Errorf("%w: item size %d", ErrItemSizeMismatch, itemSize)
	}
	if len(array)%itemSize != 0 {
		return nil, fmt.Errorf("%w: array length %d not a multiple of item size %d", ErrItemSizeMismatch, len(array), itemSize)
	}
	return &Attribute{Array: array, ItemSize: itemSize}, nil
}

// Count returns the number of items.
func (a *Attribute) Count() int {
	if a.ItemSize <= 0 {
		return 0
	}
	return len(a.Array) / a.ItemSize
}

func (a *Attribute) check(i, component int) error {
	if component < 0 || component >= a.ItemSize {
		return fmt.Errorf("%w: component %d of item size %d", ErrItemSizeMismatch, component, a.ItemSize)
	}
	if i < 0 || i >= a.Count() {
		return fmt.Errorf("%w: item %d of %d", ErrIndexOutOfRange, i, a.Count())
	}
	return nil
}

// Get returns component of item i.
func (a *Attribute) Get(i, component int) (float32, error) {
	if err := a.check(i, component); err != nil {
		return 0, err
	}
	return a.Array[i*a.ItemSize+component], nil
}

func (a *Attribute) GetX(i int) (float32, error) { return a.Get(i, 0) }
func (a *Attribute) GetY(i int) (float32, error) { return a.Get(i, 1) }
func (a *Attribute) GetZ(i int) (float32, error) { return a.Get(i, 2) }

// Set writes component of item i.
func (a *Attribute) Set(i, component int, v float32) error {
	if err := a.check(i, component); err != nil {
		return err
	}
	a.Array[i*a.ItemSize+component] = v
	return nil
}

// Vec returns item i of a 3 component attribute.
func (a *Attribute) Vec(i int) (ms3.Vec, error) {
	if a.ItemSize != 3 {
		return ms3.Vec{}, fmt.Errorf("%w: vector access needs item size 3, got %d", ErrItemSizeMismatch, a.ItemSize)
	}
	if err := a.check(i, 2); err != nil {
		return ms3.Vec{}, err
	}
	return a.vec(i), nil
}

// SetVec writes item i of a 3 component attribute.
func (a *Attribute) SetVec(i int, v ms3.Vec) error {
	if a.ItemSize != 3 {
		return fmt.Errorf("%w: vector access needs item size 3, got %d", ErrItemSizeMismatch, a.ItemSize)
	}
	if err := a.check(i, 2); err != nil {
		return err
	}
	a.setVec(i, v)
	return nil
}

// vec and setVec skip bound checks; callers validate item ranges up front.
func (a *Attribute) vec(i int) ms3.Vec {
	j := 3 * i
	return ms3.Vec{X: a.Array[j], Y: a.Array[j+1], Z: a.Array[j+2]}
}

func (a *Attribute) setVec(i int, v ms3.Vec) {
	j := 3 * i
	a.Array[j] = v.X
	a.Array[j+1] = v.Y
	a.Array[j+2] = v.Z
}

// Clone returns a deep copy.
func (a *Attribute) Clone() *Attribute {
	return &Attribute{Array: append([]float32(nil), a.Array...), ItemSize: a.ItemSize}
}
