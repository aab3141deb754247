package extension

import "slices"

// MaxCustom is the number of custom extensions the server accepts.
const MaxCustom = 200

// Snapshot mirrors the full extension state as the server knew it at a point
// in time.
type Snapshot struct {
	Fixed  []string `json:"fixed"`
	Custom []string `json:"custom"`
	Count  int      `json:"count"`
}

// Delta describes fixed-extension changes since the previous push message.
// Custom extensions and the count only ever change through a Snapshot.
type Delta struct {
	FixedAdded   []string `json:"fixedAdded"`
	FixedRemoved []string `json:"fixedRemoved"`
}

// Batch is a set of fixed-extension toggles committed in a single request.
// A name never appears in both slices.
type Batch struct {
	Checked   []string `json:"checked"`
	Unchecked []string `json:"unchecked"`
}

// Empty reports whether the batch carries no changes.
func (b Batch) Empty() bool {
	return len(b.Checked) == 0 && len(b.Unchecked) == 0
}

// Len returns the number of names in the batch.
func (b Batch) Len() int {
	return len(b.Checked) + len(b.Unchecked)
}

// Clone returns a deep copy of the batch.
func (b Batch) Clone() Batch {
	return Batch{Checked: slices.Clone(b.Checked), Unchecked: slices.Clone(b.Unchecked)}
}
