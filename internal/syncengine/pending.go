package syncengine

import (
	"sort"

	"github.com/five82/blockext/internal/extension"
)

// Pending accumulates fixed-extension toggle intents that have not been sent
// yet. The last intent per name wins, so a name is never queued twice and
// never sits in both the checked and unchecked sets.
type Pending struct {
	intents     map[string]bool
	baseline    map[string]bool
	dropNetZero bool
}

// NewPending returns an empty accumulator. With dropNetZero set, an intent
// that returns a name to the state it had when first queued removes the name
// from the batch instead of sending a no-op change.
func NewPending(dropNetZero bool) *Pending {
	return &Pending{
		intents:     make(map[string]bool),
		baseline:    make(map[string]bool),
		dropNetZero: dropNetZero,
	}
}

// Add records that name should end up checked or unchecked. prior is the
// rendered state before this toggle and is only consulted the first time a
// name is queued in the current window.
func (p *Pending) Add(name string, checked, prior bool) {
	if _, queued := p.intents[name]; !queued {
		p.baseline[name] = prior
	}
	if p.dropNetZero && p.baseline[name] == checked {
		delete(p.intents, name)
		delete(p.baseline, name)
		return
	}
	p.intents[name] = checked
}

// Intent returns the queued intent for name, if any.
func (p *Pending) Intent(name string) (checked, queued bool) {
	checked, queued = p.intents[name]
	return checked, queued
}

// Len returns the number of queued names.
func (p *Pending) Len() int {
	return len(p.intents)
}

// Drain returns the queued intents as a batch and empties the accumulator.
// Names are sorted so batches are deterministic.
func (p *Pending) Drain() extension.Batch {
	var batch extension.Batch
	for name, checked := range p.intents {
		if checked {
			batch.Checked = append(batch.Checked, name)
		} else {
			batch.Unchecked = append(batch.Unchecked, name)
		}
	}
	sort.Strings(batch.Checked)
	sort.Strings(batch.Unchecked)
	clear(p.intents)
	clear(p.baseline)
	return batch
}
