package field

import "time"

// Snapshot is the complete field state for suspend/resume.
type Snapshot struct {
	Now      time.Duration `yaml:"now"`
	NextID   int           `yaml:"next_id"`
	Bubbles  []Bubble      `yaml:"bubbles"`
	Pending  []int         `yaml:"pending"`
	Cadence  time.Duration `yaml:"cadence"`
	Lifetime time.Duration `yaml:"lifetime"`
	NextDue  time.Duration `yaml:"next_due"`
}

// Snapshot returns the current field state.
func (f *Field) Snapshot() Snapshot {
	return Snapshot{
		Now:      f.now,
		NextID:   f.nextID,
		Bubbles:  f.Bubbles(),
		Pending:  append([]int(nil), f.pending...),
		Cadence:  f.cadence,
		Lifetime: f.lifetime,
		NextDue:  f.nextDue,
	}
}

// ApplySnapshot replaces the field state. Current bubbles are reported as
// cleared and restored ones as created, so the sink stays consistent.
func (f *Field) ApplySnapshot(snap Snapshot) {
	f.Clear()

	f.now = snap.Now
	f.nextID = max(snap.NextID, 1)
	f.pending = append([]int(nil), snap.Pending...)
	f.cadence = snap.Cadence
	f.lifetime = snap.Lifetime
	f.nextDue = snap.NextDue

	f.bubbles = append([]Bubble(nil), snap.Bubbles...)
	for _, b := range f.bubbles {
		if b.ID >= f.nextID {
			f.nextID = b.ID + 1
		}
		f.sink.BubbleCreated(b)
	}
}
