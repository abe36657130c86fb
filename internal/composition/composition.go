// Package composition tracks IME composition state and the timing
// hazards around it. The machine is pure: it never touches the buffer
// or the clock. The host feeds it transitions and timestamps and
// applies the commits it returns, so the platform-tuned windows stay
// configuration instead of hard-coded timers.
package composition

import (
	"time"

	"github.com/dshills/markweave/internal/action"
)

// State is the machine's current mode.
type State uint8

const (
	// Idle means no composition is active.
	Idle State = iota

	// Composing means an IME preview is active; content mutations must
	// not reach the buffer until the composition ends or cancels.
	Composing
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	default:
		return "unknown"
	}
}

// Defaults for the two timing windows. Both were tuned against real
// input methods; validate before changing them.
const (
	DefaultConfirmSuppress    = 500 * time.Millisecond
	DefaultPredictiveFallback = 50 * time.Millisecond
)

// Config carries the timing windows.
type Config struct {
	// ConfirmSuppress is how long after a commit a duplicate
	// confirmation of the same text is swallowed.
	ConfirmSuppress time.Duration

	// PredictiveFallback is how long to wait for a predicted buffer
	// change before concluding it never happened.
	PredictiveFallback time.Duration
}

// Commit is the outcome of a finished composition: insert Text at
// Offset, exactly once.
type Commit struct {
	Text   string
	Offset int
}

// Machine is the composition state machine for one editor instance.
type Machine struct {
	cfg     Config
	state   State
	start   int
	preview string

	lastCommit     string
	lastCommitAt   time.Time
	haveCommit     bool
	pendingRev     uint64
	pendingAt      time.Time
	havePendingRev bool
}

// NewMachine creates an idle machine; zero config fields fall back to
// the defaults.
func NewMachine(cfg Config) *Machine {
	if cfg.ConfirmSuppress <= 0 {
		cfg.ConfirmSuppress = DefaultConfirmSuppress
	}
	if cfg.PredictiveFallback <= 0 {
		cfg.PredictiveFallback = DefaultPredictiveFallback
	}
	return &Machine{cfg: cfg}
}

// State returns the current mode.
func (m *Machine) State() State { return m.state }

// IsComposing reports whether an IME preview is active.
func (m *Machine) IsComposing() bool { return m.state == Composing }

// Preview returns the active preview text and its start offset.
func (m *Machine) Preview() (string, int) { return m.preview, m.start }

// Start enters composition at offset. The host deletes any active
// selection before calling; the machine only records where the commit
// will land.
func (m *Machine) Start(offset int) {
	m.state = Composing
	m.start = offset
	m.preview = ""
}

// Update replaces the preview text. The buffer is never touched.
func (m *Machine) Update(preview string) {
	if m.state != Composing {
		return
	}
	m.preview = preview
}

// End commits the composition and returns to Idle. The returned commit
// is what the host must apply to the buffer: one insert of Text at
// Offset. ok is false when nothing was composing or the preview is
// empty.
func (m *Machine) End(now time.Time) (Commit, bool) {
	if m.state != Composing {
		return Commit{}, false
	}
	text, offset := m.preview, m.start
	m.state = Idle
	m.preview = ""
	if text == "" {
		return Commit{}, false
	}
	m.lastCommit = text
	m.lastCommitAt = now
	m.haveCommit = true
	return Commit{Text: text, Offset: offset}, true
}

// Cancel forces Idle without committing (Escape, focus loss).
func (m *Machine) Cancel() {
	m.state = Idle
	m.preview = ""
}

// ShouldBlock reports whether the action must be withheld from the
// executor. While composing, only non-mutating actions pass through.
func (m *Machine) ShouldBlock(a action.Action) bool {
	return m.state == Composing && a.IsMutation()
}

// SuppressConfirm reports whether a confirmation signal carrying text
// duplicates the commit just made and must be dropped. Some platforms
// fire a second confirmation for the same text shortly after
// composition end; applying it would double-insert.
func (m *Machine) SuppressConfirm(text string, now time.Time) bool {
	if !m.haveCommit || text != m.lastCommit {
		return false
	}
	return now.Sub(m.lastCommitAt) <= m.cfg.ConfirmSuppress
}

// ExpectChange records that a predictive input method claimed a buffer
// mutation at now, with the buffer revision observed at that moment.
func (m *Machine) ExpectChange(revision uint64, now time.Time) {
	m.pendingRev = revision
	m.pendingAt = now
	m.havePendingRev = true
}

// FallbackNeeded reports whether the expected change never arrived:
// the fallback window elapsed and the buffer revision is unchanged.
// The pending check is consumed either way once the window has passed.
func (m *Machine) FallbackNeeded(revision uint64, now time.Time) bool {
	if !m.havePendingRev {
		return false
	}
	if now.Sub(m.pendingAt) < m.cfg.PredictiveFallback {
		return false
	}
	m.havePendingRev = false
	return revision == m.pendingRev
}
