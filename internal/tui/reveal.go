// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// revealDuration is how long a revealed secret stays visible before the
// automatic hide fires.
const revealDuration = 5 * time.Second

// revealHideMsg is the scheduled auto-hide event. It carries the
// generation it was scheduled for so stale timers are ignored.
type revealHideMsg struct {
	gen int
}

// revealState is a two-state machine (hidden/revealed) for a sensitive
// value. Revealing schedules an auto-hide; revealing again while already
// revealed is a no-op and neither resets nor duplicates the timer. The
// generation counter makes a late tick after a manual hide or a view
// teardown a safe no-op.
type revealState struct {
	revealed bool
	gen      int
}

// Revealed reports whether the secret is currently visible.
func (r *revealState) Revealed() bool { return r.revealed }

// Reveal transitions hidden -> revealed and returns the command that
// schedules the auto-hide. It returns nil when already revealed.
func (r *revealState) Reveal() tea.Cmd {
	if r.revealed {
		return nil
	}
	r.revealed = true
	r.gen++
	gen := r.gen
	return tea.Tick(revealDuration, func(time.Time) tea.Msg {
		return revealHideMsg{gen: gen}
	})
}

// Hide hides the secret immediately and invalidates any pending auto-hide.
func (r *revealState) Hide() {
	r.revealed = false
	r.gen++
}

// HandleHide processes a scheduled auto-hide event. Events from a stale
// generation are ignored.
func (r *revealState) HandleHide(msg revealHideMsg) {
	if msg.gen != r.gen {
		return
	}
	r.revealed = false
}
