package editor

import (
	"sync"
	"time"

	"github.com/galileo-map/galileo-vt-styler/internal/colors"
	"github.com/galileo-map/galileo-vt-styler/internal/style"
)

// updateTimeout is the debounce window: edits only commit once the
// document has been quiet for this long.
const updateTimeout = 100 * time.Millisecond

// StyleDoc is the top-level editable document. The editor mutates it on
// the UI tick; a renderer may read the compiled snapshot from another
// goroutine. The snapshot is immutable and replaced wholesale on commit,
// so readers never observe a half-updated rule list.
type StyleDoc struct {
	mu            sync.RWMutex
	background    colors.Color
	rules         []EditRule
	lastRuleID    uint64
	isChanged     bool
	lastChangedAt time.Time
	snapshot      style.VectorTileStyle

	now func() time.Time
}

// NewStyleDoc returns an empty document with the default background.
func NewStyleDoc() *StyleDoc {
	doc := &StyleDoc{
		background: style.DefaultBackground,
		now:        time.Now,
	}
	doc.snapshot = doc.compile()
	return doc
}

// markChanged stamps the debounce clock. The change only becomes visible
// to observers after the quiet window elapses.
func (d *StyleDoc) markChanged() {
	d.lastChangedAt = d.now()
}

// compile builds the immutable rule snapshot. Caller holds the lock.
func (d *StyleDoc) compile() style.VectorTileStyle {
	compiled := style.VectorTileStyle{Background: d.background}
	for _, rule := range d.rules {
		compiled.Rules = append(compiled.Rules, rule.toStyleRule())
	}
	return compiled
}

// AddRule appends a fresh rule and returns its id. Ids increase
// monotonically and survive any sequence of removals. The new rule draws
// nothing until the user gives it a symbol, so no change is pending.
func (d *StyleDoc) AddRule() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastRuleID++
	d.rules = append(d.rules, newEditRule(d.lastRuleID))
	return d.lastRuleID
}

// Rules returns a copy of the rule list for the editor view.
func (d *StyleDoc) Rules() []EditRule {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]EditRule, len(d.rules))
	copy(out, d.rules)
	return out
}

// SetRule overwrites the rule with the given id, keeping the id itself.
// The rule's Action field is consumed on the next Tick.
func (d *StyleDoc) SetRule(rule EditRule) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.rules {
		if d.rules[i].ID == rule.ID {
			d.rules[i] = rule
			return true
		}
	}
	return false
}

// SetBackground replaces the background color.
func (d *StyleDoc) SetBackground(c colors.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.background != c {
		d.background = c
		d.markChanged()
	}
}

// Background returns the current background color.
func (d *StyleDoc) Background() colors.Color {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.background
}

// Tick applies at most one pending rule action, clears all action fields
// and advances the debounce. Call once per UI frame.
func (d *StyleDoc) Tick() {
	d.mu.Lock()
	defer d.mu.Unlock()

	action, index := ActionNone, -1
	for i := range d.rules {
		if d.rules[i].Action != ActionNone {
			action, index = d.rules[i].Action, i
			break
		}
	}
	for i := range d.rules {
		d.rules[i].Action = ActionNone
	}

	switch action {
	case ActionModified:
		d.markChanged()
	case ActionMoveUp:
		if index > 0 {
			d.rules[index-1], d.rules[index] = d.rules[index], d.rules[index-1]
			d.markChanged()
		}
	case ActionMoveDown:
		if index < len(d.rules)-1 {
			d.rules[index], d.rules[index+1] = d.rules[index+1], d.rules[index]
			d.markChanged()
		}
	case ActionRemove:
		d.rules = append(d.rules[:index], d.rules[index+1:]...)
		d.markChanged()
	}

	if !d.lastChangedAt.IsZero() && !d.now().Before(d.lastChangedAt.Add(updateTimeout)) {
		d.lastChangedAt = time.Time{}
		d.isChanged = true
		d.snapshot = d.compile()
	}
}

// LoadStyle replaces the document with a freshly translated style. Rule
// ids restart at 1 and a change is marked pending.
func (d *StyleDoc) LoadStyle(s style.VectorTileStyle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.background = s.Background
	d.rules = d.rules[:0]
	d.lastRuleID = 0
	for _, rule := range s.Rules {
		d.lastRuleID++
		d.rules = append(d.rules, fromStyleRule(d.lastRuleID, rule))
	}

	d.snapshot = d.compile()
	d.markChanged()
	tracer().Infof("loaded style with %d rules", len(d.rules))
}

// Style returns the compiled snapshot as of the last commit.
func (d *StyleDoc) Style() style.VectorTileStyle {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snapshot
}

// IsChanged reports whether a committed change awaits the renderer.
func (d *StyleDoc) IsChanged() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.isChanged
}

// MarkUnchanged acknowledges the committed change. The renderer calls
// this after consuming the new snapshot.
func (d *StyleDoc) MarkUnchanged() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isChanged = false
}
