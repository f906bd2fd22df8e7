// Package replay records the actions of a game by poll index, stores them in
// the journal and plays them back through the engine loop.
package replay

import (
	"fmt"
	"sort"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// Script maps poll indexes to the action applied on that poll.
// Polls without an entry had no input.
type Script struct {
	actions *intmap.Map[uint64, core.Action]
}

// NewScript creates an empty script.
func NewScript() *Script {
	return &Script{actions: intmap.New[uint64, core.Action](64)}
}

// Set records a on poll. ActionNone deletes any entry.
func (s *Script) Set(poll uint64, a core.Action) {
	if a == core.ActionNone {
		s.actions.Del(poll)
		return
	}
	s.actions.Put(poll, a)
}

// At returns the action of poll, or ActionNone.
func (s *Script) At(poll uint64) core.Action {
	if a, ok := s.actions.Get(poll); ok {
		return a
	}
	return core.ActionNone
}

// Len returns the number of polls with input.
func (s *Script) Len() int { return s.actions.Len() }

// Records returns the script as journal rows ordered by poll.
func (s *Script) Records() []storage.InputRecord {
	records := make([]storage.InputRecord, 0, s.actions.Len())
	s.actions.ForEach(func(poll uint64, a core.Action) bool {
		records = append(records, storage.InputRecord{Poll: int64(poll), Action: a.String()})
		return true
	})
	sort.Slice(records, func(i, j int) bool { return records[i].Poll < records[j].Poll })
	return records
}

// ScriptFromRecords rebuilds a script from journal rows.
func ScriptFromRecords(records []storage.InputRecord) (*Script, error) {
	s := NewScript()
	for _, r := range records {
		a := core.ParseAction(r.Action)
		if !a.IsMove() {
			return nil, fmt.Errorf("replay: unknown action %q at poll %d", r.Action, r.Poll)
		}
		if r.Poll < 0 {
			return nil, fmt.Errorf("replay: negative poll index %d", r.Poll)
		}
		s.Set(uint64(r.Poll), a)
	}
	return s, nil
}
