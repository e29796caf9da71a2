package piece

import (
	"log"

	"github.com/IrisMu01/midi-gen-mcp/errs"
)

// MaxHistory bounds the undo stack (invariant I7).
const MaxHistory = 10

// Store owns the live document plus its bounded undo/redo history. Every
// mutator on Store follows the same shape: validate arguments against the
// current document (no writes), then checkpoint(), then mutate. A call
// that returns an error therefore never calls checkpoint and never
// touches the document (I8).
type Store struct {
	Doc  *Document
	undo []*Document
	redo []*Document
}

// NewStore returns a Store wrapping a fresh, empty document.
func NewStore() *Store {
	return &Store{Doc: NewDocument()}
}

// checkpoint pushes a deep copy of the current document onto the undo
// stack, trims from the bottom to MaxHistory entries, and clears redo.
func (s *Store) checkpoint() {
	s.undo = append(s.undo, s.Doc.Clone())
	if len(s.undo) > MaxHistory {
		s.undo = s.undo[len(s.undo)-MaxHistory:]
	}
	s.redo = nil
	log.Printf("[undo] checkpoint pushed, depth=%d", len(s.undo))
}

// Undo restores the document to the state before the most recent
// successful mutator, or returns NothingToUndo if the stack is empty.
func (s *Store) Undo() error {
	if len(s.undo) == 0 {
		return errs.New(errs.NothingToUndo, "no mutation to undo")
	}
	s.redo = append(s.redo, s.Doc.Clone())
	n := len(s.undo) - 1
	s.Doc = s.undo[n]
	s.undo = s.undo[:n]
	log.Printf("[undo] restored, undo depth=%d redo depth=%d", len(s.undo), len(s.redo))
	return nil
}

// Redo re-applies the most recently undone mutation, or returns
// NothingToRedo if the redo stack is empty.
func (s *Store) Redo() error {
	if len(s.redo) == 0 {
		return errs.New(errs.NothingToRedo, "no undo to redo")
	}
	s.undo = append(s.undo, s.Doc.Clone())
	if len(s.undo) > MaxHistory {
		s.undo = s.undo[len(s.undo)-MaxHistory:]
	}
	n := len(s.redo) - 1
	s.Doc = s.redo[n]
	s.redo = s.redo[:n]
	log.Printf("[undo] redone, undo depth=%d redo depth=%d", len(s.undo), len(s.redo))
	return nil
}

// UndoDepth and RedoDepth expose stack sizes for tests.
func (s *Store) UndoDepth() int { return len(s.undo) }
func (s *Store) RedoDepth() int { return len(s.redo) }

// SetTitle sets the piece title. Any string is valid, including empty.
func (s *Store) SetTitle(title string) error {
	s.checkpoint()
	s.Doc.Title = title
	return nil
}
