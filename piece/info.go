package piece

// Info is the read-only summary get_piece_info returns.
type Info struct {
	Title     string
	Sections  []*Section
	Tracks    []*Track
	NoteCount int
}

// GetPieceInfo summarizes the document.
func (s *Store) GetPieceInfo() Info {
	return Info{
		Title:     s.Doc.Title,
		Sections:  s.Doc.Sections,
		Tracks:    s.Doc.Tracks,
		NoteCount: len(s.Doc.Notes),
	}
}
