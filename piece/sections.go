package piece

import (
	"sort"

	"github.com/IrisMu01/midi-gen-mcp/errs"
)

var validDenominators = map[int]bool{1: true, 2: true, 4: true, 8: true, 16: true}

// ValidateTimeSignature checks the "n/d" shape with d in {1,2,4,8,16}.
func ValidateTimeSignature(ts string) (numerator, denominator int, err error) {
	var n, d int
	parsed, scanErr := fmtSscanTimeSig(ts, &n, &d)
	if scanErr != nil || !parsed || n <= 0 || !validDenominators[d] {
		return 0, 0, errs.New(errs.SchemaViolation, "invalid time signature %q", ts)
	}
	return n, d, nil
}

func fmtSscanTimeSig(ts string, n, d *int) (bool, error) {
	// "n/d" — hand-parsed rather than fmt.Sscanf so a malformed string
	// (missing slash, trailing garbage) is rejected rather than partially
	// consumed.
	slash := -1
	for i := 0; i < len(ts); i++ {
		if ts[i] == '/' {
			slash = i
			break
		}
	}
	if slash <= 0 || slash == len(ts)-1 {
		return false, nil
	}
	numStr, denStr := ts[:slash], ts[slash+1:]
	nv, ok1 := parseUint(numStr)
	dv, ok2 := parseUint(denStr)
	if !ok1 || !ok2 {
		return false, nil
	}
	*n, *d = nv, dv
	return true, nil
}

func parseUint(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	v := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}

func validateTempo(tempo int) error {
	if tempo < 1 || tempo > 300 {
		return errs.New(errs.SchemaViolation, "tempo %d out of range [1,300]", tempo)
	}
	return nil
}

// AddSection inserts a new section. Fails with DuplicateName, InvalidRange
// (e<s or s<1), SchemaViolation (bad tempo/time signature), or
// SectionOverlap if the range intersects an existing section (I3).
func (s *Store) AddSection(name string, start, end, tempo int, timeSig, key, description string) error {
	if name == "" {
		return errs.New(errs.SchemaViolation, "section name must not be empty")
	}
	if s.Doc.SectionByName(name) != nil {
		return errs.New(errs.DuplicateName, "section %q already exists", name)
	}
	if start < 1 || end < start {
		return errs.New(errs.InvalidRange, "invalid section range [%d,%d]", start, end)
	}
	if err := validateTempo(tempo); err != nil {
		return err
	}
	if _, _, err := ValidateTimeSignature(timeSig); err != nil {
		return err
	}
	for _, other := range s.Doc.Sections {
		if rangesOverlap(start, end, other.StartMeasure, other.EndMeasure) {
			return errs.New(errs.SectionOverlap, "range [%d,%d] overlaps section %q [%d,%d]",
				start, end, other.Name, other.StartMeasure, other.EndMeasure)
		}
	}

	s.checkpoint()
	s.Doc.Sections = append(s.Doc.Sections, &Section{
		Name: name, StartMeasure: start, EndMeasure: end,
		Tempo: tempo, TimeSignature: timeSig, Key: key, Description: description,
	})
	sortSections(s.Doc.Sections)
	return nil
}

func rangesOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart <= bEnd && bStart <= aEnd
}

func sortSections(sections []*Section) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].StartMeasure < sections[j].StartMeasure
	})
}

// SectionPatch describes the fields edit_section may change. A nil field
// means "leave unchanged".
type SectionPatch struct {
	Name          *string
	StartMeasure  *int
	EndMeasure    *int
	Tempo         *int
	TimeSignature *string
	Key           *string
	Description   *string
}

// EditSection applies patch to the named section, performing neighbor
// adjustment when the boundaries change: a neighbor entirely swallowed by
// the new range refuses the edit (SectionWouldSwallow); a neighbor
// overlapping only one boundary is shrunk to make room. All validation
// happens before any write, so a failed edit leaves every section
// untouched.
func (s *Store) EditSection(name string, patch SectionPatch) error {
	cur := s.Doc.SectionByName(name)
	if cur == nil {
		return errs.New(errs.NotFound, "section %q does not exist", name)
	}

	newName := cur.Name
	if patch.Name != nil {
		newName = *patch.Name
	}
	if newName != cur.Name && s.Doc.SectionByName(newName) != nil {
		return errs.New(errs.DuplicateName, "section %q already exists", newName)
	}

	newStart, newEnd := cur.StartMeasure, cur.EndMeasure
	if patch.StartMeasure != nil {
		newStart = *patch.StartMeasure
	}
	if patch.EndMeasure != nil {
		newEnd = *patch.EndMeasure
	}
	if newStart < 1 || newEnd < newStart {
		return errs.New(errs.InvalidRange, "invalid section range [%d,%d]", newStart, newEnd)
	}

	newTempo := cur.Tempo
	if patch.Tempo != nil {
		newTempo = *patch.Tempo
	}
	if err := validateTempo(newTempo); err != nil {
		return err
	}
	newTimeSig := cur.TimeSignature
	if patch.TimeSignature != nil {
		newTimeSig = *patch.TimeSignature
	}
	if _, _, err := ValidateTimeSignature(newTimeSig); err != nil {
		return err
	}
	newKey := cur.Key
	if patch.Key != nil {
		newKey = *patch.Key
	}
	newDescription := cur.Description
	if patch.Description != nil {
		newDescription = *patch.Description
	}

	// Compute neighbor adjustments on a scratch plan first; nothing is
	// mutated until every neighbor is known to survive.
	type adjustment struct {
		section  *Section
		newStart *int
		newEnd   *int
	}
	var plan []adjustment

	for _, other := range s.Doc.Sections {
		if other == cur {
			continue
		}
		overlaps := other.StartMeasure <= newEnd && other.EndMeasure >= newStart
		if !overlaps {
			continue
		}
		extendsBefore := other.StartMeasure < newStart
		extendsAfter := other.EndMeasure > newEnd

		switch {
		case !extendsBefore && !extendsAfter:
			// N lies entirely within the new range.
			return errs.New(errs.SectionWouldSwallow, "editing %q would swallow section %q", name, other.Name)
		case extendsBefore && extendsAfter:
			// N spans both boundaries; the engine never splits a neighbor
			// in two, so this edit is refused rather than silently
			// dropping half of N.
			return errs.New(errs.SectionOverlap, "editing %q would split section %q", name, other.Name)
		case extendsBefore:
			// N only has territory before the new range: shrink its end.
			trimmedEnd := newStart - 1
			if trimmedEnd < other.StartMeasure {
				return errs.New(errs.SectionWouldSwallow, "editing %q would swallow section %q", name, other.Name)
			}
			plan = append(plan, adjustment{section: other, newEnd: &trimmedEnd})
		default:
			// N only has territory after the new range: shrink its start.
			trimmedStart := newEnd + 1
			if trimmedStart > other.EndMeasure {
				return errs.New(errs.SectionWouldSwallow, "editing %q would swallow section %q", name, other.Name)
			}
			plan = append(plan, adjustment{section: other, newStart: &trimmedStart})
		}
	}

	s.checkpoint()

	for _, adj := range plan {
		if adj.newStart != nil {
			adj.section.StartMeasure = *adj.newStart
		}
		if adj.newEnd != nil {
			adj.section.EndMeasure = *adj.newEnd
		}
	}

	cur.Name = newName
	cur.StartMeasure = newStart
	cur.EndMeasure = newEnd
	cur.Tempo = newTempo
	cur.TimeSignature = newTimeSig
	cur.Key = newKey
	cur.Description = newDescription

	sortSections(s.Doc.Sections)
	return nil
}

// GetSections returns sections sorted by start_measure.
func (s *Store) GetSections() []*Section {
	return s.Doc.Sections
}
