package schedule

import (
	"sort"

	"github.com/uteq-hub/uteq-schedule-hub/pkg/logger"
)

// Grid is the derived day×hour view of one group's sessions. Every
// (hour, day) combination from the codec's configured sets is present as a
// cell; an empty cell holds a nil session. Grids are recomputed on each read
// and never persisted.
type Grid struct {
	days  []string
	hours []int
	cells map[int]map[string]*ClassSession
}

// Days returns the day abbreviations in presentation order.
func (g *Grid) Days() []string {
	return append([]string(nil), g.days...)
}

// Hours returns the hours in presentation order.
func (g *Grid) Hours() []int {
	return append([]int(nil), g.hours...)
}

// At returns the session occupying the (hour, day) cell, or nil when the
// cell is empty. Unknown coordinates also report nil.
func (g *Grid) At(hour int, day string) *ClassSession {
	row, ok := g.cells[hour]
	if !ok {
		return nil
	}
	return row[day]
}

// Size returns the total number of cells, always |days| × |hours|.
func (g *Grid) Size() int {
	return len(g.days) * len(g.hours)
}

// ProfessorEntry pairs a session with the display name of the group it
// belongs to.
type ProfessorEntry struct {
	Session   ClassSession
	GroupName string
}

// ProfessorIndex is the derived professor → sessions view aggregated across
// every cached group. Professor names iterate in lexicographic order; entries
// within one professor keep encounter order.
type ProfessorIndex struct {
	names   []string
	entries map[string][]ProfessorEntry
}

// Professors returns all professor names in lexicographic order.
func (i *ProfessorIndex) Professors() []string {
	return append([]string(nil), i.names...)
}

// Entries returns the sessions taught by the given professor in encounter
// order, or nil for an unknown professor.
func (i *ProfessorIndex) Entries(professor string) []ProfessorEntry {
	return i.entries[professor]
}

// Len returns the number of distinct professors.
func (i *ProfessorIndex) Len() int {
	return len(i.names)
}

// Builder constructs presentation views from flat session records.
type Builder struct {
	codec *Codec
	log   *logger.Logger
}

// NewBuilder creates a Builder decoding slots with the given codec.
func NewBuilder(codec *Codec, log *logger.Logger) *Builder {
	if log == nil {
		log = logger.Default()
	}
	return &Builder{
		codec: codec,
		log:   log.With(logger.Component("grid_builder")),
	}
}

// BuildGrid converts a flat sequence of sessions into a fully populated
// day×hour grid. Sessions with unrecognized slot tokens are skipped and
// logged, never fatal. When two sessions decode to the same cell the later
// one in input order wins; scheduling conflicts are an upstream data-quality
// issue that this layer does not resolve.
func (b *Builder) BuildGrid(sessions []ClassSession) *Grid {
	g := &Grid{
		days:  b.codec.Days(),
		hours: b.codec.Hours(),
		cells: make(map[int]map[string]*ClassSession, len(b.codec.hours)),
	}
	for _, h := range g.hours {
		row := make(map[string]*ClassSession, len(g.days))
		for _, d := range g.days {
			row[d] = nil
		}
		g.cells[h] = row
	}

	for i := range sessions {
		s := sessions[i]
		slot, ok := b.codec.Decode(s.SlotToken)
		if !ok {
			b.log.Warn("skipping session with unrecognized slot token",
				logger.SlotToken(s.SlotToken),
				logger.F("subject", s.Subject),
			)
			continue
		}
		if prev := g.cells[slot.Hour][slot.Day]; prev != nil {
			b.log.Debug("slot collision, later session wins",
				logger.SlotToken(s.SlotToken),
				logger.F("replaced_subject", prev.Subject),
			)
		}
		g.cells[slot.Hour][slot.Day] = &s
	}

	return g
}

// BuildProfessorIndex groups every session of every group by professor.
// Buckets are created on first encounter; keys are exposed sorted.
func (b *Builder) BuildProfessorIndex(groups []Group) *ProfessorIndex {
	idx := &ProfessorIndex{
		entries: make(map[string][]ProfessorEntry),
	}

	for _, g := range groups {
		for _, s := range g.Sessions {
			if _, ok := idx.entries[s.Professor]; !ok {
				idx.names = append(idx.names, s.Professor)
			}
			idx.entries[s.Professor] = append(idx.entries[s.Professor], ProfessorEntry{
				Session:   s,
				GroupName: g.DisplayName,
			})
		}
	}

	sort.Strings(idx.names)
	return idx
}
