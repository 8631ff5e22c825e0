package schedule

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uteq-hub/uteq-schedule-hub/pkg/logger"
)

func newTestBuilder() *Builder {
	return NewBuilder(DefaultCodec(), logger.New(io.Discard, logger.LevelError))
}

func TestBuildGrid_EmptyInput(t *testing.T) {
	grid := newTestBuilder().BuildGrid(nil)

	assert.Equal(t, 25, grid.Size())
	for _, h := range grid.Hours() {
		for _, d := range grid.Days() {
			assert.Nil(t, grid.At(h, d))
		}
	}
}

func TestBuildGrid_PlacesSessions(t *testing.T) {
	sessions := []ClassSession{
		{SlotToken: "Lun18", Subject: "Calc", Professor: "X", Room: "101"},
		{SlotToken: "Vie21", Subject: "Prog", Professor: "Y", Room: "Lab2"},
	}

	grid := newTestBuilder().BuildGrid(sessions)

	lun := grid.At(18, "Lun")
	require.NotNil(t, lun)
	assert.Equal(t, "Calc", lun.Subject)
	assert.Equal(t, "X", lun.Professor)

	vie := grid.At(21, "Vie")
	require.NotNil(t, vie)
	assert.Equal(t, "Prog", vie.Subject)

	// All remaining cells stay explicitly empty.
	empty := 0
	for _, h := range grid.Hours() {
		for _, d := range grid.Days() {
			if grid.At(h, d) == nil {
				empty++
			}
		}
	}
	assert.Equal(t, 23, empty)
}

func TestBuildGrid_SkipsUnrecognizedTokens(t *testing.T) {
	sessions := []ClassSession{
		{SlotToken: "???", Subject: "Ghost"},
		{SlotToken: "Lun99", Subject: "OutOfRange"},
		{SlotToken: "Mar19", Subject: "Fis", Professor: "Z", Room: "202"},
	}

	grid := newTestBuilder().BuildGrid(sessions)

	require.NotNil(t, grid.At(19, "Mar"))
	assert.Equal(t, "Fis", grid.At(19, "Mar").Subject)

	occupied := 0
	for _, h := range grid.Hours() {
		for _, d := range grid.Days() {
			if grid.At(h, d) != nil {
				occupied++
			}
		}
	}
	assert.Equal(t, 1, occupied, "malformed sessions must not reach the grid")
}

func TestBuildGrid_LastWriteWinsOnCollision(t *testing.T) {
	sessions := []ClassSession{
		{SlotToken: "Jue20", Subject: "First", Professor: "A"},
		{SlotToken: "Jue20", Subject: "Second", Professor: "B"},
	}

	grid := newTestBuilder().BuildGrid(sessions)

	cell := grid.At(20, "Jue")
	require.NotNil(t, cell)
	assert.Equal(t, "Second", cell.Subject, "later session in input order wins")

	// The earlier session is gone from the grid but untouched in the input.
	assert.Equal(t, "First", sessions[0].Subject)
}

func TestBuildGrid_DoesNotAliasInputSlice(t *testing.T) {
	sessions := []ClassSession{
		{SlotToken: "Lun17", Subject: "Orig"},
	}

	grid := newTestBuilder().BuildGrid(sessions)
	sessions[0].Subject = "Mutated"

	assert.Equal(t, "Orig", grid.At(17, "Lun").Subject)
}

func TestBuildProfessorIndex_SortedKeysAndEncounterOrder(t *testing.T) {
	groups := []Group{
		{
			ID:          "g1",
			DisplayName: "Grupo 1",
			Sessions: []ClassSession{
				{SlotToken: "Lun18", Subject: "Calc", Professor: "A"},
				{SlotToken: "Mar18", Subject: "Prog", Professor: "B"},
			},
		},
		{
			ID:          "g2",
			DisplayName: "Grupo 2",
			Sessions: []ClassSession{
				{SlotToken: "Mie19", Subject: "Fis", Professor: "A"},
			},
		},
	}

	idx := newTestBuilder().BuildProfessorIndex(groups)

	assert.Equal(t, []string{"A", "B"}, idx.Professors())
	assert.Equal(t, 2, idx.Len())

	a := idx.Entries("A")
	require.Len(t, a, 2)
	assert.Equal(t, "Calc", a[0].Session.Subject)
	assert.Equal(t, "Grupo 1", a[0].GroupName)
	assert.Equal(t, "Fis", a[1].Session.Subject)
	assert.Equal(t, "Grupo 2", a[1].GroupName)

	b := idx.Entries("B")
	require.Len(t, b, 1)
	assert.Equal(t, "Grupo 1", b[0].GroupName)

	assert.Nil(t, idx.Entries("C"))
}

func TestBuildProfessorIndex_Empty(t *testing.T) {
	idx := newTestBuilder().BuildProfessorIndex(nil)

	assert.Empty(t, idx.Professors())
	assert.Equal(t, 0, idx.Len())
}
