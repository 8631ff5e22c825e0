package cli

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/pkg/logger"
)

func testBuilder() *schedule.Builder {
	return schedule.NewBuilder(schedule.DefaultCodec(), logger.New(new(bytes.Buffer), logger.LevelError))
}

func TestPresenter_GridShowsEveryCell(t *testing.T) {
	group := schedule.Group{
		ID:          "g1",
		DisplayName: "IDGS-9",
		Sessions: []schedule.ClassSession{
			{SlotToken: "Lun18", Subject: "Calculo", Professor: "Reyes", Room: "D-401"},
		},
	}
	grid := testBuilder().BuildGrid(group.Sessions)

	var buf bytes.Buffer
	NewPresenter(&buf).Grid(group, grid)
	out := buf.String()

	assert.Contains(t, out, "Horario IDGS-9")
	assert.Contains(t, out, "Calculo / Reyes (D-401)")
	for _, d := range schedule.DefaultDays() {
		assert.Contains(t, out, d)
	}
	for _, line := range []string{"17:00", "18:00", "19:00", "20:00", "21:00"} {
		assert.Contains(t, out, line)
	}

	// 24 of the 25 cells are empty and still rendered.
	assert.Equal(t, 24, strings.Count(out, "| "+emptyCell))
}

func TestPresenter_GridAlignsAccentedNames(t *testing.T) {
	group := schedule.Group{
		ID:          "g1",
		DisplayName: "IDGS-9",
		Sessions: []schedule.ClassSession{
			{SlotToken: "Lun18", Subject: "Matemáticas", Professor: "Pérez", Room: "A-1"},
			{SlotToken: "Mar19", Subject: "Redes", Professor: "Lopez", Room: "B-2"},
		},
	}
	grid := testBuilder().BuildGrid(group.Sessions)

	var buf bytes.Buffer
	NewPresenter(&buf).Grid(group, grid)

	// Every table row pads to the same visible width, accents included.
	var widths []int
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, " | ") {
			widths = append(widths, utf8.RuneCountInString(line))
		}
	}
	require.NotEmpty(t, widths)
	for _, w := range widths[1:] {
		assert.Equal(t, widths[0], w, "rows must align on rune width:\n%s", buf.String())
	}
}

func TestPresenter_GroupList(t *testing.T) {
	var buf bytes.Buffer
	NewPresenter(&buf).GroupList([]schedule.Group{
		{ID: "g1", DisplayName: "IDGS-9", Sessions: make([]schedule.ClassSession, 3)},
	})

	assert.Contains(t, buf.String(), "IDGS-9")
	assert.Contains(t, buf.String(), "(3 sessions)")
}

func TestPresenter_GroupListEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPresenter(&buf).GroupList(nil)
	assert.Contains(t, buf.String(), "no schedules cached")
}

func TestPresenter_Professors(t *testing.T) {
	idx := testBuilder().BuildProfessorIndex([]schedule.Group{
		{ID: "g1", DisplayName: "IDGS-9", Sessions: []schedule.ClassSession{
			{SlotToken: "Mar19", Subject: "Redes", Professor: "Lopez", Room: "B-2"},
			{SlotToken: "Jue17", Subject: "Redes II", Professor: "Lopez"},
		}},
	})

	var buf bytes.Buffer
	NewPresenter(&buf).Professors(idx)
	out := buf.String()

	require.Contains(t, out, "Lopez")
	assert.Contains(t, out, "Mar19")
	assert.Contains(t, out, "grupo IDGS-9")
	// Missing room renders as a placeholder, not an empty column.
	assert.Contains(t, out, "aula ?")
}
