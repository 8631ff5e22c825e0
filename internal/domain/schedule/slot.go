package schedule

import (
	"strconv"
)

// dayPrefixLen is the fixed length of the day abbreviation in a slot token.
const dayPrefixLen = 3

// DefaultDays are the weekday abbreviations recognized by the UTEQ backend,
// in presentation order.
func DefaultDays() []string {
	return []string{"Lun", "Mar", "Mie", "Jue", "Vie"}
}

// DefaultHours are the evening class hours offered by the program,
// in presentation order.
func DefaultHours() []int {
	return []int{17, 18, 19, 20, 21}
}

// Slot is a decoded (day, hour) pair identifying one timetable cell.
type Slot struct {
	Day  string
	Hour int
}

// Token reconstructs the compact token form, e.g. "Lun18".
func (s Slot) Token() string {
	return s.Day + strconv.Itoa(s.Hour)
}

// Codec decodes compact slot tokens against a fixed set of valid days and
// hours. Decoding is pure and total: any input that is not exactly a known
// day abbreviation followed by a known hour is reported as unrecognized,
// never as an error.
type Codec struct {
	days    []string
	hours   []int
	daySet  map[string]struct{}
	hourSet map[int]struct{}
}

// NewCodec creates a Codec for the given day abbreviations and hours.
// The slice order defines presentation order for grids built from this codec.
func NewCodec(days []string, hours []int) *Codec {
	c := &Codec{
		days:    append([]string(nil), days...),
		hours:   append([]int(nil), hours...),
		daySet:  make(map[string]struct{}, len(days)),
		hourSet: make(map[int]struct{}, len(hours)),
	}
	for _, d := range days {
		c.daySet[d] = struct{}{}
	}
	for _, h := range hours {
		c.hourSet[h] = struct{}{}
	}
	return c
}

// DefaultCodec returns a Codec for the default UTEQ days and hours.
func DefaultCodec() *Codec {
	return NewCodec(DefaultDays(), DefaultHours())
}

// Days returns the configured day abbreviations in presentation order.
func (c *Codec) Days() []string {
	return append([]string(nil), c.days...)
}

// Hours returns the configured hours in presentation order.
func (c *Codec) Hours() []int {
	return append([]int(nil), c.hours...)
}

// ValidDay reports whether day is a recognized day abbreviation.
func (c *Codec) ValidDay(day string) bool {
	_, ok := c.daySet[day]
	return ok
}

// ValidHour reports whether hour is a recognized class hour.
func (c *Codec) ValidHour(hour int) bool {
	_, ok := c.hourSet[hour]
	return ok
}

// Decode parses a slot token into its (day, hour) pair. The second return
// value is false when the token is unrecognized: too short, unknown day
// prefix, or an hour suffix that is not a bare decimal number from the
// valid set. Signs, whitespace, and trailing garbage all make the whole
// token unrecognized.
func (c *Codec) Decode(token string) (Slot, bool) {
	if len(token) <= dayPrefixLen {
		return Slot{}, false
	}

	day := token[:dayPrefixLen]
	if _, ok := c.daySet[day]; !ok {
		return Slot{}, false
	}

	suffix := token[dayPrefixLen:]
	for i := 0; i < len(suffix); i++ {
		if suffix[i] < '0' || suffix[i] > '9' {
			return Slot{}, false
		}
	}
	hour, err := strconv.Atoi(suffix)
	if err != nil {
		return Slot{}, false
	}
	if _, ok := c.hourSet[hour]; !ok {
		return Slot{}, false
	}

	return Slot{Day: day, Hour: hour}, true
}
