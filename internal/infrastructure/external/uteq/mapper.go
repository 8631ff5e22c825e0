package uteq

import (
	"fmt"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/schedule"
	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
)

// Mapper converts backend DTOs into domain types, validating at the
// ingestion boundary so malformed payloads fail fast instead of propagating
// as holes into the grid builder.
type Mapper struct{}

// NewMapper creates a Mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// ProfileFromUser maps a backend user record to a secret-free profile.
// The password hash field is dropped here and nowhere else needs to care.
func (m *Mapper) ProfileFromUser(dto UserDTO) session.Profile {
	return session.Profile{
		FullName: dto.FullName,
		Email:    dto.Email,
		Source:   session.ProfileKnown,
	}
}

// GroupsFromDTO maps the /horarios payload to domain groups. A group
// without an identifier is a contract violation and fails the whole mapping;
// session-level oddities (unknown slot tokens) are kept as raw data and left
// for the grid builder to exclude.
func (m *Mapper) GroupsFromDTO(dtos []GroupDTO) ([]schedule.Group, error) {
	groups := make([]schedule.Group, 0, len(dtos))
	for i, dto := range dtos {
		if dto.ID == "" {
			return nil, fmt.Errorf("group %d: missing id", i)
		}
		if dto.GroupName == "" {
			return nil, fmt.Errorf("group %d (%s): missing nombregrupo", i, dto.ID)
		}

		sessions := make([]schedule.ClassSession, 0, len(dto.Data))
		for _, s := range dto.Data {
			sessions = append(sessions, schedule.ClassSession{
				SlotToken: s.Start,
				Subject:   s.Subject,
				Professor: s.Professor,
				Room:      s.Room,
			})
		}
		groups = append(groups, schedule.Group{
			ID:          dto.ID,
			DisplayName: dto.GroupName,
			Sessions:    sessions,
		})
	}
	return groups, nil
}
