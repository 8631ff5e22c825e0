package uteq

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uteq-hub/uteq-schedule-hub/internal/domain/session"
)

func TestMapper_ProfileStripsPasswordHash(t *testing.T) {
	mapper := NewMapper()

	profile := mapper.ProfileFromUser(UserDTO{
		ID:           "u1",
		FullName:     "Ana Torres",
		Email:        "ana@uteq.edu.mx",
		PasswordHash: "$2a$10$secret",
	})

	assert.Equal(t, "Ana Torres", profile.FullName)
	assert.Equal(t, "ana@uteq.edu.mx", profile.Email)
	assert.Equal(t, session.ProfileKnown, profile.Source)

	// Nothing hash-shaped survives serialization of the mapped profile.
	data, err := json.Marshal(profile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "passwordHash")
}

func TestMapper_GroupsFromDTO(t *testing.T) {
	mapper := NewMapper()

	groups, err := mapper.GroupsFromDTO([]GroupDTO{
		{
			ID:        "g1",
			GroupName: "Grupo 1",
			Data: []SessionDTO{
				{Start: "Lun18", Subject: "Calc", Professor: "X", Room: "101"},
				{Start: "???", Subject: "Kept raw", Professor: "Y", Room: "102"},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Sessions, 2)

	// Unknown slot tokens are not the mapper's concern; they stay in raw
	// storage and the grid builder excludes them later.
	assert.Equal(t, "???", groups[0].Sessions[1].SlotToken)
}

func TestMapper_GroupsFromDTOValidation(t *testing.T) {
	mapper := NewMapper()

	_, err := mapper.GroupsFromDTO([]GroupDTO{{GroupName: "No id"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")

	_, err = mapper.GroupsFromDTO([]GroupDTO{{ID: "g1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing nombregrupo")
}

func TestGroupDTO_DecodesBackendShape(t *testing.T) {
	raw := `{"id":"abc","nombregrupo":"IDGS-9","data":[{"start":"Vie21","subj":"Redes","prof":"Lopez","room":"D-12"}]}`

	var dto GroupDTO
	require.NoError(t, json.Unmarshal([]byte(raw), &dto))
	assert.Equal(t, "IDGS-9", dto.GroupName)
	require.Len(t, dto.Data, 1)
	assert.Equal(t, "Vie21", dto.Data[0].Start)
	assert.Equal(t, "Lopez", dto.Data[0].Professor)
}
