package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinimalProfile(t *testing.T) {
	p := Minimal("ana@uteq.edu.mx")

	assert.Equal(t, "ana@uteq.edu.mx", p.Email)
	assert.Equal(t, ProfileMinimal, p.Source)
	assert.Empty(t, p.FullName)
}

func TestProfile_DisplayName(t *testing.T) {
	assert.Equal(t, "Ana Torres", Profile{FullName: "Ana Torres", Email: "a@b"}.DisplayName())
	assert.Equal(t, "a@b", Profile{FullName: "   ", Email: "a@b"}.DisplayName())
	assert.Equal(t, "a@b", Minimal("a@b").DisplayName())
}

func TestProfile_SerializationIsSecretFree(t *testing.T) {
	p := Profile{FullName: "Ana Torres", Email: "ana@uteq.edu.mx", Source: ProfileKnown}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.NotContains(t, raw, "password")
	assert.NotContains(t, raw, "passwordHash")
	assert.Equal(t, "known", raw["source"])
}
