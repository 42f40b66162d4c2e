package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestStatusVocabulary_Default(t *testing.T) {
	assert.Equal(t, "WORKING", StatusVocabulary{"WORKING", "AWAY", "OFF"}.Default())
	assert.Equal(t, "AWAY", StatusVocabulary{"AWAY"}.Default())
	assert.Equal(t, DefaultStatusCode, StatusVocabulary{}.Default())
	assert.Equal(t, DefaultStatusCode, StatusVocabulary(nil).Default())
}

func TestStatusUpdateFrom_NoCurrentStatusUsesVocabularyDefault(t *testing.T) {
	e := Employee{ID: 1, Name: "Kim"}

	got := StatusUpdateFrom(e, StatusVocabulary{"WORKING", "AWAY", "OFF"})

	assert.Equal(t, StatusUpdate{Status: "WORKING", Note: ""}, got)
}

func TestStatusUpdateFrom_CurrentStatus(t *testing.T) {
	e := Employee{ID: 1, CurrentStatus: &CurrentStatus{Status: "AWAY", Note: strPtr("lunch")}}

	got := StatusUpdateFrom(e, StatusVocabulary{"WORKING", "AWAY"})

	assert.Equal(t, StatusUpdate{Status: "AWAY", Note: "lunch"}, got)
}

func TestProfileUpdateFrom(t *testing.T) {
	e := Employee{Name: "Lee", Email: "lee@example.com", Mobile: "010-3333-4444"}
	assert.Equal(t, ProfileUpdate{Name: "Lee", Email: "lee@example.com", Mobile: "010-3333-4444"}, ProfileUpdateFrom(e))

	e.PasswordHash = strPtr("changeme")
	assert.Equal(t, "changeme", ProfileUpdateFrom(e).PasswordHash)
}

func TestEmployee_WithStatusLeavesOriginalUntouched(t *testing.T) {
	e := Employee{ID: 7, Name: "Park"}

	updated := e.WithStatus(CurrentStatus{ID: 3, Status: "OFF"})

	assert.Nil(t, e.CurrentStatus)
	assert.Equal(t, "OFF", updated.StatusCode())
	assert.Equal(t, "Park", updated.Name)
}

func TestCurrentStatus_Ongoing(t *testing.T) {
	assert.True(t, CurrentStatus{}.Ongoing())
	assert.True(t, CurrentStatus{StatusEnd: strPtr("")}.Ongoing())
	assert.False(t, CurrentStatus{StatusEnd: strPtr("2024-05-01T18:00:00")}.Ongoing())
}

func TestMemberProfile_Linked(t *testing.T) {
	assert.False(t, MemberProfile{LoginID: "D001001"}.Linked())
	assert.True(t, MemberProfile{LoginID: "D001001", Employee: &Employee{ID: 1}}.Linked())
}
