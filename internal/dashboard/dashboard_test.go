package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalambet/careermentor/internal/analysis"
	"github.com/kalambet/careermentor/internal/profile"
)

func pct(f float64) *float64 { return &f }

func TestPopulate_BeforeSubmission(t *testing.T) {
	d := Populate(profile.DemoFields(), nil, DefaultGoals())

	assert.True(t, d.NoMatches)
	assert.Empty(t, d.Progress)
	require.Len(t, d.Summary, 4)
	assert.Equal(t, "Aryan Soni", d.Summary[0].Value)
	assert.Len(t, d.SkillsToDevelop, 5)
	assert.Len(t, d.Goals, 3)
	assert.Len(t, d.Timeline, 4)
	assert.Len(t, d.Actions, 3)
}

func TestPopulate_UsesTypedRoles(t *testing.T) {
	roles := []analysis.Role{
		{Role: "Data Analyst", MatchPercentage: pct(87)},
		{Role: "Backend Developer", Score: pct(2)},
	}
	d := Populate(profile.Fields{Skills: "Python, , SQL"}, roles, nil)

	assert.False(t, d.NoMatches)
	assert.Equal(t, []RoleProgress{
		{Role: "Data Analyst", Percent: "87"},
		{Role: "Backend Developer", Percent: "2"},
	}, d.Progress)
	assert.Equal(t, []string{"Python", "SQL"}, d.Skills)
}

func TestPopulate_DoesNotAliasFixedLists(t *testing.T) {
	d := Populate(profile.Fields{}, nil, nil)
	d.SkillsToDevelop[0] = "changed"
	assert.NotEqual(t, "changed", Populate(profile.Fields{}, nil, nil).SkillsToDevelop[0])
}

func TestGoals_AddAndToggle(t *testing.T) {
	goals := DefaultGoals()
	for _, g := range goals {
		assert.False(t, g.Completed)
		assert.NotEmpty(t, g.ID)
	}

	goals, err := AddGoal(goals, "  Learn Docker ")
	require.NoError(t, err)
	require.Len(t, goals, 4)
	assert.Equal(t, "Learn Docker", goals[3].Text)
	assert.False(t, goals[3].Completed)

	_, err = AddGoal(goals, "   ")
	assert.ErrorIs(t, err, ErrEmptyGoal)

	goals, err = ToggleGoal(goals, goals[1].ID)
	require.NoError(t, err)
	assert.True(t, goals[1].Completed)
	goals, err = ToggleGoal(goals, goals[1].ID)
	require.NoError(t, err)
	assert.False(t, goals[1].Completed)

	_, err = ToggleGoal(goals, "missing")
	assert.ErrorIs(t, err, ErrGoalNotFound)
}

func TestExport_Unimplemented(t *testing.T) {
	_, err := Export(Dashboard{})
	assert.ErrorIs(t, err, ErrExportNotImplemented)
}
