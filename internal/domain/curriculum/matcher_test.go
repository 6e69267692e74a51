package curriculum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardiologyTemplate() *Template {
	return &Template{
		ProgramCode:   "0706",
		ProgramName:   "Kardiologia",
		Track:         TrackModular,
		DurationYears: 5,
		Modules: []ModuleTemplate{
			{
				ModuleID: "mod-basic",
				Name:     "Moduł podstawowy",
				Kind:     KindBasic,
				Procedures: []ProcedureTemplate{
					{ID: "p1", Code: "89.52", Name: "EKG spoczynkowe", RequiredAsOperator: 200},
					{ID: "p2", Code: "89.44", Name: "Próba wysiłkowa", RequiredAsOperator: 50, RequiredAsAssistant: 10},
				},
			},
			{
				ModuleID: "mod-spec",
				Name:     "Moduł specjalistyczny",
				Kind:     KindSpecialist,
				Procedures: []ProcedureTemplate{
					{ID: "p3", Code: "37.22", Name: "Cewnikowanie serca", RequiredAsOperator: 30},
					// Same name as p1 on purpose, lives in a later module.
					{ID: "p4", Code: "89.52A", Name: "EKG spoczynkowe", RequiredAsOperator: 100},
				},
			},
		},
	}
}

func TestModularPolicy_MatchesByNameInActiveModuleOnly(t *testing.T) {
	tpl := cardiologyTemplate()
	policy := PolicyFor(TrackModular)

	match := policy.MatchProcedure(tpl, "mod-spec", "", "cewnikowanie serca")
	require.NotNil(t, match)
	assert.Equal(t, "p3", match.Procedure.ID)
	assert.Equal(t, "mod-spec", match.Module.ModuleID)

	// Procedure exists in the template, but not in the active module.
	match = policy.MatchProcedure(tpl, "mod-spec", "", "Próba wysiłkowa")
	assert.Nil(t, match)
}

func TestModularPolicy_IgnoresCode(t *testing.T) {
	tpl := cardiologyTemplate()
	policy := PolicyFor(TrackModular)

	match := policy.MatchProcedure(tpl, "mod-basic", "89.52", "nieznana procedura")
	assert.Nil(t, match)
}

func TestModularPolicy_UnknownActiveModule(t *testing.T) {
	tpl := cardiologyTemplate()
	policy := PolicyFor(TrackModular)

	match := policy.MatchProcedure(tpl, "mod-missing", "", "EKG spoczynkowe")
	assert.Nil(t, match)
}

func TestModularPolicy_Semantics(t *testing.T) {
	policy := PolicyFor(TrackModular)

	assert.Equal(t, TrackModular, policy.Track())
	assert.Equal(t, MissBlocks, policy.OnMiss())
	assert.True(t, policy.RequiresActiveModule())
	assert.True(t, policy.AcceptsYear(0))
	assert.False(t, policy.AcceptsYear(1))
	assert.False(t, policy.IncludeInYearStatistics(1, 1))
}

func TestLegacyPolicy_MatchesByCodeAcrossModules(t *testing.T) {
	tpl := cardiologyTemplate()
	policy := PolicyFor(TrackLegacy)

	match := policy.MatchProcedure(tpl, "", "37.22", "")
	require.NotNil(t, match)
	assert.Equal(t, "p3", match.Procedure.ID)
	assert.Equal(t, "mod-spec", match.Module.ModuleID)
}

func TestLegacyPolicy_NameCollisionResolvesToFirstModule(t *testing.T) {
	tpl := cardiologyTemplate()
	policy := PolicyFor(TrackLegacy)

	// "EKG spoczynkowe" exists in both modules; template order wins.
	match := policy.MatchProcedure(tpl, "", "", "EKG SPOCZYNKOWE")
	require.NotNil(t, match)
	assert.Equal(t, "p1", match.Procedure.ID)
	assert.Equal(t, "mod-basic", match.Module.ModuleID)
}

func TestLegacyPolicy_EmptyCodeNeverMatches(t *testing.T) {
	tpl := cardiologyTemplate()
	tpl.Modules[0].Procedures[0].Code = ""
	policy := PolicyFor(TrackLegacy)

	match := policy.MatchProcedure(tpl, "", "", "")
	assert.Nil(t, match)
}

func TestLegacyPolicy_Semantics(t *testing.T) {
	policy := PolicyFor(TrackLegacy)

	assert.Equal(t, TrackLegacy, policy.Track())
	assert.Equal(t, MissWarns, policy.OnMiss())
	assert.False(t, policy.RequiresActiveModule())
	assert.True(t, policy.AcceptsYear(0))
	assert.True(t, policy.AcceptsYear(3))
	assert.False(t, policy.AcceptsYear(-1))
}

func TestLegacyPolicy_YearStatisticsInclusion(t *testing.T) {
	policy := PolicyFor(TrackLegacy)

	assert.True(t, policy.IncludeInYearStatistics(2, 2))
	// Unassigned records count toward any concrete year.
	assert.True(t, policy.IncludeInYearStatistics(0, 3))
	assert.False(t, policy.IncludeInYearStatistics(1, 2))
	assert.False(t, policy.IncludeInYearStatistics(0, 0))
}

func TestModuleTemplate_RequiredProcedures(t *testing.T) {
	tpl := cardiologyTemplate()
	basic := tpl.FindModule("mod-basic")
	require.NotNil(t, basic)

	assert.Equal(t, 250, basic.RequiredProcedures(RoleOperator))
	assert.Equal(t, 10, basic.RequiredProcedures(RoleAssistant))
	assert.Equal(t, 0, basic.RequiredProcedures(ExecutionRole("observer")))
}

func TestProcedureTemplate_Matching(t *testing.T) {
	p := ProcedureTemplate{Code: "89.52", Name: "EKG spoczynkowe"}

	assert.True(t, p.MatchesName("  ekg SPOCZYNKOWE "))
	assert.False(t, p.MatchesName("EKG"))
	assert.True(t, p.MatchesCode(" 89.52"))
	assert.False(t, p.MatchesCode(""))
}
