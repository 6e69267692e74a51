package templatestore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezhub/residency-progress-hub/internal/domain/curriculum"
)

func TestTemplateDTO_Parsing(t *testing.T) {
	jsonData := `{
    "program_code": "0706",
    "program_name": "Kardiologia",
    "track": "modular",
    "version": "CMKP 2023",
    "duration_years": 5,
    "modules": [
        {
            "module_id": "mod-basic",
            "name": "Moduł podstawowy",
            "kind": "basic",
            "duration_months": 24,
            "procedures": [
                {
                    "id": "p1",
                    "code": "89.52",
                    "name": "EKG spoczynkowe",
                    "type": "Moduł podstawowy",
                    "required_as_operator": 200,
                    "required_as_assistant": 0,
                    "internship_id": "i1"
                }
            ],
            "courses": [
                {
                    "id": "c1",
                    "name": "Kurs wprowadzający",
                    "mandatory": true,
                    "duration_days": 5
                }
            ],
            "internships": [
                {
                    "id": "i1",
                    "name": "Staż kierunkowy",
                    "required_working_days": 20
                }
            ],
            "required_shift_hours": 480,
            "weekly_shift_hours": 10.0833,
            "required_self_education_days": 6
        }
    ]
}`

	var dto templateDTO
	err := json.Unmarshal([]byte(jsonData), &dto)
	require.NoError(t, err)

	tpl := dto.toDomain()
	assert.Equal(t, "0706", tpl.ProgramCode)
	assert.Equal(t, curriculum.TrackModular, tpl.Track)
	assert.Equal(t, 5, tpl.DurationYears)
	require.Len(t, tpl.Modules, 1)

	m := tpl.Modules[0]
	assert.Equal(t, curriculum.KindBasic, m.Kind)
	assert.Equal(t, 24, m.DurationMonths)
	assert.Equal(t, 480.0, m.RequiredShiftHours)
	assert.InDelta(t, 10.0833, m.WeeklyShiftHours, 0.0001)
	assert.Equal(t, 6, m.RequiredSelfEducationDays)

	require.Len(t, m.Procedures, 1)
	assert.Equal(t, "EKG spoczynkowe", m.Procedures[0].Name)
	assert.Equal(t, 200, m.Procedures[0].RequiredAsOperator)
	assert.Equal(t, "i1", m.Procedures[0].InternshipID)

	require.Len(t, m.Courses, 1)
	assert.True(t, m.Courses[0].Mandatory)

	require.Len(t, m.Internships, 1)
	assert.Equal(t, 20, m.Internships[0].RequiredWorkingDays)
}

func TestTemplateDTO_RoundTripThroughCache(t *testing.T) {
	tpl := &curriculum.Template{
		ProgramCode:   "0701",
		ProgramName:   "Choroby wewnętrzne",
		Track:         curriculum.TrackLegacy,
		Version:       "CMKP 2014",
		DurationYears: 5,
		Modules: []curriculum.ModuleTemplate{
			{
				ModuleID:       "mod-1",
				Name:           "Moduł jednolity",
				Kind:           curriculum.KindSpecialist,
				DurationMonths: 60,
				Procedures: []curriculum.ProcedureTemplate{
					{ID: "p1", Code: "33.27", Name: "Bronchoskopia", RequiredAsOperator: 10, RequiredAsAssistant: 5},
				},
				Courses:            []curriculum.CourseTemplate{{ID: "c1", Name: "Kurs", Mandatory: true, DurationDays: 3}},
				Internships:        []curriculum.InternshipTemplate{{ID: "i1", Name: "Staż", RequiredWorkingDays: 15}},
				RequiredShiftHours: 1040,
			},
		},
	}

	// The cache stores the wire representation; a cached read must rebuild
	// an identical domain template.
	raw, err := json.Marshal(fromDomain(tpl))
	require.NoError(t, err)

	var dto templateDTO
	require.NoError(t, json.Unmarshal(raw, &dto))

	assert.Equal(t, tpl, dto.toDomain())
}
