package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-tailor/internal/config"
	"resume-tailor/pkg/models"
	"resume-tailor/pkg/utils"
)

func validRequest() models.TailoringRequest {
	return models.TailoringRequest{
		ResumeText:      "JANE DOE\nEXPERIENCE\nAcme Corp, Engineer 2019-2024",
		JobPostingText:  "Senior Engineer\nWe need Go and Kubernetes.",
		ExperienceBlock: "Company: Initech\nJob Title: Staff Engineer\nLocation: Remote\nTime: 2024-Present\nExperience Details:\nLed platform migration",
	}
}

func TestRenderExperience(t *testing.T) {
	rec := models.ExperienceRecord{
		Company:    "Initech",
		JobTitle:   "Staff Engineer",
		Location:   "Remote",
		TimePeriod: "2024 - Present",
		Bullets:    []string{"Led platform migration", "Cut infra cost 30%"},
	}

	want := "Company: Initech\nJob Title: Staff Engineer\nLocation: Remote\nTime: 2024 - Present\nExperience Details:\nLed platform migration\nCut infra cost 30%"
	assert.Equal(t, want, RenderExperience(rec))
}

func TestRenderExperience_ZeroValue(t *testing.T) {
	assert.Equal(t, "Company: \nJob Title: \nLocation: \nTime: \nExperience Details:", RenderExperience(models.ExperienceRecord{}))
}

func TestCompose_EmbedsInputsAndConstraints(t *testing.T) {
	composer := NewComposer(config.Default())
	req := validRequest()

	out, err := composer.Compose(req)
	require.NoError(t, err)

	for _, fragment := range []string{
		req.ResumeText,
		req.JobPostingText,
		req.ExperienceBlock,
		"SINGLE PAGE",
		"<h1>, <h2>, <h3>, <p>, <ul>, <li>",
		"No tables, no columns, no images",
		"line-height 1.1 or lower",
		"FIRST entry of the work experience section",
		"Exactly 3 top-level bullets",
		"KEEP every one of its top-level bullet headers",
		"most recent first",
		"self-contained",
		"no preamble",
		"no refusals",
	} {
		assert.Contains(t, out, fragment)
	}
}

func TestCompose_Deterministic(t *testing.T) {
	composer := NewComposer(config.Default())
	first, err := composer.Compose(validRequest())
	require.NoError(t, err)
	second, err := composer.Compose(validRequest())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompose_Profile(t *testing.T) {
	composer := NewComposerWithProfile(Profile{
		BulletCount:     4,
		ReferenceEntry:  "Acme Corp",
		TrimmableEntry:  "Globex",
		NewEntryHeading: "Staff Engineer, Initech, Remote",
	})

	out, err := composer.Compose(validRequest())
	require.NoError(t, err)
	assert.Contains(t, out, `Format it exactly like the existing "Acme Corp" entry`)
	assert.Contains(t, out, `In the "Globex" entry you may remove sub-bullets`)
	assert.Contains(t, out, `the title line "Staff Engineer, Initech, Remote"`)
	assert.Contains(t, out, "Exactly 4 top-level bullets")
}

func TestCompose_RejectsBlankFields(t *testing.T) {
	composer := NewComposer(config.Default())

	tests := []struct {
		name   string
		mutate func(*models.TailoringRequest)
	}{
		{name: "resume", mutate: func(r *models.TailoringRequest) { r.ResumeText = "" }},
		{name: "job posting", mutate: func(r *models.TailoringRequest) { r.JobPostingText = "  \n" }},
		{name: "experience", mutate: func(r *models.TailoringRequest) { r.ExperienceBlock = "\t" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			out, err := composer.Compose(req)
			assert.ErrorIs(t, err, utils.ErrValidation)
			assert.Empty(t, out)
		})
	}
}
