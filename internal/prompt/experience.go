package prompt

import (
	"strings"

	"resume-tailor/pkg/models"
)

// RenderExperience renders a record into the fixed experience block
func RenderExperience(rec models.ExperienceRecord) string {
	var b strings.Builder
	b.WriteString("Company: " + rec.Company + "\n")
	b.WriteString("Job Title: " + rec.JobTitle + "\n")
	b.WriteString("Location: " + rec.Location + "\n")
	b.WriteString("Time: " + rec.TimePeriod + "\n")
	b.WriteString("Experience Details:\n")
	b.WriteString(strings.Join(rec.Bullets, "\n"))
	return strings.TrimSpace(b.String())
}
