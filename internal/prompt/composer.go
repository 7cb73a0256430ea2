// Package prompt builds the instruction document sent to the generative model.
package prompt

import (
	"fmt"
	"strings"

	"resume-tailor/internal/config"
	"resume-tailor/pkg/models"
	"resume-tailor/pkg/utils"
)

// Profile names the resume entries the instructions refer to
type Profile struct {
	// BulletCount is the number of top-level bullets of the new entry
	BulletCount int
	// ReferenceEntry is the existing entry whose formatting the new entry copies
	ReferenceEntry string
	// TrimmableEntry is the existing entry whose sub-bullets may be cut for space
	TrimmableEntry string
	// NewEntryHeading is the title line of the new entry, when fixed in advance
	NewEntryHeading string
}

// Composer assembles instruction documents. It performs no I/O.
type Composer struct {
	profile Profile
}

// NewComposer creates a composer from the tailoring configuration
func NewComposer(cfg *config.Config) *Composer {
	return NewComposerWithProfile(Profile{
		BulletCount:     cfg.Tailoring.BulletCount,
		ReferenceEntry:  cfg.Tailoring.ReferenceEntry,
		TrimmableEntry:  cfg.Tailoring.TrimmableEntry,
		NewEntryHeading: cfg.Tailoring.NewEntryHeading,
	})
}

// NewComposerWithProfile creates a composer for an explicit profile
func NewComposerWithProfile(profile Profile) *Composer {
	if profile.BulletCount <= 0 {
		profile.BulletCount = 3
	}
	return &Composer{profile: profile}
}

// Validate reports a validation error naming the first blank field
func Validate(req models.TailoringRequest) error {
	switch {
	case utils.IsBlank(req.ResumeText):
		return utils.NewValidationError("resume text is required")
	case utils.IsBlank(req.JobPostingText):
		return utils.NewValidationError("job posting is required")
	case utils.IsBlank(req.ExperienceBlock):
		return utils.NewValidationError("current experiences are required")
	}
	return nil
}

// Compose returns the instruction document for req
func (c *Composer) Compose(req models.TailoringRequest) (string, error) {
	if err := Validate(req); err != nil {
		return "", err
	}

	p := c.profile
	reference := "the most detailed existing work-history entry"
	if p.ReferenceEntry != "" {
		reference = fmt.Sprintf("the existing %q entry", p.ReferenceEntry)
	}
	trimmable := "the oldest long-form work-history entry"
	if p.TrimmableEntry != "" {
		trimmable = fmt.Sprintf("the %q entry", p.TrimmableEntry)
	}
	heading := "a title line built from the company, job title and location in the experience block, with the dates aligned right"
	if p.NewEntryHeading != "" {
		heading = fmt.Sprintf("the title line %q with the dates aligned right", p.NewEntryHeading)
	}

	var b strings.Builder

	b.WriteString(`You are a professional resume writer and ATS (Applicant Tracking System) optimization expert.

Your task is to tailor the provided resume to match the job posting, while ensuring it passes ATS screening and fits on a single page.

STYLING & FORMATTING:
1. The output resume MUST fit on a SINGLE PAGE when printed as PDF.
2. Analyze the original resume's visual structure: spacing between entries, margins and padding, bullet formatting, spacing between sections, font sizes, bold and underline patterns, name and contact block, section header style, job title lines with right-aligned dates, main bullet and sub-bullet indentation.
3. Replicate that formatting exactly:
   - Mirror the original's density: minimal margins, minimal padding, line-height 1.1 or lower.
   - Do NOT introduce whitespace the original does not have.
   - Keep the same visual hierarchy, bolding and underlining.
`)

	fmt.Fprintf(&b, `
NEW EXPERIENCE ENTRY:
1. Build one new entry from the CURRENT EXPERIENCES block below.
2. Insert it as the FIRST entry of the work experience section, before every existing role.
3. Format it exactly like %s:
   - Title line: %s.
   - One descriptive line directly below the title line.
   - Exactly %d top-level bullets, each optionally followed by sub-bullets.
   - Match indentation, spacing and bolding of the reference entry.
4. Use the current experiences to write these bullets and work in the job posting's keywords naturally.

EXISTING ENTRIES:
1. Keep every existing entry in its original relative order, most recent first.
2. In %s you may remove sub-bullets that do not match the job posting's core requirements, but KEEP every one of its top-level bullet headers.
3. Remove only as much as needed to make room for the new entry; keep the most relevant details.
4. Keep education and skills complete but concise, and include job posting keywords where they genuinely apply.
`, reference, heading, p.BulletCount, trimmable)

	b.WriteString(`
OUTPUT REQUIREMENTS:
- Produce HTML using only semantic structural tags: <h1>, <h2>, <h3>, <p>, <ul>, <li>, <strong>, <em>, <u>.
- No tables, no columns, no images or graphics, no headers or footers.
- All styling inline. The document must be self-contained: no external stylesheets, fonts, scripts or links to resources.
- Maintain chronological order for work experience (most recent first).
- ONE PAGE CONSTRAINT: if content would exceed one page, condense sub-bullets and shorten descriptions rather than adding space.
- Output the document itself and nothing else: no preamble, no explanation, no follow-up questions, no requests for confirmation, no refusals.

ORIGINAL RESUME:
`)
	b.WriteString(req.ResumeText)
	b.WriteString("\n\nJOB POSTING:\n")
	b.WriteString(req.JobPostingText)
	b.WriteString("\n\nCURRENT EXPERIENCES TO INCORPORATE (USE FOR THE NEW ENTRY):\n")
	b.WriteString(req.ExperienceBlock)
	b.WriteString(`

Produce the complete tailored resume as HTML that looks identical in style to the original resume. Do NOT ask clarifying questions. Begin the response with the HTML document.`)

	return b.String(), nil
}
