package analyzer

// BuildCVPrompt returns the scoring prompt for one CV against the job keywords.
func BuildCVPrompt(keywords, cvText string) string {
	return `You are an experienced technical recruiter and applicant tracking system (ATS). Evaluate the resume below against the job keywords and extract the candidate's details.

Job keywords: ` + keywords + `

IMPORTANT INSTRUCTIONS:
- "ATS" is the estimated match between the resume and the job keywords, written as a whole-number percentage such as "78%".
- "Name", "Phone" and "Mail" are the candidate's name, phone number and email address. Use an empty string when one is not present.
- "Edu" lists each education entry (institution, degree and dates) as one string.
- "SKILLS" lists skills grouped by category as two-element arrays: [category, details].
- "EXPERIENCE" lists each position (role, company, dates and a short summary) as one string.

Return ONLY a valid JSON object with no markdown formatting, no code fences and no explanation, using exactly this structure:
{
  "ATS": "",
  "Name": "",
  "Phone": "",
  "Mail": "",
  "Edu": [""],
  "SKILLS": [["", ""]],
  "EXPERIENCE": [""]
}

Resume text:
` + cvText
}
