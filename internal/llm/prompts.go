package llm

// Fixed instructions for the analysis and keyword stages. Each is combined
// with the extracted resume text as context in a single Ask call.
const (
	PromptSummary = "Summarize the following resume text in bullet points highlighting skills, education, experience:"

	PromptSkillsGap = "Based on the following resume summary, identify any potential skills gaps for a software engineering role and suggest ways to address them:"

	PromptFutureRoadmap = "Based on the following resume summary, suggest a future roadmap for career growth in software engineering:"

	PromptJobKeywords = "Extract 2-3 broad job keywords from this resume for job search (e.g., 'Software Engineer', 'Python Developer'). Return ONLY comma-separated keywords, no explanation:"
)
