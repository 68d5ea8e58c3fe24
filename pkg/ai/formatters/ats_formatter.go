package formatters

import "fmt"

const (
	ATSSystemPrompt = "You are an intelligent ATS evaluator."
	ATSTemperature  = 0.2
	ATSMaxTokens    = 800
)

func ATSPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`Compare the following resume and job description and respond only in valid JSON format.
{
  "score": number (0-100),
  "missing_keywords": ["keyword1", "keyword2"],
  "suggested_improvements": ["improvement1", "improvement2"]
}

Resume:
%s

Job Description:
%s
`, resumeText, jobDescription)
}
