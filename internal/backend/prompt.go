// Package backend talks to an OpenAI-compatible chat completions API
// and turns its responses into candidate grading results.
package backend

import (
	"fmt"
	"strings"

	"github.com/huangsam/gradekit/schema"
)

// systemPrompt pins the model into a strict, reproducible grading role.
const systemPrompt = `You are a STRICT academic grader. You are an AI with NO emotions, NO favorites, and NO leniency.

ABSOLUTE RULES - VIOLATION IS FORBIDDEN:
1. Grade EXACTLY according to the rubric. Do not interpret. Do not assume. Do not infer.
2. If a criterion requirement is not explicitly met in the answer, deduct points. No benefit of the doubt.
3. Two identical answers MUST receive IDENTICAL scores. Your grading must be perfectly reproducible.
4. You have NO knowledge of who wrote this answer. You cannot favor or disfavor anyone.
5. Writing style, politeness, formatting, or presentation do NOT affect scores unless the rubric explicitly mentions them.
6. Spelling and grammar do NOT affect scores unless the rubric explicitly scores them.

OUTPUT RULES:
- For each criterion, you MUST provide a specific quote from the student's answer as evidence.
- If deducting points, you MUST cite the exact rubric requirement that was not met.
- Your output MUST be valid JSON matching the exact format specified.
- Do not add any text before or after the JSON.`

// SystemPrompt returns the system message for grading requests.
func SystemPrompt() string {
	return systemPrompt
}

// BuildGradingPrompt renders the user message for one grading pass. The
// rubric, the student answer and the expected JSON shape are all inlined
// so the model has no reason to look anywhere else.
func BuildGradingPrompt(r *schema.Rubric, answer string, strictness schema.Strictness) string {
	var b strings.Builder

	b.WriteString("GRADING TASK\n\n")
	b.WriteString(formatRubric(r, strictness))
	b.WriteString("\nSTUDENT ANSWER:\n---BEGIN ANSWER---\n")
	b.WriteString(answer)
	b.WriteString("\n---END ANSWER---\n\n")
	b.WriteString(`INSTRUCTIONS:
1. Evaluate the answer against EACH criterion independently.
2. For each criterion, determine points awarded (0 to max_points).
3. Provide specific evidence from the answer for your scoring decision.
4. If any points are deducted, explain exactly which rubric requirement was not met.
5. Calculate the total score by summing all criterion scores.
6. Provide brief, constructive overall feedback.

OUTPUT FORMAT (respond with ONLY this JSON, no other text):
`)
	fmt.Fprintf(&b, `{
  "total_score": <number>,
  "max_possible": %s,
  "criteria_results": [
    {
      "criterion": "<exact criterion name from rubric>",
      "max_points": <number from rubric>,
      "awarded_points": <number between 0 and max_points>,
      "justification": "<specific quote or evidence from answer>",
      "deduction_reason": "<null if full points, otherwise specific rubric requirement not met>"
    }
  ],
  "overall_feedback": "<constructive feedback for improvement>"
}`, formatPoints(r.TotalPoints()))

	return b.String()
}

func formatRubric(r *schema.Rubric, strictness schema.Strictness) string {
	var b strings.Builder

	fmt.Fprintf(&b, "RUBRIC: %s\n", r.Title)
	fmt.Fprintf(&b, "Total Possible Points: %s\n\n", formatPoints(r.TotalPoints()))

	if strictness == schema.HardFailStrictness {
		b.WriteString("MODE: HARD FAIL - If any part of a criterion is not fully met, " +
			"award ZERO points for that criterion. No partial credit.\n")
	} else {
		b.WriteString("MODE: PROPORTIONAL - Award partial credit based on how well " +
			"the criterion is met. Be precise but fair.\n")
	}

	b.WriteString("\nCRITERIA:\n")
	for i, c := range r.Criteria {
		fmt.Fprintf(&b, "%d. %s (%s points)\n", i+1, c.Name, formatPoints(c.MaxPoints))
		fmt.Fprintf(&b, "   Description: %s\n\n", c.Description)
	}

	return b.String()
}

// formatPoints prints a point value without trailing zeros so the prompt
// reads "30" rather than "30.000000".
func formatPoints(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
