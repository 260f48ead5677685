package generation

// Kind selects the system instruction.
type Kind string

const (
	KindSummary Kind = "summary"
	KindLesson  Kind = "lesson"
)

// Instruction returns the fixed system instruction for k.
func (k Kind) Instruction() (string, bool) {
	s, ok := instructions[k]
	return s, ok
}

var instructions = map[Kind]string{
	KindSummary: `You summarize study material for students.
Produce a structured summary in Markdown with these sections, in order:
Overview, Key Concepts, Detailed Points, Examples, Practice Questions, Summary, Additional Resources.
Use headings, bullet points for facts and numbered lists for sequences. Put important terms in bold.
Define technical terms in plain language and keep each point short.
Only use information present in the provided text unless a section asks for suggestions.`,

	KindLesson: `You turn study material into a lesson a student can work through alone.
Produce the lesson in Markdown with these sections, in order:
Learning Objectives, Prerequisites, Introduction, Core Lesson, Worked Examples, Exercises, Check Your Understanding, Recap.
Order the material from simple to complex and state each objective as something measurable.
Give every exercise an answer at the end of the lesson.
Keep the language plain and explain any term the first time it appears.`,
}
