package validate

import (
	"fmt"
	"strings"

	"github.com/jpagaduan/nqeshgen/internal/qbank"
)

// questionPrompt builds the per-question validation prompt. The source
// documents and the validator instruction travel in the cached context;
// only the question under review is sent per request.
func questionPrompt(q qbank.Question, category qbank.Category) string {
	var b strings.Builder

	b.WriteString("You are validating the following test question against the source documents.\n\n")
	fmt.Fprintf(&b, "**Category**: %s\n", category.Name)
	fmt.Fprintf(&b, "**Question ID**: %s\n\n", q.ID)
	fmt.Fprintf(&b, "**Question**: %s\n\n", q.Text)

	b.WriteString("**Options**:\n")
	for i, option := range q.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, option)
	}

	fmt.Fprintf(&b, "\n**Stated Correct Answer**: %s\n\n", q.CorrectOption())
	fmt.Fprintf(&b, "**Explanation**: %s\n\n", q.Explanation)
	fmt.Fprintf(&b, "**Stated Source**: %s\n\n", q.Source)

	b.WriteString(`---

**YOUR VALIDATION TASKS:**

1. **Factual Accuracy**: Search through the provided source documents to verify if this question's content is based on actual information. If you cannot find supporting evidence, note this as a factual error.

2. **Answer Correctness**: Based on the source documents, is the "Stated Correct Answer" actually correct? If not, identify what the correct answer should be.

3. **Explanation Accuracy**: Does the explanation correctly reference and accurately represent information from the source documents? Check for:
   - Correct document citations (e.g., Item numbers, Section numbers)
   - Accurate paraphrasing or quotation
   - No invented or misrepresented information

4. **Options Quality**: Are all four options plausible and distinct?

5. **Source Verification**: Can you find the information in the documents? Which specific document, section, or item number?

**IMPORTANT**:
- Be thorough and precise
- Quote specific sections from source documents
- If you cannot find evidence, clearly state this
- Assign a confidence score (0.0 to 1.0)
- Be critical but fair

Provide your validation assessment in the structured format requested.`)

	return b.String()
}
