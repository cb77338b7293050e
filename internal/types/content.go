package types

import (
	"regexp"
	"strings"
)

// MCQQuestion is one generated multiple-choice question.
type MCQQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
}

// CodingProblem is the generated coding problem or, for non-technical roles, case study.
type CodingProblem struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Examples    []string `json:"examples"`
	Constraints []string `json:"constraints"`
	Complexity  string   `json:"complexity"`
}

// CodeEvaluation is the provider's review of a coding submission.
type CodeEvaluation struct {
	Score        Score    `json:"score"`
	Correctness  string   `json:"correctness"`
	Performance  string   `json:"performance"`
	Style        string   `json:"style"`
	Improvements []string `json:"improvements"`
}

// DesignEvaluation is the provider's review of a system design answer.
type DesignEvaluation struct {
	Score    Score  `json:"score"`
	Feedback string `json:"feedback"`
}

// Languages accepted by the coding round editor.
var Languages = []string{"javascript", "python", "java", "cpp"}

// DefaultLanguage is the editor language used when none was chosen.
const DefaultLanguage = "javascript"

// CaseStudyStarter is the editor content for non-technical roles.
const CaseStudyStarter = "// Write your answer here\n\n"

var nonWord = regexp.MustCompile(`[^\w\s]`)
var whitespace = regexp.MustCompile(`\s+`)

// StarterCode returns the editor template for a language, naming the function after the problem.
func StarterCode(language, problemTitle string) string {
	fn := strings.ToLower(problemTitle)
	fn = nonWord.ReplaceAllString(fn, "")
	fn = whitespace.ReplaceAllString(fn, "")

	switch language {
	case "javascript":
		return "// Write your solution in JavaScript\n" +
			"function " + fn + "(arr) {\n" +
			"  // Your code here\n" +
			"}\n\n" +
			"// Test your solution\n" +
			"const result = " + fn + "([1, 2, 4, 6, 3, 7, 8]);\n" +
			"console.log(result);\n"
	case "python":
		return "# Write your solution in Python\n" +
			"def " + fn + "(arr):\n" +
			"    # Your code here\n" +
			"    pass\n\n" +
			"# Test your solution\n" +
			"result = " + fn + "([1, 2, 4, 6, 3, 7, 8])\n" +
			"print(result)\n"
	case "java":
		return "// Write your solution in Java\n" +
			"public class Solution {\n" +
			"    public static int " + fn + "(int[] arr) {\n" +
			"        // Your code here\n" +
			"        return 0;\n" +
			"    }\n\n" +
			"    public static void main(String[] args) {\n" +
			"        int[] input = {1, 2, 4, 6, 3, 7, 8};\n" +
			"        System.out.println(" + fn + "(input));\n" +
			"    }\n" +
			"}\n"
	case "cpp":
		return "// Write your solution in C++\n" +
			"#include <iostream>\n" +
			"#include <vector>\n\n" +
			"int " + fn + "(std::vector<int>& arr) {\n" +
			"    // Your code here\n" +
			"    return 0;\n" +
			"}\n\n" +
			"int main() {\n" +
			"    std::vector<int> input = {1, 2, 4, 6, 3, 7, 8};\n" +
			"    std::cout << " + fn + "(input) << std::endl;\n" +
			"    return 0;\n" +
			"}\n"
	default:
		return "// Write your code here"
	}
}

// IsUntouchedTemplate reports whether code is still one of the generated starters.
func IsUntouchedTemplate(code, language, problemTitle string) bool {
	return code == StarterCode(language, problemTitle) || code == CaseStudyStarter
}
