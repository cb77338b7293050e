package content

import (
	"github.com/jonathan/interview-simulator/internal/types"
)

// Warnings shown when a fallback replaces generated content.
var fallbackWarnings = map[Kind]string{
	KindMCQ:           "Failed to load questions. Using sample questions instead.",
	KindCodingProblem: "Failed to generate problem. Using a default problem instead.",
	KindSystemDesign:  "Failed to load question. Using a default question instead.",
	KindHRQuestions:   "Failed to generate HR questions. Using default questions instead.",
	KindCodeEval:      "Failed to review your solution. Showing a placeholder review instead.",
	KindDesignEval:    "Failed to review your design. Showing a placeholder review instead.",
	KindFullFeedback:  "Failed to generate your feedback report. Showing a sample report instead.",
}

// RetryFailedWarning is shown when a retry fails and the earlier content is kept.
const RetryFailedWarning = "Failed to generate new content. Keeping the current content."

// FallbackWarning returns the notice shown when kind falls back.
func FallbackWarning(kind Kind) string {
	if w, ok := fallbackWarnings[kind]; ok {
		return w
	}
	return "Using default content."
}

// SystemDesignFallback is the question used when generation fails.
const SystemDesignFallback = "Design a scalable, highly available e-commerce platform that can handle millions of users, product listings, and transactions. Focus on the system architecture, data storage, and how you would handle peak traffic during sales events."

// Fallback returns the static payload for kind. The result is freshly built on
// every call and is identical across calls for the same kind and setup.
func Fallback(kind Kind, c Context) *Content {
	out := &Content{Kind: kind}
	switch kind {
	case KindMCQ:
		out.MCQ = fallbackMCQ()
	case KindCodingProblem:
		if c.Setup.IsTechnicalRole() {
			out.Problem = fallbackTechnicalProblem()
		} else {
			out.Problem = fallbackCaseStudy()
		}
	case KindSystemDesign:
		out.Question = SystemDesignFallback
	case KindHRQuestions:
		out.HRQuestions = fallbackHRQuestions()
	case KindCodeEval:
		out.CodeEval = &types.CodeEvaluation{
			Score:        0,
			Correctness:  "Automatic review is unavailable right now. Your solution has been saved and will be reviewed in the final report.",
			Performance:  "Not reviewed.",
			Style:        "Not reviewed.",
			Improvements: []string{},
		}
	case KindDesignEval:
		out.DesignEval = &types.DesignEvaluation{
			Score:    0,
			Feedback: "Automatic review is unavailable right now. Your answer has been saved and will be reviewed in the final report.",
		}
	case KindFullFeedback:
		out.Report = FallbackReport()
	}
	return out
}

func fallbackMCQ() []types.MCQQuestion {
	return []types.MCQQuestion{
		{
			ID:       1,
			Question: "What is the primary purpose of React's virtual DOM?",
			Options: []string{
				"To speed up CSS animations",
				"To minimize direct manipulation of the real DOM for performance",
				"To enable server-side rendering",
				"To provide better SEO optimization",
			},
			CorrectAnswer: 1,
		},
		{
			ID:            2,
			Question:      "Which of the following is NOT a React Hook?",
			Options:       []string{"useState", "useEffect", "useDispatch", "useHistory"},
			CorrectAnswer: 3,
		},
		{
			ID:       3,
			Question: "What is the correct way to pass a prop called 'name' to a component?",
			Options: []string{
				"<Component name='John' />",
				"<Component props.name='John' />",
				"<Component props={name: 'John'} />",
				"<Component {name='John'} />",
			},
			CorrectAnswer: 0,
		},
		{
			ID:       4,
			Question: "What does the useEffect Hook do in React?",
			Options: []string{
				"It only runs once when the component mounts",
				"It allows you to perform side effects in function components",
				"It replaces the componentDidMount lifecycle method only",
				"It is used exclusively for API calls",
			},
			CorrectAnswer: 1,
		},
		{
			ID:       5,
			Question: "What is the purpose of keys in React lists?",
			Options: []string{
				"To style list items differently",
				"To help React identify which items have changed, are added, or removed",
				"To create references to list items",
				"Keys are optional and have no specific purpose",
			},
			CorrectAnswer: 1,
		},
	}
}

func fallbackTechnicalProblem() *types.CodingProblem {
	return &types.CodingProblem{
		Title:       "Find Missing Number",
		Description: "Implement a function that takes an array of n-1 integers in the range [1, n] and returns the missing number from the sequence.",
		Examples: []string{
			"Input: [1, 2, 4, 6, 3, 7, 8], Output: 5",
			"Input: [1, 2, 3, 5], Output: 4",
		},
		Constraints: []string{
			"The array contains n-1 distinct integers in the range [1, n]",
			"The missing number is unique",
		},
		Complexity: "Expected time complexity is O(n) and space complexity is O(1)",
	}
}

func fallbackCaseStudy() *types.CodingProblem {
	return &types.CodingProblem{
		Title:       "Marketing Campaign Strategy",
		Description: "A mid-size company wants to increase its market share by 15% in the next year. With limited budget, design a marketing strategy that maximizes ROI.",
		Examples: []string{
			"Consider digital marketing, traditional advertising, and partnership opportunities",
			"Include budget allocation recommendations",
		},
		Constraints: []string{
			"Total marketing budget: $200,000",
			"Timeline: 12 months",
			"Must include performance metrics",
		},
		Complexity: "Include implementation timeline and success criteria",
	}
}

func fallbackHRQuestions() []string {
	return []string{
		"Tell me about yourself and your background.",
		"Why are you interested in working for our company?",
		"Where do you see yourself in 5 years?",
		"What is your greatest professional achievement?",
		"How do you handle stressful situations or tight deadlines?",
		"Describe a situation where you had to lead a team through a difficult project.",
		"How have you handled disagreements with team members or managers?",
		"What projects have you worked on that you're most proud of?",
		"How do you stay updated with the latest technologies?",
		"What are you looking for in your next role?",
	}
}

// FallbackReport is the sample report persisted when the provider cannot produce one.
func FallbackReport() *types.FeedbackReport {
	return &types.FeedbackReport{
		Overall:      "Your performance was strong across all interview rounds. You demonstrated solid technical knowledge and problem-solving abilities.",
		MCQ:          "You answered 7/10 MCQ questions correctly. Your understanding of core concepts is good, but consider reviewing asynchronous JavaScript concepts.",
		Coding:       "Your solution was efficient and well-structured. The time complexity analysis was spot on. Consider adding more comments to improve readability.",
		SystemDesign: "Your system design demonstrated good understanding of scalability concerns. The database schema was well thought out, but the caching strategy could be improved.",
		HR:           "Your responses to HR questions were authentic and reflected good communication skills. For behavioral questions, try using the STAR method more consistently.",
		Scores: types.Scores{
			MCQ:          70,
			Coding:       85,
			SystemDesign: 78,
			HR:           90,
			Overall:      81,
		},
		Strengths: []string{
			"Strong problem-solving skills",
			"Good communication and articulation",
			"Solid understanding of core technical concepts",
		},
		Weaknesses: []string{
			"Some gaps in advanced technical knowledge",
			"Caching strategies in system design could be improved",
			"Code documentation could be more thorough",
		},
		Recommendations: []string{
			"Review asynchronous JavaScript concepts",
			"Practice more system design problems with focus on scalability",
			"Improve code documentation habits",
		},
		Source: types.ReportFromFallback,
	}
}
