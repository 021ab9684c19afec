package evaluation

import "strconv"

// Rating is a single dimension rating on a 0-3 scale.
type Rating int

// Dimension ratings.
const (
	RatingNone Rating = iota
	RatingPoor
	RatingGood
	RatingExcellent
)

// String returns the numeric rating.
func (r Rating) String() string { return strconv.Itoa(int(r)) }

// Grades derived from the total score.
const (
	GradeExcellent = "Excellent"
	GradeSuccess   = "Success"
	GradePartial   = "Partial"
	GradeFailure   = "Failure"
)

// PassThreshold is the minimum total for a passing session.
const PassThreshold = 6

// MaxTotal is the highest achievable total.
const MaxTotal = 15

// Score is the complete rating of a session.
type Score struct {
	Completeness       Rating `json:"completeness"`
	LintQuality        Rating `json:"lint_quality"`
	CodeQuality        Rating `json:"code_quality"`
	OutputValidity     Rating `json:"output_validity"`
	QuestionEfficiency Rating `json:"question_efficiency"`
}

// Total sums the five dimensions (0-15).
func (s Score) Total() int {
	return int(s.Completeness + s.LintQuality + s.CodeQuality + s.OutputValidity + s.QuestionEfficiency)
}

// Grade maps the total onto a grade name.
func (s Score) Grade() string {
	switch total := s.Total(); {
	case total >= 13:
		return GradeExcellent
	case total >= 10:
		return GradeSuccess
	case total >= PassThreshold:
		return GradePartial
	default:
		return GradeFailure
	}
}

// Passed reports whether the score reaches the CI threshold.
func (s Score) Passed() bool { return s.Total() >= PassThreshold }

// ScoreCompleteness rates whether a package was produced and how many of the
// expected resources it contains.
func ScoreCompleteness(produced bool, missing, total int) Rating {
	switch {
	case !produced:
		return RatingNone
	case missing == 0:
		return RatingExcellent
	case missing < total/2:
		return RatingGood
	default:
		return RatingPoor
	}
}

// ScoreLintQuality rates how many failed lint cycles preceded a pass.
func ScoreLintQuality(cycles int, passed bool) Rating {
	switch {
	case !passed:
		return RatingNone
	case cycles == 0:
		return RatingExcellent
	case cycles <= 2:
		return RatingGood
	default:
		return RatingPoor
	}
}

// ScoreCodeQuality rates syntax validity and the number of pattern issues.
func ScoreCodeQuality(syntaxValid bool, patternIssues int) Rating {
	switch {
	case !syntaxValid:
		return RatingNone
	case patternIssues == 0:
		return RatingExcellent
	case patternIssues <= 2:
		return RatingGood
	default:
		return RatingPoor
	}
}

// ScoreOutputValidity rates the validated build output.
func ScoreOutputValidity(valid bool, errors, warnings int) Rating {
	switch {
	case !valid:
		return RatingNone
	case errors == 0 && warnings == 0:
		return RatingExcellent
	case errors == 0:
		return RatingGood
	default:
		return RatingPoor
	}
}

// ScoreQuestionEfficiency rates the number of clarifying questions asked.
func ScoreQuestionEfficiency(questions, appropriate int) Rating {
	switch {
	case appropriate == 0 && questions == 0:
		return RatingExcellent
	case questions <= 2:
		return RatingGood
	case questions <= 4:
		return RatingPoor
	default:
		return RatingNone
	}
}

// Metrics are the raw observations a Score is computed from.
type Metrics struct {
	ProducedPackage      bool `json:"produced_package"`
	MissingResources     int  `json:"missing_resources"`
	TotalResources       int  `json:"total_resources"`
	LintCycles           int  `json:"lint_cycles"`
	LintPassed           bool `json:"lint_passed"`
	SyntaxValid          bool `json:"syntax_valid"`
	PatternIssues        int  `json:"pattern_issues"`
	OutputValid          bool `json:"output_valid"`
	ValidationErrors     int  `json:"validation_errors"`
	ValidationWarnings   int  `json:"validation_warnings"`
	QuestionsAsked       int  `json:"questions_asked"`
	AppropriateQuestions int  `json:"appropriate_questions"`
}

// Calculate composes the five dimension ratings.
func Calculate(m Metrics) Score {
	return Score{
		Completeness:       ScoreCompleteness(m.ProducedPackage, m.MissingResources, m.TotalResources),
		LintQuality:        ScoreLintQuality(m.LintCycles, m.LintPassed),
		CodeQuality:        ScoreCodeQuality(m.SyntaxValid, m.PatternIssues),
		OutputValidity:     ScoreOutputValidity(m.OutputValid, m.ValidationErrors, m.ValidationWarnings),
		QuestionEfficiency: ScoreQuestionEfficiency(m.QuestionsAsked, m.AppropriateQuestions),
	}
}
