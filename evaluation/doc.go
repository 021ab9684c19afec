// Package evaluation scores a Developer/Runner session on five dimensions,
// each rated 0-3, for an overall score of 0-15:
//
//	| Dimension           | 0                 | 1               | 2                   | 3                    |
//	|---------------------|-------------------|-----------------|---------------------|----------------------|
//	| Completeness        | Failed to produce | Missing         | Most resources      | All resources        |
//	| Lint Quality        | Never passed      | Passed after 3+ | Passed after 1-2    | Passed first try     |
//	| Code Quality        | Invalid syntax    | Poor patterns   | Good patterns       | Idiomatic            |
//	| Output Validity     | Invalid           | Valid w/ errors | Valid with warnings | Clean                |
//	| Question Efficiency | 5+ questions      | 3-4 questions   | 1-2 questions       | 0 (when appropriate) |
//
// Totals map to grades: 0-5 Failure, 6-9 Partial, 10-12 Success, 13-15 Excellent.
// A session passes CI when the total is at least PassThreshold.
package evaluation
