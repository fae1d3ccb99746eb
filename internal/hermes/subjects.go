package hermes

const (
	SubjectAnalysisRequest  = "utagms.analysis.request"
	SubjectAnalysisWildcard = "utagms.analysis.>"
	SubjectProblemWildcard  = "utagms.problem.>"

	StreamName   = "UTAGMS_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectAnalysisStarted(analysisID string) string {
	return "utagms.analysis." + analysisID + ".started"
}
func SubjectAnalysisCompleted(analysisID string) string {
	return "utagms.analysis." + analysisID + ".completed"
}
func SubjectAnalysisFailed(analysisID string) string {
	return "utagms.analysis." + analysisID + ".failed"
}

func SubjectProblemCreated(problemID string) string { return "utagms.problem." + problemID + ".created" }
func SubjectProblemDeleted(problemID string) string { return "utagms.problem." + problemID + ".deleted" }
