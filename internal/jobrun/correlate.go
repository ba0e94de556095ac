package jobrun

import "jenkinsrun/internal/engine"

// FindByToken returns the first build, in the order given, with a cause whose
// note equals token exactly. It returns nil when no build matches.
func FindByToken(builds []engine.BuildSummary, token string) *engine.BuildSummary {
	for i := range builds {
		if hasCauseNote(builds[i], token) {
			return &builds[i]
		}
	}
	return nil
}

func hasCauseNote(build engine.BuildSummary, token string) bool {
	for _, cause := range build.Causes {
		if cause.Note != nil && *cause.Note == token {
			return true
		}
	}
	return false
}
