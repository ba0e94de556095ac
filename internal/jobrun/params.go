package jobrun

import (
	"jenkinsrun/internal/engine"
	"jenkinsrun/internal/logger"
)

// reservedParams carry the correlation token and the remote trigger token
var reservedParams = map[string]bool{
	"cause": true,
	"token": true,
}

// PrepareParams turns an ordered parameter list into the form values of a
// launch. When a name repeats, the first occurrence wins. Reserved names are
// dropped.
func PrepareParams(params []engine.Parameter) map[string]string {
	prepared := make(map[string]string, len(params))
	for _, p := range params {
		if reservedParams[p.Name] {
			logger.Warn("Ignoring reserved build parameter", "name", p.Name)
			continue
		}
		if _, seen := prepared[p.Name]; seen {
			continue
		}
		prepared[p.Name] = p.Value
	}
	return prepared
}
