package main

import (
	"fmt"
	"os"
	"strings"

	yaml "gopkg.in/yaml.v3"

	"jenkinsrun/internal/engine"
)

// parseParamFlags turns name=value flag values into parameters, keeping order
func parseParamFlags(values []string) ([]engine.Parameter, error) {
	params := make([]engine.Parameter, 0, len(values))
	for _, v := range values {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid parameter %q (expected name=value)", v)
		}
		params = append(params, engine.Parameter{Name: name, Value: value})
	}
	return params, nil
}

// readParamsFile reads a YAML list of {name, value} parameters
func readParamsFile(path string) ([]engine.Parameter, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Trusted file path input
	if err != nil {
		return nil, err
	}

	var params []engine.Parameter
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	for i, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("failed to parse %s: parameter %d has no name", path, i+1)
		}
	}
	return params, nil
}

// collectParams gathers flag parameters followed by file parameters
func collectParams(values []string, path string) ([]engine.Parameter, error) {
	params, err := parseParamFlags(values)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return params, nil
	}

	fileParams, err := readParamsFile(path)
	if err != nil {
		return nil, err
	}
	return append(params, fileParams...), nil
}
