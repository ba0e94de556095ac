package main

import (
	"encoding/json"
	"io"

	"jenkinsrun/internal/jobrun"
)

// presentOutput is printed when the run only had to launch the build
type presentOutput struct {
	Changed bool              `json:"changed"`
	Meta    map[string]string `json:"meta"`
	Token   string            `json:"token"`
}

// failureOutput is printed for every failed run
type failureOutput struct {
	Failed bool   `json:"failed"`
	Msg    string `json:"msg"`
}

// writeResult prints the outcome of a run to w. Failures are reported on w and
// turned into exit code 1.
func writeResult(w io.Writer, desired jobrun.DesiredState, result *jobrun.Result, runErr error) error {
	if runErr != nil {
		return writeFailure(w, runErr.Error())
	}

	if desired == jobrun.Present {
		headers := map[string]string{}
		if result.Launch != nil && result.Launch.Headers != nil {
			headers = result.Launch.Headers
		}
		return writeJSON(w, presentOutput{Changed: false, Meta: headers, Token: result.Token})
	}

	if !result.Success {
		return writeFailure(w, result.Message())
	}

	if len(result.Build.Raw) > 0 {
		if _, err := w.Write(append(result.Build.Raw, '\n')); err != nil {
			return err
		}
		return nil
	}
	return writeJSON(w, result.Build)
}

func writeFailure(w io.Writer, msg string) error {
	if err := writeJSON(w, failureOutput{Failed: true, Msg: msg}); err != nil {
		return err
	}
	return &exitError{code: 1}
}

func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
