package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/boyarskiy/xctriage/internal/logtext"
	"github.com/boyarskiy/xctriage/internal/model"
	"github.com/boyarskiy/xctriage/internal/report"
)

// inputError describes rejected input along with a remediation hint.
type inputError struct {
	Path    string
	Message string
	Action  string
}

func (e *inputError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// failure converts the error into the tagged form the formatter takes.
func (e *inputError) failure() model.Failure {
	return model.Failure{
		Kind:    model.ValidationFailure,
		Message: e.Error(),
		Action:  e.Action,
	}
}

// readLog reads the log from the file named by args, or stdin when no
// argument (or "-") is given. Oversized and empty inputs are rejected
// here, before any parsing happens.
func readLog(args []string) (string, error) {
	path := ""
	if len(args) > 0 && args[0] != "-" {
		path = args[0]
	}

	var buf string
	var err error
	if path == "" {
		buf, err = logtext.ReadAllBounded(os.Stdin, logtext.MaxLogBytes)
		if err != nil {
			return "", &inputError{
				Message: err.Error(),
				Action:  "Pipe the captured build or test log to stdin, or pass a log file path.",
			}
		}
	} else {
		f, openErr := os.Open(path)
		if openErr != nil {
			return "", &inputError{
				Path:    path,
				Message: openErr.Error(),
				Action:  "Check that the log file path is correct and readable.",
			}
		}
		defer f.Close()
		buf, err = logtext.ReadAllBounded(f, logtext.MaxLogBytes)
		if err != nil {
			return "", &inputError{
				Path:    path,
				Message: err.Error(),
				Action:  "Logs above 10 MB are rejected; trim the capture before triaging.",
			}
		}
	}

	if strings.TrimSpace(buf) == "" {
		return "", &inputError{
			Path:    path,
			Message: "log is empty",
			Action:  "Capture combined stdout and stderr of the toolchain invocation.",
		}
	}
	return buf, nil
}

// renderToolError prints a tool error through the tagged-failure
// renderer so validation problems keep their remediation hint.
func renderToolError(err error) {
	var f model.Failure
	if ie, ok := err.(*inputError); ok {
		f = ie.failure()
	} else {
		f = model.Failure{Kind: model.GenericFailure, Message: err.Error()}
	}
	report.RenderFailure(os.Stderr, f, report.Options{})
}
