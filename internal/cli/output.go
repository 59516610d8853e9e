package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	// Out and Err default to the process streams
	Out io.Writer
	Err io.Writer
}

func (f *OutputFormatter) stdout() io.Writer {
	if f.Out != nil {
		return f.Out
	}
	return os.Stdout
}

func (f *OutputFormatter) stderr() io.Writer {
	if f.Err != nil {
		return f.Err
	}
	return os.Stderr
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Quiet {
		// Extract ID if possible
		if idGetter, ok := data.(interface{ GetID() int }); ok {
			_, err := fmt.Fprintf(f.stdout(), "%d\n", idGetter.GetID())
			return err
		}
	}

	if f.JSON {
		return json.NewEncoder(f.stdout()).Encode(map[string]interface{}{
			"success": true,
			"data":    data,
		})
	}

	// Human-readable format
	return f.prettyPrint(data)
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]interface{}{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.stdout()).Encode(map[string]interface{}{
			"success": false,
			"error":   errData,
		})
	}

	// Human-readable error
	if _, err := fmt.Fprintf(f.stderr(), "❌ Error: %s\n", message); err != nil {
		return err
	}
	if suggestion != "" {
		if _, err := fmt.Fprintf(f.stderr(), "💡 Suggestion: %s\n", suggestion); err != nil {
			return err
		}
	}
	return nil
}

// Fail reports err and returns it tagged with its exit code, ready to be
// returned from a RunE
func (f *OutputFormatter) Fail(err error, suggestion string) error {
	if fmtErr := f.ErrorWithSuggestion(errorCode(err), err.Error(), suggestion); fmtErr != nil {
		fmt.Fprintf(os.Stderr, "Error formatting error message: %v\n", fmtErr)
	}
	return Exit(ExitCode(err), err)
}

// Printf writes human-readable output; JSON and quiet modes suppress it
func (f *OutputFormatter) Printf(format string, args ...any) {
	if f.JSON || f.Quiet {
		return
	}
	fmt.Fprintf(f.stdout(), format, args...)
}

// prettyPrint formats data for human-readable output
func (f *OutputFormatter) prettyPrint(data interface{}) error {
	_, err := fmt.Fprintf(f.stdout(), "%+v\n", data)
	return err
}
