package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spigell/blacktable/internal/failure"
)

// printJSON writes v to out as indented JSON. Logs stay on stderr.
func printJSON(out io.Writer, v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(out, string(pretty))
	return err
}

// readText returns the content of path, or stdin when path is "-".
func readText(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", failure.Wrap(failure.FileNotFound, err, "read %s", path)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", failure.New(failure.InvalidInput, "%s is empty", path)
	}
	return text, nil
}
