package driver

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scriptsDebug = false

// Expectation is the outcome a script declares in its leading comment.
type Expectation struct {
	ResultType string // "type" or "error"
	Value      string // type string or diagnostic kind
}

var expectRegex = regexp.MustCompile(`^//\s*(expect(?:_error)?):\s*(.*)`)

// parseExpectation reads the first line of the form
//
//	// expect: number
//	// expect_error: AssignFailed
func parseExpectation(content string) (*Expectation, error) {
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		m := expectRegex.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		exp := &Expectation{ResultType: "type", Value: strings.TrimSpace(m[2])}
		if m[1] == "expect_error" {
			exp.ResultType = "error"
		}
		return exp, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return nil, fmt.Errorf("no expectation comment found (e.g., // expect: number)")
}

func TestScripts(t *testing.T) {
	scriptDir := filepath.Join("testdata", "scripts")
	entries, err := os.ReadDir(scriptDir)
	require.NoError(t, err)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ts") {
			continue
		}
		scriptPath := filepath.Join(scriptDir, entry.Name())
		t.Run(entry.Name(), func(t *testing.T) {
			content, err := os.ReadFile(scriptPath)
			require.NoError(t, err)
			exp, err := parseExpectation(string(content))
			if err != nil {
				t.Skipf("%s: %v", scriptPath, err)
			}

			s := newSession(t, nil)
			ty, errs := s.Eval(context.Background(), string(content))
			if scriptsDebug {
				t.Logf("%s: type %v, %d diagnostics", entry.Name(), ty, len(errs))
			}

			switch exp.ResultType {
			case "type":
				require.Empty(t, errs, "unexpected diagnostics in %s", scriptPath)
				require.NotNil(t, ty, "%s has no trailing expression", scriptPath)
				assert.Equal(t, exp.Value, ty.String())
			case "error":
				var got []string
				for _, e := range errs {
					got = append(got, e.Kind.String())
				}
				assert.Contains(t, got, exp.Value)
			}
		})
	}
}
