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
)

const scriptsDebug = false

// Expectation is the outcome a script declares in its first comment.
type Expectation struct {
	Clean bool     // "// expect: clean"
	Codes []string // "// expect_errors: TS2322 TS2304", in report order
}

var expectRegex = regexp.MustCompile(`^//\s*(expect|expect_errors):\s*(.*)`)

// parseExpectation extracts the expectation from the script's comments.
func parseExpectation(scriptContent string) (*Expectation, error) {
	scanner := bufio.NewScanner(strings.NewReader(scriptContent))
	for scanner.Scan() {
		matches := expectRegex.FindStringSubmatch(scanner.Text())
		if len(matches) != 3 {
			continue
		}
		value := strings.TrimSpace(matches[2])
		switch matches[1] {
		case "expect":
			if value != "clean" {
				return nil, fmt.Errorf("unknown expectation %q", value)
			}
			return &Expectation{Clean: true}, nil
		case "expect_errors":
			return &Expectation{Codes: strings.FieldsFunc(value, func(r rune) bool {
				return r == ' ' || r == ','
			})}, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading script content: %w", err)
	}
	return nil, fmt.Errorf("no expectation comment found (e.g., // expect: clean)")
}

func TestScripts(t *testing.T) {
	scriptDir := filepath.Join("testdata", "scripts")
	files, err := os.ReadDir(scriptDir)
	if err != nil {
		t.Fatalf("Failed to read script directory %q: %v", scriptDir, err)
	}
	d := newDriver(t)

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".ts") {
			continue
		}
		scriptPath := filepath.Join(scriptDir, file.Name())
		t.Run(file.Name(), func(t *testing.T) {
			content, err := os.ReadFile(scriptPath)
			if err != nil {
				t.Fatalf("Failed to read script file %q: %v", scriptPath, err)
			}
			expectation, err := parseExpectation(string(content))
			if err != nil {
				t.Fatalf("Failed to parse expectation in %q: %v", scriptPath, err)
			}

			reg, err := d.CheckFiles(context.Background(), []string{scriptPath})
			if err != nil {
				t.Fatalf("CheckFiles failed: %v", err)
			}
			result := reg.Get(modulePath(scriptPath))
			if result == nil {
				t.Fatalf("No result for %q", scriptPath)
			}
			if result.Error != nil {
				t.Fatalf("Unexpected failure: %v", result.Error)
			}

			var got []string
			var report strings.Builder
			for _, e := range result.Info.Errors {
				got = append(got, e.Code.String())
				report.WriteString(e.Error() + "\n")
			}
			if scriptsDebug {
				t.Logf("--- Diagnostics [%s] ---\n%s", file.Name(), report.String())
			}

			if expectation.Clean {
				if len(got) > 0 {
					t.Errorf("Expected no diagnostics, got:\n%s", report.String())
				}
				return
			}
			if strings.Join(got, " ") != strings.Join(expectation.Codes, " ") {
				t.Errorf("Expected diagnostics %v, got %v:\n%s", expectation.Codes, got, report.String())
			}
		})
	}
}

func TestParseExpectation(t *testing.T) {
	exp, err := parseExpectation("// expect: clean\nlet x = 1;\n")
	if err != nil || !exp.Clean {
		t.Errorf("Expected clean expectation, got %+v (%v)", exp, err)
	}
	exp, err = parseExpectation("let x = 1;\n// expect_errors: TS2322, TS2304\n")
	if err != nil || strings.Join(exp.Codes, " ") != "TS2322 TS2304" {
		t.Errorf("Expected two codes, got %+v (%v)", exp, err)
	}
	if _, err := parseExpectation("let x = 1;\n"); err == nil {
		t.Errorf("Expected an error for a script without expectation")
	}
}
