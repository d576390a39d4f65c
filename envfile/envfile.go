// Package envfile reads example templates and writes ".env.<environment>" files.
package envfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jongio/bwenv/fileutil"
)

// DefaultExample is the template file name used when none is configured.
const DefaultExample = ".env.example"

// Entry is one KEY=VALUE line of an environment file.
type Entry struct {
	Key   string
	Value string
}

// ParseExample reads the template at path and returns the declared variable
// names in order. A missing file yields an error wrapping os.ErrNotExist.
func ParseExample(path string) ([]string, error) {
	// #nosec G304 -- the template path is chosen by the user running the tool
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open example file: %w", err)
	}
	defer func() { _ = f.Close() }()

	keys, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read example file %s: %w", path, err)
	}
	return keys, nil
}

// Parse returns the variable names declared in r: for every line that is not
// blank, not a "#" comment and contains "=", the trimmed text before the first
// "=". Duplicates are preserved.
func Parse(r io.Reader) ([]string, error) {
	var keys []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

// PathFor returns the output path of an environment's file inside dir.
func PathFor(dir, env string) string {
	return filepath.Join(dir, ".env."+env)
}

// Format renders entries as KEY=VALUE lines in order.
func Format(entries []Entry) []byte {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(FormatValue(e.Value))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// FormatValue returns value unchanged unless it spans several lines, in which
// case it is double-quoted with escaped newlines, quotes and backslashes so the
// entry stays on one line.
func FormatValue(value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return value
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\r\n", `\n`, "\n", `\n`, "\r", `\n`)
	return `"` + r.Replace(value) + `"`
}

// Write atomically replaces path with the rendered entries. The file is
// readable by its owner only.
func Write(path string, entries []Entry) error {
	if err := fileutil.AtomicWriteFile(path, Format(entries), fileutil.SecretFilePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
