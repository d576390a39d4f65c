package generator

import (
	"github.com/jongio/bwenv/cliout"
)

// Reporter receives progress notifications while files are generated.
type Reporter interface {
	// Resolving is called before each key is looked up.
	Resolving(env, key string)
	// SecretMissing is called for a key without a matching vault item.
	SecretMissing(env, key, group string)
	// FileWritten is called after an environment file was written.
	FileWritten(env, path string)
}

// ConsoleReporter prints progress through cliout. Nothing is printed in
// JSON output mode so that stdout stays machine readable.
type ConsoleReporter struct{}

// Resolving implements Reporter.
func (ConsoleReporter) Resolving(env, key string) {
	if cliout.IsJSON() {
		return
	}
	cliout.Step("[%s] %s", env, key)
}

// SecretMissing implements Reporter.
func (ConsoleReporter) SecretMissing(_ string, key, group string) {
	if cliout.IsJSON() {
		return
	}
	cliout.Warning("secret %s not found in %s", key, group)
}

// FileWritten implements Reporter.
func (ConsoleReporter) FileWritten(_, path string) {
	if cliout.IsJSON() {
		return
	}
	cliout.Success("%s file written successfully.", path)
}

type nopReporter struct{}

func (nopReporter) Resolving(string, string)             {}
func (nopReporter) SecretMissing(string, string, string) {}
func (nopReporter) FileWritten(string, string)           {}
