// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
)

const (
	TargetNotFoundId Id = iota + 1
	DuplicateTargetId
	TargetFailedId
	ShellCommandFailedId
	ShellNotFoundId
	ConfigLoadFailedId
	InvalidShellModeId
)

type (
	// Id identifies an issue catalog entry.
	Id int

	// MarkdownMsg is the Markdown body of an issue page.
	MarkdownMsg string

	// Issue is a catalog entry with help text for a class of failure.
	Issue struct {
		id    Id
		mdMsg MarkdownMsg
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the issue page for a terminal using the given glamour
// style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(string(i.mdMsg), stylePath)
}

var (
	render = glamour.Render

	targetNotFoundIssue = &Issue{
		id: TargetNotFoundId,
		mdMsg: `
# Target not found!

The name you passed is not registered by this build script.

## Things you can try:
- List the available targets by running the script without arguments
- Check for typos; target names are case-sensitive and used verbatim
- Make sure the target is registered before ` + "`Compile`" + ` is called`,
	}

	duplicateTargetIssue = &Issue{
		id: DuplicateTargetId,
		mdMsg: `
# Duplicate target!

Two targets were registered under the same name. Target names must be unique
within a build script.

## Things you can try:
- Rename one of the targets
- When names are derived from function identifiers, rename one of the functions`,
	}

	targetFailedIssue = &Issue{
		id: TargetFailedId,
		mdMsg: `
# Target reported failure!

The target ran to completion but reported that it did not succeed.

## Things you can try:
- Read the output above; the target's own commands explain what went wrong
- Re-run with ` + "`--verbose`" + ` to see every shell command that was executed`,
	}

	shellCommandFailedIssue = &Issue{
		id: ShellCommandFailedId,
		mdMsg: `
# Shell command failed!

A strict shell command exited with a non-zero status, so the target was
aborted before running its remaining steps.

## Things you can try:
- Run the failing command by hand from the same directory
- Check the captured standard error shown above
- Re-run with ` + "`--verbose`" + ` to see the commands that ran before it`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

No command interpreter could be located to run the build script's commands.

## Things you can try:
- Point ` + "`shell.path`" + ` in bake.cue at an installed shell
- Switch to the built-in interpreter:
~~~cue
shell: mode: "virtual"
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Configuration file locations (first match wins):
1. The path in ` + "`BAKE_CONFIG`" + `
2. ./bake.cue
3. <user config dir>/bake/config.cue

## Example configuration:
~~~cue
shell: {
  mode: "native"
  timeout: "10m"
}
env: files: [".env?"]
ui: verbose: false
~~~`,
	}

	invalidShellModeIssue = &Issue{
		id: InvalidShellModeId,
		mdMsg: `
# Invalid shell mode!

## Valid shell modes:
- **native**: run commands through the host shell
- **virtual**: run commands through the built-in POSIX shell interpreter`,
	}

	issues = map[Id]*Issue{
		targetNotFoundIssue.Id():     targetNotFoundIssue,
		duplicateTargetIssue.Id():    duplicateTargetIssue,
		targetFailedIssue.Id():       targetFailedIssue,
		shellCommandFailedIssue.Id(): shellCommandFailedIssue,
		shellNotFoundIssue.Id():      shellNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		invalidShellModeIssue.Id():   invalidShellModeIssue,
	}
)

// Get returns the catalog page for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
