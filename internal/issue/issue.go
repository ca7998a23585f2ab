// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	InvalidOptionsId
	ExportFailedId
	ClipboardUnavailableId
	UpgradeFailedId
	UnsupportedPlatformId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation for this issue type
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue guide with glamour. stylePath is a glamour style
// name ("dark", "light", "auto") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
		for _, link := range i.extLinks {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

const projectLink HttpLink = "https://github.com/ideatopia/password-generator"

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the pwdgen configuration file.

## Configuration file locations:
- Linux: ~/.config/pwdgen/config.cue
- macOS: ~/Library/Application Support/pwdgen/config.cue
- Windows: %APPDATA%\pwdgen\config.cue
- ./config.cue in the current directory

## Things you can try:
- Create a default configuration:
~~~
$ pwdgen config init
~~~

- Print the effective configuration:
~~~
$ pwdgen config show
~~~

- Check PWDGEN_* environment variables, they override the file.

## Example configuration:
~~~cue
generate: {
	length:     16
	complexity: "complex"
	special:    true
}
~~~`,
		docLinks: []HttpLink{projectLink},
	}

	invalidOptionsIssue = &Issue{
		id: InvalidOptionsId,
		mdMsg: `
# Invalid generation options!

The requested password cannot be produced.

## Rules:
- --length must be at least 8
- --quantity must be between 1 and 10000
- --complexity is one of simple, secure or complex

## Example:
~~~
$ pwdgen -l 16 -c complex -s -q 3
~~~`,
	}

	exportFailedIssue = &Issue{
		id: ExportFailedId,
		mdMsg: `
# Failed to export passwords!

pwdgen never overwrites an existing file.

## Things you can try:
- Choose a path that does not exist yet
- Remove or rename the existing file first
- Check that the target directory exists and is writable`,
	}

	clipboardUnavailableIssue = &Issue{
		id: ClipboardUnavailableId,
		mdMsg: `
# Clipboard not available!

The passwords were generated but could not be copied.

## Things you can try:
- On Linux, install xclip, xsel or wl-clipboard
- Run pwdgen from a terminal that supports OSC 52 (most modern terminals and tmux with set-clipboard on)
- Enable the terminal fallback in your configuration:
~~~cue
output: osc52_fallback: true
~~~`,
		extLinks: []HttpLink{"https://github.com/atotto/clipboard"},
	}

	upgradeFailedIssue = &Issue{
		id: UpgradeFailedId,
		mdMsg: `
# Upgrade failed!

pwdgen could not replace itself with the latest release.

## Things you can try:
- Set GITHUB_TOKEN if the GitHub API rate limit was exceeded
- Check that the directory holding the binary is writable
- Download the release binary manually from the releases page`,
		docLinks: []HttpLink{projectLink + "/releases"},
	}

	unsupportedPlatformIssue = &Issue{
		id: UnsupportedPlatformId,
		mdMsg: `
# Platform not supported!

Release binaries are published for Windows, Linux and macOS only.

## Things you can try:
- Build from source:
~~~
$ go install github.com/ideatopia/pwdgen@latest
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		invalidOptionsIssue.Id():       invalidOptionsIssue,
		exportFailedIssue.Id():         exportFailedIssue,
		clipboardUnavailableIssue.Id(): clipboardUnavailableIssue,
		upgradeFailedIssue.Id():        upgradeFailedIssue,
		unsupportedPlatformIssue.Id():  unsupportedPlatformIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	values := slices.Collect(maps.Values(issues))
	slices.SortFunc(values, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
