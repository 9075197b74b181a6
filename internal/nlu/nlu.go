// Package nlu classifies a command into a file-operation intent with an
// ordered table of regular expressions and pulls the arguments out of it.
package nlu

import (
	"regexp"
	"strings"

	"jarvis/internal/confirm"
)

type Intent string

const (
	None              Intent = "none"
	CreateFile        Intent = "create_file"
	CreateFolder      Intent = "create_folder"
	FindFile          Intent = "find_file"
	OpenFile          Intent = "open_file"
	Delete            Intent = "delete"
	Rename            Intent = "rename"
	Photo             Intent = "photo"
	ConfirmationReply Intent = "confirmation_reply"
	Restore           Intent = "restore"
	Move              Intent = "move"
	Copy              Intent = "copy"
)

const exts = `(?:txt|pdf|doc|docx|html|css|js|py|json|csv|md)`

// Rule matches when any pattern in Any matches and none in Not does.
type Rule struct {
	Intent Intent
	Any    []*regexp.Regexp
	Not    []*regexp.Regexp
	Match  func(string) bool
}

func (r Rule) matches(cmd string) bool {
	if r.Match != nil {
		return r.Match(cmd)
	}
	for _, re := range r.Not {
		if re.MatchString(cmd) {
			return false
		}
	}
	for _, re := range r.Any {
		if re.MatchString(cmd) {
			return true
		}
	}
	return false
}

func res(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

var folderWord = `\b(?:create|make|new)\s+(?:a\s+)?(?:new\s+)?(?:folder|directory)\b`

// Rules is evaluated top to bottom; the first match wins. Order matters:
// "rename file a.txt to b.txt" also looks like several earlier intents would
// if they were checked loosely.
var Rules = []Rule{
	{
		Intent: CreateFile,
		Any: res(
			`\b(?:create|make|new)\s+(?:a\s+)?(?:new\s+)?(?:text\s+)?file\b`,
			`\b(?:create|make)\b.*\.`+exts+`\b`,
			`^(?:create|make|new)\s+[\w.-]+$`,
		),
		Not: res(folderWord, `^(?:create|make|new)\s+(?:folder|directory)$`),
	},
	{
		Intent: CreateFolder,
		Any:    res(folderWord),
	},
	{
		Intent: FindFile,
		Any: res(
			`\b(?:find|search|locate)\s+(?:for\s+)?(?:a\s+|the\s+|my\s+)?files?\b`,
			`\blook\s+for\s+(?:a\s+|the\s+)?files?\b`,
			`\bsearch\s+for\b.*\bfiles?\b`,
			`\bfind\b.*\.`+exts+`\b`,
		),
	},
	{
		Intent: OpenFile,
		Any: res(
			`\b(?:open|launch|run)\s+(?:the\s+)?file\b`,
			`\bopen\s+(?:number\s+)?\d+\b`,
			`\bopen\b.*\.`+exts+`\b`,
		),
	},
	{
		Intent: Delete,
		Any: res(
			`\b(?:delete|remove)\s+(?:the\s+)?(?:file|folder)\b`,
			`\b(?:delete|remove)\b.*\.`+exts+`\b`,
			`^(?:delete|remove)\s+\d+$`,
		),
	},
	{
		Intent: Rename,
		Any:    res(`\brename\b`),
	},
	{
		Intent: Photo,
		Any: res(
			`\b(?:take|capture|click)\s+(?:a\s+|my\s+)?(?:photo|picture|selfie|pic)\b`,
		),
	},
	{
		Intent: ConfirmationReply,
		Match:  confirm.IsAnswer,
	},
	{
		Intent: Restore,
		Any:    res(`\brestore\b`),
	},
	{
		Intent: Move,
		Any: res(
			`\bmove\s+(?:the\s+)?(?:file|folder)\b`,
			`\bmove\b.*\.`+exts+`\b.*\b(?:to|into)\b`,
		),
	},
	{
		Intent: Copy,
		Any: res(
			`\bcopy\s+(?:the\s+)?(?:file|folder)\b`,
			`\bcopy\b.*\.`+exts+`\b.*\b(?:to|into)\b`,
		),
		Not: res(`\bclipboard\b`),
	},
}

// Classify expects a lowercased command.
func Classify(cmd string) Intent {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return None
	}
	for _, r := range Rules {
		if r.matches(cmd) {
			return r.Intent
		}
	}
	return None
}
