package nlu

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// RenameUsage is the corrective reply for a rename without "to".
const RenameUsage = "Please use the format 'rename [old name] to [new name]', sir. For example: 'rename document.txt to report.txt'"

var ErrRenameUsage = errors.New("rename: expected \"<old> to <new>\"")

var (
	quotedRe     = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	calledRe     = regexp.MustCompile(`(?i)\b(?:called|named)\s+([\w.-]+)`)
	withExtRe    = regexp.MustCompile(`([\w-]+\.[A-Za-z0-9]+)`)
	createFileRe = regexp.MustCompile(`(?i)\b(?:create|make|new)\s+(?:a\s+)?(?:new\s+)?(?:text\s+)?file\s+([\w.-]+)`)

	folderRe = regexp.MustCompile(`(?i)\b(?:create|make|new)\s+(?:a\s+)?(?:new\s+)?(?:folder|directory)\s+(?:called\s+|named\s+)?(.+)$`)

	searchRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:find|search|locate)\s+(?:for\s+)?(?:a\s+|the\s+|my\s+)?(?:files?|folders?)\s+(?:called\s+|named\s+)?(.+)$`),
		regexp.MustCompile(`(?i)\blook\s+for\s+(?:a\s+|the\s+)?(?:files?\s+)?(?:called\s+|named\s+)?(.+)$`),
		regexp.MustCompile(`(?i)\b(?:find|search|locate)\s+(?:for\s+)?(.+)$`),
	}
	trailingFilesRe = regexp.MustCompile(`(?i)\s+(?:files?|folders?)$`)

	openIndexRe  = regexp.MustCompile(`(?i)\bopen\s+(?:file\s+|number\s+)?(\d+)\b`)
	openPrefixRe = regexp.MustCompile(`(?i)^.*?\b(?:open|launch|run)\s+(?:the\s+)?(?:file\s+)?`)

	deletePrefixRe = regexp.MustCompile(`(?i)^.*?\b(?:delete|remove)\s+(?:the\s+)?(?:file\s+|folder\s+)?`)
	permanentRe    = regexp.MustCompile(`(?i)\s*\b(?:permanently|permanent|forever)\b`)

	renameRe     = regexp.MustCompile(`(?i)\brename\s+(.+?)\s+to\s+(.+)$`)
	entityWordRe = regexp.MustCompile(`(?i)^(?:the\s+)?(?:file|folder)\s+`)

	transferRe = regexp.MustCompile(`(?i)\b(?:move|copy)\s+(?:the\s+)?(?:file\s+|folder\s+)?(.+?)\s+(?:to|into)\s+(.+)$`)
	restoreRe  = regexp.MustCompile(`(?i)\brestore\s+(?:the\s+)?(?:file\s+|folder\s+)?(.+?)(?:\s+from\s+(?:the\s+)?(?:trash|recycle\s+bin|bin))?$`)

	locationWordRe = regexp.MustCompile(`(?i)\b(desktop|documents?|downloads?|pictures?|photos|music|videos?|movies)\b`)
	locationAbsRe  = regexp.MustCompile(`(?i)\b(?:in|on|at|to|into|inside)\s+((?:/|[a-z]:\\)\S*)`)
	locationTailRe = regexp.MustCompile(`(?i)\s+(?:in|on|at|to|into|inside)\s+(?:the\s+|my\s+)?(?:(?:desktop|documents?|downloads?|pictures?|photos|music|videos?|movies)(?:\s+folder)?|(?:/|[a-z]:\\)\S*)\s*$`)
)

var filler = map[string]bool{
	"a": true, "an": true, "the": true, "file": true, "called": true, "named": true,
	"new": true, "create": true, "make": true, "text": true,
}

var locationAliases = map[string]string{
	"document": "documents",
	"download": "downloads",
	"picture":  "pictures",
	"photos":   "pictures",
	"video":    "videos",
	"movies":   "videos",
}

func firstQuoted(text string) string {
	m := quotedRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(m[2])
}

func stripLocation(text string) string {
	return strings.TrimSpace(locationTailRe.ReplaceAllString(text, ""))
}

func clean(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'.,!?`)
}

// FileName pulls the file name out of a create command. Returns "" when
// nothing usable is found; otherwise the name always carries an extension.
func FileName(text string) string {
	if q := firstQuoted(text); q != "" {
		return withDefaultExt(q)
	}

	text = stripLocation(text)

	if m := calledRe.FindStringSubmatch(text); m != nil {
		return withDefaultExt(clean(m[1]))
	}
	if all := withExtRe.FindAllString(text, -1); len(all) > 0 {
		return all[len(all)-1]
	}
	if m := createFileRe.FindStringSubmatch(text); m != nil && !filler[strings.ToLower(m[1])] {
		return withDefaultExt(clean(m[1]))
	}

	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	last := clean(fields[len(fields)-1])
	if last == "" || filler[strings.ToLower(last)] {
		return ""
	}
	return withDefaultExt(last)
}

func withDefaultExt(name string) string {
	if name == "" || strings.Contains(name, ".") {
		return name
	}
	return name + ".txt"
}

// FolderName pulls the folder name out of a create folder command.
func FolderName(text string) string {
	if q := firstQuoted(text); q != "" {
		return q
	}

	text = stripLocation(text)
	if m := folderRe.FindStringSubmatch(text); m != nil {
		return clean(m[1])
	}

	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return clean(fields[len(fields)-1])
}

// SearchTerm returns what a find command is looking for.
func SearchTerm(text string) string {
	if q := firstQuoted(text); q != "" {
		return q
	}

	for _, re := range searchRe {
		if m := re.FindStringSubmatch(text); m != nil {
			return clean(trailingFilesRe.ReplaceAllString(clean(m[1]), ""))
		}
	}

	fields := strings.Fields(text)
	if len(fields) < 2 {
		return ""
	}
	return clean(strings.Join(fields[1:], " "))
}

// OpenTarget returns either a 1-based result number (index > 0) or a name.
func OpenTarget(text string) (index int, name string) {
	if m := openIndexRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n, ""
		}
	}
	if q := firstQuoted(text); q != "" {
		return 0, q
	}
	return 0, clean(openPrefixRe.ReplaceAllString(text, ""))
}

// DeleteTarget returns the entry to delete and whether the user asked for
// permanent deletion.
func DeleteTarget(text string) (target string, permanent bool) {
	permanent = permanentRe.MatchString(text)
	text = permanentRe.ReplaceAllString(text, "")

	if q := firstQuoted(text); q != "" {
		return q, permanent
	}
	return clean(deletePrefixRe.ReplaceAllString(text, "")), permanent
}

// RenameArgs splits "rename X to Y". The literal "to" is required.
func RenameArgs(text string) (oldName, newName string, err error) {
	m := renameRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", ErrRenameUsage
	}

	oldName = clean(entityWordRe.ReplaceAllString(strings.TrimSpace(m[1]), ""))
	newName = clean(m[2])
	if oldName == "" || newName == "" {
		return "", "", ErrRenameUsage
	}
	return oldName, newName, nil
}

// TransferArgs splits "move|copy X to Y". The destination is normalized to a
// location keyword when it names one.
func TransferArgs(text string) (src, dst string, ok bool) {
	m := transferRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", false
	}

	src = clean(m[1])
	dst = clean(m[2])
	if loc := Location(" to " + dst); loc != "" {
		dst = loc
	}
	return src, dst, src != "" && dst != ""
}

// RestoreTarget returns the name to bring back from the trash.
func RestoreTarget(text string) string {
	if q := firstQuoted(text); q != "" {
		return q
	}
	m := restoreRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return ""
	}
	return clean(m[1])
}

// Location finds a location keyword or an absolute path introduced by a
// preposition. Returns "" when the command names neither.
func Location(text string) string {
	if m := locationAbsRe.FindStringSubmatch(text); m != nil && len(m[1]) > 1 {
		return strings.TrimRight(m[1], `"'.,!?`)
	}
	if m := locationWordRe.FindStringSubmatch(text); m != nil {
		w := strings.ToLower(m[1])
		if alias, found := locationAliases[w]; found {
			return alias
		}
		return w
	}
	return ""
}
