package jarvis

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	log "log/slog"

	"jarvis/internal/confirm"
	"jarvis/internal/fileops"
	"jarvis/internal/locator"
	"jarvis/internal/metrics"
	"jarvis/internal/nlu"
)

const (
	findShown    = 10
	openAmbLimit = 5
	megabyte     = 1024 * 1024
)

type handler func(ctx context.Context, in input) string

func (r *Router) fileHandlers() map[nlu.Intent]handler {
	return map[nlu.Intent]handler{
		nlu.CreateFile:        r.createFile,
		nlu.CreateFolder:      r.createFolder,
		nlu.FindFile:          r.findFile,
		nlu.OpenFile:          r.openFile,
		nlu.Delete:            r.deleteFile,
		nlu.Rename:            r.renameFile,
		nlu.Photo:             r.takePhoto,
		nlu.ConfirmationReply: r.strayAnswer,
		nlu.Restore:           r.restoreFile,
		nlu.Move:              r.moveFile,
		nlu.Copy:              r.copyFile,
	}
}

func record(op string, res fileops.Result) fileops.Result {
	metrics.RecordFileOp(op, res.Kind.String())
	if !res.Success {
		log.Debug("File operation failed", "op", op, "kind", res.Kind, "msg", res.Message)
	}
	return res
}

// later runs a deferred confirmation action on its own deadline.
func later(f func(ctx context.Context) string) func() string {
	return func() string {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		return f(ctx)
	}
}

func (r *Router) createFile(_ context.Context, in input) string {
	name := nlu.FileName(in.text)
	if name == "" {
		return "Please specify a filename, sir. For example: 'create file document.txt' or 'create file report.pdf'"
	}

	res := record("create_file", r.Files.CreateFile(name, nlu.Location(in.text)))
	if !res.Success {
		return res.Message
	}

	path := res.Path
	r.session.Gate.Arm(confirm.Pending{Kind: confirm.OpenCreatedFile, Path: path, Name: res.Name},
		later(func(ctx context.Context) string {
			opened := record("open", r.Files.Open(ctx, path))
			return fmt.Sprintf("Opening '%s', sir. %s", filepath.Base(path), opened.Message)
		}))

	return fmt.Sprintf("%s\n\nWould you like me to open '%s' now, sir? (yes/no)", res.Message, res.Name)
}

func (r *Router) createFolder(_ context.Context, in input) string {
	name := nlu.FolderName(in.text)
	if name == "" {
		return "Please specify a folder name, sir. For example: 'create folder MyDocuments'"
	}

	res := record("create_folder", r.Files.CreateFolder(name, nlu.Location(in.text)))
	if !res.Success {
		return res.Message
	}

	path := res.Path
	r.session.Gate.Arm(confirm.Pending{Kind: confirm.OpenCreatedFolder, Path: path, Name: res.Name},
		later(func(ctx context.Context) string {
			opened := record("open", r.Files.Open(ctx, path))
			return fmt.Sprintf("Opening folder '%s', sir. %s", filepath.Base(path), opened.Message)
		}))

	return res.Message + "\n\nWould you like me to open the folder now, sir? (yes/no)"
}

func (r *Router) findFile(_ context.Context, in input) string {
	term := nlu.SearchTerm(in.text)
	if term == "" {
		return "Please specify what to search for, sir. For example: 'find file report'"
	}

	found := r.Locator.Find(term, locator.DefaultMaxResults)
	metrics.RecordFileOp("find", fileops.KindOK.String())
	if found.Count == 0 {
		return fmt.Sprintf("Sorry sir, I couldn't find any files matching '%s'. I searched across all common locations including Desktop, Documents, Downloads, and system directories.", term)
	}
	return formatFound(term, found.Matches)
}

func formatFound(term string, matches []locator.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I found %d file(s) matching '%s', sir:\n\n", len(matches), term)

	for i, m := range matches {
		if i == findShown {
			fmt.Fprintf(&b, "... and %d more files.\n\n", len(matches)-findShown)
			break
		}
		fmt.Fprintf(&b, "%d. %s%s\n   %s\n\n", i+1, m.Name, sizeInfo(m), m.Path)
	}

	b.WriteString("Would you like me to open any of these files, sir? Just say 'open 1' or 'open file 2' to open a specific file.")
	return b.String()
}

func sizeInfo(m locator.Match) string {
	if m.Kind != locator.File {
		return ""
	}
	if m.Size < megabyte {
		return fmt.Sprintf(" (%d bytes)", m.Size)
	}
	return fmt.Sprintf(" (%.1f MB)", float64(m.Size)/megabyte)
}

func (r *Router) openFile(ctx context.Context, in input) string {
	index, name := nlu.OpenTarget(in.text)
	if index > 0 {
		return record("open", r.Files.OpenIndex(ctx, index)).Message
	}
	if name == "" {
		return "Please specify which file to open, sir. For example: 'open file document.pdf' or 'open 1' for search results."
	}
	if filepath.IsAbs(name) {
		return record("open", r.Files.Open(ctx, name)).Message
	}

	found := r.Locator.Find(name, openAmbLimit)
	switch len(found.Matches) {
	case 0:
		return fmt.Sprintf("Could not find file '%s', sir. Try searching for it first with 'find file %s'", name, name)
	case 1:
		return record("open", r.Files.Open(ctx, found.Matches[0].Path)).Message
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d files named '%s':\n", len(found.Matches), name)
	for i, m := range found.Matches {
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, m.Name, m.Path)
	}
	b.WriteString("Say 'open 1' or 'open 2' to open a specific file, sir.")
	return b.String()
}

// deleteFile resolves the target now and only deletes after a yes.
func (r *Router) deleteFile(_ context.Context, in input) string {
	target, permanent := nlu.DeleteTarget(in.text)
	if target == "" {
		return "Please specify what to delete, sir. For example: 'delete file document.pdf'"
	}

	res := r.Files.Resolve(target, "delete")
	if !res.Success {
		return record("delete", res).Message
	}

	path := res.Path
	r.session.Gate.Arm(confirm.Pending{Kind: confirm.Delete, Path: path, Name: res.Name, Permanent: permanent},
		later(func(ctx context.Context) string {
			return record("delete", r.Files.DeletePath(ctx, path, permanent)).Message
		}))

	action := "move to trash"
	if permanent {
		action = "permanently delete"
	}
	return fmt.Sprintf("Are you sure you want to %s '%s', sir? This action cannot be undone. (yes/no)", action, res.Name)
}

func (r *Router) renameFile(_ context.Context, in input) string {
	oldName, newName, err := nlu.RenameArgs(in.text)
	if err != nil {
		return nlu.RenameUsage
	}
	return record("rename", r.Files.Rename(oldName, newName)).Message
}

func (r *Router) moveFile(_ context.Context, in input) string {
	src, dst, ok := nlu.TransferArgs(in.text)
	if !ok {
		return "Please use the format 'move [name] to [destination]', sir. For example: 'move report.txt to documents'"
	}
	return record("move", r.Files.Move(src, dst)).Message
}

func (r *Router) copyFile(_ context.Context, in input) string {
	src, dst, ok := nlu.TransferArgs(in.text)
	if !ok {
		return "Please use the format 'copy [name] to [destination]', sir. For example: 'copy report.txt to documents'"
	}
	return record("copy", r.Files.Copy(src, dst)).Message
}

func (r *Router) restoreFile(_ context.Context, in input) string {
	return record("restore", r.Files.Restore(nlu.RestoreTarget(in.text))).Message
}

func (r *Router) takePhoto(ctx context.Context, _ input) string {
	return record("photo", r.Files.CapturePhotoAndOpen(ctx)).Message
}

// strayAnswer is a yes/no with nothing pending.
func (r *Router) strayAnswer(_ context.Context, in input) string {
	_, msg := r.session.Gate.Resolve(in.lower)
	return msg
}
