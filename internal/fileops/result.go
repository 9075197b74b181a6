package fileops

import (
	"errors"
	"fmt"
	"io/fs"
)

// Kind classifies why an operation failed.
type Kind int

const (
	KindOK Kind = iota
	KindNotFound
	KindAmbiguous
	KindPermission
	KindExists
	KindInvalid
	KindUnavailable
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNotFound:
		return "not_found"
	case KindAmbiguous:
		return "ambiguous_match"
	case KindPermission:
		return "permission_denied"
	case KindExists:
		return "already_exists"
	case KindInvalid:
		return "invalid_argument"
	case KindUnavailable:
		return "capability_unavailable"
	default:
		return "internal"
	}
}

var (
	ErrNotFound    = errors.New("not found")
	ErrAmbiguous   = errors.New("ambiguous match")
	ErrExists      = errors.New("already exists")
	ErrInvalid     = errors.New("invalid argument")
	ErrUnavailable = errors.New("capability unavailable")
)

// Result is the uniform outcome of every file operation. Failures never
// escape as errors; they are folded into Success=false and a message meant
// to be read out to the user.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Name    string `json:"name,omitempty"`
	Kind    Kind   `json:"-"`
}

func ok(msg, path, name string) Result {
	return Result{Success: true, Message: msg, Path: path, Name: name}
}

func fail(kind Kind, format string, args ...any) Result {
	return Result{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf maps an error to the failure taxonomy.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, fs.ErrPermission):
		return KindPermission
	case errors.Is(err, ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, ErrExists), errors.Is(err, fs.ErrExist):
		return KindExists
	case errors.Is(err, ErrAmbiguous):
		return KindAmbiguous
	case errors.Is(err, ErrInvalid):
		return KindInvalid
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	default:
		return KindInternal
	}
}
