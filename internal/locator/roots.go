package locator

import (
	"os"

	"jarvis/internal/places"
)

// Root is one directory the locator scans. Recursive roots are additionally
// walked a few levels deep.
type Root struct {
	Path      string
	Recursive bool
}

// DefaultRoots lists the user folders first, then the home directory, then
// OS-specific application and drive roots.
func DefaultRoots(p places.Places, home, goos string) []Root {
	roots := make([]Root, 0, len(p)+8)
	for _, pl := range p {
		roots = append(roots, Root{Path: pl.Dir, Recursive: true})
	}
	roots = append(roots, Root{Path: home})

	switch goos {
	case "windows":
		for letter := 'C'; letter <= 'Z'; letter++ {
			drive := string(letter) + `:\`
			if _, err := os.Stat(drive); err == nil {
				roots = append(roots, Root{Path: drive})
			}
		}
	case "darwin":
		roots = append(roots,
			Root{Path: "/Applications"},
			Root{Path: "/System/Applications"},
		)
	default:
		roots = append(roots,
			Root{Path: "/usr/bin"},
			Root{Path: "/usr/local/bin"},
			Root{Path: "/opt"},
		)
	}

	return roots
}
