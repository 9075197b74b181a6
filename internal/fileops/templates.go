package fileops

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const stampLayout = "2006-01-02 15:04:05"

type templateFunc func(base, stamp string) string

var templates = map[string]templateFunc{
	".txt": func(base, stamp string) string {
		return fmt.Sprintf("# %s\n\nCreated by JARVIS on %s\n\nThis is a text document.\n", base, stamp)
	},
	".md": func(base, stamp string) string {
		return fmt.Sprintf("# %s\n\n**Created by JARVIS** on %s\n\n## Content\n\nThis is a markdown document.\n\n- Item 1\n- Item 2\n- Item 3\n", base, stamp)
	},
	".html": func(base, stamp string) string {
		return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%[1]s</title>
</head>
<body>
    <h1>%[1]s</h1>
    <p>Created by JARVIS on %[2]s</p>
    <p>This is an HTML document.</p>
</body>
</html>
`, base, stamp)
	},
	".css": func(base, stamp string) string {
		return fmt.Sprintf(`/* %s - Created by JARVIS on %s */

body {
    font-family: Arial, sans-serif;
    margin: 0;
    padding: 20px;
    background-color: #f5f5f5;
}

.container {
    max-width: 800px;
    margin: 0 auto;
    background: white;
    padding: 20px;
    border-radius: 8px;
}
`, base, stamp)
	},
	".js": func(base, stamp string) string {
		return fmt.Sprintf(`// %[1]s - Created by JARVIS on %[2]s

console.log('Hello from %[1]s!');

function main() {
    console.log('JARVIS created this file on %[2]s');
}

main();
`, base, stamp)
	},
	".py": func(base, stamp string) string {
		return fmt.Sprintf(`#!/usr/bin/env python3
# %[1]s - Created by JARVIS on %[2]s

def main():
    print("Hello from %[1]s!")


if __name__ == "__main__":
    main()
`, base, stamp)
	},
	".json": func(base, stamp string) string {
		doc := struct {
			Name        string         `json:"name"`
			CreatedBy   string         `json:"created_by"`
			CreatedOn   string         `json:"created_on"`
			Description string         `json:"description"`
			Data        map[string]any `json:"data"`
		}{
			Name:        base,
			CreatedBy:   "JARVIS",
			CreatedOn:   stamp,
			Description: "JSON file created by JARVIS",
			Data:        map[string]any{},
		}
		b, _ := json.MarshalIndent(doc, "", "  ")
		return string(b) + "\n"
	},
	".csv": func(base, stamp string) string {
		return fmt.Sprintf("Name,Value,Created By,Created On\n%s,Sample Data,JARVIS,%s\n", base, stamp)
	},
}

// boilerplate renders the starter body for a new file; unknown extensions
// get the plain-text template.
func boilerplate(ext, base string, now time.Time) []byte {
	tmpl, found := templates[strings.ToLower(ext)]
	if !found {
		tmpl = templates[".txt"]
	}
	return []byte(tmpl(base, now.Format(stampLayout)))
}
