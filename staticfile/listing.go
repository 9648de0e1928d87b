/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 */

package staticfile

import (
	"html/template"
	"io"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
)

const listingTemplateSrc = `<!DOCTYPE html>
<html>
<head><title>Index of {{.Path}}</title></head>
<body>
<h1>Index of {{.Path}}</h1>
{{if .Description}}<pre>{{.Description}}</pre>{{end}}
<table>
<tr><th>Name</th><th>Size</th><th>Last Modified</th></tr>
{{if .HasParent}}<tr><td><a href="../">../</a></td><td>-</td><td>-</td></tr>{{end}}
{{range .Entries}}<tr><td><a href="{{.Href}}">{{.Name}}</a></td><td>{{.Size}}</td><td>{{.ModTime}}</td></tr>
{{end}}</table>
</body>
</html>
`

var listingTemplate = template.Must(template.New("listing").Parse(listingTemplateSrc))

type listingEntry struct {
	Name    string
	Href    string
	Size    string
	ModTime string
}

type listingData struct {
	Path        string
	HasParent   bool
	Description string
	Entries     []listingEntry
}

// DirDescriptionFile, when present in a listed directory, is rendered
// verbatim (HTML-escaped) above the listing table.
const DirDescriptionFile = ".maindesc"

// RenderListing writes an HTML directory listing of dir (the filesystem
// path) as reached at urlPath, honoring dotfile hiding and a sorted,
// escaped entry table.
func RenderListing(w io.Writer, dir, urlPath string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	byName := make(map[string]os.DirEntry, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
		byName[name] = e
	}
	sort.Strings(names)

	data := listingData{
		Path:      urlPath,
		HasParent: urlPath != "/" && urlPath != "",
	}

	if desc, derr := os.ReadFile(path.Join(dir, DirDescriptionFile)); derr == nil {
		data.Description = string(desc)
	}

	for _, name := range names {
		e := byName[name]
		info, ierr := e.Info()
		if ierr != nil {
			continue
		}
		href := name
		size := formatSize(info.Size())
		if e.IsDir() {
			href += "/"
			size = "-"
		}
		data.Entries = append(data.Entries, listingEntry{
			Name:    name,
			Href:    href,
			Size:    size,
			ModTime: info.ModTime().UTC().Format("2006-01-02 15:04:05"),
		})
	}

	return listingTemplate.Execute(w, data)
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return itoa(int(n)) + "B"
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	units := "KMGTPE"
	return formatFloat(float64(n)/float64(div)) + string(units[exp]) + "iB"
}

func formatFloat(f float64) string {
	whole := int64(f)
	frac := int64((f-float64(whole))*10 + 0.5)
	if frac == 10 {
		whole++
		frac = 0
	}
	return itoa(int(whole)) + "." + itoa(int(frac))
}

func itoa(n int) string { return strconv.Itoa(n) }
