// Package manifest reads topology manifests: one overlay layer per line in
// the form name,range,icon,field,red,green,blue.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// FileName is the manifest name looked up inside a map archive.
	FileName = "topology.tpl"

	// ShapeExtension is appended to each layer name to form its geometry path.
	ShapeExtension = ".shp"

	commentMarker = "*"
	delimiter     = ","
)

// Legacy water color and its ICAO replacement.
var (
	legacyWater = [3]uint8{64, 96, 240}
	icaoWater   = [3]uint8{85, 160, 255}
)

// Entry is one parsed manifest line.
type Entry struct {
	Name       string  // Layer name as written in the manifest
	Path       string  // Geometry path: manifest directory + name + ShapeExtension
	Range      float64 // Scale threshold
	Icon       int     // Icon id, 0 = none
	LabelField int     // 0-based label attribute, -1 = none
	Red        uint8
	Green      uint8
	Blue       uint8
}

// Labeled reports whether the entry selects a label field.
func (e Entry) Labeled() bool {
	return e.LabelField >= 0
}

// Skip reports whether a manifest line carries no layer.
func Skip(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, commentMarker)
}

// ParseLine converts a single non-skipped manifest line.
//
// Fields are positional; missing trailing fields take their zero value and
// unparseable numbers become 0. The label field is 1-based in the manifest
// and stored 0-based.
func ParseLine(line, dir string) Entry {
	fields := strings.Split(line, delimiter)
	field := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	e := Entry{
		Name:       field(0),
		Range:      parseFloat(field(1)),
		Icon:       int(parseInt(field(2))),
		LabelField: parseLabelField(field(3)),
		Red:        uint8(parseInt(field(4))),
		Green:      uint8(parseInt(field(5))),
		Blue:       uint8(parseInt(field(6))),
	}
	e.Path = filepath.Join(dir, e.Name+ShapeExtension)

	if [3]uint8{e.Red, e.Green, e.Blue} == legacyWater {
		e.Red, e.Green, e.Blue = icaoWater[0], icaoWater[1], icaoWater[2]
	}

	return e
}

func parseLabelField(token string) int {
	r := []rune(token)
	if len(r) == 0 || !(unicode.IsLetter(r[0]) || unicode.IsDigit(r[0])) {
		return -1
	}
	n := int(parseInt(token)) - 1
	if n < 0 {
		return -1
	}
	return n
}

// Parse reads entries from r until the source is exhausted or limit entries
// have been produced. Lines past the limit are dropped without error.
//
// dir is the manifest's directory and prefixes each entry's Path. A read
// error ends parsing; the entries read so far are returned with it.
//
// Example:
//
//	r, err := manifest.Open("/data/topology.tpl")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	entries, err := manifest.Parse(r, "/data", 20)
func Parse(r LineReader, dir string, limit int) ([]Entry, error) {
	var entries []Entry

	for limit <= 0 || len(entries) < limit {
		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return entries, fmt.Errorf("read manifest line %d: %w", len(entries)+1, err)
		}

		if Skip(line) {
			continue
		}
		entries = append(entries, ParseLine(line, dir))
	}

	return entries, nil
}
