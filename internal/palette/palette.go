// apps/go-server/internal/palette/palette.go
//
// Palette management for the assistant.
//
// Responsibilities:
//   - Parse user-entered color lists ("Red, Green blue") into distinct labels.
//   - Load named palettes from a file or fall back to embedded defaults.
//   - Supply lookups (Lookup, Names, Classic).
//
// File format, one palette per line:
//
//	name: label, label label ...
//
// Blank lines and lines starting with '#' are ignored.
//
// Initialization behavior (Init):
//  1. If PALETTES_FILE is set, load palettes from that file.
//  2. Otherwise use the embedded default_palettes.txt.
//
// Initialization is run once (sync.Once).

package palette

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// ClassicName is the palette used by the daily puzzle.
const ClassicName = "classic"

//go:embed default_palettes.txt
var embeddedPalettes string

var (
	initOnce   sync.Once
	palettes   map[string][]string
	initialErr error

	separators = regexp.MustCompile(`[ ,]+`)
)

// Init loads palettes exactly once. path overrides PALETTES_FILE when set.
func Init(path string) error {
	initOnce.Do(func() {
		if path == "" {
			path = os.Getenv("PALETTES_FILE")
		}
		var (
			loaded map[string][]string
			err    error
		)
		if path != "" {
			var f *os.File
			f, err = os.Open(path)
			if err != nil {
				initialErr = err
				return
			}
			defer f.Close()
			loaded, err = Read(f)
		} else {
			loaded, err = Read(strings.NewReader(embeddedPalettes))
		}
		if err != nil {
			initialErr = err
			return
		}
		if len(loaded) == 0 {
			initialErr = errors.New("palette: no palettes defined")
			return
		}
		palettes = loaded
	})
	return initialErr
}

// Read parses palette definitions from r.
func Read(r io.Reader) (map[string][]string, error) {
	out := make(map[string][]string)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		name, list, ok := strings.Cut(s, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		if !ok || name == "" {
			return nil, fmt.Errorf("palette: line %d: want \"name: colors\"", line)
		}
		labels := Parse(list)
		if len(labels) == 0 {
			return nil, fmt.Errorf("palette: line %d: %q has no colors", line, name)
		}
		out[name] = labels
	}
	return out, sc.Err()
}

// Parse splits a user-entered list on spaces and commas, dropping empty
// entries and repeated labels while keeping first-seen order.
func Parse(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, f := range Split(s) {
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Split breaks a code such as "Red, Red green Blue" into its labels.
// Repeats are kept.
func Split(s string) []string {
	var out []string
	for _, f := range separators.Split(strings.TrimSpace(s), -1) {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Lookup returns a copy of the named palette.
func Lookup(name string) ([]string, bool) {
	p, ok := palettes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, false
	}
	return append([]string(nil), p...), true
}

// Classic returns the classic six-color palette, falling back to the
// embedded definition when Init has not been run or the file lacks it.
func Classic() []string {
	if p, ok := Lookup(ClassicName); ok {
		return p
	}
	defaults, _ := Read(strings.NewReader(embeddedPalettes))
	return defaults[ClassicName]
}

// Names lists the loaded palette names in sorted order.
func Names() []string {
	out := make([]string, 0, len(palettes))
	for n := range palettes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// All returns a copy of every loaded palette.
func All() map[string][]string {
	out := make(map[string][]string, len(palettes))
	for n, p := range palettes {
		out[n] = append([]string(nil), p...)
	}
	return out
}

// ErrUnknown is returned by Resolve for an unknown palette name.
var ErrUnknown = errors.New("unknown palette")

// Resolve picks the colors for a game: a named palette when name is set,
// otherwise the free-text list, otherwise labels. The result is deduplicated.
func Resolve(name, text string, labels []string) ([]string, error) {
	if strings.TrimSpace(name) != "" {
		p, ok := Lookup(name)
		if !ok && strings.EqualFold(strings.TrimSpace(name), ClassicName) {
			return Classic(), nil
		}
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknown, name)
		}
		return p, nil
	}
	if strings.TrimSpace(text) != "" {
		return Parse(text), nil
	}
	seen := make(map[string]struct{}, len(labels))
	var out []string
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if _, dup := seen[l]; dup || l == "" {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out, nil
}
