// Package config defines the typed configuration record consumed by the
// orchestrator, built from the CLI surface described in the design. None
// of the later stages mutate this record.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/niradar/duplicate-files-in-folders/internal/corerr"
	"github.com/niradar/duplicate-files-in-folders/internal/ignoreset"
	"github.com/niradar/duplicate-files-in-folders/internal/pathpolicy"
)

// Action selects what the orchestrator does with the resolved groups.
type Action string

// Supported actions.
const (
	ActionMoveDuplicates Action = "move_duplicates"
	ActionCreateCSV      Action = "create_csv"
)

// Options is the full, validated configuration for one run.
type Options struct {
	ScanDir      string
	ReferenceDir string
	MoveTo       string

	Run bool // false means dry-run

	Ignore ignoreset.Set

	CopyToAll bool

	WhitelistExt map[string]struct{}
	BlacklistExt map[string]struct{}

	MinSize uint64
	MaxSize uint64

	KeepEmptyFolders bool // inverts the default "sweep empties"
	FullHash         bool
	KeepStructure    bool

	Action Action

	ClearCache bool

	CSVOutput string
}

// ParseIgnoreDiff turns the comma-separated CLI value into an
// ignoreset.Set. "none" alone means "check everything".
func ParseIgnoreDiff(raw string) (ignoreset.Set, error) {
	var set ignoreset.Set
	if raw == "" {
		return set, nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) == 1 && strings.TrimSpace(parts[0]) == "none" {
		return set, nil
	}

	for _, p := range parts {
		switch strings.TrimSpace(p) {
		case "mdate":
			set.MDate = true
		case "filename":
			set.Filename = true
		case "none":
			return ignoreset.Set{}, corerr.New(corerr.KindConfigError, "", `"none" must not be combined with other ignore_diff values`, nil)
		case "":
			// tolerate trailing commas
		default:
			return ignoreset.Set{}, corerr.New(corerr.KindConfigError, "", fmt.Sprintf("unrecognized ignore_diff value %q", p), nil)
		}
	}
	return set, nil
}

// ParseExtSet splits a comma-separated extension list into a set.
func ParseExtSet(raw string) map[string]struct{} {
	if raw == "" {
		return nil
	}
	out := make(map[string]struct{})
	for _, e := range strings.Split(raw, ",") {
		e = strings.TrimSpace(e)
		if e != "" {
			out[e] = struct{}{}
		}
	}
	return out
}

// ParseSize parses an integer with an optional unit suffix
// B|KB|MB|GB (case-insensitive), matching the CLI surface's min_size/
// max_size grammar.
func ParseSize(raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}

	upper := strings.ToUpper(strings.TrimSpace(raw))
	multiplier := uint64(1)
	numeric := upper

	for _, suffix := range []struct {
		unit string
		mult uint64
	}{
		{"GB", 1 << 30},
		{"MB", 1 << 20},
		{"KB", 1 << 10},
		{"B", 1},
	} {
		if strings.HasSuffix(upper, suffix.unit) {
			multiplier = suffix.mult
			numeric = strings.TrimSuffix(upper, suffix.unit)
			break
		}
	}

	numeric = strings.TrimSpace(numeric)
	value, err := strconv.ParseUint(numeric, 10, 64)
	if err != nil {
		return 0, corerr.New(corerr.KindConfigError, "", fmt.Sprintf("invalid size %q", raw), err)
	}
	return value * multiplier, nil
}

// Validate enforces the §6 CLI validation rules: scan_dir and
// reference_dir must exist, be directories and be non-empty; none of the
// three paths may be nested within another nor identical.
func (o *Options) Validate() error {
	for _, d := range []struct{ name, path string }{
		{"scan_dir", o.ScanDir},
		{"reference_dir", o.ReferenceDir},
	} {
		info, err := os.Stat(d.path)
		if err != nil {
			return corerr.New(corerr.KindConfigError, d.path, d.name+" does not exist", err)
		}
		if !info.IsDir() {
			return corerr.New(corerr.KindConfigError, d.path, d.name+" is not a directory", nil)
		}
		entries, err := os.ReadDir(d.path)
		if err != nil {
			return corerr.New(corerr.KindConfigError, d.path, d.name+" could not be read", err)
		}
		if len(entries) == 0 {
			return corerr.New(corerr.KindConfigError, d.path, d.name+" is empty", nil)
		}
	}

	if o.WhitelistExt != nil && o.BlacklistExt != nil {
		return corerr.New(corerr.KindConfigError, "", "whitelist_ext and blacklist_ext are mutually exclusive", nil)
	}

	nests, err := pathpolicy.AnyNests([]string{o.ScanDir, o.ReferenceDir, o.MoveTo})
	if err != nil {
		return err
	}
	if len(nests) > 0 {
		n := nests[0]
		return corerr.New(corerr.KindConfigError, "", fmt.Sprintf("%q is nested within (or identical to) %q", n.Inner, n.Outer), nil)
	}

	switch o.Action {
	case ActionMoveDuplicates, ActionCreateCSV, "":
	default:
		return corerr.New(corerr.KindConfigError, "", fmt.Sprintf("unrecognized action %q", o.Action), nil)
	}

	return nil
}
