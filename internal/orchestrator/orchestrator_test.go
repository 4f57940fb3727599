package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/niradar/duplicate-files-in-folders/internal/config"
	"github.com/niradar/duplicate-files-in-folders/internal/ignoreset"
	"github.com/niradar/duplicate-files-in-folders/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunEndToEndMovesDuplicates(t *testing.T) {
	base, err := os.MkdirTemp("", "orchestrator-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(base)

	scanDir := filepath.Join(base, "scan")
	refDir := filepath.Join(base, "ref")
	moveTo := filepath.Join(base, "move-to")
	cacheDir := filepath.Join(base, "cache")

	writeFile(t, filepath.Join(scanDir, "dup.txt"), "shared content")
	writeFile(t, filepath.Join(scanDir, "only-scan.txt"), "unique to scan")
	writeFile(t, filepath.Join(refDir, "dup.txt"), "shared content")

	opts := config.Options{
		ScanDir:      scanDir,
		ReferenceDir: refDir,
		MoveTo:       moveTo,
		Run:          true,
		Ignore:       ignoreset.Set{MDate: true},
		Action:       config.ActionMoveDuplicates,
	}

	log := logging.New(logging.LevelQuiet)
	summary, err := Run(opts, log, cacheDir)
	if err != nil {
		t.Fatal(err)
	}

	if summary.GroupCount != 1 {
		t.Errorf("expected 1 duplicate group, got %d", summary.GroupCount)
	}
	if summary.FilesMoved != 1 {
		t.Errorf("expected 1 file moved, got %d", summary.FilesMoved)
	}

	if _, err := os.Stat(filepath.Join(moveTo, "dup.txt")); err != nil {
		t.Errorf("expected the scan duplicate at move_to/dup.txt: %v", err)
	}
	if _, err := os.Stat(filepath.Join(scanDir, "only-scan.txt")); err != nil {
		t.Error("expected the non-duplicate scan file to remain untouched")
	}
}

func TestRunCreateCSVAction(t *testing.T) {
	base, err := os.MkdirTemp("", "orchestrator-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(base)

	scanDir := filepath.Join(base, "scan")
	refDir := filepath.Join(base, "ref")
	moveTo := filepath.Join(base, "move-to")
	cacheDir := filepath.Join(base, "cache")

	writeFile(t, filepath.Join(scanDir, "dup.txt"), "shared content")
	writeFile(t, filepath.Join(refDir, "dup.txt"), "shared content")

	opts := config.Options{
		ScanDir:      scanDir,
		ReferenceDir: refDir,
		MoveTo:       moveTo,
		Run:          true,
		Ignore:       ignoreset.Set{MDate: true},
		Action:       config.ActionCreateCSV,
	}

	log := logging.New(logging.LevelQuiet)
	if _, err := Run(opts, log, cacheDir); err != nil {
		t.Fatal(err)
	}

	csvPath := filepath.Join(moveTo, "duplicates.csv")
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("expected a CSV report at %s: %v", csvPath, err)
	}
	// create_csv must not move or delete the scan-side duplicate.
	if _, err := os.Stat(filepath.Join(scanDir, "dup.txt")); err != nil {
		t.Error("expected create_csv to leave the scan file in place")
	}
}

func TestRunDryRunDoesNotMutate(t *testing.T) {
	base, err := os.MkdirTemp("", "orchestrator-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(base)

	scanDir := filepath.Join(base, "scan")
	refDir := filepath.Join(base, "ref")
	moveTo := filepath.Join(base, "move-to")
	cacheDir := filepath.Join(base, "cache")

	writeFile(t, filepath.Join(scanDir, "dup.txt"), "shared content")
	writeFile(t, filepath.Join(refDir, "dup.txt"), "shared content")

	opts := config.Options{
		ScanDir:      scanDir,
		ReferenceDir: refDir,
		MoveTo:       moveTo,
		Run:          false,
		Ignore:       ignoreset.Set{MDate: true},
		Action:       config.ActionMoveDuplicates,
	}

	log := logging.New(logging.LevelQuiet)
	summary, err := Run(opts, log, cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if summary.FilesMoved != 1 {
		t.Errorf("expected the dry-run summary to still report 1 file moved, got %d", summary.FilesMoved)
	}
	if _, err := os.Stat(filepath.Join(scanDir, "dup.txt")); err != nil {
		t.Error("dry-run must not actually move the scan file")
	}
	if _, err := os.Stat(filepath.Join(moveTo, "dup.txt")); !os.IsNotExist(err) {
		t.Error("dry-run must not create anything under move_to")
	}
}
