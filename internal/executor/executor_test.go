package executor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/niradar/duplicate-files-in-folders/internal/ignoreset"
	"github.com/niradar/duplicate-files-in-folders/internal/logging"
	"github.com/niradar/duplicate-files-in-folders/internal/mover"
	"github.com/niradar/duplicate-files-in-folders/internal/pathpolicy"
	"github.com/niradar/duplicate-files-in-folders/internal/record"
	"github.com/niradar/duplicate-files-in-folders/internal/resolver"
)

func newTestMover(t *testing.T) *mover.Mover {
	policy := pathpolicy.New()
	return mover.New(policy, logging.New(logging.LevelQuiet), false)
}

func writeFile(t *testing.T, dir, name, content string) record.FileRecord {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return record.FileRecord{Path: path, Name: name, Size: uint64(len(content))}
}

func TestRunMovesSingleTarget(t *testing.T) {
	scanDir, err := os.MkdirTemp("", "executor-scan")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(scanDir)
	refDir, err := os.MkdirTemp("", "executor-ref")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(refDir)
	moveTo, err := os.MkdirTemp("", "executor-moveto")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(moveTo)

	scanRec := writeFile(t, scanDir, "dup.txt", "shared")
	refRec := writeFile(t, refDir, "dup.txt", "shared")

	groups := []resolver.DuplicateGroup{
		{Key: "k1", Scan: []record.FileRecord{scanRec}, Ref: []record.FileRecord{refRec}},
	}

	counts, err := Run(groups, newTestMover(t), Options{
		ScanRoot:      scanDir,
		ReferenceRoot: refDir,
		MoveTo:        moveTo,
	})
	if err != nil {
		t.Fatal(err)
	}
	if counts.FilesMoved != 1 {
		t.Errorf("expected 1 file moved, got %d", counts.FilesMoved)
	}

	expectedDst := filepath.Join(moveTo, "dup.txt")
	if _, err := os.Stat(expectedDst); err != nil {
		t.Errorf("expected the scan duplicate to be moved to %s: %v", expectedDst, err)
	}
	if _, err := os.Stat(scanRec.Path); !os.IsNotExist(err) {
		t.Error("expected the scan file to no longer exist at its original location")
	}
}

func TestRunKeepStructureMirrorsScanTree(t *testing.T) {
	scanDir, err := os.MkdirTemp("", "executor-scan")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(scanDir)
	refDir, err := os.MkdirTemp("", "executor-ref")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(refDir)
	moveTo, err := os.MkdirTemp("", "executor-moveto")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(moveTo)

	if err := os.MkdirAll(filepath.Join(scanDir, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	scanRec := writeFile(t, filepath.Join(scanDir, "nested"), "dup.txt", "shared")
	refRec := writeFile(t, refDir, "dup.txt", "shared")

	groups := []resolver.DuplicateGroup{
		{Key: "k1", Scan: []record.FileRecord{scanRec}, Ref: []record.FileRecord{refRec}},
	}

	_, err = Run(groups, newTestMover(t), Options{
		ScanRoot:      scanDir,
		ReferenceRoot: refDir,
		MoveTo:        moveTo,
		KeepStructure: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	expectedDst := filepath.Join(moveTo, "nested", "dup.txt")
	if _, err := os.Stat(expectedDst); err != nil {
		t.Errorf("expected keep_structure to mirror the scan-relative path at %s: %v", expectedDst, err)
	}
}

func TestRunCopyToAllCoversEveryReferenceDuplicate(t *testing.T) {
	scanDir, err := os.MkdirTemp("", "executor-scan")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(scanDir)
	refDir, err := os.MkdirTemp("", "executor-ref")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(refDir)
	moveTo, err := os.MkdirTemp("", "executor-moveto")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(moveTo)

	scanRec := writeFile(t, scanDir, "dup.txt", "shared")
	refRec1 := writeFile(t, refDir, "dup1.txt", "shared")
	refRec2 := writeFile(t, refDir, "dup2.txt", "shared")

	groups := []resolver.DuplicateGroup{
		{Key: "k1", Scan: []record.FileRecord{scanRec}, Ref: []record.FileRecord{refRec1, refRec2}},
	}

	counts, err := Run(groups, newTestMover(t), Options{
		ScanRoot:      scanDir,
		ReferenceRoot: refDir,
		MoveTo:        moveTo,
		CopyToAll:     true,
	})
	if err != nil {
		t.Fatal(err)
	}

	// One reference duplicate is covered by moving the scan file, the
	// other by copying it, so there should be exactly one of each.
	if counts.FilesMoved != 1 {
		t.Errorf("expected 1 file moved, got %d", counts.FilesMoved)
	}
	if counts.FilesCreated != 1 {
		t.Errorf("expected 1 file created, got %d", counts.FilesCreated)
	}
}

func TestCleanScanDuplicationsQuarantinesLeftovers(t *testing.T) {
	scanDir, err := os.MkdirTemp("", "executor-scan")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(scanDir)
	refDir, err := os.MkdirTemp("", "executor-ref")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(refDir)
	moveTo, err := os.MkdirTemp("", "executor-moveto")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(moveTo)

	// Two scan-side duplicates of one reference file: only the first is
	// moved by the main pass, leaving the second for the quarantine pass.
	scanRec1 := writeFile(t, scanDir, "dup1.txt", "shared")
	scanRec2 := writeFile(t, scanDir, "dup2.txt", "shared")
	refRec := writeFile(t, refDir, "dup.txt", "shared")

	groups := []resolver.DuplicateGroup{
		{Key: "k1", Scan: []record.FileRecord{scanRec1, scanRec2}, Ref: []record.FileRecord{refRec}},
	}

	counts, err := Run(groups, newTestMover(t), Options{
		ScanRoot:      scanDir,
		ReferenceRoot: refDir,
		MoveTo:        moveTo,
		Ignore:        ignoreset.Set{MDate: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if counts.FilesMoved != 2 {
		t.Fatalf("expected both scan duplicates moved (one main, one quarantined), got %d", counts.FilesMoved)
	}

	quarantineDir := filepath.Join(moveTo, filepath.Base(scanDir)+"_dups")
	if _, err := os.Stat(quarantineDir); err != nil {
		t.Errorf("expected a quarantine directory at %s: %v", quarantineDir, err)
	}
}
