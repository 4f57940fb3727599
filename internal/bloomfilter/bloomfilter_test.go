package bloomfilter

import (
	"testing"

	"github.com/niradar/duplicate-files-in-folders/internal/ignoreset"
	"github.com/niradar/duplicate-files-in-folders/internal/record"
)

func TestAcceptsNeverFalseNegative(t *testing.T) {
	side := []record.FileRecord{
		{Name: "a.txt", Size: 10, MTime: 100},
		{Name: "b.txt", Size: 20, MTime: 200},
		{Name: "c.txt", Size: 30, MTime: 300},
	}

	f := Build(side, ignoreset.None)
	for _, r := range side {
		if !f.Accepts(r) {
			t.Errorf("record %+v was built into the filter but not accepted", r)
		}
	}
}

func TestAcceptsRejectsUnseenAttributes(t *testing.T) {
	side := []record.FileRecord{{Name: "a.txt", Size: 10, MTime: 100}}
	f := Build(side, ignoreset.None)

	if f.Accepts(record.FileRecord{Name: "a.txt", Size: 999, MTime: 100}) {
		t.Error("a size never added to the filter should not be accepted")
	}
}

func TestIgnoredAttributesAreNotChecked(t *testing.T) {
	side := []record.FileRecord{{Name: "a.txt", Size: 10, MTime: 100}}
	f := Build(side, ignoreset.Set{Filename: true, MDate: true})

	// Only size is checked now, so a record differing in name and mtime
	// but matching size must still be accepted.
	other := record.FileRecord{Name: "different.bin", Size: 10, MTime: 999}
	if !f.Accepts(other) {
		t.Error("with filename and mdate ignored, only size should gate acceptance")
	}
}

func TestFilter(t *testing.T) {
	side := []record.FileRecord{{Name: "a.txt", Size: 10, MTime: 100}}
	f := Build(side, ignoreset.None)

	other := []record.FileRecord{
		{Name: "a.txt", Size: 10, MTime: 100},
		{Name: "z.txt", Size: 999, MTime: 999},
	}
	out := f.Filter(other)
	if len(out) != 1 || out[0].Name != "a.txt" {
		t.Errorf("expected only the matching record to survive, got %+v", out)
	}
}
