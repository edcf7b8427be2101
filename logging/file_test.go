package logging

import (
	"bufio"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestWriter(t *testing.T, rot Rotation) (*FileWriter, *fakeClock, string) {
	t.Helper()
	dir := t.TempDir()
	fw, err := NewFileWriter(dir, "site.log", rot)
	if err != nil {
		t.Fatalf("new file writer: %v", err)
	}
	clock := &fakeClock{t: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	fw.now = clock.now
	fw.opened = clock.now()
	return fw, clock, dir
}

func archives(t *testing.T, dir string) []string {
	t.Helper()
	found, err := filepath.Glob(filepath.Join(dir, "site.log.*.gz"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	sort.Strings(found)
	return found
}

func gzLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("gzip %s: %v", path, err)
	}
	var lines []string
	sc := bufio.NewScanner(zr)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

func TestFileWriterRotatesBySizeAndPrunes(t *testing.T) {
	fw, clock, dir := newTestWriter(t, Rotation{MaxBytes: 10, MaxFiles: 2})
	for _, line := range []string{"one-----\n", "two-----\n", "three---\n", "four----\n"} {
		clock.t = clock.t.Add(time.Second)
		if _, err := fw.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := archives(t, dir)
	if len(got) != 2 {
		t.Fatalf("expected 2 archives after pruning, got %v", got)
	}
	if lines := gzLines(t, got[0]); len(lines) != 1 || lines[0] != "two-----" {
		t.Fatalf("oldest kept archive holds %q, want two-----", lines)
	}
	if lines := gzLines(t, got[1]); len(lines) != 1 || lines[0] != "three---" {
		t.Fatalf("newest archive holds %q, want three---", lines)
	}
	current, err := os.ReadFile(filepath.Join(dir, "site.log"))
	if err != nil || string(current) != "four----\n" {
		t.Fatalf("active file = %q, %v", current, err)
	}
	if tmp, _ := filepath.Glob(filepath.Join(dir, "*.tmp")); len(tmp) != 0 {
		t.Fatalf("temporary files left behind: %v", tmp)
	}
}

func TestFileWriterRotatesByAge(t *testing.T) {
	fw, clock, dir := newTestWriter(t, Rotation{MaxAge: time.Hour})
	logger := New("site", INFO, fw)
	logger.Info("general", "before", nil)
	clock.t = clock.t.Add(30 * time.Minute)
	logger.Info("general", "still today", nil)
	if n := len(archives(t, dir)); n != 0 {
		t.Fatalf("rotated too early: %d archives", n)
	}

	clock.t = clock.t.Add(31 * time.Minute)
	logger.Info("general", "after", nil)
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := archives(t, dir)
	if len(got) != 1 {
		t.Fatalf("expected 1 archive, got %v", got)
	}
	if !strings.Contains(got[0], "site.log.20260501-130100") {
		t.Fatalf("archive %s not named after rotation time", got[0])
	}
	if lines := gzLines(t, got[0]); len(lines) != 2 {
		t.Fatalf("archive should hold the first two entries, got %d", len(lines))
	}
}

func TestFileWriterArchiveNamesDoNotCollide(t *testing.T) {
	fw, _, dir := newTestWriter(t, Rotation{MaxBytes: 4})
	for _, line := range []string{"first\n", "second\n", "third\n"} {
		if _, err := fw.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	got := archives(t, dir)
	if len(got) != 2 {
		t.Fatalf("same-second rotations must keep both archives, got %v", got)
	}
	if lines := gzLines(t, got[0]); len(lines) != 1 || lines[0] != "first" {
		t.Fatalf("archives out of order: %s holds %q", got[0], lines)
	}
}

func TestFileWriterOversizedFirstEntryIsKept(t *testing.T) {
	fw, _, dir := newTestWriter(t, Rotation{MaxBytes: 2})
	if _, err := fw.Write([]byte("much longer than two bytes\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	fw.Close()
	if n := len(archives(t, dir)); n != 0 {
		t.Fatalf("empty file was archived: %d", n)
	}
}

func TestFileWriterClosed(t *testing.T) {
	fw, _, _ := newTestWriter(t, Rotation{})
	if err := fw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := fw.Write([]byte("late\n")); !errors.Is(err, errWriterClosed) {
		t.Fatalf("write after close: %v", err)
	}
	if fw.rot.MaxBytes != defaultMaxBytes || fw.rot.MaxFiles != defaultMaxFiles || fw.rot.MaxAge != defaultMaxAge {
		t.Fatalf("defaults not applied: %+v", fw.rot)
	}
}
