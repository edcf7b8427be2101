package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/klauspost/compress/gzip"
)

const (
	defaultMaxBytes = 10 << 20
	defaultMaxFiles = 5
	defaultMaxAge   = 24 * time.Hour
	archiveLayout   = "20060102-150405"
)

var errWriterClosed = errors.New("log file writer closed")

// Rotation controls when a FileWriter starts a new file and how many
// compressed archives it keeps. Zero fields take the defaults: 10 MiB,
// five archives, one day.
type Rotation struct {
	MaxBytes int64
	MaxFiles int
	MaxAge   time.Duration
}

func (r Rotation) withDefaults() Rotation {
	if r.MaxBytes <= 0 {
		r.MaxBytes = defaultMaxBytes
	}
	if r.MaxFiles <= 0 {
		r.MaxFiles = defaultMaxFiles
	}
	if r.MaxAge <= 0 {
		r.MaxAge = defaultMaxAge
	}
	return r
}

// FileWriter is an io.Writer for Logger. The active file is archived as
// <name>.<timestamp>.gz when it would outgrow MaxBytes or is older than
// MaxAge; archives beyond MaxFiles are removed, oldest first.
type FileWriter struct {
	mu     sync.Mutex
	path   string
	rot    Rotation
	file   *os.File
	size   int64
	opened time.Time
	now    func() time.Time
	seq    int

	archiving sync.WaitGroup
}

// NewFileWriter opens dir/filename for appending, creating dir if needed.
func NewFileWriter(dir, filename string, rot Rotation) (*FileWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	fw := &FileWriter{
		path: filepath.Join(dir, filename),
		rot:  rot.withDefaults(),
		now:  time.Now,
	}
	if err := fw.open(); err != nil {
		return nil, err
	}
	return fw, nil
}

func (fw *FileWriter) open() error {
	f, err := os.OpenFile(fw.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("stat log file: %w", err)
	}
	fw.file = f
	fw.size = info.Size()
	fw.opened = fw.now()
	return nil
}

// Write appends p, archiving the current file first when it is due.
func (fw *FileWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.file == nil {
		return 0, errWriterClosed
	}
	if fw.due(len(p)) {
		if err := fw.rotate(); err != nil {
			return 0, err
		}
	}
	n, err := fw.file.Write(p)
	fw.size += int64(n)
	return n, err
}

// due never fires for an empty file, so one oversized entry still lands.
func (fw *FileWriter) due(next int) bool {
	if fw.size == 0 {
		return false
	}
	return fw.size+int64(next) > fw.rot.MaxBytes || fw.now().Sub(fw.opened) >= fw.rot.MaxAge
}

func (fw *FileWriter) rotate() error {
	if err := fw.file.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	fw.file = nil

	archived := fw.archiveName()
	if err := os.Rename(fw.path, archived); err != nil {
		return fmt.Errorf("archive log file: %w", err)
	}
	fw.archiving.Add(1)
	go func() {
		defer fw.archiving.Done()
		if err := compress(archived); err == nil {
			fw.prune()
		}
	}()
	return fw.open()
}

// archiveName returns an unused <path>.<timestamp>.<seq> name. Names sort
// in rotation order.
func (fw *FileWriter) archiveName() string {
	stamp := fw.now().UTC().Format(archiveLayout)
	for {
		name := fmt.Sprintf("%s.%s.%04d", fw.path, stamp, fw.seq)
		fw.seq++
		if !exists(name) && !exists(name+".gz") && !exists(name+".gz.tmp") {
			return name
		}
	}
}

// compress replaces path with path.gz. The archive only appears once it is
// complete.
func compress(path string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := path + ".gz.tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	zw := gzip.NewWriter(out)
	_, err = io.Copy(zw, in)
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path+".gz"); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Remove(path)
}

// prune keeps the newest MaxFiles archives. Archive names sort by time.
func (fw *FileWriter) prune() {
	archives, err := filepath.Glob(fw.path + ".*.gz")
	if err != nil || len(archives) <= fw.rot.MaxFiles {
		return
	}
	sort.Strings(archives)
	for _, old := range archives[:len(archives)-fw.rot.MaxFiles] {
		os.Remove(old)
	}
}

// Close closes the active file and waits for pending archives to finish.
// Writes after Close fail.
func (fw *FileWriter) Close() error {
	fw.mu.Lock()
	var err error
	if fw.file != nil {
		err = fw.file.Close()
		fw.file = nil
	}
	fw.mu.Unlock()
	fw.archiving.Wait()
	return err
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
