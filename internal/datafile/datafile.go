package datafile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	STREAM_FILE = "%s.baml"
	LOCK_FILE   = "%s.baml.lock"
)

var ErrInvalidName = errors.New("invalid stream name")

// DataFile is a compiled record stream on disk. It is a seekable sink, so
// the record writer can patch offsets into it in place. The file is guarded
// by an exclusive lock file for as long as it is open.
type DataFile struct {
	sync.RWMutex

	file *os.File
	lock *os.File
	name string
}

// New creates (or truncates) the stream file for name inside dir and takes
// the lock on it. Only one DataFile per name can be open at a time.
func New(dir, name string) (*DataFile, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	lock, err := createFlockFile(filepath.Join(dir, fmt.Sprintf(LOCK_FILE, name)))
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, fmt.Sprintf(STREAM_FILE, name))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_TRUNC, 0644)
	if err != nil {
		_ = destroyFlockFile(lock)
		return nil, fmt.Errorf("error opening stream file for writing: %w", err)
	}

	return &DataFile{
		file: file,
		lock: lock,
		name: name,
	}, nil
}

// Load reads the complete stream stored for name. It fails while the
// stream is being written.
func Load(dir, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	lock, err := createFlockFile(filepath.Join(dir, fmt.Sprintf(LOCK_FILE, name)))
	if err != nil {
		return nil, err
	}
	defer destroyFlockFile(lock)

	data, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf(STREAM_FILE, name)))
	if err != nil {
		return nil, fmt.Errorf("error reading stream file: %w", err)
	}
	return data, nil
}

// checkName only allows plain file names so that a stream name can't
// escape the data directory.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Name returns the stream name.
func (d *DataFile) Name() string {
	return d.name
}

// Write writes data at the current position.
func (d *DataFile) Write(data []byte) (int, error) {
	d.Lock()
	defer d.Unlock()

	return d.file.Write(data)
}

// Seek implements io.Seeker.
func (d *DataFile) Seek(offset int64, whence int) (int64, error) {
	d.Lock()
	defer d.Unlock()

	return d.file.Seek(offset, whence)
}

// Read reads size bytes starting at pos without moving the write position.
func (d *DataFile) Read(pos int64, size int) ([]byte, error) {
	d.RLock()
	defer d.RUnlock()

	// Initialise a buffer for reading data.
	record := make([]byte, size)

	// Read the file with the given offset.
	n, err := d.file.ReadAt(record, pos)
	if err != nil && !(errors.Is(err, io.EOF) && n == size) {
		return nil, err
	}

	// Check if the size of bytes read matches the record size.
	if n != size {
		return nil, fmt.Errorf("error fetching record, invalid size")
	}

	return record, nil
}

// Size returns the size of the stream file in bytes.
func (d *DataFile) Size() (int64, error) {
	stat, err := d.file.Stat()
	if err != nil {
		return -1, fmt.Errorf("error fetching file stats: %v", err)
	}

	return stat.Size(), nil
}

// Sync flushes the in-memory buffers to the disk.
func (d *DataFile) Sync() error {
	return d.file.Sync()
}

// Close syncs and closes the stream file and releases the lock.
func (d *DataFile) Close() error {
	if err := d.file.Sync(); err != nil {
		return err
	}

	if err := d.file.Close(); err != nil {
		return err
	}

	return destroyFlockFile(d.lock)
}
