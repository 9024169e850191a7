package testutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"sft-go/internal/sft"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing. Symlinks
// are tracked separately from regular entries so projection behavior can be
// exercised without touching a real disk.
type MockFilesystemManager struct {
	files    map[string]*MockFile
	symlinks map[string]string // link path -> target

	// MoveFailures injects an error for MoveFile calls keyed by source
	// path. Used to exercise rollback paths.
	MoveFailures map[string]error
	// SymlinkErr, when set, fails every Symlink call.
	SymlinkErr error
}

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:        make(map[string]*MockFile),
		symlinks:     make(map[string]string),
		MoveFailures: make(map[string]error),
	}
}

// AddFile adds a regular file to the mock filesystem.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.files[path] = &MockFile{
		Content:     content,
		Permissions: 0644,
		ModTime:     time.Now(),
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.files[path] = &MockFile{
		Permissions: 0755,
		ModTime:     time.Now(),
		IsDirectory: true,
	}
}

// AddSymlink adds a symlink without going through Symlink's checks.
func (m *MockFilesystemManager) AddSymlink(target, linkPath string) {
	m.symlinks[linkPath] = target
}

// HasFile reports whether a regular entry exists at path.
func (m *MockFilesystemManager) HasFile(path string) bool {
	_, ok := m.files[path]
	return ok
}

// SymlinkTarget returns the target of a symlink, or "" when linkPath is
// not a symlink.
func (m *MockFilesystemManager) SymlinkTarget(linkPath string) string {
	return m.symlinks[linkPath]
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*sft.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", absPath)
	}

	info := &mockFileInfo{
		name:    filepath.Base(absPath),
		size:    int64(len(file.Content)),
		mode:    file.Permissions,
		modTime: file.ModTime,
		isDir:   file.IsDirectory,
	}
	return sft.NewPath(absPath, file.IsDirectory, info), nil
}

// follow resolves one level of symlink indirection.
func (m *MockFilesystemManager) follow(path string) string {
	if target, ok := m.symlinks[path]; ok {
		return target
	}
	return path
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	file, ok := m.files[m.follow(path)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	if file.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", path)
	}
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

func (m *MockFilesystemManager) HashFile(path string) (string, int64, error) {
	file, ok := m.files[m.follow(path)]
	if !ok || file.IsDirectory {
		return "", 0, fmt.Errorf("file not found: %s", path)
	}
	h := sha256.Sum256(file.Content)
	return hex.EncodeToString(h[:]), int64(len(file.Content)), nil
}

func (m *MockFilesystemManager) MkdirAll(path string) error {
	m.AddDirectory(path)
	return nil
}

func (m *MockFilesystemManager) CopyFile(src, dst string) error {
	file, ok := m.files[m.follow(src)]
	if !ok || file.IsDirectory {
		return fmt.Errorf("file not found: %s", src)
	}
	if m.entryExists(dst) {
		return fmt.Errorf("destination already exists: %s", dst)
	}
	m.AddFile(dst, append([]byte(nil), file.Content...))
	return nil
}

func (m *MockFilesystemManager) MoveFile(src, dst string) error {
	if err := m.MoveFailures[src]; err != nil {
		return err
	}
	file, ok := m.files[src]
	if !ok || file.IsDirectory {
		return fmt.Errorf("file not found: %s", src)
	}
	if m.entryExists(dst) {
		return fmt.Errorf("destination already exists: %s", dst)
	}
	m.files[dst] = file
	delete(m.files, src)
	return nil
}

func (m *MockFilesystemManager) RemoveFile(path string) error {
	if _, ok := m.symlinks[path]; ok {
		delete(m.symlinks, path)
		return nil
	}
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	return fmt.Errorf("file not found: %s", path)
}

func (m *MockFilesystemManager) Exists(path string) (bool, error) {
	_, ok := m.files[m.follow(path)]
	return ok, nil
}

func (m *MockFilesystemManager) FileSize(path string) (int64, error) {
	file, ok := m.files[m.follow(path)]
	if !ok || file.IsDirectory {
		return 0, fmt.Errorf("file not found: %s", path)
	}
	return int64(len(file.Content)), nil
}

func (m *MockFilesystemManager) ListDir(dir string) ([]string, error) {
	seen := make(map[string]bool)
	for path := range m.files {
		if filepath.Dir(path) == dir {
			seen[filepath.Base(path)] = true
		}
	}
	for path := range m.symlinks {
		if filepath.Dir(path) == dir {
			seen[filepath.Base(path)] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockFilesystemManager) Symlink(target, linkPath string) error {
	if m.SymlinkErr != nil {
		return m.SymlinkErr
	}
	if m.entryExists(linkPath) {
		return fmt.Errorf("path already exists: %s", linkPath)
	}
	m.symlinks[linkPath] = target
	return nil
}

func (m *MockFilesystemManager) InspectSymlink(linkPath string) (*sft.SymlinkState, error) {
	state := &sft.SymlinkState{}

	if target, ok := m.symlinks[linkPath]; ok {
		state.Exists = true
		state.IsSymlink = true
		state.Target = target
		_, state.TargetExists = m.files[target]
		return state, nil
	}
	if _, ok := m.files[linkPath]; ok {
		state.Exists = true
	}
	return state, nil
}

func (m *MockFilesystemManager) entryExists(path string) bool {
	if _, ok := m.files[path]; ok {
		return true
	}
	_, ok := m.symlinks[path]
	return ok
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

// Compile-time check
var _ sft.FilesystemManager = (*MockFilesystemManager)(nil)
