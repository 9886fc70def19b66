// Package storage keeps named scenes in a saves directory.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/san-kum/gravbox/internal/physics"
)

const (
	// Ext is the file extension of a save.
	Ext = ".space"

	// AutosaveName is written when the sandbox exits.
	AutosaveName = "autosave"

	MaxNameLen = 64
)

var (
	ErrInvalidName = errors.New("storage: invalid save name")
	ErrNotFound    = errors.New("storage: save not found")
)

type Store struct {
	baseDir string
	logger  log.Logger
}

// New returns a store rooted at baseDir. A nil logger discards output.
func New(baseDir string, logger log.Logger) *Store {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Store{baseDir: baseDir, logger: log.With(logger, "component", "storage")}
}

// DefaultDir is the "saves" directory next to the executable, or ./saves
// when the executable path is unknown.
func DefaultDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "saves"
	}
	return filepath.Join(filepath.Dir(exe), "saves")
}

func (s *Store) Dir() string { return s.baseDir }

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// ValidName checks that name can be used as a file name on every platform
// and cannot escape the saves directory.
func ValidName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > MaxNameLen:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidName, MaxNameLen)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("%w: %q has surrounding spaces", ErrInvalidName, name)
	}
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(`/\<>:"|?*`, r) {
			return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, r)
		}
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.baseDir, name+Ext)
}

// Save writes the scene under name. The data goes to a temporary file in
// the saves directory first and is renamed into place, so an interrupted or
// failed save never leaves a partial scene behind.
func (s *Store) Save(name string, w *physics.World) (err error) {
	if err := ValidName(name); err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.baseDir, "."+name+"-*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			level.Warn(s.logger).Log("msg", "save failed", "name", name, "err", err)
		}
	}()

	if err = w.Encode(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), s.path(name)); err != nil {
		return err
	}

	level.Info(s.logger).Log("msg", "saved", "name", name, "bodies", len(w.Bodies))
	return nil
}

// Load reads the scene saved under name. It returns ErrNotFound when there
// is no such save and a parse error for a malformed file.
func (s *Store) Load(name string) (*physics.World, error) {
	if err := ValidName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	defer f.Close()

	w, err := physics.Decode(f)
	if err != nil {
		level.Warn(s.logger).Log("msg", "load failed", "name", name, "err", err)
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	level.Info(s.logger).Log("msg", "loaded", "name", name, "bodies", len(w.Bodies))
	return w, nil
}

// LoadInto replaces w with the scene saved under name. On error w is left
// unchanged.
func (s *Store) LoadInto(name string, w *physics.World) error {
	loaded, err := s.Load(name)
	if err != nil {
		return err
	}
	w.Replace(loaded)
	return nil
}

// Entry describes one save on disk.
type Entry struct {
	Name    string    `json:"name"`
	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// List returns the saves sorted by name. A missing directory has no saves.
func (s *Store) List() ([]Entry, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, err
	}

	saves := make([]Entry, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, Ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		saves = append(saves, Entry{
			Name:    strings.TrimSuffix(name, Ext),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	sort.Slice(saves, func(i, j int) bool { return saves[i].Name < saves[j].Name })
	return saves, nil
}

// Names returns only the names of the saves.
func (s *Store) Names() ([]string, error) {
	entries, err := s.List()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names, nil
}

func (s *Store) Exists(name string) bool {
	if ValidName(name) != nil {
		return false
	}
	_, err := os.Stat(s.path(name))
	return err == nil
}

func (s *Store) Delete(name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if err := os.Remove(s.path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return err
	}
	level.Info(s.logger).Log("msg", "deleted", "name", name)
	return nil
}

func (s *Store) Autosave(w *physics.World) error { return s.Save(AutosaveName, w) }

func (s *Store) LoadAutosave() (*physics.World, error) { return s.Load(AutosaveName) }
