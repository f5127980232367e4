package token

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// FileToken is a TokenProvider for a token which is backed by a file.
// This will lookup the value from the file, and will watch the file for
// changes, and re-read when required.
//
// This is typically used for in-cluster service account tokens, which
// Kubernetes mounts into the pod at
// /var/run/secrets/kubernetes.io/serviceaccount/token, and will change
// this file if and when the token expires and is reissued.
//
// The kubelet replaces projected files by swapping a symlink in the
// parent directory, so it is the directory that is watched.
type FileToken struct {
	filename string
	watcher  *fsnotify.Watcher
	log      *slog.Logger

	mutex sync.RWMutex
	token string
}

func NewFileToken(filename string) (*FileToken, error) {
	value, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(filepath.Dir(filename)); err != nil {
		watcher.Close()
		return nil, err
	}

	fileToken := &FileToken{
		filename: filename,
		watcher:  watcher,
		log:      slog.Default().With("file", filename),
		token:    strings.TrimSpace(string(value)),
	}

	go fileToken.watch()

	return fileToken, nil
}

func (t *FileToken) watch() {
	for {
		select {
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				t.reload()
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.log.Warn("error watching token file", "error", err)
		}
	}
}

func (t *FileToken) reload() {
	value, err := os.ReadFile(t.filename)
	if err != nil {
		// The file may be mid-swap, the next event will pick it up.
		t.log.Debug("unable to re-read token file", "error", err)
		return
	}

	token := strings.TrimSpace(string(value))
	if token == "" {
		return
	}

	t.mutex.Lock()
	t.token = token
	t.mutex.Unlock()
}

func (t *FileToken) Token() string {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return t.token
}

// Close stops watching the token file. The last token read remains
// available.
func (t *FileToken) Close() error {
	return t.watcher.Close()
}
