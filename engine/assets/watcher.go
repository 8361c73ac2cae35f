package assets

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/aefr/engine/bus"
	"github.com/spaghettifunk/aefr/engine/core"
	"github.com/spaghettifunk/aefr/engine/resources"
)

// ReloadDebounce swallows the burst of events editors produce on save.
const ReloadDebounce = 250 * time.Millisecond

type trackedSlot struct {
	path  string
	files []string
}

// Watcher re-requests a slot's character when one of its files changes.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	sender   *bus.Sender

	mu        sync.Mutex
	files     map[string]map[int]struct{}
	slots     map[int]trackedSlot
	dirs      map[string]int
	lastFired map[int]time.Time
	isClosed  bool

	done chan struct{}
	wg   sync.WaitGroup
}

func NewWatcher(sender *bus.Sender) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsnotify:  fsWatch,
		sender:    sender,
		files:     make(map[string]map[int]struct{}),
		slots:     make(map[int]trackedSlot),
		dirs:      make(map[string]int),
		lastFired: make(map[int]time.Time),
		done:      make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Track replaces whatever was watched for slot with files.
func (w *Watcher) Track(slot int, requestPath string, files []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.isClosed {
		return errors.New("watcher already closed")
	}
	w.untrackLocked(slot)

	tracked := trackedSlot{path: requestPath}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		dir := filepath.Dir(abs)
		if w.dirs[dir] == 0 {
			if err := w.fsnotify.Add(dir); err != nil {
				return err
			}
		}
		w.dirs[dir]++
		if w.files[abs] == nil {
			w.files[abs] = make(map[int]struct{})
		}
		w.files[abs][slot] = struct{}{}
		tracked.files = append(tracked.files, abs)
	}
	w.slots[slot] = tracked
	return nil
}

// Untrack stops watching a slot's files.
func (w *Watcher) Untrack(slot int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.untrackLocked(slot)
}

func (w *Watcher) untrackLocked(slot int) {
	tracked, ok := w.slots[slot]
	if !ok {
		return
	}
	for _, f := range tracked.files {
		if owners := w.files[f]; owners != nil {
			delete(owners, slot)
			if len(owners) == 0 {
				delete(w.files, f)
			}
		}
		dir := filepath.Dir(f)
		w.dirs[dir]--
		if w.dirs[dir] <= 0 {
			delete(w.dirs, dir)
			// Can't stat a deleted directory, so just ignore the error.
			_ = w.fsnotify.Remove(dir)
		}
	}
	delete(w.slots, slot)
	delete(w.lastFired, slot)
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.isClosed {
		w.mu.Unlock()
		return nil
	}
	w.isClosed = true
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()
	return nil
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.handleFileEvent(e.Name)
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("%s", err)

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

// Handle the creation or modification of a file
func (w *Watcher) handleFileEvent(path string) {
	if determineAssetType(path) == resources.ResourceTypeNone {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	now := time.Now()
	var reloads []bus.RequestLoad
	for slot := range w.files[abs] {
		if now.Sub(w.lastFired[slot]) < ReloadDebounce {
			continue
		}
		w.lastFired[slot] = now
		reloads = append(reloads, bus.RequestLoad{Slot: slot, Path: w.slots[slot].path})
	}
	w.mu.Unlock()

	sort.Slice(reloads, func(i, j int) bool { return reloads[i].Slot < reloads[j].Slot })
	for _, req := range reloads {
		core.LogInfo("%s changed, reloading slot %d", filepath.Base(abs), req.Slot)
		w.sender.Send(req)
	}
}
