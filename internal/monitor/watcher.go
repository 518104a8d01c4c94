package monitor

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/0xA1M/sentinel-scan/internal/analysis"
	"github.com/0xA1M/sentinel-scan/internal/catalog"
)

var (
	// ErrAlreadyRunning is returned by Start while monitoring is active;
	// the existing watch set is left untouched.
	ErrAlreadyRunning = errors.New("monitoring is already running")

	// ErrInvalidConfiguration is returned by Start when no requested path
	// is a readable directory; no state change happens.
	ErrInvalidConfiguration = errors.New("no valid paths to monitor")
)

// Config holds watcher tuning knobs.
type Config struct {
	DebounceWindow  time.Duration // quiet period collapsing rapid events per path
	MaxEventsPerSec float64       // analysis rate limit across all paths
	QueueSize       int           // dispatch queue depth
	ReadRetries     uint64        // re-read attempts for a file still being written
}

// DefaultConfig returns the watcher defaults.
func DefaultConfig() Config {
	return Config{
		DebounceWindow:  time.Second,
		MaxEventsPerSec: 20,
		QueueSize:       256,
		ReadRetries:     4,
	}
}

type workItem struct {
	path string
	op   EventType
}

// Watcher observes directories for created/modified script files, debounces
// rapid events per path, and drives qualifying files through the analyzer
// before publishing the result to the broadcaster.
//
// State machine: Stopped -> Start -> Running -> Stop -> Stopped. Start while
// Running fails with ErrAlreadyRunning; Stop while Stopped is a no-op.
type Watcher struct {
	cfg         Config
	analyzer    *analysis.Analyzer
	broadcaster *Broadcaster
	log         *zap.Logger

	mu         sync.Mutex
	running    bool
	paths      []string
	extensions map[string]struct{} // nil = unrestricted
	extList    []string
	fw         *fsnotify.Watcher
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	work       chan workItem
	limiter    *rate.Limiter

	timersMu sync.Mutex
	timers   map[string]*time.Timer
	pending  map[string]EventType
}

// NewWatcher creates a watcher in the Stopped state.
func NewWatcher(cfg Config, analyzer *analysis.Analyzer, broadcaster *Broadcaster, log *zap.Logger) *Watcher {
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = time.Second
	}
	if cfg.MaxEventsPerSec <= 0 {
		cfg.MaxEventsPerSec = DefaultConfig().MaxEventsPerSec
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultConfig().QueueSize
	}
	if analyzer == nil {
		analyzer = analysis.NewAnalyzer()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		cfg:         cfg,
		analyzer:    analyzer,
		broadcaster: broadcaster,
		log:         log,
	}
}

// Start validates the requested directories and begins monitoring.
// Paths that do not exist or are not directories are excluded and reported
// in the StartReport; if nothing valid remains, Start fails with
// ErrInvalidConfiguration. An empty extensions list means unrestricted.
func (w *Watcher) Start(paths []string, extensions []string) (*StartReport, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil, ErrAlreadyRunning
	}

	var valid, invalid []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			invalid = append(invalid, p)
			continue
		}
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%w (invalid: %s)", ErrInvalidConfiguration, strings.Join(invalid, ", "))
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	for _, root := range valid {
		if err := w.addRecursive(fw, root); err != nil {
			w.log.Warn("failed to watch directory tree", zap.String("path", root), zap.Error(err))
		}
	}

	w.running = true
	w.paths = valid
	w.extList = normalizeExtensions(extensions)
	w.extensions = nil
	if len(w.extList) > 0 {
		w.extensions = make(map[string]struct{}, len(w.extList))
		for _, ext := range w.extList {
			w.extensions[ext] = struct{}{}
		}
	}
	w.fw = fw
	w.work = make(chan workItem, w.cfg.QueueSize)
	w.limiter = rate.NewLimiter(rate.Limit(w.cfg.MaxEventsPerSec), 1)
	w.timers = make(map[string]*time.Timer)
	w.pending = make(map[string]EventType)

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.wg.Add(2)
	go w.eventLoop(ctx, fw)
	go w.dispatchLoop(ctx)

	w.log.Info("monitoring started",
		zap.Strings("paths", valid),
		zap.Strings("invalid_paths", invalid),
		zap.Strings("extensions", w.extList))
	if w.broadcaster != nil {
		w.broadcaster.PublishStatus(w.statusLocked())
	}

	return &StartReport{MonitoredPaths: valid, InvalidPaths: invalid}, nil
}

// Stop halts monitoring, releasing the filesystem watch handles and pending
// debounce timers. Analyses already dispatched are allowed to complete and
// still publish. Stopping a stopped watcher is a no-op success.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.paths = nil
	w.extensions = nil
	w.extList = nil
	cancel := w.cancel
	fw := w.fw
	w.fw = nil
	w.mu.Unlock()

	cancel()
	if err := fw.Close(); err != nil {
		w.log.Warn("error closing filesystem watcher", zap.Error(err))
	}
	w.stopTimers()
	w.wg.Wait()

	w.log.Info("monitoring stopped")
	if w.broadcaster != nil {
		w.broadcaster.PublishStatus(Status{Running: false, MonitoredPaths: []string{}})
	}
	return nil
}

// Status returns the current monitoring state.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.statusLocked()
}

func (w *Watcher) statusLocked() Status {
	return Status{
		Running:        w.running,
		MonitoredPaths: append([]string{}, w.paths...),
		FileExtensions: append([]string(nil), w.extList...),
	}
}

// addRecursive watches root and every directory below it.
func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped, not fatal.
			w.log.Debug("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		return fw.Add(path)
	})
}

// eventLoop consumes raw fsnotify events, applies the extension filter and
// arms the per-path debounce timer. It is the single writer feeding the
// dispatch queue.
func (w *Watcher) eventLoop(ctx context.Context, fw *fsnotify.Watcher) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fw.Events:
			if !ok {
				return
			}
			w.handleFsEvent(fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("filesystem watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFsEvent(fw *fsnotify.Watcher, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}

	// Directories created under a watched root are added to the watch so
	// the tree stays covered while running.
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := fw.Add(ev.Name); err != nil {
				w.log.Warn("failed to watch new directory", zap.String("path", ev.Name), zap.Error(err))
			}
			return
		}
	}

	if !w.allowed(ev.Name) {
		return
	}

	op := EventModified
	if ev.Has(fsnotify.Create) {
		op = EventCreated
	}
	w.debounce(ev.Name, op)
}

// debounce arms (or re-arms) the quiet-period timer for path. Repeated
// events inside the window collapse to one dispatch; the first event's type
// wins so a create followed by writes reports as created.
func (w *Watcher) debounce(path string, op EventType) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	} else {
		w.pending[path] = op
	}

	w.timers[path] = time.AfterFunc(w.cfg.DebounceWindow, func() {
		w.timersMu.Lock()
		delete(w.timers, path)
		pendingOp := w.pending[path]
		delete(w.pending, path)
		w.timersMu.Unlock()

		select {
		case w.work <- workItem{path: path, op: pendingOp}:
		default:
			w.log.Warn("dispatch queue full, dropping file event", zap.String("path", path))
		}
	})
}

func (w *Watcher) stopTimers() {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
		delete(w.pending, path)
	}
}

// dispatchLoop is the single consumer of debounced file events, so events
// for any given path publish strictly in detection order. On shutdown it
// drains whatever was already queued before returning.
func (w *Watcher) dispatchLoop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case item := <-w.work:
					w.process(item)
				default:
					return
				}
			}
		case item := <-w.work:
			// Rate-limit bursts; on shutdown the wait is cut short and the
			// item is still processed so in-flight work always publishes.
			_ = w.limiter.Wait(ctx)
			w.process(item)
		}
	}
}

// process reads, analyzes and publishes one file event. Failures are logged
// and swallowed here so no single file can take down monitoring.
func (w *Watcher) process(item workItem) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("panic while processing file event",
				zap.String("path", item.path),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()))
		}
	}()

	ft, ok := catalog.FileTypeForExtension(filepath.Ext(item.path))
	if !ok {
		w.log.Debug("no analyzer for file extension", zap.String("path", item.path))
		return
	}

	content, err := w.readFile(item.path)
	if err != nil {
		w.log.Warn("skipping unreadable file", zap.String("path", item.path), zap.Error(err))
		return
	}

	result, err := w.analyzer.Analyze(content, ft)
	if err != nil {
		w.log.Warn("analysis failed", zap.String("path", item.path), zap.Error(err))
		return
	}

	evt := Event{
		FilePath:  item.path,
		EventType: item.op,
		Timestamp: time.Now().UTC(),
		FileType:  ft,
		Analysis:  result,
	}
	if w.broadcaster != nil {
		w.broadcaster.Publish(evt)
	}

	w.log.Info("file analyzed",
		zap.String("path", item.path),
		zap.String("event_type", string(item.op)),
		zap.Int("detections", result.Summary.TotalDetections),
		zap.Float64("suspicion_score", result.Summary.SuspicionScore))
}

// readFile reads the file, retrying briefly with exponential backoff when
// the file is mid-write and the read fails.
func (w *Watcher) readFile(path string) (string, error) {
	var content []byte
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxElapsedTime = 2 * time.Second

	err := backoff.Retry(func() error {
		b, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		content = b
		return nil
	}, backoff.WithMaxRetries(bo, w.cfg.ReadRetries))
	if err != nil {
		return "", err
	}
	return string(content), nil
}

func (w *Watcher) allowed(path string) bool {
	w.mu.Lock()
	exts := w.extensions
	w.mu.Unlock()
	if exts == nil {
		return true
	}
	_, ok := exts[strings.ToLower(filepath.Ext(path))]
	return ok
}

func normalizeExtensions(extensions []string) []string {
	var out []string
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
