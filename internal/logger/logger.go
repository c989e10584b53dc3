package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Entry represents a single log record.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

var (
	mu          sync.RWMutex
	entries     []Entry
	maxEntries  = 1000 // Keep last 1000 in memory
	maxFileSize = int64(5 * 1024 * 1024)
	filePath    string
	file        *os.File
	entryChan   = make(chan Entry, 100)
	done        chan struct{}
	workerDone  chan struct{}
	verbose     bool
)

// Init opens the log file under dataDir/logs and starts the file worker.
func Init(dataDir string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	verbose = debug

	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("witness-%s.log", time.Now().Format("20060102"))
	filePath = filepath.Join(logDir, name)

	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	file = f

	done = make(chan struct{})
	workerDone = make(chan struct{})
	go fileWorker(done, workerDone)

	return nil
}

func Debugf(format string, args ...interface{}) {
	if verbose {
		add(LevelDebug, fmt.Sprintf(format, args...))
	}
}

func Infof(format string, args ...interface{}) {
	add(LevelInfo, fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...interface{}) {
	add(LevelWarn, fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...interface{}) {
	add(LevelError, fmt.Sprintf(format, args...))
}

func add(level, message string) {
	entry := Entry{
		Timestamp: time.Now().Format(time.RFC3339),
		Level:     level,
		Message:   message,
	}

	mu.Lock()
	entries = append(entries, entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}
	started := done != nil
	mu.Unlock()

	fmt.Fprintf(os.Stderr, "[%s] [%s] %s\n", entry.Timestamp, level, message)

	if !started {
		return
	}
	select {
	case entryChan <- entry:
	default:
		// Drop log if channel is full to avoid blocking
	}
}

// Recent returns the in-memory log tail.
func Recent() []Entry {
	mu.RLock()
	defer mu.RUnlock()

	res := make([]Entry, len(entries))
	copy(res, entries)
	return res
}

// FilePath returns the path of the current log file.
func FilePath() string {
	mu.RLock()
	defer mu.RUnlock()
	return filePath
}

// Close flushes pending entries and closes the log file.
func Close() {
	mu.Lock()
	d := done
	done = nil
	mu.Unlock()

	if d != nil {
		close(d)
		<-workerDone
	}

	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
}

func fileWorker(stop <-chan struct{}, finished chan<- struct{}) {
	defer close(finished)
	for {
		select {
		case entry := <-entryChan:
			writeEntry(entry)
		case <-stop:
			// Flush remaining entries
			for {
				select {
				case entry := <-entryChan:
					writeEntry(entry)
				default:
					return
				}
			}
		}
	}
}

func writeEntry(entry Entry) {
	mu.Lock()
	defer mu.Unlock()

	f := file
	if f == nil {
		return
	}

	// Truncate when the file grows past the cap.
	if info, err := f.Stat(); err == nil && info.Size() > maxFileSize {
		f.Close()
		f, err = os.OpenFile(filePath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			file = nil
			return
		}
		file = f
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	f.Write(data)
	f.Write([]byte("\n"))
}
