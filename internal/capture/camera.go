// Package capture records short clips from a camera and uploads them to the
// tutoring backend while the student is learning.
package capture

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// DefaultMimeType is used when a backend cannot tell what it captured.
const DefaultMimeType = "video/webm"

// ErrClosed is returned by a Device after Close.
var ErrClosed = errors.New("capture: device closed")

// Clip is one captured chunk of media.
type Clip struct {
	Data     []byte
	MimeType string
}

// Camera hands out exclusive access to a capture device.
type Camera interface {
	Open(ctx context.Context) (Device, error)
}

// Device is an opened camera. Close releases it.
type Device interface {
	Capture(ctx context.Context) (Clip, error)
	Close() error
}

// ExecCamera captures by running an external command (typically ffmpeg) and
// reading the clip from its stdout.
type ExecCamera struct {
	Command  []string
	MimeType string
}

func (c ExecCamera) Open(context.Context) (Device, error) {
	if len(c.Command) == 0 {
		return nil, errors.New("capture: no capture command configured")
	}
	if _, err := exec.LookPath(c.Command[0]); err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}
	mt := c.MimeType
	if mt == "" {
		mt = DefaultMimeType
	}
	return &execDevice{argv: slices.Clone(c.Command), mimeType: mt}, nil
}

type execDevice struct {
	mu       sync.Mutex
	argv     []string
	mimeType string
	closed   bool
}

func (d *execDevice) Capture(ctx context.Context) (Clip, error) {
	d.mu.Lock()
	closed := d.closed
	d.mu.Unlock()
	if closed {
		return Clip{}, ErrClosed
	}

	out, err := exec.CommandContext(ctx, d.argv[0], d.argv[1:]...).Output()
	if err != nil {
		return Clip{}, fmt.Errorf("capture: run %s: %w", d.argv[0], err)
	}
	return Clip{Data: out, MimeType: d.mimeType}, nil
}

func (d *execDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// DirCamera replays the files of a directory in name order, looping forever.
// It stands in for a real camera in demos and tests.
type DirCamera struct {
	Dir string
}

func (c DirCamera) Open(context.Context) (Device, error) {
	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", c.Dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			files = append(files, filepath.Join(c.Dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("capture: no files in %s", c.Dir)
	}
	return &dirDevice{files: files}, nil
}

type dirDevice struct {
	mu     sync.Mutex
	files  []string
	next   int
	closed bool
}

func (d *dirDevice) Capture(context.Context) (Clip, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return Clip{}, ErrClosed
	}
	path := d.files[d.next]
	d.next = (d.next + 1) % len(d.files)
	d.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return Clip{}, fmt.Errorf("capture: %w", err)
	}
	return Clip{Data: data, MimeType: mimeFor(path)}, nil
}

func (d *dirDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func mimeFor(path string) string {
	mt := mime.TypeByExtension(filepath.Ext(path))
	if mt == "" {
		return DefaultMimeType
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}
