package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/abhisek/synthtutor/internal/api"
)

// DefaultInterval is how often a clip is captured and uploaded.
const DefaultInterval = 2 * time.Second

// Uploader receives captured frames.
type Uploader interface {
	ProcessVideoFrame(ctx context.Context, in api.VideoFrame) (*api.FrameAck, error)
}

// Loop periodically captures a clip and uploads it for the active student.
// Ticks that fire while the previous capture or upload is still running are
// skipped, so at most one upload is ever in flight. The camera is held only
// between Start and Stop, and is released early if a capture fails.
type Loop struct {
	camera   Camera
	uploader Uploader
	interval time.Duration
	log      *zap.Logger

	// lifecycle is held for the whole of Start and Stop so only one camera
	// is ever open.
	lifecycle sync.Mutex

	mu        sync.Mutex
	sched     *cron.Cron
	dev       Device
	cancel    context.CancelFunc
	studentID string
}

// Option configures a Loop.
type Option func(*Loop)

// WithInterval overrides DefaultInterval. Sub-second intervals round up to
// one second.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLogger sets the logger used for capture and upload failures.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

// NewLoop returns an inactive loop.
func NewLoop(camera Camera, uploader Uploader, opts ...Option) *Loop {
	l := &Loop{
		camera:   camera,
		uploader: uploader,
		interval: DefaultInterval,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.interval < time.Second {
		l.interval = time.Second
	}
	return l
}

// Active reports whether the loop currently holds the camera.
func (l *Loop) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dev != nil
}

// StudentID returns the student clips are uploaded for, if active.
func (l *Loop) StudentID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.dev == nil {
		return ""
	}
	return l.studentID
}

// Start acquires the camera and begins uploading clips for studentID. Calling
// Start while already active for the same student is a no-op; for a different
// student the loop is restarted.
func (l *Loop) Start(ctx context.Context, studentID string) error {
	if studentID == "" {
		return errors.New("capture: student id is required")
	}

	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()

	l.mu.Lock()
	if l.dev != nil && l.studentID == studentID {
		l.mu.Unlock()
		return nil
	}
	l.mu.Unlock()
	l.stop()

	dev, err := l.camera.Open(ctx)
	if err != nil {
		l.log.Error("camera open failed", zap.Error(err))
		return err
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{l.log})))
	if _, err := sched.AddFunc(fmt.Sprintf("@every %s", l.interval), func() { l.tick(runCtx, dev, studentID) }); err != nil {
		cancel()
		dev.Close()
		return fmt.Errorf("capture: schedule: %w", err)
	}

	l.mu.Lock()
	l.sched, l.dev, l.cancel, l.studentID = sched, dev, cancel, studentID
	l.mu.Unlock()

	sched.Start()
	l.log.Info("capture started", zap.String("student_id", studentID), zap.Duration("interval", l.interval))
	return nil
}

// Stop halts the scheduler, waits for an in-flight tick and releases the
// camera. It is safe to call at any time.
func (l *Loop) Stop() {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()
	l.stop()
}

func (l *Loop) stop() {
	l.mu.Lock()
	sched, dev, cancel := l.sched, l.dev, l.cancel
	l.sched, l.dev, l.cancel = nil, nil, nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if sched != nil {
		<-sched.Stop().Done()
	}
	if dev != nil {
		if err := dev.Close(); err != nil {
			l.log.Warn("camera close failed", zap.Error(err))
		}
		l.log.Info("capture stopped")
	}
}

func (l *Loop) tick(ctx context.Context, dev Device, studentID string) {
	if ctx.Err() != nil {
		return
	}
	clip, err := dev.Capture(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		l.log.Error("capture failed, releasing camera", zap.Error(err))
		l.release(dev)
		return
	}
	if len(clip.Data) == 0 {
		return
	}

	frame := Frame(studentID, clip)
	if _, err := l.uploader.ProcessVideoFrame(ctx, frame); err != nil {
		l.log.Warn("frame upload failed",
			zap.String("student_id", studentID),
			zap.Int("bytes", len(clip.Data)),
			zap.Error(err))
	}
}

// release gives up dev after a capture error. The scheduler keeps running
// until Stop but its ticks no longer reach the device.
func (l *Loop) release(dev Device) {
	l.mu.Lock()
	owned := l.dev == dev
	if owned {
		l.dev = nil
		l.cancel()
	}
	l.mu.Unlock()
	if owned {
		dev.Close()
	}
}

// Frame encodes a clip as a data URL upload for studentID.
func Frame(studentID string, clip Clip) api.VideoFrame {
	mt := clip.MimeType
	if mt == "" {
		mt = DefaultMimeType
	}
	return api.VideoFrame{
		StudentID: studentID,
		FrameData: "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(clip.Data),
		MimeType:  mt,
	}
}

// cronLogger routes scheduler messages to zap.
type cronLogger struct{ log *zap.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Sugar().Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
