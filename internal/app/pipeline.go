package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/photobooth/internal/booth"
	"github.com/ayusman/photobooth/internal/capture"
	"github.com/ayusman/photobooth/internal/detector"
	"github.com/ayusman/photobooth/internal/plugin"
	"github.com/ayusman/photobooth/internal/store"
)

// runPipeline is the frame loop of one run. It is the only writer of the
// run's session state besides the control operations.
//
// Per frame:
// 1. Read and mirror the camera frame
// 2. Detect the primary hand on a downsized copy
// 3. Step the session (gesture, zoom, trigger, countdown, shot)
// 4. Zoom-crop and encode the preview
// 5. Broadcast the frame record to every viewer
//
// The run ends when ctx is cancelled (last viewer left) or the camera fails.
func (a *App) runPipeline(ctx context.Context, r *run, prev <-chan struct{}) {
	defer close(r.done)
	defer a.finishRun(r)

	// The previous run must release the camera first.
	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			return
		}
	}

	log := a.log.With(zap.String("session", r.session.ID()))

	if err := a.cfg.Camera.Open(); err != nil {
		log.Error("failed to open camera", zap.Error(fmt.Errorf("%w: %v", ErrSourceUnavailable, err)))
		msg, _ := json.Marshal(ErrorRecord{Error: unavailableMessage})
		a.viewers.Broadcast(Update{JSON: msg})
		return
	}
	defer a.cfg.Camera.Close()

	log.Info("stream started")
	a.beginSession(r.session, log)
	defer a.endSession(r.session, log)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("stream stopped")
			return
		case <-timer.C:
		}

		if err := a.processFrame(r, log); err != nil {
			log.Error("camera read failed, ending stream", zap.Error(err))
			return
		}
		timer.Reset(a.cfg.FrameInterval)
	}
}

// processFrame runs one frame through the pipeline. Only a camera read
// failure is returned; every other failure skips or degrades the frame.
func (a *App) processFrame(r *run, log *zap.Logger) error {
	started := time.Now()

	frame, err := a.cfg.Camera.ReadFrame()
	if err != nil {
		a.metrics.ReadErrors.Add(1)
		return fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()
	a.metrics.FramesRead.Add(1)

	mirrored := capture.Mirror(*frame)
	defer mirrored.Close()

	pose := a.detect(mirrored, log)

	// The shot is the mirrored frame at full resolution, before zoom.
	shutter := booth.ShutterFunc(func(at time.Time) ([]byte, string, error) {
		return a.cfg.Photos.Write(mirrored, at)
	})
	snap := r.session.Step(pose, shutter)
	a.observe(snap, log)

	zoomed := capture.ZoomCrop(mirrored, snap.Zoom)
	defer zoomed.Close()

	display, err := capture.EncodeJPEG(zoomed, a.cfg.DisplayQuality)
	if err != nil {
		a.metrics.EncodeErrors.Add(1)
		log.Warn("failed to encode preview", zap.Error(err))
		return nil
	}

	msg, err := json.Marshal(newFrameRecord(display, snap, r.urls))
	if err != nil {
		a.metrics.EncodeErrors.Add(1)
		log.Warn("failed to marshal frame record", zap.Error(err))
		return nil
	}

	a.viewers.Broadcast(Update{JSON: msg, Display: display})
	a.metrics.FramesProcessed.Add(1)
	a.metrics.ObserveFrame(time.Since(started))
	return nil
}

// detect returns the primary hand of frame, or nil. Detector failures are
// treated as "no hand" so the stream keeps running.
func (a *App) detect(frame gocv.Mat, log *zap.Logger) *detector.HandPose {
	small := capture.Downsize(frame, a.cfg.DetectWidth, a.cfg.DetectHeight)
	defer small.Close()

	jpeg, err := capture.EncodeJPEG(small, a.cfg.DisplayQuality)
	if err != nil {
		a.metrics.EncodeErrors.Add(1)
		log.Debug("failed to encode detection frame", zap.Error(err))
		return nil
	}

	hands, err := a.cfg.Detector.Detect(jpeg)
	if err != nil {
		a.metrics.DetectErrors.Add(1)
		log.Debug("hand detection failed", zap.Error(err))
		return nil
	}

	pose := detector.Primary(hands)
	if pose != nil {
		a.metrics.HandsDetected.Add(1)
	}
	return pose
}

// observe reports the events of one step to metrics, the log, the
// catalogue and the hooks.
func (a *App) observe(snap booth.Snapshot, log *zap.Logger) {
	a.metrics.ObserveGesture(string(snap.Gesture))
	a.metrics.SetZoom(snap.Zoom)
	a.metrics.SetCapturing(snap.State.IsCapturing(), len(snap.Photos))

	if snap.Triggered {
		a.metrics.Triggers.Add(1)
		log.Info("capture triggered by gesture", zap.String("gesture", string(snap.Gesture)))
	}

	if snap.CaptureErr != nil {
		a.metrics.CaptureFailures.Add(1)
		log.Warn("capture failed, returning to idle", zap.Error(snap.CaptureErr))
	}

	if p := snap.Captured; p != nil {
		a.metrics.Captures.Add(1)
		log.Info("photo captured",
			zap.String("photo", p.ID),
			zap.String("path", p.Location),
			zap.Int("count", len(snap.Photos)),
			zap.Int("quota", snap.Quota))

		a.catalogue(snap.SessionID, *p, log)
		a.fire(plugin.Request{
			Event:   plugin.EventCapture,
			Session: snap.SessionID,
			Photos:  []plugin.Photo{hookPhoto(*p)},
		})
	}

	if snap.Finished {
		a.metrics.EpisodesFinished.Add(1)
		log.Info("photo collection complete", zap.Int("photos", len(snap.Photos)))

		photos := make([]plugin.Photo, len(snap.Photos))
		for i, p := range snap.Photos {
			photos[i] = hookPhoto(p)
		}
		a.fire(plugin.Request{
			Event:   plugin.EventEpisodeComplete,
			Session: snap.SessionID,
			Photos:  photos,
		})
	}
}

func hookPhoto(p booth.Photo) plugin.Photo {
	return plugin.Photo{ID: p.ID, Path: p.Location, Timestamp: p.Timestamp}
}

func (a *App) beginSession(s *booth.Session, log *zap.Logger) {
	if a.cfg.Store == nil {
		return
	}
	if err := a.cfg.Store.Sessions().Create(&store.Session{ID: s.ID()}); err != nil {
		log.Warn("failed to record session", zap.Error(err))
	}
}

func (a *App) endSession(s *booth.Session, log *zap.Logger) {
	if a.cfg.Store == nil {
		return
	}
	photos := len(s.Status().Photos)
	if err := a.cfg.Store.Sessions().End(s.ID(), time.Now(), photos); err != nil {
		log.Warn("failed to close session record", zap.Error(err))
	}
}

func (a *App) catalogue(sessionID string, p booth.Photo, log *zap.Logger) {
	if a.cfg.Store == nil {
		return
	}
	err := a.cfg.Store.Captures().Create(&store.Capture{
		ID:        p.ID,
		SessionID: sessionID,
		Path:      p.Location,
		SizeBytes: int64(len(p.Image)),
		TakenAt:   time.UnixMilli(p.Timestamp),
	})
	if err != nil {
		log.Warn("failed to catalogue capture", zap.String("photo", p.ID), zap.Error(err))
	}
}
