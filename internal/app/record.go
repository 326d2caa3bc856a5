package app

import (
	"encoding/base64"

	"github.com/ayusman/photobooth/internal/booth"
)

const dataURLPrefix = "data:image/jpeg;base64,"

// FrameRecord is the per-frame message sent to WebSocket viewers.
type FrameRecord struct {
	Frame                string      `json:"frame"`
	Gesture              string      `json:"gesture"`
	ZoomLevel            float64     `json:"zoom_level"`
	Mode                 string      `json:"mode"`
	IsCapturing          bool        `json:"is_capturing"`
	Countdown            int         `json:"countdown"`
	CapturedPhotos       []PhotoView `json:"captured_photos"`
	PhotosCount          int         `json:"photos_count"`
	StabilityCount       int         `json:"stability_count"`
	RequiredStableFrames int         `json:"required_stable_frames"`
}

// PhotoView is a captured photo as shown to viewers.
type PhotoView struct {
	ID        string `json:"id"`
	DataURL   string `json:"dataUrl"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorRecord is sent to viewers when the stream cannot be served.
type ErrorRecord struct {
	Error string `json:"error"`
}

// DataURL encodes a JPEG as an inline data URL.
func DataURL(jpeg []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(jpeg)
}

// newFrameRecord builds the viewer record for one processed frame.
// Photo data URLs are taken from urls and the map is pruned to the
// photos still in the collection.
func newFrameRecord(display []byte, snap booth.Snapshot, urls map[string]string) FrameRecord {
	photos := make([]PhotoView, 0, len(snap.Photos))
	keep := make(map[string]struct{}, len(snap.Photos))

	for _, p := range snap.Photos {
		url, ok := urls[p.ID]
		if !ok {
			url = DataURL(p.Image)
			urls[p.ID] = url
		}
		keep[p.ID] = struct{}{}
		photos = append(photos, PhotoView{ID: p.ID, DataURL: url, Timestamp: p.Timestamp})
	}
	for id := range urls {
		if _, ok := keep[id]; !ok {
			delete(urls, id)
		}
	}

	return FrameRecord{
		Frame:                DataURL(display),
		Gesture:              string(snap.Gesture),
		ZoomLevel:            snap.Zoom,
		Mode:                 snap.State.Mode(),
		IsCapturing:          snap.State.IsCapturing(),
		Countdown:            snap.State.Countdown(),
		CapturedPhotos:       photos,
		PhotosCount:          len(snap.Photos),
		StabilityCount:       snap.StabilityCount,
		RequiredStableFrames: snap.RequiredStable,
	}
}
