package view

import (
	"image"

	"github.com/soocke/angora-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CapturePreview shows the annotated camera frame.
type CapturePreview interface {
	ShowFrame(img image.Image)
	Reset()
}

type capturePreview struct {
	label     *LabelWidget
	targetW   int
	targetH   int
	prevPhoto *Img // last Tk photo image instance
}

// Internal state tracks the current photo so we can dispose the old image
// before replacing it, preventing accumulation of off-screen image data.

// NewCapturePreview creates the preview label spanning columns 0-3 of row and
// scales frames to fit w x h.
func NewCapturePreview(row, w, h int) CapturePreview {
	v := &capturePreview{}
	v.setTargetSize(w, h)
	photo := NewPhoto(Data(v.placeholder()))
	v.label = Label(Image(photo), Borderwidth(1), Relief("sunken"))
	Grid(v.label, Row(row), Column(0), Columnspan(4), Sticky("we"), Padx("0.4m"), Pady("0.4m"))
	v.prevPhoto = photo
	return v
}

const (
	// Max preview dimensions when no target size is set.
	maxPreviewW = 960
	maxPreviewH = 540
)

// placeholder is a black frame of the target size, shown before the first
// frame arrives.
func (v *capturePreview) placeholder() []byte {
	w, h := v.size()
	return images.EncodePNG(image.NewRGBA(image.Rect(0, 0, w, h)))
}

func (v *capturePreview) size() (int, int) {
	if v.targetW <= 0 || v.targetH <= 0 {
		return maxPreviewW, maxPreviewH
	}
	return v.targetW, v.targetH
}

func (v *capturePreview) ShowFrame(img image.Image) {
	if v.label == nil || img == nil {
		return
	}
	w, h := v.size()
	// Scale for display only; allocate a fresh scaled image each call.
	v.replace(images.EncodePNG(images.ScaleToFit(img, w, h)))
}

func (v *capturePreview) Reset() {
	if v.label != nil {
		v.replace(v.placeholder())
	}
}

func (v *capturePreview) replace(pngBytes []byte) {
	// Replace previous photo to avoid retaining obsolete pixel buffers.
	if v.prevPhoto != nil {
		v.prevPhoto.Delete()
	}
	v.prevPhoto = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.prevPhoto))
}

// setTargetSize updates desired scaling dimensions used by ShowFrame.
func (v *capturePreview) setTargetSize(w, h int) {
	if v == nil {
		return
	}
	if w < 50 {
		w = 50
	}
	if h < 50 {
		h = 50
	}
	v.targetW, v.targetH = w, h
}
