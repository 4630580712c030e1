package cv

import (
	"fmt"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"

	"github.com/soocke/angora-go/domain/label"
	"github.com/soocke/angora-go/domain/vision"
)

// LBPH is a vision.Recognizer backed by OpenCV's LBPH face recognizer.
type LBPH struct {
	r *contrib.LBPHFaceRecognizer
}

// NewLBPH returns an untrained recognizer. It satisfies vision.RecognizerFactory.
func NewLBPH() vision.Recognizer {
	return &LBPH{r: contrib.NewLBPHFaceRecognizer()}
}

func (l *LBPH) Train(s vision.Sample, id label.ID) (err error) {
	cs, err := asSample(s)
	if err != nil {
		return err
	}
	defer recoverInto(&err, "train")
	l.r.Train([]gocv.Mat{cs.mat}, []int{id.Int()})
	return nil
}

func (l *LBPH) Update(s vision.Sample, id label.ID) (err error) {
	cs, err := asSample(s)
	if err != nil {
		return err
	}
	defer recoverInto(&err, "update")
	l.r.Update([]gocv.Mat{cs.mat}, []int{id.Int()})
	return nil
}

func (l *LBPH) Predict(s vision.Sample) (res vision.MatchResult, err error) {
	cs, err := asSample(s)
	if err != nil {
		return vision.MatchResult{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			res = vision.MatchResult{}
			err = errors.Wrap(vision.ErrPrediction, fmt.Sprint(r))
		}
	}()
	resp := l.r.PredictExtendedResponse(cs.mat)
	id, err := label.FromInt(int(resp.Label))
	if err != nil {
		return vision.MatchResult{}, errors.Wrap(vision.ErrPrediction, err.Error())
	}
	return vision.MatchResult{Label: id, Distance: float64(resp.Confidence)}, nil
}

func (l *LBPH) Save(path string) (err error) {
	defer recoverInto(&err, "save")
	l.r.SaveFile(path)
	return nil
}

func (l *LBPH) Load(path string) (err error) {
	defer recoverInto(&err, "load")
	l.r.LoadFile(path)
	return nil
}

func recoverInto(err *error, op string) {
	if r := recover(); r != nil {
		*err = errors.Errorf("lbph %s: %v", op, r)
	}
}
