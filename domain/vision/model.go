package vision

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/soocke/angora-go/domain/label"
)

// Model pairs a recognizer with the file it persists to and tracks whether it
// has been trained. Model is not concurrency-safe; the capture loop owns it.
type Model struct {
	path     string
	newRecog RecognizerFactory
	recog    Recognizer
	trained  bool
	logger   *slog.Logger
}

// OpenModel creates a model backed by path. When the file exists it is loaded
// and the model starts trained.
func OpenModel(path string, factory RecognizerFactory, logger *slog.Logger) (*Model, error) {
	if factory == nil {
		return nil, errors.New("nil recognizer factory")
	}
	m := &Model{path: path, newRecog: factory, recog: factory(), logger: logger}
	if path == "" {
		return m, nil
	}
	info, err := os.Stat(path)
	switch {
	case err == nil && !info.IsDir():
		if err := m.recog.Load(path); err != nil {
			return nil, errors.Wrapf(err, "load model %s", path)
		}
		m.trained = true
		if logger != nil {
			logger.Info("model loaded", "path", path)
		}
	case err != nil && !os.IsNotExist(err):
		return nil, errors.Wrapf(err, "stat model %s", path)
	}
	return m, nil
}

// Path returns the persisted location of the model.
func (m *Model) Path() string { return m.path }

// Trained reports whether at least one example has been committed.
func (m *Model) Trained() bool { return m != nil && m.trained }

// Commit adds a labeled example, training the model on the first call.
func (m *Model) Commit(s Sample, id label.ID) error {
	if s == nil {
		return errors.New("no sample to commit")
	}
	if m.trained {
		return errors.Wrap(m.recog.Update(s, id), "update model")
	}
	if err := m.recog.Train(s, id); err != nil {
		return errors.Wrap(err, "train model")
	}
	m.trained = true
	return nil
}

// Predict scores s against the trained examples.
func (m *Model) Predict(s Sample) (MatchResult, error) {
	if !m.trained {
		return MatchResult{}, ErrUntrained
	}
	return m.recog.Predict(s)
}

// Reset discards the in-memory trained state and leaves the persisted file
// untouched.
func (m *Model) Reset() {
	m.trained = false
	m.recog = m.newRecog()
}

// Clear discards all trained state and removes the persisted file.
func (m *Model) Clear() error {
	m.Reset()
	if m.path == "" {
		return nil
	}
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove model %s", m.path)
	}
	return nil
}

// Persist writes a trained model to its path, creating missing parent
// directories. Untrained models are not written.
func (m *Model) Persist() error {
	if !m.trained || m.path == "" {
		return nil
	}
	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create model dir %s", dir)
		}
	}
	if err := m.recog.Save(m.path); err != nil {
		return errors.Wrapf(err, "save model %s", m.path)
	}
	if m.logger != nil {
		m.logger.Info("model saved", "path", m.path)
	}
	return nil
}
