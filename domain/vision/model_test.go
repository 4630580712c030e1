package vision_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soocke/angora-go/domain/label"
	"github.com/soocke/angora-go/domain/vision"
	"github.com/soocke/angora-go/domain/vision/visiontest"
)

func mustID(t *testing.T, s string) label.ID {
	t.Helper()
	id, err := label.Encode(s)
	require.NoError(t, err)
	return id
}

func TestModel_FirstCommitTrainsThenUpdates(t *testing.T) {
	f := &visiontest.Factory{Distance: 12}
	m, err := vision.OpenModel(filepath.Join(t.TempDir(), "m.json"), f.New, nil)
	require.NoError(t, err)
	assert.False(t, m.Trained())

	_, err = m.Predict(&visiontest.Sample{})
	assert.ErrorIs(t, err, vision.ErrUntrained)
	assert.Zero(t, f.Last().Predictions)

	require.NoError(t, m.Commit(&visiontest.Sample{}, mustID(t, "Joe")))
	require.NoError(t, m.Commit(&visiontest.Sample{}, mustID(t, "Ann")))
	assert.True(t, m.Trained())
	assert.Equal(t, 1, f.Last().Trains)
	assert.Equal(t, 1, f.Last().Updates)

	res, err := m.Predict(&visiontest.Sample{})
	require.NoError(t, err)
	assert.Equal(t, "Ann", res.Text())
	assert.InDelta(t, 12, res.Distance, 1e-9)
}

func TestModel_PersistCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recognizers", "nested", "lbph_human_faces.json")
	f := &visiontest.Factory{}
	m, err := vision.OpenModel(path, f.New, nil)
	require.NoError(t, err)

	// Nothing is written while untrained.
	require.NoError(t, m.Persist())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, m.Commit(&visiontest.Sample{}, mustID(t, "ABCD")))
	require.NoError(t, m.Persist())
	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := vision.OpenModel(path, f.New, nil)
	require.NoError(t, err)
	assert.True(t, reopened.Trained())
	assert.Equal(t, []label.ID{mustID(t, "ABCD")}, f.Last().Labels)
}

func TestModel_ClearRemovesFileAndDisablesPrediction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	f := &visiontest.Factory{}
	m, err := vision.OpenModel(path, f.New, nil)
	require.NoError(t, err)
	require.NoError(t, m.Commit(&visiontest.Sample{}, mustID(t, "Tom")))
	require.NoError(t, m.Persist())

	require.NoError(t, m.Clear())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	assert.False(t, m.Trained())
	_, err = m.Predict(&visiontest.Sample{})
	assert.ErrorIs(t, err, vision.ErrUntrained)
	assert.Len(t, f.Made, 2, "clear should swap in a fresh recognizer")

	require.NoError(t, m.Commit(&visiontest.Sample{}, mustID(t, "Tom")))
	_, err = m.Predict(&visiontest.Sample{})
	assert.NoError(t, err)
}

func TestModel_ResetKeepsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.json")
	f := &visiontest.Factory{}
	m, err := vision.OpenModel(path, f.New, nil)
	require.NoError(t, err)
	require.NoError(t, m.Commit(&visiontest.Sample{}, mustID(t, "Tom")))
	require.NoError(t, m.Persist())

	m.Reset()

	assert.False(t, m.Trained())
	assert.FileExists(t, path)
	_, err = m.Predict(&visiontest.Sample{})
	assert.ErrorIs(t, err, vision.ErrUntrained)
}

func TestModel_ClearWithoutFile(t *testing.T) {
	f := &visiontest.Factory{}
	m, err := vision.OpenModel(filepath.Join(t.TempDir(), "absent.json"), f.New, nil)
	require.NoError(t, err)
	assert.NoError(t, m.Clear())
}

func TestModel_OpenCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	f := &visiontest.Factory{}
	_, err := vision.OpenModel(path, f.New, nil)
	assert.Error(t, err)
}

func TestModel_CommitNilSample(t *testing.T) {
	f := &visiontest.Factory{}
	m, err := vision.OpenModel("", f.New, nil)
	require.NoError(t, err)
	assert.Error(t, m.Commit(nil, mustID(t, "A")))
	assert.False(t, m.Trained())
}
