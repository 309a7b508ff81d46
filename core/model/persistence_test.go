package model

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEstimator struct {
	BaseEstimator
	Coef      []float64
	Intercept float64
}

func TestSaveLoadModel_KeepsFittedState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")

	m := &fakeEstimator{Coef: []float64{1.5, -2}, Intercept: 3}
	m.SetFitted()
	require.NoError(t, SaveModel(m, path))

	var loaded fakeEstimator
	require.NoError(t, LoadModel(&loaded, path))
	assert.True(t, loaded.IsFitted())
	assert.Equal(t, m.Coef, loaded.Coef)
	assert.Equal(t, 3.0, loaded.Intercept)

	// 一時ファイルが残っていないこと
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveModel_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.gob")

	first := &fakeEstimator{Intercept: 1}
	second := &fakeEstimator{Intercept: 2}
	require.NoError(t, SaveModel(first, path))
	require.NoError(t, SaveModel(second, path))

	var loaded fakeEstimator
	require.NoError(t, LoadModel(&loaded, path))
	assert.Equal(t, 2.0, loaded.Intercept)
}

func TestLoadModel_Errors(t *testing.T) {
	var m fakeEstimator
	assert.Error(t, LoadModel(&m, filepath.Join(t.TempDir(), "missing.gob")))
	assert.Error(t, LoadModelFromReader(&m, bytes.NewBufferString("not gob")))
}

func TestBaseEstimator_Reset(t *testing.T) {
	var e BaseEstimator
	assert.False(t, e.IsFitted())
	e.SetFitted()
	assert.True(t, e.IsFitted())
	e.Reset()
	assert.False(t, e.IsFitted())
}
