package pipeline

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/YuminosukeSato/housereg/core/model"
	"github.com/YuminosukeSato/housereg/dataset"
	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// Artifact は学習済みパイプラインと、それを学習した入力の情報を保持する
type Artifact struct {
	RunID        string
	CreatedAt    time.Time
	FeatureNames []string
	TargetName   string
	Pipeline     *Pipeline
}

// NewArtifact は学習済みパイプラインから新しいArtifactを作成する
func NewArtifact(p *Pipeline, features []string, target string) (*Artifact, error) {
	if p == nil || !p.IsFitted() {
		return nil, errors.NewNotFittedError("Pipeline", "NewArtifact")
	}
	return &Artifact{
		RunID:        uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		FeatureNames: slices.Clone(features),
		TargetName:   target,
		Pipeline:     p,
	}, nil
}

// Save はArtifactをpathに保存する。既存のファイルは置き換えられる。
func (a *Artifact) Save(path string) error {
	if err := model.SaveModel(a, path); err != nil {
		return errors.Wrapf(err, "save artifact %s", path)
	}
	return nil
}

// LoadArtifact はpathからArtifactを読み込む
func LoadArtifact(path string) (*Artifact, error) {
	var a Artifact
	if err := model.LoadModel(&a, path); err != nil {
		return nil, errors.Wrapf(err, "load artifact %s", path)
	}
	if a.Pipeline == nil || !a.Pipeline.IsFitted() {
		return nil, errors.NewModelError("LoadArtifact", "artifact holds no fitted pipeline", nil)
	}
	if _, err := uuid.Parse(a.RunID); err != nil {
		return nil, errors.NewModelError("LoadArtifact", "invalid run id", err)
	}
	return &a, nil
}

// CheckFeatures はXの列が学習時の列と一致するか確認する
func (a *Artifact) CheckFeatures(X dataset.Table) error {
	if !slices.Equal(X.Names(), a.FeatureNames) {
		return errors.NewValueError("Artifact.CheckFeatures",
			"feature columns differ from the columns the pipeline was trained on")
	}
	return nil
}
