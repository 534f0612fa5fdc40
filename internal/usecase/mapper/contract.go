package mapper

import (
	"context"

	"github.com/kailas-cloud/studiodex/internal/domain/studio"
)

// LabelReader resolves the labels attached to a studio.
type LabelReader interface {
	Labels(ctx context.Context, s studio.Studio) ([]studio.Label, error)
}

// SceneReader lists the scenes of a studio.
type SceneReader interface {
	Scenes(ctx context.Context, s studio.Studio) ([]studio.Scene, error)
}
