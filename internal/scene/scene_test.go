package scene_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sceneforge/scene-backend/internal/scene"
)

func TestParseDocument(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc, err := scene.ParseDocument([]byte(`{
			"objects": [
				{"id": "box-1", "type": "box", "position": [0, 1, 0], "rotation": [0, 0, 0], "scale": [1, 1, 1], "color": "#3b82f6"},
				{"id": "sphere-1", "type": "sphere", "position": [2, 1, 0], "rotation": [0, 0, 0], "scale": [1, 1, 1], "color": "#ef4444"}
			]
		}`))
		require.NoError(t, err)
		require.Len(t, doc.Objects, 2)
		assert.Equal(t, "box-1", doc.Objects[0].ID)
		assert.Equal(t, scene.TypeSphere, doc.Objects[1].Type)
		assert.Equal(t, [3]float64{2, 1, 0}, doc.Objects[1].Position)
	})

	t.Run("empty objects", func(t *testing.T) {
		doc, err := scene.ParseDocument([]byte(`{"objects": []}`))
		require.NoError(t, err)
		assert.Empty(t, doc.Objects)
	})

	t.Run("missing objects field", func(t *testing.T) {
		_, err := scene.ParseDocument([]byte(`{}`))
		requireValidation(t, err)
	})

	t.Run("objects not a sequence", func(t *testing.T) {
		_, err := scene.ParseDocument([]byte(`{"objects": {"id": "box-1"}}`))
		requireValidation(t, err)
	})

	t.Run("unknown primitive type", func(t *testing.T) {
		_, err := scene.ParseDocument([]byte(`{"objects": [{"id": "torus-1", "type": "torus"}]}`))
		requireValidation(t, err)
	})

	t.Run("duplicate object id", func(t *testing.T) {
		_, err := scene.ParseDocument([]byte(`{"objects": [
			{"id": "box-1", "type": "box"},
			{"id": "box-1", "type": "sphere"}
		]}`))
		requireValidation(t, err)
	})

	t.Run("empty object id", func(t *testing.T) {
		_, err := scene.ParseDocument([]byte(`{"objects": [{"id": "", "type": "box"}]}`))
		requireValidation(t, err)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := scene.ParseDocument([]byte(`objects`))
		requireValidation(t, err)
	})
}

func requireValidation(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var verr *scene.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestFileRoundTrip(t *testing.T) {
	doc := &scene.Document{Objects: []scene.Object{
		{ID: "box-1", Type: scene.TypeBox, Position: [3]float64{0, 1, 0}, Scale: [3]float64{1, 1, 1}, Color: "#3b82f6"},
		{ID: "cone-1", Type: scene.TypeCone, Position: [3]float64{-1, 0.5, 2}, Rotation: [3]float64{0, 0.5, 0}, Scale: [3]float64{2, 1, 1}, Color: "#f59e0b"},
		{ID: "cylinder-1", Type: scene.TypeCylinder, Scale: [3]float64{1, 3, 1}, Color: "#10b981"},
	}}

	path := filepath.Join(t.TempDir(), "scene.json")
	require.NoError(t, scene.WriteFile(path, doc))

	got, err := scene.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Objects, got.Objects)
}

func TestReadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"shapes": []}`), 0o644))

	_, err := scene.ReadFile(path)
	requireValidation(t, err)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := scene.ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
