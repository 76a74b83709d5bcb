package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/sceneforge/scene-backend/internal/projects"
	"github.com/sceneforge/scene-backend/internal/scene"
)

// Defaults applied to a freshly added object.
var (
	defaultPosition = [3]float64{0, 1, 0}
	defaultScale    = [3]float64{1, 1, 1}
)

const defaultColor = "#3b82f6"

// Session is one editing session: the live scene, its history, and the
// associated project id once saved or loaded. It is owned by a single
// goroutine.
type Session struct {
	client    *Client
	objects   []scene.Object
	history   *History
	projectID string
}

// NewSession starts an empty session. client may be nil for purely local
// editing (import/export only).
func NewSession(client *Client) *Session {
	return &Session{
		client:  client,
		history: NewHistory(nil),
	}
}

// ObjectPatch is a partial object update; nil fields are left untouched.
type ObjectPatch struct {
	Position *[3]float64
	Rotation *[3]float64
	Scale    *[3]float64
	Color    *string
}

// AddObject appends a new primitive with default transform and color,
// records a snapshot, and returns the created object.
func (s *Session) AddObject(t scene.ObjectType) (scene.Object, error) {
	if !t.Valid() {
		return scene.Object{}, fmt.Errorf("unknown object type %q", t)
	}

	obj := scene.Object{
		ID:       s.newObjectID(t),
		Type:     t,
		Position: defaultPosition,
		Scale:    defaultScale,
		Color:    defaultColor,
	}
	s.objects = append(s.objects, obj)
	s.history.Record(s.objects)
	return obj, nil
}

func (s *Session) UpdateObject(id string, patch ObjectPatch) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("object %q not found", id)
	}

	obj := &s.objects[idx]
	if patch.Position != nil {
		obj.Position = *patch.Position
	}
	if patch.Rotation != nil {
		obj.Rotation = *patch.Rotation
	}
	if patch.Scale != nil {
		obj.Scale = *patch.Scale
	}
	if patch.Color != nil {
		obj.Color = *patch.Color
	}

	s.history.Record(s.objects)
	return nil
}

func (s *Session) DeleteObject(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("object %q not found", id)
	}

	s.objects = append(s.objects[:idx], s.objects[idx+1:]...)
	s.history.Record(s.objects)
	return nil
}

// Undo restores the previous snapshot. Reports false when at the oldest
// state.
func (s *Session) Undo() bool {
	objects, ok := s.history.Undo()
	if ok {
		s.objects = objects
	}
	return ok
}

func (s *Session) Redo() bool {
	objects, ok := s.history.Redo()
	if ok {
		s.objects = objects
	}
	return ok
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Save persists the scene: the first save creates a project (name
// required) and associates it with the session; later saves overwrite the
// associated project's scene data, last write wins.
func (s *Session) Save(ctx context.Context, name string) (*projects.Project, error) {
	if s.client == nil {
		return nil, fmt.Errorf("session has no API client")
	}

	doc := s.Document()

	if s.projectID == "" {
		if name == "" {
			return nil, fmt.Errorf("project name required for first save")
		}
		p, err := s.client.CreateProject(ctx, name, nil, doc)
		if err != nil {
			return nil, err
		}
		s.projectID = p.ID
		return p, nil
	}

	return s.client.UpdateSceneData(ctx, s.projectID, doc)
}

// Load replaces the live scene and associated project id with the stored
// project, and resets history to a single snapshot of the loaded state.
func (s *Session) Load(ctx context.Context, id string) error {
	if s.client == nil {
		return fmt.Errorf("session has no API client")
	}

	p, err := s.client.GetProject(ctx, id)
	if err != nil {
		return err
	}

	doc, err := scene.ParseDocument(p.SceneData)
	if err != nil {
		return err
	}

	s.objects = cloneObjects(doc.Objects)
	s.projectID = p.ID
	s.history.Reset(s.objects)
	return nil
}

// Import replaces the scene from a local file and records a snapshot.
// On failure the session state is untouched.
func (s *Session) Import(path string) error {
	doc, err := scene.ReadFile(path)
	if err != nil {
		return err
	}

	s.objects = cloneObjects(doc.Objects)
	s.history.Record(s.objects)
	return nil
}

// Export writes the scene to a local file. The API is not involved.
func (s *Session) Export(path string) error {
	return scene.WriteFile(path, s.Document())
}

func (s *Session) Document() *scene.Document {
	return &scene.Document{Objects: cloneObjects(s.objects)}
}

func (s *Session) Objects() []scene.Object {
	return cloneObjects(s.objects)
}

func (s *Session) ProjectID() string { return s.projectID }

func (s *Session) indexOf(id string) int {
	for i := range s.objects {
		if s.objects[i].ID == id {
			return i
		}
	}
	return -1
}

// newObjectID derives an id from the type and wall clock, bumping a suffix
// until it is unique within the document.
func (s *Session) newObjectID(t scene.ObjectType) string {
	base := fmt.Sprintf("%s-%d", t, time.Now().UnixMilli())
	if s.indexOf(base) < 0 {
		return base
	}
	for i := 2; ; i++ {
		id := fmt.Sprintf("%s-%d", base, i)
		if s.indexOf(id) < 0 {
			return id
		}
	}
}
