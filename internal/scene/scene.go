package scene

// Scene is an ordered, immutable list of objects. Index 0 is drawn first
// (backmost); the last object is on top.
//
// Every mutation returns a new Scene and never touches the receiver's
// backing array. Operations that change nothing return the receiver itself,
// so Same can be used as a cheap change check.
type Scene struct {
	objects []Object
}

// FromObjects builds a scene from a copy of objs.
func FromObjects(objs []Object) Scene {
	if len(objs) == 0 {
		return Scene{}
	}
	out := make([]Object, len(objs))
	for i, o := range objs {
		out[i] = o.Clone()
	}
	return Scene{objects: out}
}

// Len returns the number of objects.
func (s Scene) Len() int { return len(s.objects) }

// At returns the object at index i.
func (s Scene) At(i int) Object { return s.objects[i] }

// Objects returns a deep copy of the object list.
func (s Scene) Objects() []Object {
	if len(s.objects) == 0 {
		return nil
	}
	out := make([]Object, len(s.objects))
	for i, o := range s.objects {
		out[i] = o.Clone()
	}
	return out
}

// IDs returns the object ids in z-order.
func (s Scene) IDs() []string {
	ids := make([]string, len(s.objects))
	for i, o := range s.objects {
		ids[i] = o.ID
	}
	return ids
}

// Index returns the position of id, or -1.
func (s Scene) Index(id string) int {
	for i, o := range s.objects {
		if o.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the object with the given id.
func (s Scene) Find(id string) (Object, bool) {
	if i := s.Index(id); i >= 0 {
		return s.objects[i], true
	}
	return Object{}, false
}

// Add appends o on top of the scene. An object whose id is already present
// is ignored.
func (s Scene) Add(o Object) Scene {
	if o.ID == "" || s.Index(o.ID) >= 0 {
		return s
	}
	out := make([]Object, len(s.objects), len(s.objects)+1)
	copy(out, s.objects)
	return Scene{objects: append(out, o.Clone())}
}

// Update applies p to the object with the given id. Unknown ids are a no-op.
func (s Scene) Update(id string, p Patch) Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	next := s.objects[i].Apply(p)
	if next.Equal(s.objects[i]) {
		return s
	}
	return s.set(i, next)
}

// Set replaces the object carrying o.ID. Unknown ids are a no-op.
func (s Scene) Set(o Object) Scene {
	i := s.Index(o.ID)
	if i < 0 || o.Equal(s.objects[i]) {
		return s
	}
	return s.set(i, o.Clone())
}

func (s Scene) set(i int, o Object) Scene {
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	out[i] = o
	return Scene{objects: out}
}

// Remove deletes the object with the given id. Unknown ids are a no-op.
func (s Scene) Remove(id string) Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	out := make([]Object, 0, len(s.objects)-1)
	out = append(out, s.objects[:i]...)
	out = append(out, s.objects[i+1:]...)
	return Scene{objects: out}
}

// Replace swaps the whole object list, as when applying a template.
func (s Scene) Replace(objs []Object) Scene {
	return FromObjects(objs)
}

// Clear removes every object.
func (s Scene) Clear() Scene {
	if len(s.objects) == 0 {
		return s
	}
	return Scene{}
}

// Same reports whether s and o share the same backing list, meaning no
// mutation happened between them.
func (s Scene) Same(o Scene) bool {
	if len(s.objects) != len(o.objects) {
		return false
	}
	if len(s.objects) == 0 {
		return true
	}
	return &s.objects[0] == &o.objects[0]
}

// Equal compares both scenes object for object.
func (s Scene) Equal(o Scene) bool {
	if len(s.objects) != len(o.objects) {
		return false
	}
	for i := range s.objects {
		if !s.objects[i].Equal(o.objects[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether both objects are identical in every attribute.
func (o Object) Equal(p Object) bool {
	if o.ID != p.ID || o.X != p.X || o.Y != p.Y ||
		o.Opacity != p.Opacity || o.Rotation != p.Rotation ||
		o.Draggable != p.Draggable || o.Visible != p.Visible ||
		o.shownOpacity != p.shownOpacity {
		return false
	}
	if !o.Fill.Equal(p.Fill) {
		return false
	}
	if (o.Frame == nil) != (p.Frame == nil) || (o.Frame != nil && *o.Frame != *p.Frame) {
		return false
	}
	return shapeEqual(o.Shape, p.Shape)
}

func shapeEqual(a, b Shape) bool {
	switch a := a.(type) {
	case Polygon:
		bp, ok := b.(Polygon)
		if !ok || len(a.Points) != len(bp.Points) {
			return false
		}
		for i := range a.Points {
			if a.Points[i] != bp.Points[i] {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		return a == b
	}
}
