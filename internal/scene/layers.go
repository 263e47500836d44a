package scene

// Direction is a single z-order step.
type Direction int

const (
	// Up moves an object one step towards the top (later in the list).
	Up Direction = 1
	// Down moves an object one step towards the back (index 0).
	Down Direction = -1
)

// Reorder swaps the object with its neighbour in direction d. It is a no-op
// at either end of the list and for unknown ids.
func (s Scene) Reorder(id string, d Direction) Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	j := i + int(d)
	if j < 0 || j >= len(s.objects) || j == i {
		return s
	}
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	out[i], out[j] = out[j], out[i]
	return Scene{objects: out}
}

// MoveUp brings id one step forward.
func (s Scene) MoveUp(id string) Scene { return s.Reorder(id, Up) }

// MoveDown sends id one step backward.
func (s Scene) MoveDown(id string) Scene { return s.Reorder(id, Down) }

// BringToFront moves id to the top of the stack.
func (s Scene) BringToFront(id string) Scene {
	return s.moveTo(id, len(s.objects)-1)
}

// SendToBack moves id to the bottom of the stack.
func (s Scene) SendToBack(id string) Scene {
	return s.moveTo(id, 0)
}

func (s Scene) moveTo(id string, to int) Scene {
	i := s.Index(id)
	if i < 0 || i == to {
		return s
	}
	o := s.objects[i]
	out := make([]Object, 0, len(s.objects))
	out = append(out, s.objects[:i]...)
	out = append(out, s.objects[i+1:]...)
	out = append(out[:to], append([]Object{o}, out[to:]...)...)
	return Scene{objects: out}
}

// ToggleVisible hides or shows id. Hiding drops opacity to 0 and remembers
// the previous value; showing restores it (1 if nothing was remembered).
func (s Scene) ToggleVisible(id string) Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	o := s.objects[i].Clone()
	if o.Visible {
		o.shownOpacity = o.Opacity
		o.Visible = false
		o.Opacity = 0
	} else {
		o.Visible = true
		o.Opacity = o.shownOpacity
		if o.Opacity <= 0 {
			o.Opacity = 1
		}
		o.shownOpacity = 0
	}
	return s.set(i, o)
}

// ToggleLock flips whether id can be selected and dragged. Visibility is
// left untouched.
func (s Scene) ToggleLock(id string) Scene {
	i := s.Index(id)
	if i < 0 {
		return s
	}
	o := s.objects[i].Clone()
	o.Draggable = !o.Draggable
	return s.set(i, o)
}
