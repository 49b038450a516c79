package controls

type Button int

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonMiddle
)

// Listener receives pointer input in window pixels, origin at the top left.
type Listener interface {
	PointerDown(b Button, x, y float64)
	PointerUp(b Button, x, y float64)
	PointerMove(x, y float64)
	Scroll(dy float64)
}

// Surface fans window input out to attached listeners and tracks the
// viewport size they measure drags against.
type Surface struct {
	Width  int
	Height int

	listeners map[int]Listener
	order     []int
	nextID    int
}

func NewSurface(width, height int) *Surface {
	return &Surface{
		Width:     width,
		Height:    height,
		listeners: make(map[int]Listener),
	}
}

// Attach registers l and returns the function that removes it again.
func (s *Surface) Attach(l Listener) (detach func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.order = append(s.order, id)
	return func() {
		if _, found := s.listeners[id]; !found {
			return
		}
		delete(s.listeners, id)
		for i, o := range s.order {
			if o == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

func (s *Surface) Len() int {
	return len(s.listeners)
}

func (s *Surface) Resize(width, height int) {
	s.Width = width
	s.Height = height
}

func (s *Surface) each(f func(Listener)) {
	// listeners may detach while being notified
	ids := append([]int(nil), s.order...)
	for _, id := range ids {
		if l, found := s.listeners[id]; found {
			f(l)
		}
	}
}

func (s *Surface) PointerDown(b Button, x, y float64) {
	s.each(func(l Listener) { l.PointerDown(b, x, y) })
}

func (s *Surface) PointerUp(b Button, x, y float64) {
	s.each(func(l Listener) { l.PointerUp(b, x, y) })
}

func (s *Surface) PointerMove(x, y float64) {
	s.each(func(l Listener) { l.PointerMove(x, y) })
}

func (s *Surface) Scroll(dy float64) {
	s.each(func(l Listener) { l.Scroll(dy) })
}
