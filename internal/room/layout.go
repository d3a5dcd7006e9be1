package room

import "fmt"

// Layout is an ordered collection of applied images plus a name and a time limit.
// Insertion order is preserved and used as render order.
type Layout struct {
	Name             string         `json:"name"`
	TimeLimitSeconds int            `json:"timeLimitSeconds"`
	Images           []AppliedImage `json:"appliedImagesData"`
}

// NewLayout creates a layout, optionally seeded with a pre-picked default set.
func NewLayout(name string, timeLimitSeconds int, defaults ...AppliedImage) *Layout {
	images := make([]AppliedImage, len(defaults))
	copy(images, defaults)
	return &Layout{Name: name, TimeLimitSeconds: timeLimitSeconds, Images: images}
}

// Add appends img. IDs are never reused within a layout.
func (l *Layout) Add(img AppliedImage) error {
	if l.index(img.ID) >= 0 {
		return fmt.Errorf("add image %d: %w", img.ID, ErrDuplicateID)
	}
	l.Images = append(l.Images, img)
	return nil
}

// Remove deletes the image with the given ID, keeping the order of the rest.
func (l *Layout) Remove(id int64) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("remove image %d: %w", id, ErrImageNotFound)
	}
	l.Images = append(l.Images[:i], l.Images[i+1:]...)
	return nil
}

// Move places the image at (x, y). No bounds are enforced.
func (l *Layout) Move(id int64, x, y float64) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("move image %d: %w", id, ErrImageNotFound)
	}
	l.Images[i].X = x
	l.Images[i].Y = y
	return nil
}

// Edit replaces the puzzle metadata of an image. The answer is stored as entered.
func (l *Layout) Edit(id int64, hint, clue, answer string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("edit image %d: %w", id, ErrImageNotFound)
	}
	l.Images[i].HintText = hint
	l.Images[i].ClueText = clue
	l.Images[i].Answer = answer
	return nil
}

// Flip toggles the horizontal mirror flag. It has no effect on puzzle logic.
func (l *Layout) Flip(id int64) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("flip image %d: %w", id, ErrImageNotFound)
	}
	l.Images[i].IsFlipped = !l.Images[i].IsFlipped
	return nil
}

// Find returns a copy of the image with the given ID.
func (l *Layout) Find(id int64) (AppliedImage, bool) {
	i := l.index(id)
	if i < 0 {
		return AppliedImage{}, false
	}
	return l.Images[i], true
}

func (l *Layout) index(id int64) int {
	for i := range l.Images {
		if l.Images[i].ID == id {
			return i
		}
	}
	return -1
}
