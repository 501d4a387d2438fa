package semantic

// PlaceKind tags whether an expression refers to a memory location and, if
// so, whether it may be written through.
type PlaceKind int

const (
	NotPlace PlaceKind = iota
	ReadOnlyPlace
	ReadWritePlace
)

// IsPlace reports whether p denotes an addressable location at all.
func (p PlaceKind) IsPlace() bool { return p != NotPlace }

// PlaceFromMut returns ReadWritePlace if mut, else ReadOnlyPlace.
func PlaceFromMut(mut bool) PlaceKind {
	if mut {
		return ReadWritePlace
	}
	return ReadOnlyPlace
}

// DerefPlace computes the place kind produced by auto-dereferencing a
// reference (refIsMut reports whether it is &mut); a shared reference
// always yields ReadOnlyPlace, a mutable reference yields ReadWritePlace.
func DerefPlace(refIsMut bool) PlaceKind {
	if refIsMut {
		return ReadWritePlace
	}
	return ReadOnlyPlace
}
