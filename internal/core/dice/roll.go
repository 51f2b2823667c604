package dice

import "errors"

// Faces is the number of faces on every die in play.
const Faces = 6

// ErrInvalidCount indicates a negative number of dice was requested.
var ErrInvalidCount = errors.New("dice count must be non-negative")

// Roller rolls six-sided dice from a Source.
type Roller struct {
	src *Source
}

// NewRoller creates a Roller seeded for one match.
func NewRoller(seed int64) *Roller {
	return &Roller{src: NewSource(seed)}
}

// Roll returns n faces in 1..6.
//
// # Determinism
//
// Roll consumes exactly n values from the underlying Source, so the same
// seed and the same sequence of Roll calls always produce the same dice.
func (r *Roller) Roll(n int) ([]int, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}
	faces := make([]int, n)
	for i := range faces {
		faces[i] = rollDie(r.src)
	}
	return faces, nil
}

// RollHands rolls one hand per entry of counts, in order.
func (r *Roller) RollHands(counts []int) ([][]int, error) {
	hands := make([][]int, len(counts))
	for i, n := range counts {
		faces, err := r.Roll(n)
		if err != nil {
			return nil, err
		}
		hands[i] = faces
	}
	return hands, nil
}

func rollDie(src *Source) int {
	return faceFor(src.Float64())
}

// faceFor maps a value in [0, 1] to a face. Exactly 1 would map past the last
// face, so it is clamped.
func faceFor(u float64) int {
	face := int(u*Faces) + 1
	if face > Faces {
		face = Faces
	}
	return face
}

// CountFace counts dice showing face across every hand.
func CountFace(hands [][]int, face int) int {
	total := 0
	for _, hand := range hands {
		for _, die := range hand {
			if die == face {
				total++
			}
		}
	}
	return total
}
