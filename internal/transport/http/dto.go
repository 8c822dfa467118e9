package http

import (
	"fmt"

	"github.com/SilasReinagel/SchrodingersShapes/internal/shapes"
)

// PuzzleDTO is the wire form of a puzzle. Board is one letter per cell
// (C/S/O/T, row-major); locked lists pre-revealed cell indices whose
// letters in Board are the revealed values.
type PuzzleDTO struct {
	ID          string          `json:"id,omitempty"`
	Width       int             `json:"width"`
	Height      int             `json:"height"`
	Level       int             `json:"level,omitempty"`
	Board       string          `json:"board"`
	Locked      []int           `json:"locked,omitempty"`
	Constraints []ConstraintDTO `json:"constraints"`
}

// ConstraintDTO is the wire form of a single constraint.
type ConstraintDTO struct {
	Type  string `json:"type"`
	Op    string `json:"op"`
	Shape string `json:"shape"`
	Count int    `json:"count"`
	Index int    `json:"index,omitempty"`
	X     int    `json:"x,omitempty"`
	Y     int    `json:"y,omitempty"`
	Text  string `json:"text,omitempty"`
}

var typeNames = map[shapes.ConstraintType]string{
	shapes.ConstraintRow:    "row",
	shapes.ConstraintColumn: "column",
	shapes.ConstraintGlobal: "global",
	shapes.ConstraintCell:   "cell",
}

var opNames = map[shapes.Operator]string{
	shapes.OpExactly: "exactly",
	shapes.OpAtLeast: "at_least",
	shapes.OpAtMost:  "at_most",
	shapes.OpNone:    "none",
	shapes.OpIs:      "is",
	shapes.OpIsNot:   "is_not",
}

var shapeNames = map[shapes.Shape]string{
	shapes.Cat:      "cat",
	shapes.Square:   "square",
	shapes.Circle:   "circle",
	shapes.Triangle: "triangle",
}

func invert[K comparable, V comparable](m map[K]V) map[V]K {
	out := make(map[V]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

var (
	typeValues  = invert(typeNames)
	opValues    = invert(opNames)
	shapeValues = invert(shapeNames)
)

func toConstraintDTO(c shapes.Constraint) ConstraintDTO {
	return ConstraintDTO{
		Type:  typeNames[c.Type],
		Op:    opNames[c.Op],
		Shape: shapeNames[c.Shape],
		Count: int(c.Count),
		Index: int(c.Index),
		X:     int(c.X),
		Y:     int(c.Y),
		Text:  c.String(),
	}
}

func fromConstraintDTO(d ConstraintDTO) (shapes.Constraint, error) {
	t, ok := typeValues[d.Type]
	if !ok {
		return shapes.Constraint{}, fmt.Errorf("unknown constraint type %q", d.Type)
	}
	op, ok := opValues[d.Op]
	if !ok {
		return shapes.Constraint{}, fmt.Errorf("unknown operator %q", d.Op)
	}
	s, ok := shapeValues[d.Shape]
	if !ok {
		return shapes.Constraint{}, fmt.Errorf("unknown shape %q", d.Shape)
	}
	return shapes.Constraint{
		Type:  t,
		Op:    op,
		Shape: s,
		Count: uint8(d.Count),
		Index: uint8(d.Index),
		X:     uint8(d.X),
		Y:     uint8(d.Y),
	}, nil
}

// toPuzzleDTO renders the player-facing view: the current board (locked
// reveals included, open cells as Cat) and the display constraints,
// falling back to the solver set when no display set was produced.
func toPuzzleDTO(p *shapes.Puzzle, id string, level int) PuzzleDTO {
	dto := PuzzleDTO{
		ID:     id,
		Width:  p.Width,
		Height: p.Height,
		Level:  level,
		Board:  p.BoardString(),
	}
	for i := 0; i < p.Cells(); i++ {
		if p.Locked(i) {
			dto.Locked = append(dto.Locked, i)
		}
	}
	list := p.Display
	if len(list) == 0 {
		list = p.Constraints
	}
	for _, c := range list {
		dto.Constraints = append(dto.Constraints, toConstraintDTO(c))
	}
	return dto
}

// fromPuzzleDTO rebuilds a solver-ready puzzle from the wire form. The
// posted constraints become the solver list.
func fromPuzzleDTO(d PuzzleDTO) (*shapes.Puzzle, error) {
	p, err := shapes.New(d.Width, d.Height)
	if err != nil {
		return nil, err
	}
	if err := p.SetBoardString(d.Board); err != nil {
		return nil, err
	}
	for _, idx := range d.Locked {
		if idx < 0 || idx >= p.Cells() {
			return nil, fmt.Errorf("locked index %d out of range", idx)
		}
		p.Lock(idx)
	}
	for _, cd := range d.Constraints {
		c, err := fromConstraintDTO(cd)
		if err != nil {
			return nil, err
		}
		if err := p.AddConstraint(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}
