package types

import (
	"fmt"
	"strconv"
	"strings"
)

// AFLR3 surface boundary condition flags, as consumed by the volume mesher
// when it reads a .surf file.
const (
	BC_BLWall      = -1 // solid surface with boundary layer generation
	BC_None        = 0
	BC_Solid       = 1 // solid surface, no boundary layer
	BC_Farfield    = 2
	BC_Transparent = 3 // boundary layer intersecting transparent surface
)

var BCNameMap = map[string]int{
	"blwall":      BC_BLWall,
	"viscous":     BC_BLWall,
	"none":        BC_None,
	"solid":       BC_Solid,
	"wall":        BC_Solid,
	"inviscid":    BC_Solid,
	"farfield":    BC_Farfield,
	"far":         BC_Farfield,
	"transparent": BC_Transparent,
}

// NewBCFlag resolves either a flag name from BCNameMap or a literal integer.
func NewBCFlag(token string) (flag int, err error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if f, ok := BCNameMap[token]; ok {
		return f, nil
	}
	if flag, err = strconv.Atoi(token); err != nil {
		err = fmt.Errorf("unknown boundary condition flag: [%s]", token)
	}
	return
}
