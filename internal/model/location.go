package model

import "fmt"

// Location is a point on the event world's grid.  It is a plain value, so
// copies compare equal when their coordinates match.
//
// Fields:
//  X – horizontal coordinate.
//  Y – vertical coordinate.
type Location struct {
    X int `json:"x"`
    Y int `json:"y"`
}

// Distance returns the Manhattan distance between l and other.
func (l Location) Distance(other Location) int {
    return abs(l.X-other.X) + abs(l.Y-other.Y)
}

// String renders the location as "(x, y)".
func (l Location) String() string {
    return fmt.Sprintf("(%d, %d)", l.X, l.Y)
}

func abs(n int) int {
    if n < 0 {
        return -n
    }
    return n
}
