package main

import (
	"image"
	"slices"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestMovedTouchesReportsOnlyMotion(t *testing.T) {
	pos := map[ebiten.TouchID]image.Point{1: {10, 10}, 2: {50, 60}}
	at := func(id ebiten.TouchID) image.Point { return pos[id] }
	known := map[ebiten.TouchID]image.Point{1: {10, 10}}

	steps := []struct {
		name string
		move map[ebiten.TouchID]image.Point
		want []ebiten.TouchID
	}{
		{"held still, new touch recorded", nil, nil},
		{"held still again", nil, nil},
		{"first touch moves", map[ebiten.TouchID]image.Point{1: {12, 10}}, []ebiten.TouchID{1}},
		{"both move", map[ebiten.TouchID]image.Point{1: {12, 11}, 2: {49, 60}}, []ebiten.TouchID{1, 2}},
		{"both stop", nil, nil},
	}
	for _, st := range steps {
		for id, p := range st.move {
			pos[id] = p
		}
		got := movedTouches(known, []ebiten.TouchID{1, 2}, at)
		if !slices.Equal(got, st.want) {
			t.Errorf("%s: movedTouches = %v, want %v", st.name, got, st.want)
		}
	}
	if known[2] != (image.Point{49, 60}) {
		t.Errorf("known position of touch 2 = %v, want last seen", known[2])
	}
}
