package models

import "testing"

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   int
	}{
		{name: "zero points is level one", points: 0, want: 1},
		{name: "negative points clamp to level one", points: -50, want: 1},
		{name: "just below threshold", points: 99, want: 1},
		{name: "threshold reached", points: 100, want: 2},
		{name: "gaining within a level keeps it", points: 95, want: 1},
		{name: "crossing the boundary", points: 105, want: 2},
		{name: "several levels up", points: 450, want: 5},
		{name: "exactly ten levels", points: 999, want: 10},
		{name: "eleventh level", points: 1000, want: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LevelForPoints(tt.points); got != tt.want {
				t.Errorf("LevelForPoints(%d) = %d, want %d", tt.points, got, tt.want)
			}
		})
	}
}
