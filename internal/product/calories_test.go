package product

import "testing"

func TestCalories(t *testing.T) {
	cases := []struct {
		name                string
		weight, height, age float64
		want                int
		ok                  bool
	}{
		{"typical", 70, 168, 30, 1605, true},
		{"rounds up", 70.05, 168, 30, 1606, true},
		{"zero weight", 0, 168, 30, 0, false},
		{"negative height", 70, -1, 30, 0, false},
		{"zero age", 70, 168, 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Calories(tc.weight, tc.height, tc.age)
			if ok != tc.ok {
				t.Fatalf("ok=%v, want %v", ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("got %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNotAllowedFor(t *testing.T) {
	p := &Product{GroupBloodNotAllowed: []bool{false, false, true, false, false}}
	if !p.NotAllowedFor(2) {
		t.Fatalf("expected blood type 2 to be flagged")
	}
	if p.NotAllowedFor(1) || p.NotAllowedFor(3) {
		t.Fatalf("unexpected flags")
	}
	if p.NotAllowedFor(9) {
		t.Fatalf("out-of-range blood type must not be flagged")
	}
}
