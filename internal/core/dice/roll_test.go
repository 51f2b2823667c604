package dice

import "testing"

func TestRoller_Roll(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr error
	}{
		{name: "none", count: 0},
		{name: "five", count: 5},
		{name: "many", count: 500},
		{name: "negative", count: -1, wantErr: ErrInvalidCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			faces, err := NewRoller(42).Roll(tt.count)
			if err != tt.wantErr {
				t.Fatalf("Roll() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if len(faces) != tt.count {
				t.Fatalf("Roll() got %d faces, want %d", len(faces), tt.count)
			}
			for i, f := range faces {
				if f < 1 || f > Faces {
					t.Errorf("face[%d] = %d, out of range", i, f)
				}
			}
		})
	}
}

func TestRoller_KnownFaces(t *testing.T) {
	tests := []struct {
		seed int64
		want []int
	}{
		{seed: 42, want: []int{1, 4, 1, 6, 6, 3, 6, 4, 5, 2}},
		{seed: 12345, want: []int{5, 3, 4, 3, 2, 5, 6, 6, 4, 4}},
	}
	for _, tt := range tests {
		faces, err := NewRoller(tt.seed).Roll(len(tt.want))
		if err != nil {
			t.Fatalf("Roll() error = %v", err)
		}
		for i := range tt.want {
			if faces[i] != tt.want[i] {
				t.Fatalf("seed %d: faces = %v, want %v", tt.seed, faces, tt.want)
			}
		}
	}
}

func TestRoller_Determinism(t *testing.T) {
	a := NewRoller(777)
	b := NewRoller(777)
	counts := []int{5, 4, 3, 5}
	for round := 0; round < 3; round++ {
		ha, err := a.RollHands(counts)
		if err != nil {
			t.Fatalf("RollHands() error = %v", err)
		}
		hb, err := b.RollHands(counts)
		if err != nil {
			t.Fatalf("RollHands() error = %v", err)
		}
		for i := range ha {
			if len(ha[i]) != counts[i] {
				t.Fatalf("hand %d has %d dice, want %d", i, len(ha[i]), counts[i])
			}
			for j := range ha[i] {
				if ha[i][j] != hb[i][j] {
					t.Fatalf("round %d hand %d differs: %v vs %v", round, i, ha[i], hb[i])
				}
			}
		}
	}
}

func TestFaceFor(t *testing.T) {
	tests := []struct {
		u    float64
		want int
	}{
		{u: 0, want: 1},
		{u: 0.1666, want: 1},
		{u: 0.5, want: 4},
		{u: 0.99999, want: 6},
		{u: 1, want: 6},
	}
	for _, tt := range tests {
		if got := faceFor(tt.u); got != tt.want {
			t.Errorf("faceFor(%v) = %d, want %d", tt.u, got, tt.want)
		}
	}
}

func TestCountFace(t *testing.T) {
	hands := [][]int{{4, 4, 1}, {2, 4}, {}, {6, 1, 4}}
	if got := CountFace(hands, 4); got != 4 {
		t.Fatalf("CountFace(4) = %d, want 4", got)
	}
	if got := CountFace(hands, 5); got != 0 {
		t.Fatalf("CountFace(5) = %d, want 0", got)
	}
}
