package core

import (
	"errors"
	"testing"
)

func TestRunState_FirstOccurrenceWins(t *testing.T) {
	s := NewRunState(ConflictWarn)

	first, err := s.Observe(KindCountry, "FRA", Record{AttrName: "France", AttrRegion: "Europe"}, 2)
	if err != nil || !first {
		t.Fatalf("first Observe = %v, %v; want true, nil", first, err)
	}

	first, err = s.Observe(KindCountry, "FRA", Record{AttrName: "France", AttrRegion: "Europe"}, 3)
	if err != nil || first {
		t.Fatalf("repeat Observe = %v, %v; want false, nil", first, err)
	}
	if len(s.Conflicts()) != 0 {
		t.Errorf("identical repeat recorded conflicts: %+v", s.Conflicts())
	}

	first, _ = s.Observe(KindCountry, "FRA", Record{AttrName: "France", AttrRegion: "EU"}, 9)
	if first {
		t.Error("conflicting repeat must not be emitted")
	}
	got := s.Conflicts()
	if len(got) != 1 {
		t.Fatalf("Conflicts() = %+v, want 1", got)
	}
	want := Conflict{Kind: KindCountry, Key: "FRA", Field: AttrRegion, First: "Europe", Later: "EU", Line: 9}
	if got[0] != want {
		t.Errorf("conflict = %+v, want %+v", got[0], want)
	}
}

func TestRunState_KindsAreIndependent(t *testing.T) {
	s := NewRunState(ConflictIgnore)
	s.Observe(KindTeam, "X", Record{AttrName: "X"}, 2)

	if first, _ := s.Observe(KindLocation, "X", Record{AttrName: "X"}, 2); !first {
		t.Error("same key under another kind should be new")
	}
	if !s.Seen(KindTeam, "X") || s.Seen(KindRider, "X") {
		t.Error("Seen() mixed kinds")
	}
	if s.Unique(KindTeam) != 1 || s.Unique(KindRider) != 0 {
		t.Errorf("Unique() = %d, %d", s.Unique(KindTeam), s.Unique(KindRider))
	}
}

func TestRunState_ErrorPolicy(t *testing.T) {
	s := NewRunState(ConflictAbort)
	s.Observe(KindRider, "10", Record{AttrName: "A"}, 2)

	_, err := s.Observe(KindRider, "10", Record{AttrName: "B"}, 3)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
	var ce *ConflictError
	if !errors.As(err, &ce) || ce.Conflict.Line != 3 {
		t.Errorf("ConflictError = %+v", ce)
	}
	if MapError(err).Code != "VAL007" {
		t.Errorf("MapError code = %s, want VAL007", MapError(err).Code)
	}
}

func TestRunState_MissingAttributeIsConflict(t *testing.T) {
	s := NewRunState(ConflictWarn)
	s.Observe(KindTeam, "X", Record{AttrName: "X"}, 2)
	s.Observe(KindTeam, "X", Record{AttrName: "X", AttrCountry: "FRA"}, 3)

	if len(s.Conflicts()) != 1 || s.Conflicts()[0].Field != AttrCountry {
		t.Errorf("Conflicts() = %+v", s.Conflicts())
	}
}

func TestParseConflictPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    ConflictPolicy
		wantErr bool
	}{
		{in: "", want: ConflictWarn},
		{in: "ignore", want: ConflictIgnore},
		{in: "warn", want: ConflictWarn},
		{in: "error", want: ConflictAbort},
		{in: "panic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseConflictPolicy(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseConflictPolicy(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseConflictPolicy(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
