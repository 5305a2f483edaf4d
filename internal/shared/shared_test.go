package shared

import "testing"

func TestFormatDuration(t *testing.T) {
	tc := []struct {
		name    string
		seconds float64
		want    string
	}{
		{
			name:    "zero",
			seconds: 0,
			want:    "0:00",
		},
		{
			name:    "negative clamps to zero",
			seconds: -12,
			want:    "0:00",
		},
		{
			name:    "under a minute",
			seconds: 42.7,
			want:    "0:42",
		},
		{
			name:    "minutes and seconds",
			seconds: 245,
			want:    "4:05",
		},
		{
			name:    "over an hour",
			seconds: 3723,
			want:    "1:02:03",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDuration(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatDuration(%v) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()
	if a == b {
		t.Error("expected unique IDs")
	}
	if len(a) != 36 {
		t.Errorf("expected UUID string of length 36, got %d", len(a))
	}
}
