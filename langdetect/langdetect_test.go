package langdetect

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"The prime minister announced a new policy", "en"},
		{"नेपालमा नयाँ संविधान जारी भयो", "ne"},
		{"काठमाडौंमा भूकम्प गयो", "ne"},
		{"Nepal को GDP 5% ले बढ्यो", "ne"},
		{"", "en"},
		{"   ", "en"},
		{"COVID-19 vaccine is 95% effective", "en"},
	}
	for _, tt := range tests {
		if got := Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ne", "ne"},
		{"Nepali", "ne"},
		{"hi", "hi"},
		{"HINDI", "hi"},
		{"en", "en"},
		{"", "en"},
		{"fr", "en"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
