package domain

import "testing"

func TestEstimateYearsAt(t *testing.T) {
	tests := []struct {
		name string
		text string
		year int
		want float64
	}{
		{"plain years", "5 years of backend development", 2024, 5.0},
		{"months converted", "6 months of internship experience", 2024, 0.5},
		{"since year", "working with Go since 2016", 2024, 8.0},
		{"year range", "Acme Corp 2015-2020, senior engineer", 2024, 5.0},
		{"range with to", "from 2010 to 2018 built services", 2024, 8.0},
		{"en dash range", "2012–2015 platform team", 2024, 3.0},
		{"plus suffix", "10+ years leading teams", 2024, 10.0},
		{"fractional years", "3.5 years with Kubernetes", 2024, 3.5},
		{"maximum wins", "2 years here, 7 years there, 3 months elsewhere", 2024, 7.0},
		{"implausible dropped", "founded in 1850, 200 years of tradition", 2024, 0.0},
		{"future since dropped", "since 2050 we will", 2024, 0.0},
		{"abbreviated yrs", "8 yrs experience in java", 2024, 8.0},
		{"empty", "", 2024, 0.0},
		{"no mentions", "experienced engineer, strong communicator", 2024, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateYearsAt(tt.text, tt.year); got != tt.want {
				t.Errorf("EstimateYearsAt(%q, %d) = %v, want %v", tt.text, tt.year, got, tt.want)
			}
		})
	}
}

func TestEstimateYearsCapped(t *testing.T) {
	if got := EstimateYearsAt("60 years of experience", 2024); got != 0.0 {
		t.Errorf("values above the plausibility cap should be dropped, got %v", got)
	}
	if got := EstimateYearsAt("50 years of experience", 2024); got != 50.0 {
		t.Errorf("the cap itself is plausible, got %v", got)
	}
}
