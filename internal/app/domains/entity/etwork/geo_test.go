package etwork

import "testing"

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantCity string
		wantUF   string
		wantOK   bool
	}{
		{"dash separator", "Sorriso - MT", "Sorriso", "MT", true},
		{"comma separator", "Lucas do Rio Verde, MT", "Lucas do Rio Verde", "MT", true},
		{"comma no space", "Cuiabá,MT", "Cuiabá", "MT", true},
		{"lowercase region", "Sinop - mt", "Sinop", "MT", true},
		{"multi word city", "Campo Novo do Parecis - MT", "Campo Novo do Parecis", "MT", true},
		{"address fragment before comma", "Rod. BR-163 km 768, Sorriso, MT", "Rod. BR-163 km 768, Sorriso", "MT", true},
		{"empty", "", "", "", false},
		{"no separator", "Sorriso MT", "", "", false},
		{"region too long", "Sorriso - Mato Grosso", "", "", false},
		{"region not letters", "Sorriso - 78", "", "", false},
		{"only separator", " - ", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLocation(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ParseLocation(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.City != tt.wantCity || got.RegionCode != tt.wantUF {
				t.Errorf("ParseLocation(%q) = (%q, %q), want (%q, %q)",
					tt.text, got.City, got.RegionCode, tt.wantCity, tt.wantUF)
			}
		})
	}
}
