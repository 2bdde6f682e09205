package scoring

import "testing"

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Guillermo Treister.", "guillermo treister"},
		{"¿Quién es él?", "quien es el"},
		{"  EDUCACIÓN   técnica  ", "educacion tecnica"},
		{"IA gobernable, explicable y confiable!", "ia gobernable explicable y confiable"},
		{"...", ""},
	}

	for _, tt := range tests {
		if got := NormalizeAnswer(tt.in); got != tt.want {
			t.Errorf("NormalizeAnswer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeAnswer_Idempotent(t *testing.T) {
	once := NormalizeAnswer("¡La Educación TÉCNICA!")
	twice := NormalizeAnswer(once)
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}
