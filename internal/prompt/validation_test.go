package prompt

import "testing"

func TestValidateNotEmpty(t *testing.T) {
	tests := map[string]bool{"": true, "   ": true, "x": false}
	for in, wantErr := range tests {
		if err := ValidateNotEmpty(in); (err != nil) != wantErr {
			t.Errorf("ValidateNotEmpty(%q) error = %v, wantErr %v", in, err, wantErr)
		}
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"http://localhost:8317", false},
		{"https://proxy.example.com/", false},
		{" http://127.0.0.1:8317 ", false},
		{"localhost:8317", true},
		{"ftp://example.com", true},
		{"", true},
		{"http://", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if err := ValidateURL(tt.in); (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestValidateMinSeconds(t *testing.T) {
	validate := ValidateMinSeconds(5)
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"5", false},
		{"60", false},
		{"4", true},
		{"0", true},
		{"-1", true},
		{"1.5", true},
		{"abc", true},
	}
	for _, tt := range tests {
		if err := validate(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
