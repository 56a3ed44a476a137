package validation

import "testing"

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid name",
			input:   "Ana",
			wantErr: false,
		},
		{
			name:    "valid name with spaces",
			input:   "Ana Clara",
			wantErr: false,
		},
		{
			name:    "empty name",
			input:   "",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "single character",
			input:   "A",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{
			name:     "valid username",
			username: "ana123",
			wantErr:  false,
		},
		{
			name:     "valid with dash and underscore",
			username: "happy-dragon_7",
			wantErr:  false,
		},
		{
			name:     "empty",
			username: "",
			wantErr:  true,
		},
		{
			name:     "too short",
			username: "ab",
			wantErr:  true,
		},
		{
			name:     "too long",
			username: "abcdefghijklmnopqrstu",
			wantErr:  true,
		},
		{
			name:     "invalid characters",
			username: "ana 123",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAge(t *testing.T) {
	tests := []struct {
		name    string
		age     int
		wantErr bool
	}{
		{name: "lower bound", age: 5, wantErr: false},
		{name: "upper bound", age: 12, wantErr: false},
		{name: "middle", age: 8, wantErr: false},
		{name: "too young", age: 4, wantErr: true},
		{name: "too old", age: 13, wantErr: true},
		{name: "zero", age: 0, wantErr: true},
		{name: "negative", age: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAge(tt.age)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAge(%d) error = %v, wantErr %v", tt.age, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{
			name:     "valid password",
			password: "pass1",
			wantErr:  false,
		},
		{
			name:     "minimum length",
			password: "abcd",
			wantErr:  false,
		},
		{
			name:     "empty",
			password: "",
			wantErr:  true,
		},
		{
			name:     "too short",
			password: "abc",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}
