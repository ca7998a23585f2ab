// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"CON lowercase", "con", true},
		{"CON uppercase", "CON", true},
		{"CON mixed case", "Con", true},
		{"PRN", "prn", true},
		{"AUX", "aux", true},
		{"NUL", "nul", true},
		{"COM1", "com1", true},
		{"COM9", "com9", true},
		{"LPT1", "lpt1", true},
		{"LPT9", "lpt9", true},

		{"extension", "con.txt", true},
		{"double extension", "nul.tar.gz", true},
		{"trailing space", "aux .txt", true},
		{"inside a directory", "exports/COM1.log", true},
		{"backslash directory", `C:\exports\lpt2`, true},

		{"normal file", "passwords", false},
		{"normal with extension", "passwords.txt", false},
		{"contains reserved", "confile", false},
		{"reserved directory only", "con/passwords.txt", false},
		{"COM10", "com10", false},
		{"LPT10", "lpt10", false},
		{"COM0", "com0", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsWindowsReservedName(tt.input); got != tt.expected {
				t.Errorf("IsWindowsReservedName(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}
