package validate

import "strings"

// Name checks a guest name: 2-100 characters, letters and spaces only.
func Name(s string) error {
	return check("customerName", strings.TrimSpace(s), "required,person_name")
}

// Mobile checks a 10-digit Indian mobile number starting with 6-9 that is
// neither one repeated digit nor an ascending run such as 6789012345.
func Mobile(s string) error {
	return check("customerMobile", s, "required,in_mobile")
}

// Aadhaar checks the NNNN-NNNN-NNNN form.
func Aadhaar(s string) error {
	return check("customerAadhaar", s, "required,aadhaar")
}

// Password is the minimum accepted by the backend for a new password.
func Password(s string) error {
	return check("newPassword", s, "required,min=6")
}

// AadhaarDigits drops everything but digits.
func AadhaarDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatAadhaar formats input the way the booking form does while typing:
// non-digits are removed, at most 12 digits are kept and dashes go after
// the 4th and 8th digit when more digits follow.
func FormatAadhaar(s string) string {
	d := AadhaarDigits(s)
	if len(d) > 12 {
		d = d[:12]
	}
	switch {
	case len(d) > 8:
		return d[:4] + "-" + d[4:8] + "-" + d[8:]
	case len(d) > 4:
		return d[:4] + "-" + d[4:]
	}
	return d
}
