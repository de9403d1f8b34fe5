package validate

var strengthLabels = []string{"Very Weak", "Weak", "Fair", "Good", "Strong", "Very Strong"}

// PasswordStrength scores a password from 0 to 5.
func PasswordStrength(password string) int {
	if password == "" {
		return 0
	}

	score := 0
	n := len([]rune(password))
	if n >= 8 {
		score++
	}
	if n >= 12 {
		score++
	}

	var upper, lower, digit, other bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			other = true
		}
	}
	for _, ok := range []bool{upper, lower, digit, other} {
		if ok {
			score++
		}
	}

	return min(score, 5)
}

// StrengthLabel returns the label for a strength score.
func StrengthLabel(score int) string {
	if score < 0 || score >= len(strengthLabels) {
		return ""
	}
	return strengthLabels[score]
}
