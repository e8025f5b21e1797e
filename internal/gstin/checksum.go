package gstin

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Checksum computes the mod-36 check character over the first 14 characters of raw.
// It returns false when raw is too short or contains characters outside [0-9A-Z].
func Checksum(raw string) (byte, bool) {
	if len(raw) < Length-1 {
		return 0, false
	}
	return checksum(raw)
}

func checksum(raw string) (byte, bool) {
	sum := 0
	for i := 0; i < Length-1; i++ {
		v := charValue(raw[i])
		if v < 0 {
			return 0, false
		}
		p := v * (i%2 + 1)
		sum += p/36 + p%36
	}
	return alphabet[(36-sum%36)%36], true
}

func charValue(c byte) int {
	switch {
	case isDigit(c):
		return int(c - '0')
	case isUpper(c):
		return int(c-'A') + 10
	}
	return -1
}
