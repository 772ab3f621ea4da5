package keys

// Key codes match raylib (which uses GLFW values): printable keys use the ASCII code of the
// unshifted upper-case character, so 'q' is 81 and '1' is 49.
var namedCodes = map[string]int32{
	"space":     32,
	"'":         39,
	",":         44,
	"-":         45,
	".":         46,
	"/":         47,
	";":         59,
	"=":         61,
	"[":         91,
	"\\":        92,
	"]":         93,
	"`":         96,
	"enter":     257,
	"tab":       258,
	"backspace": 259,
	"right":     262,
	"left":      263,
	"down":      264,
	"up":        265,
}

// CodeFor returns the raylib key code for a lower-case label.
func CodeFor(label string) (int32, bool) {
	if len(label) == 1 {
		c := label[0]
		switch {
		case c >= 'a' && c <= 'z':
			return int32(c - 'a' + 'A'), true
		case c >= '0' && c <= '9':
			return int32(c), true
		}
	}
	code, ok := namedCodes[label]
	return code, ok
}
