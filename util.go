package tac

func assert(b bool) {
	if !b {
		panic("assertion failed")
	}
}
