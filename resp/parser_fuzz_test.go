package resp

import "testing"

// FuzzParse checks spec §8's first round-trip law in miniature: Parse must
// never panic on arbitrary single lines, and a successful parse of a
// length header must report a positive N for the N>0 branches.
func FuzzParse(f *testing.F) {
	f.Add("+OK")
	f.Add("-ERR bad")
	f.Add(":12345")
	f.Add("$6")
	f.Add("$-1")
	f.Add("$0")
	f.Add("*3")
	f.Add("*-1")
	f.Add("*0")
	f.Add("")
	f.Add("garbage")

	f.Fuzz(func(t *testing.T, line string) {
		ev, _, err := Parse(StateHeader, []byte(line))
		if err != nil {
			return
		}
		switch ev.Kind {
		case EventBulkN, EventMultiN:
			if ev.N <= 0 {
				t.Fatalf("N-variant event reported non-positive N: %+v", ev)
			}
		}
	})
}
