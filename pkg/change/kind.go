package change

// Kind identifies an event variant.
type Kind int

const (
	KindInsert Kind = iota
	KindRemove
	KindReplace
	KindMove
	KindReset
	KindEmpty
)

var kindNames = [...]string{"insert", "remove", "replace", "move", "reset", "empty"}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}
