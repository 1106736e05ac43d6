package tasklist

// Preference keys, shared with the original browser client's localStorage layout.
const (
	PrefKeyText   = "text"
	PrefKeyFilter = "filter"
)

// PrefWrite is a full overwrite of one preference with a plain string value.
// Encoding is the store's concern.
type PrefWrite struct {
	Key   string
	Value string
}

// Effects returns the preference writes implied by the transition prev -> next.
func Effects(prev, next State) []PrefWrite {
	var out []PrefWrite
	if prev.Draft != next.Draft {
		out = append(out, PrefWrite{Key: PrefKeyText, Value: next.Draft})
	}
	if prev.Filter != next.Filter {
		out = append(out, PrefWrite{Key: PrefKeyFilter, Value: string(next.Filter)})
	}
	return out
}
