package engine

// cycleReader memoises external reads for the duration of one cycle so
// every entity is observed exactly once per evaluation.
type cycleReader struct {
	provider StateProvider
	cache    map[string]cachedState
}

type cachedState struct {
	value string
	ok    bool
}

func newCycleReader(p StateProvider) *cycleReader {
	return &cycleReader{provider: p, cache: make(map[string]cachedState)}
}

// ReadState implements signal.Reader.
func (r *cycleReader) ReadState(entityID string) (string, bool) {
	if entityID == "" {
		return "", false
	}
	if c, ok := r.cache[entityID]; ok {
		return c.value, c.ok
	}
	var c cachedState
	if r.provider != nil {
		c.value, c.ok = r.provider.ReadState(entityID)
	}
	r.cache[entityID] = c
	return c.value, c.ok
}
