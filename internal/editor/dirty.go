package editor

// dirtySet records which draft rows carry unsaved changes. Rows are
// identified by their synthetic key, so removing a row never shifts the
// markers of the others.
type dirtySet struct {
	keys map[string]struct{}
}

func newDirtySet() *dirtySet {
	return &dirtySet{keys: make(map[string]struct{})}
}

func (d *dirtySet) mark(key string) {
	d.keys[key] = struct{}{}
}

func (d *dirtySet) unmark(key string) {
	delete(d.keys, key)
}

func (d *dirtySet) has(key string) bool {
	_, ok := d.keys[key]
	return ok
}

func (d *dirtySet) len() int {
	return len(d.keys)
}

func (d *dirtySet) clear() {
	d.keys = make(map[string]struct{})
}
