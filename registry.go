package forge

// ImportPass marks how far an imported file has been driven through
// the three-pass pipeline (spec section 4.H).
type ImportPass int

const (
	// PassNone means the file has been seen (it's in the registry, to
	// break cycles) but nothing has been driven yet.
	PassNone ImportPass = iota
	// PassForward means pass 1 ran: forward declarations only, function
	// and variable bodies skipped.
	PassForward
	// PassSignatures means pass 2 ran: structure/enum members, function
	// signatures, and alias targets are filled in.
	PassSignatures
	// PassBodies means pass 3 ran: function bodies and variable
	// initializers were parsed. Only the origin file ever reaches this.
	PassBodies
)

// ImportRecord tracks one imported file's resolved path, whether it
// came in through `import native`, and the last pass driven over it.
type ImportRecord struct {
	AbsoluteFilename string
	IsNative         bool
	LastPassDone     ImportPass
}

// ImportRegistry deduplicates imports across a compile (spec section
// 4.H): re-importing a file that has already reached a given pass is a
// silent no-op; importing a file that has only reached an earlier pass
// drives it forward to catch up. A native and a non-native import of
// the same resolved path is a warning, not an error (the registry keeps
// whichever record was installed first; the Driver reports the mismatch).
type ImportRegistry struct {
	records map[string]*ImportRecord
	order   []string // import order, for deterministic driving
}

func NewImportRegistry() *ImportRegistry {
	return &ImportRegistry{records: map[string]*ImportRecord{}}
}

// Lookup returns the record for an already-registered path, or nil.
func (r *ImportRegistry) Lookup(absoluteFilename string) *ImportRecord {
	return r.records[absoluteFilename]
}

// Register installs a brand-new record for a path not seen before.
// Callers must check Lookup first; Register does not merge.
func (r *ImportRegistry) Register(absoluteFilename string, isNative bool) *ImportRecord {
	rec := &ImportRecord{AbsoluteFilename: absoluteFilename, IsNative: isNative, LastPassDone: PassNone}
	r.records[absoluteFilename] = rec
	r.order = append(r.order, absoluteFilename)
	return rec
}

// ShouldDrive reports whether a file already in the registry needs to
// be (re-)driven to reach targetPass.
func (r *ImportRecord) ShouldDrive(targetPass ImportPass) bool {
	return r.LastPassDone < targetPass
}

// Records returns the registry's entries in registration order. The
// first is the origin file, which the Driver resolves relative imports
// against.
func (r *ImportRegistry) Records() []*ImportRecord {
	out := make([]*ImportRecord, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.records[k])
	}
	return out
}
