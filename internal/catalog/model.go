// Package catalog defines the metadata model of the API catalog: components,
// the functions they expose and the typed parameters of each function.
package catalog

// Component is a catalogued external API integration.
type Component struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ComponentDetail is a component together with all of its functions.
type ComponentDetail struct {
	Component
	Functions []Function `json:"functions"`
}

// Function is one callable operation exposed by a component. Parameters are
// kept in store order; PositionInSignature, not the slice index, decides the
// call signature.
type Function struct {
	ID          int64       `json:"id"`
	ComponentID int64       `json:"component_id,omitempty"`
	Name        string      `json:"name"`
	Parameters  []Parameter `json:"parameters"`
}

// Parameter describes one input or the return value of a function.
// A nil ID means the parameter has never been accepted by the store.
type Parameter struct {
	ID                  *int64  `json:"id"`
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	ParamType           string  `json:"param_type"`
	IsMultipleValues    bool    `json:"is_multiple_values"`
	IsReturnValue       bool    `json:"is_return_value"`
	Default             *string `json:"default"`
	Path                *string `json:"path"`
	PositionInSignature *int    `json:"position_in_signature"`
}

// FunctionPatch is the body of an incremental save: the function name and
// only the parameters that changed since the last save.
type FunctionPatch struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
}

// NewFunction is the body of a function creation: every parameter is
// submitted at once.
type NewFunction struct {
	Name       string      `json:"name"`
	Parameters []Parameter `json:"parameters"`
}

// ComponentInput is the writable part of a component.
type ComponentInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// IsPersisted reports whether the store has assigned the parameter an id.
func (p Parameter) IsPersisted() bool {
	return p.ID != nil
}

// Clone returns a deep copy of p; pointer fields do not alias.
func (p Parameter) Clone() Parameter {
	c := p
	if p.ID != nil {
		id := *p.ID
		c.ID = &id
	}
	if p.Default != nil {
		d := *p.Default
		c.Default = &d
	}
	if p.Path != nil {
		path := *p.Path
		c.Path = &path
	}
	if p.PositionInSignature != nil {
		pos := *p.PositionInSignature
		c.PositionInSignature = &pos
	}
	return c
}

// CloneParameters deep-copies a parameter slice. A nil slice yields an empty
// one so that JSON encodes it as [].
func CloneParameters(params []Parameter) []Parameter {
	out := make([]Parameter, len(params))
	for i, p := range params {
		out[i] = p.Clone()
	}
	return out
}

// Clone returns a deep copy of f.
func (f Function) Clone() Function {
	c := f
	c.Parameters = CloneParameters(f.Parameters)
	return c
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
