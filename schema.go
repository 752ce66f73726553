package kernz

import "encoding/json"

// Node describes one component of a pipeline for introspection and tooling.
// Pipelines list their stages in Steps; kernels are leaves with no Steps.
//
// Example:
//
//	schema := kernz.NewSchema(pipeline.Schema())
//	jsonBytes, _ := json.MarshalIndent(schema, "", "  ")
//	fmt.Println(string(jsonBytes))
type Node struct {
	Identity Identity `json:"-"`
	Type     string   `json:"type"`
	Input    string   `json:"input"`
	Output   string   `json:"output"`
	Steps    []Node   `json:"steps,omitempty"`
}

// nodeJSON flattens Identity into separate fields for cleaner serialization.
type nodeJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	Steps       []Node `json:"steps,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{
		ID:          n.Identity.ID().String(),
		Name:        n.Identity.Name(),
		Description: n.Identity.Description(),
		Type:        n.Type,
		Input:       n.Input,
		Output:      n.Output,
		Steps:       n.Steps,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// The Identity UUID is regenerated since schemas are descriptions, not pipelines.
func (n *Node) UnmarshalJSON(data []byte) error {
	var j nodeJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	n.Identity = NewIdentity(j.Name, j.Description)
	n.Type = j.Type
	n.Input = j.Input
	n.Output = j.Output
	n.Steps = j.Steps
	return nil
}

func newNode(identity Identity, kind string, sig Signature) Node {
	return Node{
		Identity: identity,
		Type:     kind,
		Input:    typeName(sig.Input),
		Output:   typeName(sig.Output),
	}
}

// schemaOf describes any stage, falling back to a generic leaf for custom Stage types.
func schemaOf(stage Stage) Node {
	if s, ok := stage.(interface{ Schema() Node }); ok {
		return s.Schema()
	}
	return newNode(stage.Identity(), "stage", stage.Signature())
}

// Schema wraps the root Node of a pipeline.
type Schema struct {
	Root Node `json:"root"`
}

// NewSchema creates a Schema from a pipeline's root node.
func NewSchema(root Node) Schema {
	return Schema{Root: root}
}

// Walk traverses the schema tree depth-first, pre-order.
func (s Schema) Walk(fn func(Node)) {
	walkNode(s.Root, fn)
}

func walkNode(node Node, fn func(Node)) {
	fn(node)
	for _, step := range node.Steps {
		walkNode(step, fn)
	}
}

// Find returns the first node matching the predicate, or nil if not found.
func (s Schema) Find(predicate func(Node) bool) *Node {
	var result *Node
	s.Walk(func(node Node) {
		if result == nil && predicate(node) {
			result = &node
		}
	})
	return result
}

// FindByName returns the first node with the given name, or nil if not found.
func (s Schema) FindByName(name string) *Node {
	return s.Find(func(n Node) bool {
		return n.Identity.Name() == name
	})
}

// Count returns the total number of nodes in the schema.
func (s Schema) Count() int {
	count := 0
	s.Walk(func(_ Node) {
		count++
	})
	return count
}
