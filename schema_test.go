package kernz

import (
	"encoding/json"
	"strings"
	"testing"
)

func testSchema(t *testing.T) Schema {
	t.Helper()
	p, err := NewPipeline(NewIdentity("format", "Formats doubled ints"), double, stringify, length)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return NewSchema(p.Schema())
}

func TestNode_MarshalJSON(t *testing.T) {
	id := NewIdentity("double", "Doubles in place")
	node := newNode(id, "mutate", SignatureOf[int, int]())

	data, err := json.Marshal(node)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if raw["id"] != id.ID().String() {
		t.Errorf("expected id %s, got %v", id.ID(), raw["id"])
	}
	if raw["name"] != "double" || raw["type"] != "mutate" || raw["input"] != "int" || raw["output"] != "int" {
		t.Errorf("unexpected fields %v", raw)
	}
	if _, ok := raw["steps"]; ok {
		t.Error("expected steps to be omitted for a leaf")
	}
}

func TestNode_MarshalJSON_EmptyDescription(t *testing.T) {
	data, err := json.Marshal(newNode(NewIdentity("x", ""), "apply", SignatureOf[int, string]()))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if strings.Contains(string(data), "description") {
		t.Errorf("expected description to be omitted, got %s", data)
	}
}

func TestNode_UnmarshalJSON(t *testing.T) {
	data := []byte(`{"id":"ignored","name":"sum","description":"Adds","type":"kernel","input":"[]int","output":"int"}`)

	var node Node
	if err := json.Unmarshal(data, &node); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if node.Identity.Name() != "sum" || node.Identity.Description() != "Adds" {
		t.Errorf("unexpected identity %v", node.Identity)
	}
	if node.Type != "kernel" || node.Input != "[]int" || node.Output != "int" {
		t.Errorf("unexpected node %+v", node)
	}
}

func TestNode_UnmarshalJSON_Invalid(t *testing.T) {
	var node Node
	if err := json.Unmarshal([]byte(`{"name":`), &node); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSchema_Walk(t *testing.T) {
	schema := testSchema(t)

	var names []string
	schema.Walk(func(n Node) {
		names = append(names, n.Identity.Name())
	})
	if strings.Join(names, ",") != "format,double,stringify,length" {
		t.Errorf("unexpected walk order %v", names)
	}
}

func TestSchema_Find(t *testing.T) {
	schema := testSchema(t)

	found := schema.Find(func(n Node) bool { return n.Input == "string" })
	if found == nil || found.Identity.Name() != "length" {
		t.Errorf("expected length, got %+v", found)
	}
	if schema.Find(func(n Node) bool { return n.Type == "guard" }) != nil {
		t.Error("expected no guard node")
	}
}

func TestSchema_FindByName(t *testing.T) {
	schema := testSchema(t)

	if node := schema.FindByName("stringify"); node == nil || node.Output != "string" {
		t.Errorf("unexpected node %+v", node)
	}
	if schema.FindByName("missing") != nil {
		t.Error("expected nil for a missing name")
	}
}

func TestSchema_Count(t *testing.T) {
	if count := testSchema(t).Count(); count != 4 {
		t.Errorf("expected 4 nodes, got %d", count)
	}
}

func TestSchema_CustomStage(t *testing.T) {
	node := schemaOf(plainStage{id: NewIdentity("plain", "")})
	if node.Type != "stage" || node.Input != "int" || node.Output != "int" {
		t.Errorf("unexpected node %+v", node)
	}
}

func TestSchema_JSONRoundtrip(t *testing.T) {
	schema := testSchema(t)

	data, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded Schema
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Count() != schema.Count() {
		t.Errorf("expected %d nodes, got %d", schema.Count(), decoded.Count())
	}
	if decoded.Root.Identity.Name() != "format" || decoded.Root.Type != "pipeline" {
		t.Errorf("unexpected root %+v", decoded.Root)
	}
	if decoded.FindByName("length") == nil {
		t.Error("expected length to survive the roundtrip")
	}
}
