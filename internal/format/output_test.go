package format

import (
	"bytes"
	"strings"
	"testing"

	"todo-cli/internal/model"
)

type envelope struct {
	Data []model.Task `json:"data"`
}

func sample() envelope {
	return envelope{Data: []model.Task{{ID: 1700000000001, Value: "milk", Checked: true}}}
}

func TestWrite_JSON(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, sample(), "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{"data":[{"value":"milk","id":1700000000001,"checked":true,"removed":false}]}` + "\n"
	if b.String() != want {
		t.Fatalf("unexpected json:\nwant: %s\ngot:  %s", want, b.String())
	}
}

func TestWrite_EDNKeepsIntegerIDs(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, sample(), "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:data [{:checked true :id 1700000000001 :removed false :value "milk"}]}` + "\n"
	if b.String() != want {
		t.Fatalf("unexpected edn:\nwant: %s\ngot:  %s", want, b.String())
	}
}

func TestWrite_YAMLUsesJSONFieldNames(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, sample(), "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := b.String()
	for _, want := range []string{"data:", "id: 1700000000001", "value: milk", "checked: true"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in yaml:\n%s", want, out)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sample(), "xml", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
