package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"claimflow-rag/internal/assistant"
)

type echoResponder struct{ queries []string }

func (e *echoResponder) Respond(_ context.Context, q string, _ assistant.Options) assistant.Response {
	e.queries = append(e.queries, q)
	return assistant.Response{Text: "answer to " + q}
}

func TestRunChat(t *testing.T) {
	r := &echoResponder{}
	var out bytes.Buffer
	in := strings.NewReader("How do claims work?\n\n  \nWhat is PPF?\nQuit\nnever read\n")
	runChat(context.Background(), r, in, &out, assistant.Options{})

	if len(r.queries) != 2 || r.queries[1] != "What is PPF?" {
		t.Fatalf("queries = %v", r.queries)
	}
	if !strings.Contains(out.String(), "Assistant: answer to How do claims work?") {
		t.Errorf("output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Goodbye.") {
		t.Error("exit word not honoured")
	}
}

func TestRunChat_endOfInput(t *testing.T) {
	r := &echoResponder{}
	runChat(context.Background(), r, strings.NewReader("claim status"), &bytes.Buffer{}, assistant.Options{})
	if len(r.queries) != 1 {
		t.Errorf("queries = %v", r.queries)
	}
}
