package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"claimflow-rag/internal/assistant"
	"claimflow-rag/internal/config"
	"claimflow-rag/internal/helper"
	"claimflow-rag/internal/rag"
)

var exitWords = map[string]bool{"exit": true, "quit": true, "bye": true, "q": true}

type responder interface {
	Respond(ctx context.Context, query string, opts assistant.Options) assistant.Response
}

// runChat forwards each input line to the assistant until an exit word,
// end of input or cancellation.
func runChat(ctx context.Context, r responder, in io.Reader, out io.Writer, opts assistant.Options) {
	fmt.Fprintln(out, "Ask about insurance claims or savings. Type exit to leave.")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if exitWords[strings.ToLower(line)] {
			fmt.Fprintln(out, "Goodbye.")
			return
		}
		if line == "" {
			continue
		}
		resp := r.Respond(ctx, line, opts)
		log.Debug().Str("request_id", resp.RequestID).Str("state", string(resp.State)).Msg("Chat turn")
		fmt.Fprintf(out, "Assistant: %s\n\n", resp.Text)
		if ctx.Err() != nil {
			return
		}
	}
}

// planKnowledgeBase prints the chunks a build would store.
func planKnowledgeBase(cfg *config.Config) error {
	b := rag.NewBuilder(nil, nil, rag.BuilderConfig{
		Collection: cfg.RAG.CollectionName,
		Extensions: cfg.RAG.Extensions,
		MinWords:   cfg.RAG.MinWords,
		MaxWords:   cfg.RAG.MaxWords,
		BatchSize:  cfg.RAG.BatchSize,
	})
	chunks, report, err := b.Plan(cfg.RAG.KnowledgeDir)
	if err != nil {
		return err
	}
	helper.PrettyPrint(chunks)
	helper.PrettyPrint(report)
	return nil
}
