package complete

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
)

// DefaultTimeout is how long Remote waits for a completion server by default.
const DefaultTimeout = time.Second

// The document that Remote keeps the word in.
const remoteURI lsp.DocumentURI = "teel:line"

// Remote is a completer that asks a language server for candidates. Failures
// are logged and treated as no match, so that a slow or broken server never
// blocks editing for longer than the timeout.
type Remote struct {
	conn    *jsonrpc2.Conn
	timeout time.Duration

	mutex   sync.Mutex
	version int
}

// NewRemote initializes a language server session over rwc. A timeout of 0
// means DefaultTimeout.
func NewRemote(ctx context.Context, rwc io.ReadWriteCloser, timeout time.Duration) (*Remote, error) {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(ignoreRequest))
	r := &Remote{conn: conn, timeout: timeout}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	var result lsp.InitializeResult
	err := conn.Call(ctx, "initialize", lsp.InitializeParams{}, &result)
	if err == nil {
		err = conn.Notify(ctx, "initialized", struct{}{})
	}
	if err == nil {
		err = conn.Notify(ctx, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
			TextDocument: lsp.TextDocumentItem{URI: remoteURI, LanguageID: "teel"}})
	}
	if err != nil {
		conn.Close()
		return nil, err
	}
	return r, nil
}

func ignoreRequest(context.Context, *jsonrpc2.Conn, *jsonrpc2.Request) (any, error) {
	return nil, nil
}

// Complete implements edit.Completer.
func (r *Remote) Complete(word []byte) ([]byte, bool) {
	items, err := r.items(word)
	if err != nil {
		logger.Printf("remote completion of %q: %v", word, err)
		return nil, false
	}
	matches := make([]string, 0, len(items))
	for _, item := range items {
		text := item.Label
		if item.TextEdit != nil {
			text = item.TextEdit.NewText
		} else if item.InsertText != "" {
			text = item.InsertText
		}
		matches = append(matches, text)
	}
	if len(matches) > 1 {
		matches = Words(matches).Candidates(word)
	}
	return pick(string(word), matches)
}

func (r *Remote) items(word []byte) ([]lsp.CompletionItem, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	r.version++
	err := r.conn.Notify(ctx, "textDocument/didChange", lsp.DidChangeTextDocumentParams{
		TextDocument: lsp.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: remoteURI},
			Version:                r.version,
		},
		ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: string(word)}},
	})
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	err = r.conn.Call(ctx, "textDocument/completion", lsp.CompletionParams{
		TextDocumentPositionParams: lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: remoteURI},
			Position:     lspPositionFromIdx(string(word), len(word)),
		},
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeItems(raw)
}

// decodeItems accepts both forms of a completion result: a plain list of items
// and a CompletionList.
func decodeItems(raw json.RawMessage) ([]lsp.CompletionItem, error) {
	var items []lsp.CompletionItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var list lsp.CompletionList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// Close shuts down the connection.
func (r *Remote) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	r.conn.Notify(ctx, "exit", nil)
	return r.conn.Close()
}
