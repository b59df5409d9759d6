package complete

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"src.teel.sh/pkg/edit"
	"src.teel.sh/pkg/logutil"
	"src.teel.sh/pkg/wordnav"
)

var logger = logutil.GetLogger("[complete] ")

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

// Lister is implemented by completers that can list all their candidates for
// a word. The server reports every candidate of a Lister instead of a single
// replacement.
type Lister interface {
	Candidates(word []byte) []string
}

// Serve answers completion requests from the other end of rwc with c, until
// the connection is closed or ctx is done.
func Serve(ctx context.Context, rwc io.ReadWriteCloser, c edit.Completer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s := newServer(c)
	conn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{}),
		s.handler())
	select {
	case <-conn.DisconnectNotify():
		return nil
	case <-ctx.Done():
		conn.Close()
		return ctx.Err()
	}
}

type server struct {
	completer edit.Completer
	mutex     sync.Mutex
	content   map[lsp.DocumentURI]string
}

func newServer(c edit.Completer) *server {
	return &server{completer: c, content: make(map[lsp.DocumentURI]string)}
}

func (s *server) handler() jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/completion": s.completion,

		"initialized": noop,
		"shutdown":    noop,
		"exit":        noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			logger.Println("unknown method", req.Method)
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			CompletionProvider: &lsp.CompletionOptions{},
		},
	}, nil
}

func (s *server) didOpen(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.setContent(params.TextDocument.URI, params.TextDocument.Text)
	return nil, nil
}

func (s *server) didChange(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}
	// Only full-text changes are advertised in initialize.
	s.setContent(params.TextDocument.URI, params.ContentChanges[0].Text)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) setContent(uri lsp.DocumentURI, content string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.content[uri] = content
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mutex.Lock()
	content := s.content[params.TextDocument.URI]
	s.mutex.Unlock()

	dot := lspPositionToIdx(content, params.Position)
	from, to := wordnav.WordAt(wordnav.Default, []byte(content), dot)
	word := []byte(content[from:to])

	var candidates []string
	if l, ok := s.completer.(Lister); ok {
		candidates = l.Candidates(word)
	} else if replacement, ok := s.completer.Complete(word); ok {
		candidates = []string{string(replacement)}
	}

	lspRange := lsp.Range{
		Start: lspPositionFromIdx(content, from),
		End:   lspPositionFromIdx(content, to),
	}
	items := make([]lsp.CompletionItem, len(candidates))
	for i, c := range candidates {
		items[i] = lsp.CompletionItem{
			Label: c,
			Kind:  lsp.CIKKeyword,
			TextEdit: &lsp.TextEdit{
				Range:   lspRange,
				NewText: c,
			},
		}
	}
	return items, nil
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if !lastCR {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// One UTF-16 unit.
			p.Character++
		default:
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}
