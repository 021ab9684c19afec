package core

import "context"

// Turn is the outcome of one Runner turn: the text it produced plus the
// results of every tool it requested, in request order.
type Turn struct {
	Text    string
	Results []ToolResult
}

// Developer issues requirements and answers Runner questions. Implementations
// include persona driven AI developers and humans at a terminal.
type Developer interface {
	Respond(ctx context.Context, message string) (string, error)
}

// Runner generates and validates artifacts. An empty message continues the
// conversation with the tool results of the previous turn.
type Runner interface {
	RunTurn(ctx context.Context, message string) (Turn, error)
	PackageName() string
	PackageDir() string
}

// ArtifactStore persists generated files. Scope is a package directory; name
// is a plain file name within it.
type ArtifactStore interface {
	Save(scope, name string, data []byte) error
	Get(scope, name string) ([]byte, error)
	List(scope string) ([]string, error)
	Delete(scope, name string) error
}
