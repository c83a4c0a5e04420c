// Package workflow interprets declarative node/edge workflow definitions:
// it resolves per-run settings from the graph, assembles retrieval context,
// invokes a generation backend and records the outcome.
package workflow

import "encoding/json"

// Node types recognized by the interpreter. Only the LLM engine node carries
// settings that influence execution; the rest describe the visual graph.
const (
	NodeLLMEngine     = "llmEngine"
	NodeUserQuery     = "userQuery"
	NodeKnowledgeBase = "knowledgeBase"
	NodeOutput        = "output"
)

// Definition is a declarative workflow graph as produced by the builder UI.
// Configs maps node IDs to their per-node settings.
type Definition struct {
	Nodes   []Node                `json:"nodes"`
	Edges   []Edge                `json:"edges"`
	Configs map[string]NodeConfig `json:"configs,omitempty"`
}

// Node is one element of the graph. Position and Data are opaque builder
// state and are preserved verbatim.
type Node struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Position json.RawMessage `json:"position,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

// Edge connects two nodes in the graph.
type Edge struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// NodeConfig holds the settings attached to an LLM engine node. Nil fields
// mean the node does not override that setting.
type NodeConfig struct {
	Model            *string  `json:"model,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	UseKnowledgeBase *bool    `json:"useKnowledgeBase,omitempty"`
	MaxContextChunks *int     `json:"maxContextChunks,omitempty"`
	UseWebSearch     *bool    `json:"useWebSearch,omitempty"`
}

// llmEngineNode returns the first llmEngine node in the definition, or nil.
// extra reports how many additional llmEngine nodes were present.
func (d *Definition) llmEngineNode() (node *Node, extra int) {
	for i := range d.Nodes {
		if d.Nodes[i].Type != NodeLLMEngine {
			continue
		}
		if node == nil {
			node = &d.Nodes[i]
		} else {
			extra++
		}
	}
	return node, extra
}
