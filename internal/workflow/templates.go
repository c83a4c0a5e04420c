package workflow

import (
	"encoding/json"
	"fmt"
)

// Template is a prebuilt workflow offered as a starting point in the builder.
// IDs are 1-based positions in the static template list.
type Template struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Definition  Definition `json:"definition"`
	Tags        []string   `json:"tags"`
}

// Templates returns the built-in workflow templates.
func Templates() []Template {
	return []Template{
		{
			ID:          1,
			Name:        "Document Q&A Assistant",
			Description: "Upload documents and ask questions about their content. Perfect for research, document analysis, and knowledge extraction.",
			Category:    "Document Analysis",
			Tags:        []string{"documents", "qa", "research", "analysis"},
			Definition: Definition{
				Nodes: []Node{
					graphNode("userQuery-1", NodeUserQuery, 100, 100, "User Query", "Accepts user queries via interface."),
					graphNode("knowledgeBase-1", NodeKnowledgeBase, 100, 250, "Knowledge Base", "Upload and process documents."),
					graphNode("llmEngine-1", NodeLLMEngine, 100, 400, "LLM Engine", "Generate responses using AI models."),
					graphNode("output-1", NodeOutput, 100, 550, "Output", "Display final response to user."),
				},
				Edges: []Edge{
					{ID: "e1-2", Source: "userQuery-1", Target: "knowledgeBase-1"},
					{ID: "e2-3", Source: "knowledgeBase-1", Target: "llmEngine-1"},
					{ID: "e3-4", Source: "llmEngine-1", Target: "output-1"},
				},
				Configs: map[string]NodeConfig{
					"llmEngine-1": engineConfig("gemini", 0.7, true, 3, false),
				},
			},
		},
		{
			ID:          2,
			Name:        "Web Research Assistant",
			Description: "Search the web for real-time information and get AI-powered insights. Great for current events, research, and fact-checking.",
			Category:    "Web Research",
			Tags:        []string{"web", "research", "current-events", "fact-checking"},
			Definition: Definition{
				Nodes: []Node{
					graphNode("userQuery-1", NodeUserQuery, 100, 100, "User Query", "Accepts user queries via interface."),
					graphNode("llmEngine-1", NodeLLMEngine, 100, 250, "LLM Engine", "Generate responses using AI models."),
					graphNode("output-1", NodeOutput, 100, 400, "Output", "Display final response to user."),
				},
				Edges: []Edge{
					{ID: "e1-2", Source: "userQuery-1", Target: "llmEngine-1"},
					{ID: "e2-3", Source: "llmEngine-1", Target: "output-1"},
				},
				Configs: map[string]NodeConfig{
					"llmEngine-1": engineConfig("gemini", 0.8, false, 3, true),
				},
			},
		},
		{
			ID:          3,
			Name:        "Content Generation Assistant",
			Description: "Generate creative content like articles, stories, and marketing copy. Perfect for writers, marketers, and content creators.",
			Category:    "Content Creation",
			Tags:        []string{"content", "writing", "creative", "marketing"},
			Definition: Definition{
				Nodes: []Node{
					graphNode("userQuery-1", NodeUserQuery, 100, 100, "User Query", "Accepts user queries via interface."),
					graphNode("llmEngine-1", NodeLLMEngine, 100, 250, "LLM Engine", "Generate responses using AI models."),
					graphNode("output-1", NodeOutput, 100, 400, "Output", "Display final response to user."),
				},
				Edges: []Edge{
					{ID: "e1-2", Source: "userQuery-1", Target: "llmEngine-1"},
					{ID: "e2-3", Source: "llmEngine-1", Target: "output-1"},
				},
				Configs: map[string]NodeConfig{
					"llmEngine-1": engineConfig("gemini", 0.9, false, 3, false),
				},
			},
		},
	}
}

// TemplateByID returns the template with the given 1-based ID, or false.
func TemplateByID(id int) (Template, bool) {
	templates := Templates()
	if id <= 0 || id > len(templates) {
		return Template{}, false
	}
	return templates[id-1], true
}

func graphNode(id, typ string, x, y int, label, description string) Node {
	data, _ := json.Marshal(map[string]string{
		"label":       label,
		"description": description,
		"type":        typ,
	})
	return Node{
		ID:       id,
		Type:     typ,
		Position: json.RawMessage(fmt.Sprintf(`{"x": %d, "y": %d}`, x, y)),
		Data:     data,
	}
}

func engineConfig(model string, temperature float64, useKB bool, maxChunks int, useWeb bool) NodeConfig {
	return NodeConfig{
		Model:            &model,
		Temperature:      &temperature,
		UseKnowledgeBase: &useKB,
		MaxContextChunks: &maxChunks,
		UseWebSearch:     &useWeb,
	}
}
