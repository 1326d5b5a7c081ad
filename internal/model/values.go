package model

// Node is a stored node returned by a query that is not mapped to a schema.
type Node struct {
	Identity   string         `json:"identity"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// Relationship is a stored edge. Start and End are node identities.
type Relationship struct {
	Identity   string         `json:"identity"`
	Start      string         `json:"start"`
	End        string         `json:"end"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// Path is an alternating sequence of nodes and relationships.
type Path struct {
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}
