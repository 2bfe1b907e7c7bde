package id

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Generator creates request ids of the form <PREFIX>-<unix millis>-<sequence>.
// The millis are those of the passed creation time; the sequence is a
// Snowflake id, unique for one node, so run instances with distinct node ids.
type Generator struct {
	node *snowflake.Node
}

// NewGenerator returns a Generator for the given node ID (0-1023).
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Generator{node: node}, nil
}

// RequestID generates a new request id with the passed prefix for a request
// created at the passed time.
func (g *Generator) RequestID(prefix string, createdAt time.Time) string {
	return fmt.Sprintf("%s-%d-%d", prefix, createdAt.UnixMilli(), g.node.Generate().Int64())
}
