package idgen

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// Generator mints numeric pharmacy identifiers.
type Generator interface {
	NextID() int64
}

// Snowflake issues time-ordered, collision-resistant 63-bit ids for one node.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a generator for the given node number (0-1023).
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &Snowflake{node: node}, nil
}

func (s *Snowflake) NextID() int64 {
	return s.node.Generate().Int64()
}
