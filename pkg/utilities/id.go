package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// nodeID reads SNOWFLAKE_NODE, defaulting to node 1.
func nodeID() int64 {
	id, err := strconv.ParseInt(os.Getenv("SNOWFLAKE_NODE"), 10, 64)
	if err != nil {
		return 1
	}
	return id
}

// NewSnowflakeID returns a snowflake ID from the process-wide node. A single node
// is shared so ids generated within the same millisecond stay unique.
// If the node cannot be initialized it falls back to a KSUID string.
func NewSnowflakeID() string {
	nodeOnce.Do(func() {
		n, err := snowflake.NewNode(nodeID())
		if err == nil {
			node = n
		}
	})
	if node == nil {
		return NewKSUID()
	}
	return node.Generate().String()
}

// PrefixedID returns "<prefix>_<snowflake>", e.g. "t_1790000000000000000".
func PrefixedID(prefix string) string {
	return prefix + "_" + NewSnowflakeID()
}
