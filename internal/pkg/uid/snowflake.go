package uid

import (
	"errors"
	"hash/fnv"
	"os"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// ErrNodeIdentityUnavailable indicates no node number could be derived.
var ErrNodeIdentityUnavailable = errors.New("uid: cannot determine snowflake node (SNOWFLAKE_NODE/hostname unavailable)")

// Snowflake generates time-ordered int64 ids.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake builds a generator. The node number comes from SNOWFLAKE_NODE
// when set, otherwise from a hash of the hostname.
func NewSnowflake() (*Snowflake, error) {
	nodeID, err := snowflakeNodeID()
	if err != nil {
		return nil, err
	}

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns the next id.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

func snowflakeNodeID() (int64, error) {
	if raw := strings.TrimSpace(os.Getenv("SNOWFLAKE_NODE")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, err
		}
		return id, nil
	}

	host, err := os.Hostname()
	if err != nil || strings.TrimSpace(host) == "" {
		return 0, ErrNodeIdentityUnavailable
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(host))

	// default snowflake layout reserves 10 bits for the node
	return int64(h.Sum32() % 1024), nil
}
