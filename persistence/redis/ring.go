package redis

import (
	"github.com/buraksezer/consistent"
	"github.com/spaolacci/murmur3"
)

const DEFAULT_PARTITION_COUNT = 16

type hasher struct{}

func (h hasher) Sum64(data []byte) uint64 {
	return murmur3.Sum64(data)
}

type member string

func (m member) String() string {
	return string(m)
}

// Ring spreads assignment rows over a fixed number of hashes so that no
// single redis key grows with the total user count.
type Ring struct {
	partitionCount int
	hring          *consistent.Consistent
}

func NewRing(partitionCount int, addrs []string) *Ring {
	if partitionCount <= 0 {
		partitionCount = DEFAULT_PARTITION_COUNT
	}
	members := make([]consistent.Member, 0, len(addrs))
	for _, addr := range addrs {
		members = append(members, member(addr))
	}
	cfg := consistent.Config{
		PartitionCount:    partitionCount,
		ReplicationFactor: 20,
		Load:              1.25,
		Hasher:            hasher{},
	}
	return &Ring{
		partitionCount: partitionCount,
		hring:          consistent.New(members, cfg),
	}
}

func (r *Ring) GetPartition(key string) int {
	return r.hring.FindPartitionID([]byte(key))
}

// Owner returns the address owning key, or "" on an empty ring.
func (r *Ring) Owner(key string) string {
	if len(r.hring.GetMembers()) == 0 {
		return ""
	}
	return r.hring.LocateKey([]byte(key)).String()
}
