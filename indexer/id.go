package indexer

// Id is the tagged child-pointer / item-id representation used throughout
// the node store and persisted artifact: ordinary indices into the packed
// node array share the same type as leaf-bucket indices, disambiguated by
// the high bit (see §3 "Id encoding").
type Id uint32

const (
	idSize    = 4
	leafFlag  Id = 1 << 31
	idMask    Id = leafFlag - 1
)

// isLeaf reports whether id references a leaf bucket rather than a node.
func (id Id) isLeaf() bool { return id&leafFlag != 0 }

// withLeafFlag tags a leaf-bucket index as such.
func withLeafFlag(bucketIdx int) Id { return Id(bucketIdx) | leafFlag }

// clearLeafFlag strips the tag, yielding the raw bucket index.
func (id Id) clearLeafFlag() int { return int(id &^ leafFlag) }

// asNodeIndex returns the raw node-array index; only valid when !isLeaf().
func (id Id) asNodeIndex() int { return int(id & idMask) }
