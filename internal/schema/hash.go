package schema

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Hash computes a content hash over the schema's structure. Two schemas that
// constrain values identically hash the same regardless of declaration
// order, so the hash can key a compiled-validator cache.
func (s Schema) Hash() uint64 {
	d := xxhash.New()
	seen := make(map[NodeID]bool)
	hashNode(d, s.Arena, s.Root, seen)
	return d.Sum64()
}

// HashString renders the content hash as a fixed-width hex string.
func (s Schema) HashString() string {
	return fmt.Sprintf("%016x", s.Hash())
}

// hashNode feeds one node's constraints into the digest in a canonical
// order, then recurses into children. Already-visited nodes (shared
// references) contribute a back-reference marker instead of re-walking.
func hashNode(d *xxhash.Digest, arena *Arena, id NodeID, seen map[NodeID]bool) {
	if id == InvalidNode {
		writeString(d, "!")
		return
	}
	if seen[id] {
		writeString(d, "@")
		writeInt(d, int(id))
		return
	}
	seen[id] = true

	node := arena.Node(id)
	writeString(d, string(node.Type))

	if node.MinLength != nil {
		writeString(d, "minLength")
		writeInt(d, *node.MinLength)
	}
	if node.MaxLength != nil {
		writeString(d, "maxLength")
		writeInt(d, *node.MaxLength)
	}
	if node.Pattern != "" {
		writeString(d, "pattern")
		writeString(d, node.Pattern)
	}
	if node.Format != "" {
		writeString(d, "format")
		writeString(d, node.Format)
	}
	if len(node.Enum) > 0 {
		writeString(d, "enum")
		for _, value := range node.Enum {
			writeString(d, fmt.Sprintf("%v", value))
		}
	}

	writeFloat(d, "min", node.Minimum)
	writeFloat(d, "max", node.Maximum)
	writeFloat(d, "exclusiveMin", node.ExclusiveMinimum)
	writeFloat(d, "exclusiveMax", node.ExclusiveMaximum)
	writeFloat(d, "multipleOf", node.MultipleOf)

	if node.MinItems != nil {
		writeString(d, "minItems")
		writeInt(d, *node.MinItems)
	}
	if node.MaxItems != nil {
		writeString(d, "maxItems")
		writeInt(d, *node.MaxItems)
	}
	if node.UniqueItems {
		writeString(d, "uniqueItems")
	}
	if node.Type == TypeArray {
		writeString(d, "items")
		hashNode(d, arena, node.Items, seen)
	}

	if node.Type == TypeObject {
		names := make([]string, 0, len(node.Properties))
		for name := range node.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			writeString(d, "prop")
			writeString(d, name)
			hashNode(d, arena, node.Properties[name], seen)
		}

		required := append([]string(nil), node.Required...)
		sort.Strings(required)
		for _, name := range required {
			writeString(d, "required")
			writeString(d, name)
		}

		if node.AdditionalProperties {
			writeString(d, "additionalProperties")
		}
	}
}

func writeString(d *xxhash.Digest, s string) {
	// Length prefix keeps adjacent fields from colliding.
	writeInt(d, len(s))
	d.WriteString(s)
}

func writeInt(d *xxhash.Digest, n int) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	d.Write(buf[:])
}

func writeFloat(d *xxhash.Digest, label string, value *float64) {
	if value == nil {
		return
	}
	writeString(d, label)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(*value))
	d.Write(buf[:])
}
