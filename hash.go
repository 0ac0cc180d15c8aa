package avlhash

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"hash/maphash"
	"io"
	"math"
	"reflect"
)

// Hasher is a stateful hash accumulator: write key bytes to it, then
// read back a 64-bit digest. *hash/maphash.Hash satisfies this
// directly, which is the default this package uses.
type Hasher interface {
	io.Writer
	Sum64() uint64
}

// BuildHasher is a factory that deterministically produces a fresh
// Hasher on demand. A default factory (see NewDefaultBuildHasher)
// draws one random seed when it is created and seeds each hasher it
// builds from it, to resist hash-flooding attacks without requiring
// the caller to manage a seed themselves.
type BuildHasher interface {
	NewHasher() Hasher
}

// defaultBuildHasher wraps hash/maphash with one seed per factory,
// chosen once at construction time via maphash.MakeSeed's randomized
// source. New builds a fresh factory for each Map; Clone shares its
// source's factory, and so its seed.
type defaultBuildHasher struct {
	seed maphash.Seed
}

// NewDefaultBuildHasher returns the BuildHasher every Map uses unless
// constructed with WithHasher.
func NewDefaultBuildHasher() BuildHasher {
	return &defaultBuildHasher{seed: maphash.MakeSeed()}
}

func (d *defaultBuildHasher) NewHasher() Hasher {
	h := &maphash.Hash{}
	h.SetSeed(d.seed)
	return h
}

func hashKey[K cmp.Ordered](bh BuildHasher, key K) uint64 {
	h := bh.NewHasher()
	writeKey(h, key)
	return h.Sum64()
}

// writeKey feeds key's canonical byte representation to h. K is
// constrained to cmp.Ordered, so this type switch over Go's built-in
// ordered kinds is exhaustive for every K this package can be
// instantiated with.
func writeKey[K cmp.Ordered](h Hasher, key K) {
	switch v := any(key).(type) {
	case string:
		io.WriteString(h, v)
	case int:
		writeUint64(h, uint64(v))
	case int8:
		writeUint64(h, uint64(v))
	case int16:
		writeUint64(h, uint64(v))
	case int32:
		writeUint64(h, uint64(uint32(v)))
	case int64:
		writeUint64(h, uint64(v))
	case uint:
		writeUint64(h, uint64(v))
	case uint8:
		writeUint64(h, uint64(v))
	case uint16:
		writeUint64(h, uint64(v))
	case uint32:
		writeUint64(h, uint64(v))
	case uint64:
		writeUint64(h, v)
	case uintptr:
		writeUint64(h, uint64(v))
	case float32:
		writeUint64(h, uint64(math.Float32bits(v)))
	case float64:
		writeUint64(h, math.Float64bits(v))
	default:
		// A defined type (type ID int) matches none of the cases above;
		// hash it through its underlying kind instead.
		switch rv := reflect.ValueOf(key); rv.Kind() {
		case reflect.String:
			io.WriteString(h, rv.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			writeUint64(h, uint64(rv.Int()))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			writeUint64(h, rv.Uint())
		case reflect.Float32, reflect.Float64:
			writeUint64(h, math.Float64bits(rv.Float()))
		default:
			panic(fmt.Sprintf("avlhash: unsupported key type %T", key))
		}
	}
}

func writeUint64(h Hasher, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}
