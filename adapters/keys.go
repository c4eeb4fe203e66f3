package adapters

import (
	"bytes"
	"encoding/binary"
	"time"
)

// BadgerNamePrefix groups name keys in badger's single keyspace.
var BadgerNamePrefix = []byte("name/")

// BadgerNameKey returns the key for name.
func BadgerNameKey(name string) []byte {
	key := make([]byte, 0, len(BadgerNamePrefix)+len(name))
	key = append(key, BadgerNamePrefix...)
	return append(key, name...)
}

// NameFromBadgerKey strips the prefix. ok is false for keys outside it.
func NameFromBadgerKey(key []byte) (name string, ok bool) {
	if !bytes.HasPrefix(key, BadgerNamePrefix) {
		return "", false
	}
	return string(key[len(BadgerNamePrefix):]), true
}

// BoltNameKey returns the bbolt key for name. Names are their own keys.
func BoltNameKey(name string) []byte {
	return []byte(name)
}

// EncodeClaimedAt stores the claim time as big-endian unix nanoseconds.
func EncodeClaimedAt(t time.Time) []byte {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, uint64(t.UnixNano()))
	return v
}

// DecodeClaimedAt reverses EncodeClaimedAt. Values of the wrong size decode to
// the zero time.
func DecodeClaimedAt(v []byte) time.Time {
	if len(v) != 8 {
		return time.Time{}
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(v))).UTC()
}
