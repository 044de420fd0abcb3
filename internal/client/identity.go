package client

import (
	"log"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

var identityKey = []byte("client_id")

// GetOrCreateIdentity returns the stable identity for this profile,
// generating and persisting one on first use.  The identity is opaque,
// not cryptographically hardened, and is the single value that survives
// every reset.
//
// When the local store is unavailable the function degrades to an
// ephemeral in-memory identity for the session instead of failing; the
// degradation is logged.
func GetOrCreateIdentity(ls *LocalStore) string {
	if ls == nil || ls.db == nil {
		log.Printf("client: local store unavailable, using ephemeral identity")
		return newIdentity()
	}
	var id string
	err := ls.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketIdentity)
		if v := b.Get(identityKey); v != nil {
			id = string(v)
			return nil
		}
		id = newIdentity()
		return b.Put(identityKey, []byte(id))
	})
	if err != nil {
		log.Printf("client: identity persistence failed (%v), using ephemeral identity", err)
		return newIdentity()
	}
	return id
}

func newIdentity() string { return "user_" + uuid.NewString() }
