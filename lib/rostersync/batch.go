// Copyright 2026 The Dutymate Authors
// SPDX-License-Identifier: Apache-2.0

package rostersync

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/dutymate/dutymate-v2-sub000/lib/codec"
	"github.com/dutymate/dutymate-v2-sub000/lib/roster"
)

// Batch is one submission: every edit accumulated since the previous
// successful flush, in enqueue order. Later edits of the same cell
// win.
type Batch struct {
	// ID identifies the batch content. Two batches with the same edits
	// (same edit IDs and values) have the same ID.
	ID string

	// Sequence numbers flush attempts within a queue, starting at 1.
	Sequence uint64

	Period roster.Period
	Edits  []roster.PendingEdit
}

// batchDomainKey keys the identity hash so batch IDs never collide
// with other BLAKE3 digests of the same bytes.
var batchDomainKey = [32]byte{
	'd', 'u', 't', 'y', 'r', 'o', 's', 't', 'e', 'r', '.', 's', 'y', 'n', 'c', '.',
	'b', 'a', 't', 'c', 'h', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// batchIdentity is the hashed form of a batch. Timestamps and states
// are excluded so a resubmission hashes identically.
type batchIdentity struct {
	Year  int            `cbor:"1,keyasint"`
	Month int            `cbor:"2,keyasint"`
	Edits []editIdentity `cbor:"3,keyasint"`
}

type editIdentity struct {
	ID        uint64           `cbor:"1,keyasint"`
	NurseID   int64            `cbor:"2,keyasint"`
	Day       int              `cbor:"3,keyasint"`
	Before    roster.ShiftCode `cbor:"4,keyasint"`
	After     roster.ShiftCode `cbor:"5,keyasint"`
	Automatic bool             `cbor:"6,keyasint"`
}

// NewBatch builds a batch from edits, which must share one period.
func NewBatch(sequence uint64, edits []roster.PendingEdit) (Batch, error) {
	if len(edits) == 0 {
		return Batch{}, errors.New("rostersync: empty batch")
	}
	period := edits[0].Period
	identity := batchIdentity{
		Year:  period.Year,
		Month: int(period.Month),
		Edits: make([]editIdentity, len(edits)),
	}
	for index, edit := range edits {
		if edit.Period != period {
			return Batch{}, fmt.Errorf("rostersync: batch mixes periods %s and %s", period, edit.Period)
		}
		identity.Edits[index] = editIdentity{
			ID:        edit.ID,
			NurseID:   edit.NurseID,
			Day:       edit.Day,
			Before:    edit.Before,
			After:     edit.After,
			Automatic: edit.Automatic,
		}
	}

	encoded, err := codec.Marshal(identity)
	if err != nil {
		return Batch{}, fmt.Errorf("rostersync: encoding batch identity: %w", err)
	}
	hasher, err := blake3.NewKeyed(batchDomainKey[:])
	if err != nil {
		panic("rostersync: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(encoded)

	return Batch{
		ID:       hex.EncodeToString(hasher.Sum(nil)),
		Sequence: sequence,
		Period:   period,
		Edits:    edits,
	}, nil
}
