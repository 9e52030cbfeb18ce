package ste_test

import (
	"crypto/rand"
	"testing/quick"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/ste"
)

var _ = Describe("Silent Threshold Encryption Property-Based Tests", func() {
	It("recovers the session key for any valid (n, t, selector) triple", func() {
		sizes := []uint64{2, 4, 8, 16, 32}

		property := func(sizeIdx, tRaw, selectorBits uint8) bool {
			n := sizes[int(sizeIdx)%len(sizes)]
			t := uint64(tRaw)%(n-1) + 1 // t in [1, n-1]

			_, pt, sks, aggKey := setup(n)
			ct, err := ste.Encrypt(aggKey, pt, t, rand.Reader)
			if err != nil {
				return false
			}

			selector := make(ste.Selector, n)
			selector[0] = true
			selected := uint64(1)
			// Walk the non-dummy parties in a pseudo-random order derived from
			// selectorBits, selecting until exactly t+1 are chosen.
			for offset := uint64(0); offset < n-1 && selected <= t; offset++ {
				idx := 1 + (uint64(selectorBits)+offset)%(n-1)
				if !selector[idx] {
					selector[idx] = true
					selected++
				}
			}
			if selected != t+1 {
				// Couldn't fill the quorum deterministically for this input;
				// not a property violation, just an unusable sample.
				return true
			}

			recovered, err := decryptWith(sks, ct, selector, aggKey, pt)
			if err != nil {
				return false
			}
			return curve.GTEqual(recovered, ct.EncKey)
		}

		Expect(quick.Check(property, &quick.Config{MaxCount: 30})).To(Succeed())
	})

	It("never accepts a quorum smaller than t+1", func() {
		property := func(tRaw uint8) bool {
			n := uint64(16)
			t := uint64(tRaw)%(n-2) + 2 // t in [2, n-1]

			_, pt, sks, aggKey := setup(n)
			ct, err := ste.Encrypt(aggKey, pt, t, rand.Reader)
			if err != nil {
				return false
			}

			selector := make(ste.Selector, n)
			selector[0] = true
			for i := uint64(1); i < t; i++ { // only t selected, one short
				selector[i] = true
			}

			_, err = decryptWith(sks, ct, selector, aggKey, pt)
			return err != nil
		}

		Expect(quick.Check(property, &quick.Config{MaxCount: 15})).To(Succeed())
	})
})
