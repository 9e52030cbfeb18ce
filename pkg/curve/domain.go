package curve

import (
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr/fft"

	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// Domain is a power-of-two multiplicative subgroup of Fr, used everywhere
// spec.md §4.2/§4.6 need to evaluate or interpolate a polynomial at the
// n-th roots of unity (n = number of parties including the dummy). We take
// the canonical generator of the subgroup from gnark-crypto's fft.Domain
// (it already knows the right root of unity for every supported size) but
// do not hand the transform itself to fft.Domain.FFT/FFTInverse: that API's
// exact bit-reversal/ordering contract isn't something we re-derive here
// with confidence, so the radix-2 Cooley-Tukey transform below is
// implemented directly against the generator, keeping full control over
// input/output ordering (natural order in, natural order out, matching
// original_source/src/utils.rs's use of a plain index-ordered domain).
type Domain struct {
	size       uint64
	generator  Scalar // primitive size-th root of unity
	generators []Scalar
	invSize    Scalar
}

// NewDomain builds the evaluation domain {1, w, w^2, ..., w^(n-1)} for a
// power-of-two n.
func NewDomain(n uint64) (*Domain, error) {
	if n == 0 || (n&(n-1)) != 0 {
		return nil, sterr.New("NewDomain", sterr.Domain, "domain size must be a power of two")
	}
	gd := fft.NewDomain(n)
	if gd.Cardinality != n {
		return nil, sterr.New("NewDomain", sterr.Domain, "gnark-crypto could not build a domain of the requested size")
	}
	w := gd.Generator

	gens := make([]Scalar, n)
	gens[0] = ScalarOne()
	for i := uint64(1); i < n; i++ {
		gens[i].Mul(&gens[i-1], &w)
	}

	invN, err := ScalarInverse(ScalarFromUint64(n))
	if err != nil {
		return nil, sterr.Wrap("NewDomain", sterr.Domain, err)
	}

	return &Domain{size: n, generator: w, generators: gens, invSize: invN}, nil
}

// Size returns the domain's cardinality.
func (d *Domain) Size() uint64 { return d.size }

// Generator returns the domain's primitive root of unity.
func (d *Domain) Generator() Scalar { return d.generator }

// Element returns w^i, the i-th domain element (i taken mod Size()).
func (d *Domain) Element(i uint64) Scalar { return d.generators[i%d.size] }

// Elements returns every domain element in natural index order.
func (d *Domain) Elements() []Scalar {
	out := make([]Scalar, len(d.generators))
	copy(out, d.generators)
	return out
}

// bitReverse returns x with its low `bits` bits reversed.
func bitReverse(x, bits uint64) uint64 {
	var r uint64
	for i := uint64(0); i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// log2 returns log base 2 of n, which must be a power of two.
func log2(n uint64) uint64 {
	var l uint64
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}

// radixTransform runs an in-place radix-2 Cooley-Tukey DIT transform of vals
// (length must equal d.size) using root as the primitive n-th root of unity
// (w for the forward transform, w^-1 for the inverse). vals is both input
// and output, in natural order.
func (d *Domain) radixTransform(vals []Scalar, root Scalar) {
	n := d.size
	bits := log2(n)

	for i := uint64(0); i < n; i++ {
		j := bitReverse(i, bits)
		if i < j {
			vals[i], vals[j] = vals[j], vals[i]
		}
	}

	for size := uint64(2); size <= n; size <<= 1 {
		half := size / 2
		// stepRoot = root^(n/size), the primitive `size`-th root of unity
		stepRoot := ScalarPow(root, n/size)
		for start := uint64(0); start < n; start += size {
			w := ScalarOne()
			for k := uint64(0); k < half; k++ {
				var t Scalar
				t.Mul(&w, &vals[start+k+half])
				var u Scalar
				u = vals[start+k]
				vals[start+k].Add(&u, &t)
				vals[start+k+half].Sub(&u, &t)
				w.Mul(&w, &stepRoot)
			}
		}
	}
}

// FFT evaluates the polynomial with coefficients coeffs (low-degree first,
// zero-padded to Size()) at every domain element, in natural index order:
// result[i] = poly(w^i).
func (d *Domain) FFT(coeffs []Scalar) ([]Scalar, error) {
	if uint64(len(coeffs)) != d.size {
		return nil, sterr.New("FFT", sterr.Domain, "coefficient count must equal domain size")
	}
	vals := make([]Scalar, d.size)
	copy(vals, coeffs)
	d.radixTransform(vals, d.generator)
	return vals, nil
}

// IFFT recovers polynomial coefficients (low-degree first) from evaluations
// evals[i] = poly(w^i).
func (d *Domain) IFFT(evals []Scalar) ([]Scalar, error) {
	if uint64(len(evals)) != d.size {
		return nil, sterr.New("IFFT", sterr.Domain, "evaluation count must equal domain size")
	}
	var invGen Scalar
	invGen.Inverse(&d.generator)

	coeffs := make([]Scalar, d.size)
	copy(coeffs, evals)
	d.radixTransform(coeffs, invGen)

	for i := range coeffs {
		coeffs[i].Mul(&coeffs[i], &d.invSize)
	}
	return coeffs, nil
}

// VanishingPolynomial returns X^n - 1 evaluated at x, the domain's vanishing
// polynomial Z(x). Every domain element is a root of Z.
func (d *Domain) VanishingPolynomial(x Scalar) Scalar {
	xn := ScalarPow(x, d.size)
	one := ScalarOne()
	var z Scalar
	z.Sub(&xn, &one)
	return z
}
