// Package polynomial implements the dense univariate polynomial utilities
// spec.md §4.2 needs on top of pkg/curve: Lagrange basis construction via
// iFFT, "mostly zero" interpolation (the selector-to-B(X) step of
// AggregateDecrypt), and exact division by a linear factor or by a domain's
// vanishing polynomial. Grounded on original_source/src/utils.rs, which
// implements the same three primitives over the same algebra.
package polynomial

import (
	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// Polynomial is a dense univariate polynomial over Fr, coefficients stored
// low-degree first. The zero polynomial is represented by a nil or empty
// Coeffs slice.
type Polynomial struct {
	Coeffs []curve.Scalar
}

// FromCoeffs wraps coeffs (low-degree first) as a Polynomial, trimming
// trailing zero coefficients so Degree() is accurate.
func FromCoeffs(coeffs []curve.Scalar) Polynomial {
	p := Polynomial{Coeffs: append([]curve.Scalar(nil), coeffs...)}
	return p.trimmed()
}

func (p Polynomial) trimmed() Polynomial {
	n := len(p.Coeffs)
	for n > 0 && p.Coeffs[n-1].IsZero() {
		n--
	}
	return Polynomial{Coeffs: p.Coeffs[:n]}
}

// Degree returns the polynomial's degree, or -1 for the zero polynomial.
func (p Polynomial) Degree() int { return len(p.trimmed().Coeffs) - 1 }

// Evaluate returns p(x) via Horner's method.
func (p Polynomial) Evaluate(x curve.Scalar) curve.Scalar {
	acc := curve.ScalarZero()
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		acc.Mul(&acc, &x)
		acc.Add(&acc, &p.Coeffs[i])
	}
	return acc
}

// Add returns p+q.
func (p Polynomial) Add(q Polynomial) Polynomial {
	n := len(p.Coeffs)
	if len(q.Coeffs) > n {
		n = len(q.Coeffs)
	}
	out := make([]curve.Scalar, n)
	for i := 0; i < n; i++ {
		var a, b curve.Scalar
		if i < len(p.Coeffs) {
			a = p.Coeffs[i]
		}
		if i < len(q.Coeffs) {
			b = q.Coeffs[i]
		}
		out[i].Add(&a, &b)
	}
	return FromCoeffs(out)
}

// Sub returns p-q.
func (p Polynomial) Sub(q Polynomial) Polynomial {
	n := len(p.Coeffs)
	if len(q.Coeffs) > n {
		n = len(q.Coeffs)
	}
	out := make([]curve.Scalar, n)
	for i := 0; i < n; i++ {
		var a, b curve.Scalar
		if i < len(p.Coeffs) {
			a = p.Coeffs[i]
		}
		if i < len(q.Coeffs) {
			b = q.Coeffs[i]
		}
		out[i].Sub(&a, &b)
	}
	return FromCoeffs(out)
}

// ScalarMul returns s*p.
func (p Polynomial) ScalarMul(s curve.Scalar) Polynomial {
	out := make([]curve.Scalar, len(p.Coeffs))
	for i, c := range p.Coeffs {
		out[i].Mul(&c, &s)
	}
	return FromCoeffs(out)
}

// Mul returns the product p*q via naive O(deg(p)*deg(q)) convolution. The
// Lagrange preprocessing tables (pkg/lagrange) and SecretKey.GetPk (pkg/key)
// are the callers that need general polynomial multiplication, and both
// already run an O(n^2) outer loop by design (spec.md §5), so a schoolbook
// convolution here adds no new asymptotic cost.
func (p Polynomial) Mul(q Polynomial) Polynomial {
	if len(p.Coeffs) == 0 || len(q.Coeffs) == 0 {
		return Polynomial{}
	}
	out := make([]curve.Scalar, len(p.Coeffs)+len(q.Coeffs)-1)
	for i, a := range p.Coeffs {
		for j, b := range q.Coeffs {
			var t curve.Scalar
			t.Mul(&a, &b)
			out[i+j].Add(&out[i+j], &t)
		}
	}
	return FromCoeffs(out)
}

// MulLinear returns p(X) * (X - root).
func (p Polynomial) MulLinear(root curve.Scalar) Polynomial {
	n := len(p.Coeffs)
	if n == 0 {
		return Polynomial{}
	}
	out := make([]curve.Scalar, n+1)
	for i, c := range p.Coeffs {
		// X term: shift up by one degree.
		out[i+1].Add(&out[i+1], &c)
		// -root term: subtract root*c from the same degree.
		var rc curve.Scalar
		rc.Mul(&root, &c)
		out[i].Sub(&out[i], &rc)
	}
	return FromCoeffs(out)
}

// ZeroConstant returns p(X) - p(0), i.e. p with its constant term cleared.
func (p Polynomial) ZeroConstant() Polynomial {
	if len(p.Coeffs) == 0 {
		return p
	}
	out := append([]curve.Scalar(nil), p.Coeffs...)
	out[0] = curve.ScalarZero()
	return FromCoeffs(out)
}

// DivByX returns p(X)/X, requiring p(0) == 0.
func (p Polynomial) DivByX() (Polynomial, error) {
	if len(p.Coeffs) == 0 {
		return Polynomial{}, nil
	}
	if !p.Coeffs[0].IsZero() {
		return Polynomial{}, sterr.New("DivByX", sterr.InvalidParameter, "polynomial has nonzero constant term")
	}
	return FromCoeffs(p.Coeffs[1:]), nil
}

// MulXPow returns X^k * p(X), i.e. p shifted up by k degrees.
func (p Polynomial) MulXPow(k int) Polynomial {
	if len(p.Coeffs) == 0 {
		return Polynomial{}
	}
	out := make([]curve.Scalar, len(p.Coeffs)+k)
	copy(out[k:], p.Coeffs)
	return FromCoeffs(out)
}

// DivLinear returns the exact quotient of p(X) / (X - root) via synthetic
// division. It errors if the division has a nonzero remainder, i.e. root is
// not actually a root of p.
func (p Polynomial) DivLinear(root curve.Scalar) (Polynomial, error) {
	n := len(p.Coeffs)
	if n == 0 {
		return Polynomial{}, nil
	}
	q := make([]curve.Scalar, n-1)
	carry := p.Coeffs[n-1]
	for i := n - 2; i >= 0; i-- {
		q[i] = carry
		var t curve.Scalar
		t.Mul(&carry, &root)
		carry.Add(&p.Coeffs[i], &t)
	}
	if !carry.IsZero() {
		return Polynomial{}, sterr.New("DivLinear", sterr.InvalidParameter, "root is not a root of the polynomial")
	}
	return FromCoeffs(q), nil
}

// DivByVanishing returns the exact quotient p(X) / (X^n - 1) for the domain
// d's vanishing polynomial, erroring on a nonzero remainder. This is the
// division lagrange.NewPowers and SecretKey.GetPk (pkg/key) use to build the
// LiLjZ cross-term commitments.
func (p Polynomial) DivByVanishing(d *curve.Domain) (Polynomial, error) {
	n := int(d.Size())
	coeffs := append([]curve.Scalar(nil), p.Coeffs...)
	for len(coeffs) < n {
		coeffs = append(coeffs, curve.ScalarZero())
	}
	deg := len(coeffs) - 1
	if deg < n {
		// p has degree < n, so either p is the zero polynomial (quotient 0)
		// or it is not divisible by X^n - 1 at all.
		if FromCoeffs(coeffs).Degree() < 0 {
			return Polynomial{}, nil
		}
		return Polynomial{}, sterr.New("DivByVanishing", sterr.InvalidParameter, "polynomial degree too low to be divisible by the vanishing polynomial")
	}
	// X^n == 1 mod (X^n - 1), so each term c*X^i for i >= n folds down to
	// c*X^(i-n) in the remainder while contributing c to the quotient's
	// X^(i-n) coefficient.
	q := make([]curve.Scalar, deg-n+1)
	for i := deg; i >= n; i-- {
		c := coeffs[i]
		q[i-n] = c
		coeffs[i-n].Add(&coeffs[i-n], &c)
	}
	for i := 0; i < n; i++ {
		if !coeffs[i].IsZero() {
			return Polynomial{}, sterr.New("DivByVanishing", sterr.InvalidParameter, "nonzero remainder dividing by vanishing polynomial")
		}
	}
	return FromCoeffs(q), nil
}

// LagrangeBasis returns L_i, the degree-(n-1) polynomial with L_i(w^i) = 1
// and L_i(w^j) = 0 for j != i, computed as the inverse FFT of the i-th
// standard basis vector (original_source/src/utils.rs's lagrange_poly).
func LagrangeBasis(d *curve.Domain, i uint64) (Polynomial, error) {
	n := d.Size()
	if i >= n {
		return Polynomial{}, sterr.New("LagrangeBasis", sterr.InvalidParameter, "index out of range for domain")
	}
	evals := make([]curve.Scalar, n)
	evals[i] = curve.ScalarOne()
	coeffs, err := d.IFFT(evals)
	if err != nil {
		return Polynomial{}, sterr.Wrap("LagrangeBasis", sterr.Domain, err)
	}
	return FromCoeffs(coeffs), nil
}

// InterpMostlyZero returns the unique polynomial of degree len(points)-1
// that evaluates to evalAtFirst at points[0] and to zero at every other
// point in points. If points is empty it returns the constant polynomial 1
// (original_source/src/utils.rs's documented edge case).
func InterpMostlyZero(evalAtFirst curve.Scalar, points []curve.Scalar) (Polynomial, error) {
	if len(points) == 0 {
		return FromCoeffs([]curve.Scalar{curve.ScalarOne()}), nil
	}

	num := FromCoeffs([]curve.Scalar{curve.ScalarOne()})
	denom := curve.ScalarOne()
	for j := 1; j < len(points); j++ {
		num = num.MulLinear(points[j])
		var diff curve.Scalar
		diff.Sub(&points[0], &points[j])
		if diff.IsZero() {
			return Polynomial{}, sterr.New("InterpMostlyZero", sterr.InvalidParameter, "duplicate point in interpolation set")
		}
		denom.Mul(&denom, &diff)
	}

	denomInv, err := curve.ScalarInverse(denom)
	if err != nil {
		return Polynomial{}, sterr.Wrap("InterpMostlyZero", sterr.InvalidParameter, err)
	}
	var scale curve.Scalar
	scale.Mul(&evalAtFirst, &denomInv)
	return num.ScalarMul(scale), nil
}
