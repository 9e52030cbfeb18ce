// Package lagrange builds the per-party preprocessing tables that let
// SecretKey.LagrangeGetPk (pkg/key) compute a public key in O(n) group
// operations instead of the O(n^2) direct approach in SecretKey.GetPk.
// Grounded on original_source/src/setup.rs's LagrangePowers::new, which
// builds the same four tables (li, li_minus0, li_x, li_lj_z) with the same
// parallel outer-loop structure over the O(n^2) cross-term table.
package lagrange

import (
	"golang.org/x/sync/errgroup"

	"github.com/anepoti71/silent-threshold-encryption/pkg/curve"
	"github.com/anepoti71/silent-threshold-encryption/pkg/kzg"
	"github.com/anepoti71/silent-threshold-encryption/pkg/polynomial"
	"github.com/anepoti71/silent-threshold-encryption/pkg/sterr"
)

// Powers holds, for an n-party domain, every KZG-committed term a party
// needs to fold its own secret key into a public key share without
// recomputing any Lagrange basis polynomial at keygen time:
//
//   - Li[i]       = commit(L_i(X))
//   - LiMinus0[i] = commit(L_i(X) - L_i(0))
//   - LiX[i]      = commit((L_i(X) - L_i(0)) / X)
//   - LiLjZ[i][j] = commit((L_i(X)*L_j(X) - [i==j]*L_i(X)) / Z(X))
//
// where Z is the domain's vanishing polynomial. All four tables are public:
// they depend only on tau (via the SRS) and the domain, never on any
// party's secret. Grounded term-for-term on
// original_source/src/setup.rs's LagrangePowers::new and SecretKey::get_pk.
type Powers struct {
	Domain   *curve.Domain
	Li       []curve.G1Affine
	LiMinus0 []curve.G1Affine
	LiX      []curve.G1Affine
	LiLjZ    [][]curve.G1Affine
}

// NewPowers builds the full preprocessing table for the given domain and
// SRS. The O(n^2) LiLjZ table is built with one goroutine per row (per
// spec.md §5's "the O(n^2) dominant cost SHOULD be computed with bounded
// parallelism"), via golang.org/x/sync/errgroup so the first row error is
// returned instead of silently racing past it. The other rows are not
// cancelled: every row runs to completion before that error is returned.
func NewPowers(pt *kzg.PowersOfTau, domain *curve.Domain) (*Powers, error) {
	n := domain.Size()

	liPolys := make([]polynomial.Polynomial, n)
	li := make([]curve.G1Affine, n)
	liMinus0 := make([]curve.G1Affine, n)
	liX := make([]curve.G1Affine, n)

	for i := uint64(0); i < n; i++ {
		basis, err := polynomial.LagrangeBasis(domain, i)
		if err != nil {
			return nil, sterr.Wrap("NewPowers", sterr.Kzg, err)
		}
		liPolys[i] = basis

		c, err := pt.CommitG1(basis)
		if err != nil {
			return nil, sterr.Wrap("NewPowers", sterr.Kzg, err)
		}
		li[i] = c

		minus0Poly := basis.ZeroConstant()
		cm0, err := pt.CommitG1(minus0Poly)
		if err != nil {
			return nil, sterr.Wrap("NewPowers", sterr.Kzg, err)
		}
		liMinus0[i] = cm0

		xPoly, err := minus0Poly.DivByX()
		if err != nil {
			return nil, sterr.Wrap("NewPowers", sterr.Kzg, err)
		}
		cx, err := pt.CommitG1(xPoly)
		if err != nil {
			return nil, sterr.Wrap("NewPowers", sterr.Kzg, err)
		}
		liX[i] = cx
	}

	liLjZ := make([][]curve.G1Affine, n)
	var g errgroup.Group
	for i := uint64(0); i < n; i++ {
		i := i
		g.Go(func() error {
			row := make([]curve.G1Affine, n)
			for j := uint64(0); j < n; j++ {
				num := liPolys[i].Mul(liPolys[j])
				if i == j {
					num = num.Sub(liPolys[i])
				}
				q, err := num.DivByVanishing(domain)
				if err != nil {
					return sterr.Wrap("NewPowers", sterr.Kzg, err)
				}
				c, err := pt.CommitG1(q)
				if err != nil {
					return sterr.Wrap("NewPowers", sterr.Kzg, err)
				}
				row[j] = c
			}
			liLjZ[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Powers{
		Domain:   domain,
		Li:       li,
		LiMinus0: liMinus0,
		LiX:      liX,
		LiLjZ:    liLjZ,
	}, nil
}

// Encode returns the canonical byte encoding of the table: the domain size,
// then Li/LiMinus0/LiX as length-prefixed G1 vectors, then LiLjZ as a
// length-prefixed vector of length-prefixed G1 vectors (spec.md §6).
func (p *Powers) Encode() []byte {
	out := curve.EncodeVectorLen(p.Domain.Size())
	out = append(out, encodeG1Vector(p.Li)...)
	out = append(out, encodeG1Vector(p.LiMinus0)...)
	out = append(out, encodeG1Vector(p.LiX)...)
	out = append(out, curve.EncodeVectorLen(uint64(len(p.LiLjZ)))...)
	for _, row := range p.LiLjZ {
		out = append(out, encodeG1Vector(row)...)
	}
	return out
}

// DecodePowers parses the encoding produced by Powers.Encode.
func DecodePowers(b []byte) (*Powers, error) {
	n, rest, err := curve.DecodeVectorLen(b)
	if err != nil {
		return nil, sterr.Wrap("DecodePowers", sterr.Serialization, err)
	}
	domain, err := curve.NewDomain(n)
	if err != nil {
		return nil, sterr.Wrap("DecodePowers", sterr.Domain, err)
	}

	li, rest, err := decodeG1Vector(rest)
	if err != nil {
		return nil, sterr.Wrap("DecodePowers", sterr.Serialization, err)
	}
	liMinus0, rest, err := decodeG1Vector(rest)
	if err != nil {
		return nil, sterr.Wrap("DecodePowers", sterr.Serialization, err)
	}
	liX, rest, err := decodeG1Vector(rest)
	if err != nil {
		return nil, sterr.Wrap("DecodePowers", sterr.Serialization, err)
	}

	rowCount, rest, err := curve.DecodeVectorLen(rest)
	if err != nil {
		return nil, sterr.Wrap("DecodePowers", sterr.Serialization, err)
	}
	liLjZ := make([][]curve.G1Affine, rowCount)
	for i := range liLjZ {
		var row []curve.G1Affine
		row, rest, err = decodeG1Vector(rest)
		if err != nil {
			return nil, sterr.Wrap("DecodePowers", sterr.Serialization, err)
		}
		liLjZ[i] = row
	}

	return &Powers{Domain: domain, Li: li, LiMinus0: liMinus0, LiX: liX, LiLjZ: liLjZ}, nil
}

func encodeG1Vector(points []curve.G1Affine) []byte {
	out := curve.EncodeVectorLen(uint64(len(points)))
	for _, p := range points {
		out = append(out, curve.EncodeG1(p)...)
	}
	return out
}

func decodeG1Vector(b []byte) ([]curve.G1Affine, []byte, error) {
	n, rest, err := curve.DecodeVectorLen(b)
	if err != nil {
		return nil, nil, err
	}
	out := make([]curve.G1Affine, n)
	for i := range out {
		if len(rest) < 48 {
			return nil, nil, sterr.New("decodeG1Vector", sterr.Serialization, "truncated G1 vector")
		}
		p, err := curve.DecodeG1(rest[:48])
		if err != nil {
			return nil, nil, err
		}
		out[i] = p
		rest = rest[48:]
	}
	return out, rest, nil
}
