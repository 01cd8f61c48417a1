package triangulate

import "gonum.org/v1/gonum/mat"

// svdMinNormSolve solves A x = b in the least-squares, minimum-norm
// sense via a thin SVD, using the factorize/Rank/UTo/VTo pattern. rcond
// is a tolerance on singular values relative to the largest one;
// singular values at or below it are treated as zero, matching a
// rank-revealing orthogonal decomposition's effective rank.
//
// It returns the solution, the effective rank, and false if the
// factorization itself failed (a degenerate/empty A).
func svdMinNormSolve(a *mat.Dense, b *mat.VecDense, rcond float64) (*mat.VecDense, int, bool) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return nil, 0, false
	}

	values := svd.Values(nil)
	rank := svd.Rank(rcond)

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	_, k := u.Dims()
	n, _ := v.Dims()

	x := mat.NewVecDense(n, nil)
	for i := 0; i < k && i < rank; i++ {
		ui := u.ColView(i)
		coeff := mat.Dot(ui, b) / values[i]
		for r := 0; r < n; r++ {
			x.SetVec(r, x.AtVec(r)+coeff*v.At(r, i))
		}
	}
	return x, rank, true
}
