package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/fieldset/errs"
)

func TestContainer_AddSubMasks(t *testing.T) {
	a := mustNumeric(t, []float64{1, 2, 3}, Points([]float64{0, 1, 2}), []bool{true, false, true}, "m")
	b := mustNumeric(t, []float64{10, 20, 30}, Points([]float64{5, 6, 7}), []bool{true, true, false}, "m")

	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, []float64{11, 22, 33}, sum.Floats())
	require.Equal(t, []bool{true, false, false}, sum.Mask())
	require.Equal(t, []float64{0, 1, 2}, sum.Times().Starts(), "timestamps come from the left operand")
	require.Equal(t, "m", sum.Unit())

	diff, err := b.Sub(a)
	require.NoError(t, err)
	require.Equal(t, []float64{9, 18, 27}, diff.Floats())
	require.Equal(t, []float64{5, 6, 7}, diff.Times().Starts())
}

func TestContainer_AddConvertsRightOperand(t *testing.T) {
	a := mustNumeric(t, []float64{1}, Points([]float64{0}), nil, "km")
	b := mustNumeric(t, []float64{500}, Points([]float64{0}), nil, "m")

	sum, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, "km", sum.Unit())
	require.InDelta(t, 1.5, sum.Floats()[0], 1e-12)

	dimless := mustNumeric(t, []float64{2}, Points([]float64{0}), nil, "")
	sum, err = dimless.Add(b)
	require.NoError(t, err)
	require.Equal(t, "m", sum.Unit())
	require.Equal(t, []float64{502}, sum.Floats())

	seconds := mustNumeric(t, []float64{2}, Points([]float64{0}), nil, "s")
	_, err = a.Add(seconds)
	require.ErrorIs(t, err, errs.ErrIncompatibleUnits)
}

func TestContainer_StrictAlignment(t *testing.T) {
	a := mustNumeric(t, []float64{1, 2}, Points([]float64{0, 1}), nil, "")
	b := mustNumeric(t, []float64{1, 2}, Points([]float64{0, 2}), nil, "")

	_, err := a.Sub(b)
	require.NoError(t, err)

	_, err = a.Sub(b, StrictAlignment())
	require.ErrorIs(t, err, errs.ErrTimeAlignmentMismatch)

	_, err = a.Sub(a, StrictAlignment())
	require.NoError(t, err)
}

func TestContainer_LengthMismatch(t *testing.T) {
	a := mustNumeric(t, []float64{1, 2}, Points([]float64{0, 1}), nil, "")
	b := mustNumeric(t, []float64{1}, Points([]float64{0}), nil, "")

	ops := map[string]func(*Container, ...OpOption) (*Container, error){
		"Add": a.Add, "Sub": a.Sub, "Mul": a.Mul, "Div": a.Div,
		"Gt": a.Gt, "Ge": a.Ge, "Lt": a.Lt, "Le": a.Le, "Eq": a.Eq, "Ne": a.Ne,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			_, err := op(b)
			require.ErrorIs(t, err, errs.ErrLengthMismatch)

			_, err = op(nil)
			require.ErrorIs(t, err, errs.ErrLengthMismatch)
		})
	}
}

func TestContainer_MulDivUnits(t *testing.T) {
	v := mustNumeric(t, []float64{2, 4}, Points([]float64{0, 1}), nil, "V")
	a := mustNumeric(t, []float64{3, 0}, Points([]float64{0, 1}), nil, "A")

	p, err := v.Mul(a)
	require.NoError(t, err)
	require.Equal(t, "V*A", p.Unit())
	require.Equal(t, []float64{6, 0}, p.Floats())

	q, err := v.Div(a)
	require.NoError(t, err)
	require.Equal(t, "V/A", q.Unit())
	require.InDelta(t, 2.0/3.0, q.Floats()[0], 1e-12)
	require.True(t, math.IsInf(q.Floats()[1], 1))

	scale := mustNumeric(t, []float64{2, 2}, Points([]float64{0, 1}), nil, "")
	s, err := v.Mul(scale)
	require.NoError(t, err)
	require.Equal(t, "V", s.Unit())

	inv, err := scale.Div(a)
	require.NoError(t, err)
	require.Equal(t, "1/A", inv.Unit())
}

func TestContainer_Scalars(t *testing.T) {
	c := mustNumeric(t, []float64{1, 2}, Points([]float64{0, 1}), []bool{true, false}, "K")

	shifted, err := c.AddScalar(0.5)
	require.NoError(t, err)
	require.Equal(t, []float64{1.5, 2.5}, shifted.Floats())
	require.Equal(t, []bool{true, false}, shifted.Mask())

	scaled, err := c.MulScalar(-2)
	require.NoError(t, err)
	require.Equal(t, []float64{-2, -4}, scaled.Floats())
	require.Equal(t, "K", scaled.Unit())

	text := mustText(t, []string{"A"}, Points([]float64{0}), nil)
	_, err = text.AddScalar(1)
	require.ErrorIs(t, err, errs.ErrNotNumeric)
	_, err = text.MulScalar(1)
	require.ErrorIs(t, err, errs.ErrNotNumeric)
}

func TestContainer_Comparisons(t *testing.T) {
	a := mustNumeric(t, []float64{1, 2, 3}, Points([]float64{0, 1, 2}), []bool{true, true, false}, "m")
	b := mustNumeric(t, []float64{2, 2, 2}, Points([]float64{0, 1, 2}), nil, "m")

	tests := []struct {
		name string
		op   func(*Container, ...OpOption) (*Container, error)
		want []bool
	}{
		{"Gt", a.Gt, []bool{false, false, true}},
		{"Ge", a.Ge, []bool{false, true, true}},
		{"Lt", a.Lt, []bool{true, false, false}},
		{"Le", a.Le, []bool{true, true, false}},
		{"Eq", a.Eq, []bool{false, true, false}},
		{"Ne", a.Ne, []bool{true, false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(b)
			require.NoError(t, err)
			require.Equal(t, KindBool, got.Kind())
			require.Equal(t, "", got.Unit())
			require.Equal(t, tt.want, got.Bools())
			require.Equal(t, []bool{true, true, false}, got.Mask())
		})
	}
}

func TestContainer_TextEquality(t *testing.T) {
	a := mustText(t, []string{"NPNT", "NMAN"}, Points([]float64{0, 1}), nil)
	b := mustText(t, []string{"NPNT", "NPNT"}, Points([]float64{0, 1}), nil)

	eq, err := a.Eq(b)
	require.NoError(t, err)
	require.Equal(t, []bool{true, false}, eq.Bools())

	ne, err := a.Ne(b)
	require.NoError(t, err)
	require.Equal(t, []bool{false, true}, ne.Bools())

	_, err = a.Gt(b)
	require.ErrorIs(t, err, errs.ErrNotNumeric)

	n := mustNumeric(t, []float64{1, 2}, Points([]float64{0, 1}), nil, "")
	_, err = a.Eq(n)
	require.ErrorIs(t, err, errs.ErrKindMismatch)
}
