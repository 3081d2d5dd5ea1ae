package unit

import "testing"

func TestMulDiv(t *testing.T) {
	m := Of("m")
	s := Of("s")

	speed := m.Div(s)
	if speed.String() != "m s^-1" {
		t.Errorf("m/s = %q", speed.String())
	}

	back := speed.Mul(s)
	if !back.Equal(m) {
		t.Errorf("(m/s)*s = %v, want %v", back, m)
	}
}

func TestEqual(t *testing.T) {
	if !Dimensionless().Equal(Unit{}) {
		t.Errorf("dimensionless should equal itself")
	}
	if Of("m").Equal(Of("s")) {
		t.Errorf("m should not equal s")
	}
}

func TestCounts(t *testing.T) {
	c := Counts()
	if !c.IsCounts() {
		t.Errorf("Counts() should report IsCounts")
	}
	if Dimensionless().IsCounts() {
		t.Errorf("dimensionless should not report IsCounts")
	}
}

func TestCancellation(t *testing.T) {
	m := Of("m")
	// m * m / m should cancel back to m, not leave a zero exponent entry.
	result := m.Mul(m).Div(m)
	if !result.Equal(m) {
		t.Errorf("m*m/m = %v, want %v", result, m)
	}
}
