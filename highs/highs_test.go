package highs

import (
	"math"
	"path/filepath"
	"testing"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

// diceModel asks for the maximum total face value of three dice A, B, C
// such that A - B = 2(B - C) where B > C.
func diceModel() *Model {
	model := &Model{
		Maximize: true,
		VarTypes: []VariableType{Integer, Integer, Integer},
		ColCosts: []float64{1.0, 1.0, 1.0},
		ColLower: []float64{1.0, 1.0, 1.0},
		ColUpper: []float64{6.0, 6.0, 6.0},
	}
	// A - 3B + 2C = 0
	model.AddEqRow([]float64{1.0, -3.0, 2.0}, 0.0)
	// B - C >= 1
	model.AddGeRow([]float64{0.0, 1.0, -1.0}, 1.0)
	return model
}

// TestLP tests a basic linear programming problem.
//
//	Min    f  =  x_0 +  x_1 + 3
//	s.t.                x_1 <= 7
//	       5 <=  x_0 + 2x_1 <= 15
//	       6 <= 3x_0 + 2x_1
//	0 <= x_0 <= 4; 1 <= x_1
func TestLP(t *testing.T) {
	model := Model{
		Offset:   3.0,
		ColCosts: []float64{1.0, 1.0},
		ColLower: []float64{0.0, 1.0},
		ColUpper: []float64{4.0, Inf()},
	}
	model.AddLeRow([]float64{0.0, 1.0}, 7.0)
	model.AddSparseRow(5.0, []int{0, 1}, []float64{1.0, 2.0}, 15.0)
	model.AddGeRow([]float64{3.0, 2.0}, 6.0)

	sol, err := model.Solve(WithOutput(false))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !sol.IsOptimal() {
		t.Fatalf("Expected optimal, got %s", sol.Status)
	}
	if !almostEqual(sol.Value(0), 0.5, 0.01) {
		t.Errorf("x0 = %f, expected 0.5", sol.Value(0))
	}
	if !almostEqual(sol.Value(1), 2.25, 0.01) {
		t.Errorf("x1 = %f, expected 2.25", sol.Value(1))
	}
	if !almostEqual(sol.Objective, 5.75, 0.01) {
		t.Errorf("Objective = %f, expected 5.75", sol.Objective)
	}
	if sol.Value(5) != 0 {
		t.Errorf("Value out of range = %f, expected 0", sol.Value(5))
	}
	if !sol.HasBasis() || len(sol.RowBasis) != 3 {
		t.Errorf("Expected a basis with 3 row statuses, got %v", sol.RowBasis)
	}
}

// TestMIP solves the dice problem with integrality: A=6, B=4, C=3.
func TestMIP(t *testing.T) {
	sol, err := diceModel().Solve(WithOutput(false), WithMIPRelGap(0))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !sol.IsOptimal() {
		t.Fatalf("Expected optimal, got %s", sol.Status)
	}
	want := []float64{6, 4, 3}
	for j, w := range want {
		if !almostEqual(sol.ColValues[j], w, 0.01) {
			t.Errorf("x%d = %f, expected %f", j, sol.ColValues[j], w)
		}
	}
	if !almostEqual(sol.Objective, 13.0, 0.01) {
		t.Errorf("Objective = %f, expected 13.0", sol.Objective)
	}
}

// halfModel is max x0 + x1 s.t. 2 x0 + 2 x1 <= 3 over binaries. Its
// relaxation reaches 1.5 while the integer optimum is 1.
func halfModel() *Model {
	model := &Model{
		Maximize: true,
		VarTypes: []VariableType{Integer, Integer},
		ColCosts: []float64{1, 1},
		ColLower: []float64{0, 0},
		ColUpper: []float64{1, 1},
	}
	model.AddLeRow([]float64{2, 2}, 3)
	return model
}

// TestLoadRelaxed drops integrality only when asked to.
func TestLoadRelaxed(t *testing.T) {
	for _, tc := range []struct {
		relax bool
		want  float64
	}{
		{relax: true, want: 1.5},
		{relax: false, want: 1.0},
	} {
		solver, err := NewSolver()
		if err != nil {
			t.Fatalf("NewSolver failed: %v", err)
		}
		if err := ApplyOptions(solver, WithOutput(false), WithPresolve("off")); err != nil {
			t.Fatalf("ApplyOptions failed: %v", err)
		}
		if err := halfModel().Load(solver, tc.relax); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		sol, err := solver.Run()
		solver.Close()
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}
		if !sol.IsOptimal() {
			t.Fatalf("relax=%v: expected optimal, got %s", tc.relax, sol.Status)
		}
		if !almostEqual(sol.Objective, tc.want, 1e-6) {
			t.Errorf("relax=%v: objective = %f, expected %f", tc.relax, sol.Objective, tc.want)
		}
	}
}

// TestChangeColsBounds re-solves after tightening bounds, as a branching
// step does.
func TestChangeColsBounds(t *testing.T) {
	solver, err := NewSolver()
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}
	defer solver.Close()
	if err := solver.SetBoolOption("output_flag", false); err != nil {
		t.Fatalf("SetBoolOption failed: %v", err)
	}

	model := halfModel()
	if err := model.Load(solver, true); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sol, err := solver.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !almostEqual(sol.Objective, 1.5, 1e-6) {
		t.Fatalf("Objective = %f, expected 1.5", sol.Objective)
	}

	if err := solver.ChangeColsBounds([]float64{0, 0}, []float64{0, 1}); err != nil {
		t.Fatalf("ChangeColsBounds failed: %v", err)
	}
	sol, err = solver.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !almostEqual(sol.Objective, 1.0, 1e-6) {
		t.Errorf("Objective = %f, expected 1.0", sol.Objective)
	}
	if sol.ColBasis[0] != BasisStatusUpper && sol.ColBasis[0] != BasisStatusLower {
		t.Errorf("Fixed column basis = %s, expected nonbasic at a bound", sol.ColBasis[0])
	}

	if err := solver.ChangeColsBounds([]float64{0}, []float64{0, 1}); err == nil {
		t.Error("Expected an error for mismatched bound lengths")
	}
}

// TestGetModel reads back what was passed, including integrality.
func TestGetModel(t *testing.T) {
	solver, err := NewSolver()
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}
	defer solver.Close()

	if err := diceModel().Load(solver, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := solver.GetModel()
	if err != nil {
		t.Fatalf("GetModel failed: %v", err)
	}
	if !got.Maximize {
		t.Error("Expected maximization sense")
	}
	if got.NumVars() != 3 || got.NumConstraints() != 2 {
		t.Fatalf("Got %d vars and %d rows, expected 3 and 2", got.NumVars(), got.NumConstraints())
	}
	if len(got.ConstMatrix) != 5 {
		t.Errorf("Got %d nonzeros, expected 5", len(got.ConstMatrix))
	}
	for j, vt := range got.VarTypes {
		if vt != Integer {
			t.Errorf("VarTypes[%d] = %s, expected Integer", j, vt)
		}
	}
}

// TestReadModel writes a model file and reads it back through HiGHS.
func TestReadModel(t *testing.T) {
	solver, err := NewSolver()
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}
	defer solver.Close()
	if err := solver.SetBoolOption("output_flag", false); err != nil {
		t.Fatalf("SetBoolOption failed: %v", err)
	}

	model := diceModel()
	model.Maximize = false
	if err := model.Load(solver, false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "dice.mps")
	if err := solver.WriteModel(path); err != nil {
		t.Fatalf("WriteModel failed: %v", err)
	}

	got, err := ReadModel(path)
	if err != nil {
		t.Fatalf("ReadModel failed: %v", err)
	}
	if got.NumVars() != 3 || got.NumConstraints() != 2 {
		t.Fatalf("Got %d vars and %d rows, expected 3 and 2", got.NumVars(), got.NumConstraints())
	}
	sol, err := got.Solve(WithOutput(false))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	// Minimizing the dice total: A=4, B=2, C=1.
	if !almostEqual(sol.Objective, 7.0, 0.01) {
		t.Errorf("Objective = %f, expected 7.0", sol.Objective)
	}

	if _, err := ReadModel(filepath.Join(t.TempDir(), "missing.mps")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestCSR(t *testing.T) {
	model := Model{
		ConstMatrix: []Nonzero{
			{Row: 1, Col: 2, Val: 4},
			{Row: 0, Col: 1, Val: 1},
			{Row: 1, Col: 0, Val: 2},
			{Row: 1, Col: 2, Val: 5},
		},
		RowLower: []float64{0, 0, 0},
	}
	start, index, value, err := model.CSR()
	if err != nil {
		t.Fatalf("CSR failed: %v", err)
	}
	wantStart := []int{0, 1, 3, 3}
	for i, w := range wantStart {
		if start[i] != w {
			t.Fatalf("start = %v, expected %v", start, wantStart)
		}
	}
	if len(index) != 3 || index[1] != 0 || index[2] != 2 {
		t.Errorf("index = %v, expected [1 0 2]", index)
	}
	if value[2] != 5 {
		t.Errorf("duplicate kept %f, expected the last value 5", value[2])
	}

	bad := Model{ConstMatrix: []Nonzero{{Row: -1, Col: 0, Val: 1}}}
	if _, _, _, err := bad.CSR(); err == nil {
		t.Error("Expected an error for a negative row index")
	}
}

func TestExpand(t *testing.T) {
	model := Model{
		ColCosts:    []float64{1, 2},
		ConstMatrix: []Nonzero{{Row: 1, Col: 2, Val: 1}},
	}
	if _, err := model.Expand(); err == nil {
		t.Fatal("Expected an error for ColCosts shorter than the matrix")
	}

	model.ColCosts = nil
	full, err := model.Expand()
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(full.ColCosts) != 3 || len(full.RowLower) != 2 || len(full.VarTypes) != 3 {
		t.Fatalf("Unexpected expanded lengths: %d costs, %d rows, %d types",
			len(full.ColCosts), len(full.RowLower), len(full.VarTypes))
	}
	if !math.IsInf(full.ColLower[0], -1) || !math.IsInf(full.RowUpper[1], 1) {
		t.Error("Expected infinite default bounds")
	}
	full.ConstMatrix[0].Val = 9
	if model.ConstMatrix[0].Val != 1 {
		t.Error("Expand must not share the matrix with the original")
	}
}

func TestEmptyModel(t *testing.T) {
	model := Model{}
	sol, err := model.Solve(WithOutput(false))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !sol.IsOptimal() {
		t.Fatalf("Expected optimal for empty model, got %s", sol.Status)
	}
}

func TestInfeasible(t *testing.T) {
	model := Model{
		ColCosts: []float64{1.0},
		ColLower: []float64{0.0},
		ColUpper: []float64{10.0},
	}
	model.AddGeRow([]float64{1.0}, 5.0)
	model.AddLeRow([]float64{1.0}, 3.0)

	sol, err := model.Solve(WithOutput(false), WithPresolve("off"))
	if err != nil {
		t.Fatalf("Solve failed: %v", err)
	}
	if !sol.IsInfeasible() {
		t.Errorf("Expected infeasible, got %s", sol.Status)
	}
	if sol.HasSolution() {
		t.Error("Infeasible model must not report a solution")
	}
}

func TestSolverInfinity(t *testing.T) {
	solver, err := NewSolver()
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}
	defer solver.Close()

	inf := solver.Infinity()
	if !IsInfinite(inf) {
		t.Errorf("Infinity %g is not recognized as infinite", inf)
	}
	if IsInfinite(1e19) {
		t.Error("1e19 must be finite")
	}
}

func TestOptions(t *testing.T) {
	solver, err := NewSolver()
	if err != nil {
		t.Fatalf("NewSolver failed: %v", err)
	}
	defer solver.Close()

	err = ApplyOptions(solver,
		WithFloatOption("primal_feasibility_tolerance", 1e-8),
		WithIntOption("simplex_strategy", 4),
		WithStringOption("solver", "simplex"),
		WithBoolOption("output_flag", false),
		WithThreads(1),
		WithTimeLimit(10),
	)
	if err != nil {
		t.Fatalf("ApplyOptions failed: %v", err)
	}
	tol, err := solver.GetFloatOption("primal_feasibility_tolerance")
	if err != nil {
		t.Fatalf("GetFloatOption failed: %v", err)
	}
	if tol != 1e-8 {
		t.Errorf("primal_feasibility_tolerance = %g, expected 1e-8", tol)
	}

	if err := ApplyOptions(solver, WithIntOption("no_such_option", 1)); err == nil {
		t.Error("Expected an error for an unknown option")
	}
}

func TestTypeStrings(t *testing.T) {
	if ImplicitInteger.String() != "ImplicitInteger" || !ImplicitInteger.IsIntegral() {
		t.Error("ImplicitInteger must be an integral type")
	}
	if SemiContinuous.IsIntegral() {
		t.Error("SemiContinuous must not be integral")
	}
	if ModelStatusOptimal.String() != "Optimal" || ModelStatus(99).String() != "Unknown" {
		t.Error("Unexpected model status names")
	}
	if BasisStatusNonbasic.String() != "Nonbasic" {
		t.Error("Unexpected basis status name")
	}
	e := &Error{Op: "Run", Status: StatusError}
	if e.Error() != "highs: Run failed with status Error" {
		t.Errorf("Error() = %q", e.Error())
	}
}

func BenchmarkRelaxationResolve(b *testing.B) {
	solver, err := NewSolver()
	if err != nil {
		b.Fatal(err)
	}
	defer solver.Close()
	if err := ApplyOptions(solver, WithOutput(false)); err != nil {
		b.Fatal(err)
	}
	if err := diceModel().Load(solver, true); err != nil {
		b.Fatal(err)
	}
	lower := []float64{1, 1, 1}
	upper := []float64{6, 6, 6}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		upper[1] = float64(4 + i%2)
		if err := solver.ChangeColsBounds(lower, upper); err != nil {
			b.Fatal(err)
		}
		if _, err := solver.Run(); err != nil {
			b.Fatal(err)
		}
	}
}
