package highs

import "math"

// Model is a mixed-integer linear program in HiGHS form:
//
//	Minimize (or Maximize): ColCosts · x + Offset
//	Subject to:             RowLower ≤ A·x ≤ RowUpper
//	And:                    ColLower ≤ x ≤ ColUpper
//
// Where A is the constraint matrix specified by ConstMatrix.
type Model struct {
	// Maximize indicates whether to maximize (true) or minimize (false).
	Maximize bool

	// Offset is a constant added to the objective function.
	Offset float64

	// ColCosts are the objective function coefficients for each variable.
	ColCosts []float64

	// ColLower are the lower bounds for each variable.
	// If empty, defaults to -∞.
	ColLower []float64

	// ColUpper are the upper bounds for each variable.
	// If empty, defaults to +∞.
	ColUpper []float64

	// RowLower are the lower bounds for each constraint.
	// Use NegInf() for no lower bound.
	RowLower []float64

	// RowUpper are the upper bounds for each constraint.
	// Use Inf() for no upper bound.
	RowUpper []float64

	// ConstMatrix defines the constraint matrix as a list of non-zero entries.
	ConstMatrix []Nonzero

	// VarTypes specifies the type of each variable.
	// If empty, all variables are continuous.
	VarTypes []VariableType
}

// AddDenseRow adds a constraint using a dense coefficient vector.
// Zero coefficients are dropped.
//
//	model.AddDenseRow(1.0, []float64{1.0, 2.0, 0.0, 3.0}, 10.0)
//	// 1.0 <= x0 + 2*x1 + 3*x3 <= 10.0
func (m *Model) AddDenseRow(lower float64, coeffs []float64, upper float64) {
	row := len(m.RowLower)
	m.RowLower = append(m.RowLower, lower)
	m.RowUpper = append(m.RowUpper, upper)

	for col, val := range coeffs {
		if val != 0.0 {
			m.ConstMatrix = append(m.ConstMatrix, Nonzero{Row: row, Col: col, Val: val})
		}
	}
}

// AddSparseRow adds a constraint using a sparse coefficient representation.
func (m *Model) AddSparseRow(lower float64, cols []int, vals []float64, upper float64) {
	row := len(m.RowLower)
	m.RowLower = append(m.RowLower, lower)
	m.RowUpper = append(m.RowUpper, upper)

	for i, col := range cols {
		if vals[i] != 0.0 {
			m.ConstMatrix = append(m.ConstMatrix, Nonzero{Row: row, Col: col, Val: vals[i]})
		}
	}
}

// AddEqRow adds an equality constraint: sum(coeffs * x) = rhs.
func (m *Model) AddEqRow(coeffs []float64, rhs float64) {
	m.AddDenseRow(rhs, coeffs, rhs)
}

// AddLeRow adds a less-than-or-equal constraint: sum(coeffs * x) <= rhs.
func (m *Model) AddLeRow(coeffs []float64, rhs float64) {
	m.AddDenseRow(math.Inf(-1), coeffs, rhs)
}

// AddGeRow adds a greater-than-or-equal constraint: sum(coeffs * x) >= rhs.
func (m *Model) AddGeRow(coeffs []float64, rhs float64) {
	m.AddDenseRow(rhs, coeffs, math.Inf(1))
}

// NumVars returns the number of variables in the model.
func (m *Model) NumVars() int {
	n := 0
	for _, nz := range m.ConstMatrix {
		n = max(n, nz.Col+1)
	}
	return max(n, len(m.ColCosts), len(m.ColLower), len(m.ColUpper), len(m.VarTypes))
}

// NumConstraints returns the number of constraints in the model.
func (m *Model) NumConstraints() int {
	n := 0
	for _, nz := range m.ConstMatrix {
		n = max(n, nz.Row+1)
	}
	return max(n, len(m.RowLower), len(m.RowUpper))
}

// Expand returns a copy of the model where every per-column and per-row
// slice has its full length, with defaults filled in.
func (m *Model) Expand() (*Model, error) {
	numCol := m.NumVars()
	numRow := m.NumConstraints()

	out := &Model{
		Maximize:    m.Maximize,
		Offset:      m.Offset,
		ConstMatrix: append([]Nonzero(nil), m.ConstMatrix...),
	}
	var err error
	if out.ColCosts, err = expandSlice(numCol, m.ColCosts, 0.0); err != nil {
		return nil, newErrorMsg("Expand", "inconsistent ColCosts length")
	}
	if out.ColLower, err = expandSlice(numCol, m.ColLower, math.Inf(-1)); err != nil {
		return nil, newErrorMsg("Expand", "inconsistent ColLower length")
	}
	if out.ColUpper, err = expandSlice(numCol, m.ColUpper, math.Inf(1)); err != nil {
		return nil, newErrorMsg("Expand", "inconsistent ColUpper length")
	}
	if out.RowLower, err = expandSlice(numRow, m.RowLower, math.Inf(-1)); err != nil {
		return nil, newErrorMsg("Expand", "inconsistent RowLower length")
	}
	if out.RowUpper, err = expandSlice(numRow, m.RowUpper, math.Inf(1)); err != nil {
		return nil, newErrorMsg("Expand", "inconsistent RowUpper length")
	}

	out.VarTypes = make([]VariableType, numCol)
	copy(out.VarTypes, m.VarTypes)
	return out, nil
}

// CSR returns the constraint matrix in compressed sparse row format with
// NumConstraints()+1 start offsets.
func (m *Model) CSR() (start, index []int, value []float64, err error) {
	return nonzerosToCSR(m.ConstMatrix, m.NumConstraints())
}

// Load passes the model to the solver. With relax set, integrality is
// dropped and HiGHS solves the LP relaxation.
func (m *Model) Load(s *Solver, relax bool) error {
	full, err := m.Expand()
	if err != nil {
		return err
	}
	numCol := full.NumVars()
	numRow := full.NumConstraints()

	aStart, aIndex, aValue, err := full.CSR()
	if err != nil {
		return err
	}

	varTypes := full.VarTypes
	if relax || !full.hasIntegrality() {
		varTypes = nil
	}

	return s.PassModel(
		numCol, numRow,
		full.ColCosts, full.ColLower, full.ColUpper,
		full.RowLower, full.RowUpper,
		aStart, aIndex, aValue,
		varTypes,
		full.Maximize,
		full.Offset,
	)
}

func (m *Model) hasIntegrality() bool {
	for _, vt := range m.VarTypes {
		if vt != Continuous {
			return true
		}
	}
	return false
}

// ReadModel reads a model file (MPS, LP, ...) through HiGHS.
func ReadModel(filename string) (*Model, error) {
	solver, err := NewSolver()
	if err != nil {
		return nil, err
	}
	defer solver.Close()

	if err := solver.SetBoolOption("output_flag", false); err != nil {
		return nil, err
	}
	if err := solver.ReadModel(filename); err != nil {
		return nil, err
	}
	return solver.GetModel()
}

// Solve builds and solves the model with HiGHS' own MIP solver.
//
//	solution, err := model.Solve(
//		highs.WithTimeLimit(60),
//		highs.WithOutput(false),
//	)
func (m *Model) Solve(opts ...SolveOption) (*Solution, error) {
	solver, err := NewSolver()
	if err != nil {
		return nil, err
	}
	defer solver.Close()

	if err := ApplyOptions(solver, opts...); err != nil {
		return nil, err
	}

	if m.NumVars() == 0 {
		return &Solution{Status: ModelStatusOptimal}, nil
	}
	if err := m.Load(solver, false); err != nil {
		return nil, err
	}
	return solver.Run()
}

// SolveOption configures the solver behavior.
type SolveOption func(*solveConfig)

type solveConfig struct {
	output      *bool
	timeLimit   *float64
	mipRelGap   *float64
	threads     *int
	presolve    *string
	extraBool   map[string]bool
	extraInt    map[string]int
	extraFloat  map[string]float64
	extraString map[string]string
}

// ApplyOptions applies the options to an existing solver.
func ApplyOptions(s *Solver, opts ...SolveOption) error {
	cfg := &solveConfig{
		extraBool:   make(map[string]bool),
		extraInt:    make(map[string]int),
		extraFloat:  make(map[string]float64),
		extraString: make(map[string]string),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg.apply(s)
}

func (c *solveConfig) apply(s *Solver) error {
	if c.output != nil {
		if err := s.SetBoolOption("output_flag", *c.output); err != nil {
			return err
		}
	}
	if c.timeLimit != nil {
		if err := s.SetFloatOption("time_limit", *c.timeLimit); err != nil {
			return err
		}
	}
	if c.mipRelGap != nil {
		if err := s.SetFloatOption("mip_rel_gap", *c.mipRelGap); err != nil {
			return err
		}
	}
	if c.threads != nil {
		if err := s.SetIntOption("threads", *c.threads); err != nil {
			return err
		}
	}
	if c.presolve != nil {
		if err := s.SetStringOption("presolve", *c.presolve); err != nil {
			return err
		}
	}
	for k, v := range c.extraBool {
		if err := s.SetBoolOption(k, v); err != nil {
			return err
		}
	}
	for k, v := range c.extraInt {
		if err := s.SetIntOption(k, v); err != nil {
			return err
		}
	}
	for k, v := range c.extraFloat {
		if err := s.SetFloatOption(k, v); err != nil {
			return err
		}
	}
	for k, v := range c.extraString {
		if err := s.SetStringOption(k, v); err != nil {
			return err
		}
	}
	return nil
}

// WithOutput enables or disables solver output.
func WithOutput(enabled bool) SolveOption {
	return func(c *solveConfig) { c.output = &enabled }
}

// WithTimeLimit sets the time limit in seconds.
func WithTimeLimit(seconds float64) SolveOption {
	return func(c *solveConfig) { c.timeLimit = &seconds }
}

// WithMIPRelGap sets the relative MIP gap tolerance.
func WithMIPRelGap(gap float64) SolveOption {
	return func(c *solveConfig) { c.mipRelGap = &gap }
}

// WithThreads sets the number of threads to use.
func WithThreads(n int) SolveOption {
	return func(c *solveConfig) { c.threads = &n }
}

// WithPresolve sets the presolve mode ("off", "choose", "on").
func WithPresolve(mode string) SolveOption {
	return func(c *solveConfig) { c.presolve = &mode }
}

// WithBoolOption sets a custom boolean option.
func WithBoolOption(name string, value bool) SolveOption {
	return func(c *solveConfig) { c.extraBool[name] = value }
}

// WithIntOption sets a custom integer option.
func WithIntOption(name string, value int) SolveOption {
	return func(c *solveConfig) { c.extraInt[name] = value }
}

// WithFloatOption sets a custom floating-point option.
func WithFloatOption(name string, value float64) SolveOption {
	return func(c *solveConfig) { c.extraFloat[name] = value }
}

// WithStringOption sets a custom string option.
func WithStringOption(name, value string) SolveOption {
	return func(c *solveConfig) { c.extraString[name] = value }
}
