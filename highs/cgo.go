//go:build (linux || darwin) && (amd64 || arm64)

// Package highs provides the Go bindings to the HiGHS linear optimization
// solver that learn2branch uses to solve node relaxations.
//
// Only the part of the HiGHS C API needed to drive a branch-and-bound search
// from Go is bound here: loading and reading back models, changing column
// bounds between solves, and reading primal/dual values, the simplex basis
// and iteration counters after each solve.
//
// HiGHS is located through pkg-config (`pkg-config --cflags --libs highs`).
//
// # Example
//
//	solver, err := highs.NewSolver()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer solver.Close()
//
//	model := highs.Model{ColCosts: []float64{1, 1}}
//	model.AddGeRow([]float64{1, 1}, 1)
//	if err := model.Load(solver, false); err != nil {
//		log.Fatal(err)
//	}
//	solution, err := solver.Run()
package highs

/*
#cgo pkg-config: highs
#cgo linux LDFLAGS: -lstdc++ -lm
#cgo darwin LDFLAGS: -lc++

#include <stdlib.h>
#include <stdint.h>
#include "highs_c_api.h"
*/
import "C"
import (
	"fmt"
	"runtime"
	"unsafe"
)

// ----------------------------------------------------------------------------
// Types
// ----------------------------------------------------------------------------

// VariableType specifies whether a column is continuous or integral.
type VariableType int

const (
	// Continuous indicates a continuous variable (default).
	Continuous VariableType = iota
	// Integer indicates an integer variable.
	Integer
	// SemiContinuous indicates a semi-continuous variable.
	SemiContinuous
	// SemiInteger indicates a semi-integer variable.
	SemiInteger
	// ImplicitInteger indicates an implicit integer variable.
	ImplicitInteger
)

// String returns a human-readable representation of the variable type.
func (v VariableType) String() string {
	switch v {
	case Continuous:
		return "Continuous"
	case Integer:
		return "Integer"
	case SemiContinuous:
		return "SemiContinuous"
	case SemiInteger:
		return "SemiInteger"
	case ImplicitInteger:
		return "ImplicitInteger"
	default:
		return "Unknown"
	}
}

// IsIntegral reports whether values of this type must be integer.
func (v VariableType) IsIntegral() bool {
	return v == Integer || v == SemiInteger || v == ImplicitInteger
}

func (v VariableType) toC() C.HighsInt {
	switch v {
	case Integer:
		return C.kHighsVarTypeInteger
	case SemiContinuous:
		return C.kHighsVarTypeSemiContinuous
	case SemiInteger:
		return C.kHighsVarTypeSemiInteger
	case ImplicitInteger:
		return C.kHighsVarTypeImplicitInteger
	default:
		return C.kHighsVarTypeContinuous
	}
}

func variableTypeFromC(v C.HighsInt) VariableType {
	switch v {
	case C.kHighsVarTypeInteger:
		return Integer
	case C.kHighsVarTypeSemiContinuous:
		return SemiContinuous
	case C.kHighsVarTypeSemiInteger:
		return SemiInteger
	case C.kHighsVarTypeImplicitInteger:
		return ImplicitInteger
	default:
		return Continuous
	}
}

// Status represents the result status of a HiGHS call.
type Status int

const (
	// StatusError indicates the operation failed with an error.
	StatusError Status = -1
	// StatusOK indicates the operation succeeded.
	StatusOK Status = 0
	// StatusWarning indicates the operation succeeded with warnings.
	StatusWarning Status = 1
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusError:
		return "Error"
	case StatusOK:
		return "OK"
	case StatusWarning:
		return "Warning"
	default:
		return "Unknown"
	}
}

// ModelStatus represents the status of a solved model.
type ModelStatus int

const (
	ModelStatusNotSet ModelStatus = iota
	ModelStatusLoadError
	ModelStatusModelError
	ModelStatusPresolveError
	ModelStatusSolveError
	ModelStatusPostsolveError
	ModelStatusModelEmpty
	ModelStatusOptimal
	ModelStatusInfeasible
	ModelStatusUnboundedOrInfeasible
	ModelStatusUnbounded
	ModelStatusObjectiveBound
	ModelStatusObjectiveTarget
	ModelStatusTimeLimit
	ModelStatusIterationLimit
	ModelStatusUnknown
)

var modelStatusNames = [...]string{
	"NotSet", "LoadError", "ModelError", "PresolveError",
	"SolveError", "PostsolveError", "ModelEmpty", "Optimal",
	"Infeasible", "UnboundedOrInfeasible", "Unbounded",
	"ObjectiveBound", "ObjectiveTarget", "TimeLimit",
	"IterationLimit", "Unknown",
}

// String returns a human-readable representation of the model status.
func (s ModelStatus) String() string {
	if int(s) >= 0 && int(s) < len(modelStatusNames) {
		return modelStatusNames[s]
	}
	return "Unknown"
}

// IsOptimal returns true if the model was solved to optimality.
func (s ModelStatus) IsOptimal() bool {
	return s == ModelStatusOptimal
}

// HasSolution returns true if the model has a valid solution.
func (s ModelStatus) HasSolution() bool {
	return s == ModelStatusOptimal ||
		s == ModelStatusObjectiveBound ||
		s == ModelStatusObjectiveTarget ||
		s == ModelStatusTimeLimit ||
		s == ModelStatusIterationLimit
}

// IsInfeasible returns true if the status proves (or suspects) infeasibility.
func (s ModelStatus) IsInfeasible() bool {
	return s == ModelStatusInfeasible || s == ModelStatusUnboundedOrInfeasible
}

func modelStatusFromC(status C.HighsInt) ModelStatus {
	switch status {
	case C.kHighsModelStatusNotset:
		return ModelStatusNotSet
	case C.kHighsModelStatusLoadError:
		return ModelStatusLoadError
	case C.kHighsModelStatusModelError:
		return ModelStatusModelError
	case C.kHighsModelStatusPresolveError:
		return ModelStatusPresolveError
	case C.kHighsModelStatusSolveError:
		return ModelStatusSolveError
	case C.kHighsModelStatusPostsolveError:
		return ModelStatusPostsolveError
	case C.kHighsModelStatusModelEmpty:
		return ModelStatusModelEmpty
	case C.kHighsModelStatusOptimal:
		return ModelStatusOptimal
	case C.kHighsModelStatusInfeasible:
		return ModelStatusInfeasible
	case C.kHighsModelStatusUnboundedOrInfeasible:
		return ModelStatusUnboundedOrInfeasible
	case C.kHighsModelStatusUnbounded:
		return ModelStatusUnbounded
	case C.kHighsModelStatusObjectiveBound:
		return ModelStatusObjectiveBound
	case C.kHighsModelStatusObjectiveTarget:
		return ModelStatusObjectiveTarget
	case C.kHighsModelStatusTimeLimit:
		return ModelStatusTimeLimit
	case C.kHighsModelStatusIterationLimit:
		return ModelStatusIterationLimit
	default:
		return ModelStatusUnknown
	}
}

// BasisStatus represents the basis status of a column or row.
// The order matches the HiGHS C enumeration.
type BasisStatus int

const (
	// BasisStatusLower indicates the variable is at its lower bound.
	BasisStatusLower BasisStatus = iota
	// BasisStatusBasic indicates the variable is basic.
	BasisStatusBasic
	// BasisStatusUpper indicates the variable is at its upper bound.
	BasisStatusUpper
	// BasisStatusZero indicates the variable is free and set to zero.
	BasisStatusZero
	// BasisStatusNonbasic indicates the variable is nonbasic.
	BasisStatusNonbasic
)

// String returns a human-readable representation of the basis status.
func (s BasisStatus) String() string {
	switch s {
	case BasisStatusLower:
		return "Lower"
	case BasisStatusBasic:
		return "Basic"
	case BasisStatusUpper:
		return "Upper"
	case BasisStatusZero:
		return "Zero"
	case BasisStatusNonbasic:
		return "Nonbasic"
	default:
		return "Unknown"
	}
}

func basisStatusFromC(status C.HighsInt) BasisStatus {
	switch status {
	case C.kHighsBasisStatusBasic:
		return BasisStatusBasic
	case C.kHighsBasisStatusUpper:
		return BasisStatusUpper
	case C.kHighsBasisStatusZero:
		return BasisStatusZero
	case C.kHighsBasisStatusNonbasic:
		return BasisStatusNonbasic
	default:
		return BasisStatusLower
	}
}

// Nonzero represents a non-zero entry in a sparse matrix.
// Row and Col are zero-indexed.
type Nonzero struct {
	Row int
	Col int
	Val float64
}

// ----------------------------------------------------------------------------
// Errors
// ----------------------------------------------------------------------------

// Error represents a HiGHS error with context about which operation failed.
type Error struct {
	Op     string // Operation that failed (e.g., "Run", "ChangeColsBounds")
	Status Status // HiGHS status code
	Msg    string // Additional context
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("highs: %s failed: %s", e.Op, e.Msg)
	}
	return fmt.Sprintf("highs: %s failed with status %s", e.Op, e.Status)
}

// newError returns nil for OK and Warning statuses.
func newError(op string, status Status) error {
	if status == StatusOK || status == StatusWarning {
		return nil
	}
	return &Error{Op: op, Status: status}
}

func newErrorMsg(op, msg string) error {
	return &Error{Op: op, Status: StatusError, Msg: msg}
}

// ----------------------------------------------------------------------------
// Solver
// ----------------------------------------------------------------------------

// Solver wraps a native HiGHS instance.
//
// A Solver is not safe for concurrent use. Always call Close() when done:
//
//	solver, _ := NewSolver()
//	defer solver.Close()
type Solver struct {
	ptr unsafe.Pointer
}

// NewSolver creates a new HiGHS instance.
func NewSolver() (*Solver, error) {
	ptr := C.Highs_create()
	if ptr == nil {
		return nil, newErrorMsg("NewSolver", "failed to create HiGHS instance")
	}

	s := &Solver{ptr: ptr}
	runtime.SetFinalizer(s, (*Solver).Close)
	return s, nil
}

// Close releases the native instance. It is safe to call Close multiple times.
func (s *Solver) Close() {
	if s.ptr != nil {
		C.Highs_destroy(s.ptr)
		s.ptr = nil
	}
}

// ClearSolver drops solution and basis data but keeps the model.
func (s *Solver) ClearSolver() error {
	return newError("ClearSolver", Status(C.Highs_clearSolver(s.ptr)))
}

// Infinity returns the value used by HiGHS to represent infinity.
func (s *Solver) Infinity() float64 {
	return float64(C.Highs_getInfinity(s.ptr))
}

// NumCol returns the number of columns in the loaded model.
func (s *Solver) NumCol() int {
	return int(C.Highs_getNumCol(s.ptr))
}

// NumRow returns the number of rows in the loaded model.
func (s *Solver) NumRow() int {
	return int(C.Highs_getNumRow(s.ptr))
}

// NumNonzero returns the number of non-zero entries in the constraint matrix.
func (s *Solver) NumNonzero() int {
	return int(C.Highs_getNumNz(s.ptr))
}

// SetBoolOption sets a boolean option.
func (s *Solver) SetBoolOption(name string, value bool) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var cVal C.HighsInt
	if value {
		cVal = 1
	}
	return newError("SetBoolOption", Status(C.Highs_setBoolOptionValue(s.ptr, cName, cVal)))
}

// SetIntOption sets an integer option.
func (s *Solver) SetIntOption(name string, value int) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return newError("SetIntOption", Status(C.Highs_setIntOptionValue(s.ptr, cName, C.HighsInt(value))))
}

// SetFloatOption sets a floating-point option.
func (s *Solver) SetFloatOption(name string, value float64) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	return newError("SetFloatOption", Status(C.Highs_setDoubleOptionValue(s.ptr, cName, C.double(value))))
}

// SetStringOption sets a string option.
func (s *Solver) SetStringOption(name, value string) error {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))
	cVal := C.CString(value)
	defer C.free(unsafe.Pointer(cVal))

	return newError("SetStringOption", Status(C.Highs_setStringOptionValue(s.ptr, cName, cVal)))
}

// GetFloatOption returns the value of a floating-point option.
func (s *Solver) GetFloatOption(name string) (float64, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var val C.double
	if err := newError("GetFloatOption", Status(C.Highs_getDoubleOptionValue(s.ptr, cName, &val))); err != nil {
		return 0, err
	}
	return float64(val), nil
}

// GetIntInfo returns an integer info value such as "simplex_iteration_count".
func (s *Solver) GetIntInfo(name string) (int, error) {
	cName := C.CString(name)
	defer C.free(unsafe.Pointer(cName))

	var val C.HighsInt
	if err := newError("GetIntInfo", Status(C.Highs_getIntInfoValue(s.ptr, cName, &val))); err != nil {
		return 0, err
	}
	return int(val), nil
}

// PassModel loads a complete row-wise model in one call.
func (s *Solver) PassModel(
	numCol, numRow int,
	colCost, colLower, colUpper []float64,
	rowLower, rowUpper []float64,
	aStart, aIndex []int,
	aValue []float64,
	integrality []VariableType,
	maximize bool,
	offset float64,
) error {
	sense := C.kHighsObjSenseMinimize
	if maximize {
		sense = C.kHighsObjSenseMaximize
	}

	cAStart := toHighsInts(aStart)
	cAIndex := toHighsInts(aIndex)

	var cIntegrality []C.HighsInt
	if len(integrality) > 0 {
		cIntegrality = make([]C.HighsInt, len(integrality))
		for i, vt := range integrality {
			cIntegrality[i] = vt.toC()
		}
	}

	status := Status(C.Highs_passModel(s.ptr,
		C.HighsInt(numCol), C.HighsInt(numRow),
		C.HighsInt(len(aValue)), 0,
		C.kHighsMatrixFormatRowwise, C.kHighsHessianFormatTriangular,
		C.HighsInt(sense), C.double(offset),
		doublePtr(colCost), doublePtr(colLower), doublePtr(colUpper),
		doublePtr(rowLower), doublePtr(rowUpper),
		intPtr(cAStart), intPtr(cAIndex), doublePtr(aValue),
		nil, nil, nil,
		intPtr(cIntegrality)))
	return newError("PassModel", status)
}

// ChangeColsBounds replaces the bounds of every column at once.
// Both slices must have one entry per column.
func (s *Solver) ChangeColsBounds(lower, upper []float64) error {
	if len(lower) != len(upper) {
		return newErrorMsg("ChangeColsBounds", "lower and upper bounds must have same length")
	}
	if len(lower) == 0 {
		return nil
	}
	status := Status(C.Highs_changeColsBoundsByRange(s.ptr,
		0, C.HighsInt(len(lower)-1),
		doublePtr(lower), doublePtr(upper)))
	return newError("ChangeColsBounds", status)
}

// Run solves the loaded model and returns the solution, including the basis
// when HiGHS has one.
func (s *Solver) Run() (*Solution, error) {
	status := Status(C.Highs_run(s.ptr))
	if status == StatusError {
		return nil, newError("Run", status)
	}

	modelStatus := modelStatusFromC(C.Highs_getModelStatus(s.ptr))
	numCol := s.NumCol()
	numRow := s.NumRow()

	sol := &Solution{
		Status:    modelStatus,
		ColValues: make([]float64, numCol),
		ColDuals:  make([]float64, numCol),
		RowValues: make([]float64, numRow),
		RowDuals:  make([]float64, numRow),
	}

	C.Highs_getSolution(s.ptr,
		doublePtr(sol.ColValues), doublePtr(sol.ColDuals),
		doublePtr(sol.RowValues), doublePtr(sol.RowDuals))
	sol.Objective = float64(C.Highs_getObjectiveValue(s.ptr))

	if iters, err := s.GetIntInfo("simplex_iteration_count"); err == nil && iters > 0 {
		sol.SimplexIterations = iters
	}

	if numCol > 0 {
		colBasis := make([]C.HighsInt, numCol)
		rowBasis := make([]C.HighsInt, numRow+1) // never empty
		if Status(C.Highs_getBasis(s.ptr, &colBasis[0], &rowBasis[0])) == StatusOK {
			sol.ColBasis = make([]BasisStatus, numCol)
			sol.RowBasis = make([]BasisStatus, numRow)
			for i := range sol.ColBasis {
				sol.ColBasis[i] = basisStatusFromC(colBasis[i])
			}
			for i := range sol.RowBasis {
				sol.RowBasis[i] = basisStatusFromC(rowBasis[i])
			}
		}
	}

	return sol, nil
}

// ReadModel reads a model from a file (LP, MPS, or other supported format).
func (s *Solver) ReadModel(filename string) error {
	cFilename := C.CString(filename)
	defer C.free(unsafe.Pointer(cFilename))

	return newError("ReadModel", Status(C.Highs_readModel(s.ptr, cFilename)))
}

// GetModel reads the loaded LP back into a Model with a row-wise matrix.
func (s *Solver) GetModel() (*Model, error) {
	numCol := s.NumCol()
	numRow := s.NumRow()
	numNz := s.NumNonzero()

	var (
		cNumCol, cNumRow, cNumNz, cSense C.HighsInt
		offset                           C.double
	)
	colCost := make([]float64, numCol+1)
	colLower := make([]float64, numCol+1)
	colUpper := make([]float64, numCol+1)
	rowLower := make([]float64, numRow+1)
	rowUpper := make([]float64, numRow+1)
	aStart := make([]C.HighsInt, numRow+1)
	aIndex := make([]C.HighsInt, numNz+1)
	aValue := make([]float64, numNz+1)
	integrality := make([]C.HighsInt, numCol+1)
	for i := range integrality {
		integrality[i] = C.kHighsVarTypeContinuous
	}

	status := Status(C.Highs_getLp(s.ptr, C.kHighsMatrixFormatRowwise,
		&cNumCol, &cNumRow, &cNumNz, &cSense, &offset,
		doublePtr(colCost), doublePtr(colLower), doublePtr(colUpper),
		doublePtr(rowLower), doublePtr(rowUpper),
		&aStart[0], &aIndex[0], doublePtr(aValue),
		&integrality[0]))
	if err := newError("GetModel", status); err != nil {
		return nil, err
	}
	if int(cNumCol) != numCol || int(cNumRow) != numRow || int(cNumNz) != numNz {
		return nil, newErrorMsg("GetModel", "model dimensions changed while reading")
	}

	m := &Model{
		Maximize:    cSense == C.kHighsObjSenseMaximize,
		Offset:      float64(offset),
		ColCosts:    colCost[:numCol],
		ColLower:    colLower[:numCol],
		ColUpper:    colUpper[:numCol],
		RowLower:    rowLower[:numRow],
		RowUpper:    rowUpper[:numRow],
		ConstMatrix: make([]Nonzero, 0, numNz),
		VarTypes:    make([]VariableType, numCol),
	}
	for j := range m.VarTypes {
		m.VarTypes[j] = variableTypeFromC(integrality[j])
	}
	aStart[numRow] = C.HighsInt(numNz)
	for r := 0; r < numRow; r++ {
		for k := int(aStart[r]); k < int(aStart[r+1]); k++ {
			m.ConstMatrix = append(m.ConstMatrix, Nonzero{Row: r, Col: int(aIndex[k]), Val: aValue[k]})
		}
	}
	return m, nil
}

// WriteModel writes the loaded model to a file.
func (s *Solver) WriteModel(filename string) error {
	cFilename := C.CString(filename)
	defer C.free(unsafe.Pointer(cFilename))

	return newError("WriteModel", Status(C.Highs_writeModel(s.ptr, cFilename)))
}

func toHighsInts(v []int) []C.HighsInt {
	out := make([]C.HighsInt, len(v))
	for i, x := range v {
		out[i] = C.HighsInt(x)
	}
	return out
}

func doublePtr(v []float64) *C.double {
	if len(v) == 0 {
		return nil
	}
	return (*C.double)(&v[0])
}

func intPtr(v []C.HighsInt) *C.HighsInt {
	if len(v) == 0 {
		return nil
	}
	return &v[0]
}
