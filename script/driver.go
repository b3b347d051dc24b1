// Copyright (C) 2024 Lumen Authors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package script

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/lumenchain/lumen/cost"
	"github.com/lumenchain/lumen/machine"
	"github.com/lumenchain/lumen/term"
)

// RunMode selects how the driver reacts to a single redeemer failing
// (§5's phase-two semantics: the ledger rule is "collect every
// failure, then reject the whole transaction if any exist", but a
// fail-fast mode is useful for quick local iteration).
type RunMode uint8

const (
	CollectAll RunMode = iota
	FailFast
)

// Eval is one script to run: the compiled program plus the redeemer
// metadata needed to build its ScriptContext argument and to report
// results against the right purpose/index.
type Eval struct {
	Redeemer Redeemer
	Program  term.Program[term.DeBruijn]
	// Args are any additional applied arguments a script expects ahead
	// of the script context (e.g. a validator's datum for Spend
	// purposes); the script context is always applied last.
	Args []term.Constant
}

// Outcome is the result of evaluating one redeemer.
type Outcome struct {
	RunID     string
	Redeemer  Redeemer
	Result    machine.Result
	Err       error
	Exceeded  bool // actual cost exceeded the redeemer's declared ex-units
}

// EvalOptions configures a driver run.
type EvalOptions struct {
	Budget     cost.ExBudget
	Model      *cost.Model
	Mode       RunMode
	Parallel   int // 0 = runtime.NumCPU()
	SlotConfig SlotConfig
}

// order sorts evals by (Purpose, Index), the ledger's canonical
// phase-two evaluation order.
func order(evals []Eval) {
	sort.SliceStable(evals, func(i, j int) bool {
		a, b := evals[i].Redeemer, evals[j].Redeemer
		if a.Purpose != b.Purpose {
			return a.Purpose < b.Purpose
		}
		return a.Index < b.Index
	})
}

// buildContext applies a validator's program to its context argument.
// The script context is represented as a Data constant applied as the
// final argument, matching how the ledger actually invokes a script.
func buildContext(e Eval, ctx ScriptContext) term.Program[term.DeBruijn] {
	t := e.Program.Term
	for _, a := range e.Args {
		t = term.Apply(t, term.Const[term.DeBruijn](a))
	}
	t = term.Apply(t, term.Const[term.DeBruijn](term.NewData(ctx.ToData())))
	return term.Program[term.DeBruijn]{Version: e.Program.Version, Term: t}
}

// Run evaluates every script in evals against the supplied
// transaction info, one ScriptContext per redeemer, concurrently
// (grounded on the sync.WaitGroup + per-slot error collection pattern
// used to fan out subtree execution elsewhere in this codebase).
// Results are returned in canonical (Purpose, Index) order regardless
// of completion order.
func Run(evals []Eval, tx TxInfo, opts EvalOptions) ([]Outcome, error) {
	ordered := make([]Eval, len(evals))
	copy(ordered, evals)
	order(ordered)

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}
	if parallel > len(ordered) {
		parallel = len(ordered)
	}
	if parallel < 1 {
		parallel = 1
	}

	outcomes := make([]Outcome, len(ordered))
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var stop atomic.Bool

	for i := range ordered {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			if opts.Mode == FailFast && stop.Load() {
				outcomes[i] = Outcome{Redeemer: ordered[i].Redeemer, Err: errSkipped}
				return
			}
			o := evalOne(ordered[i], tx, opts)
			outcomes[i] = o
			if o.Err != nil && opts.Mode == FailFast {
				stop.Store(true)
			}
		}(i)
	}
	wg.Wait()

	var failures []error
	for _, o := range outcomes {
		if o.Err != nil && o.Err != errSkipped {
			failures = append(failures, fmt.Errorf("%s redeemer %d: %w", o.Redeemer.Purpose, o.Redeemer.Index, o.Err))
		}
	}
	if len(failures) > 0 {
		return outcomes, fmt.Errorf("phase-two validation failed: %d of %d redeemers: %v", len(failures), len(ordered), failures[0])
	}
	return outcomes, nil
}

var errSkipped = fmt.Errorf("script: skipped after earlier failure")

// CheckExUnitsCeiling is the phase-one subset check from §4.6's last
// paragraph: the sum of every redeemer's declared ex-units must not
// exceed the per-transaction ceiling the ledger's protocol parameters
// fix, checked before phase two ever runs the machine.
func CheckExUnitsCeiling(redeemers []Redeemer, ceiling ExBudgetHint) error {
	var total ExBudgetHint
	for _, r := range redeemers {
		total.CPU += r.Budget.CPU
		total.Mem += r.Budget.Mem
	}
	if total.CPU > ceiling.CPU || total.Mem > ceiling.Mem {
		return &ExUnitsCeilingExceededError{Declared: total, Ceiling: ceiling}
	}
	return nil
}

func evalOne(e Eval, tx TxInfo, opts EvalOptions) Outcome {
	runID := uuid.NewString()
	ctx := ScriptContext{TxInfo: tx, Purpose: e.Redeemer.Purpose, Index: e.Redeemer.Index, Version: opts.Model.Version}
	p := buildContext(e, ctx)

	res, err := machine.Run(p, opts.Budget, opts.Model)
	o := Outcome{RunID: runID, Redeemer: e.Redeemer, Result: res, Err: err}
	if err == nil {
		spentCPU := opts.Budget.CPU - res.Remaining.CPU
		spentMem := opts.Budget.Mem - res.Remaining.Mem
		if spentCPU > e.Redeemer.Budget.CPU || spentMem > e.Redeemer.Budget.Mem {
			o.Exceeded = true
			o.Err = fmt.Errorf("script: declared ex-units exceeded: spent cpu=%d mem=%d, declared cpu=%d mem=%d",
				spentCPU, spentMem, e.Redeemer.Budget.CPU, e.Redeemer.Budget.Mem)
		}
	}
	return o
}
