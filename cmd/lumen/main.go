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

// Command lumen loads a blueprint manifest and runs phase-two
// evaluation of one of its validators against a redeemer, reporting
// the resulting budget consumption and trace log.
package main

import (
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/lumenchain/lumen/blueprint"
	"github.com/lumenchain/lumen/cost"
	"github.com/lumenchain/lumen/flat"
	"github.com/lumenchain/lumen/script"
	"github.com/lumenchain/lumen/term"
)

var (
	dashplan     string
	dashvalidate string
	dashredeemer string
	dashcpu      int64
	dashmem      int64
	dashcost     string
	dashquiet    bool
)

func init() {
	log.SetFlags(0)
	flag.StringVar(&dashplan, "blueprint", "", "path to a blueprint JSON manifest (required)")
	flag.StringVar(&dashvalidate, "validator", "", "title of the validator to run (required)")
	flag.StringVar(&dashredeemer, "redeemer", "", "hex-encoded CBOR Data for the redeemer (empty: pass no extra argument)")
	flag.Int64Var(&dashcpu, "cpu", cost.DefaultBudget.CPU, "CPU budget ceiling")
	flag.Int64Var(&dashmem, "mem", cost.DefaultBudget.Mem, "memory budget ceiling")
	flag.StringVar(&dashcost, "params", "", "optional path to a cost model parameters YAML file")
	flag.BoolVar(&dashquiet, "q", false, "suppress the trace log on stdout")
}

func main() {
	flag.Parse()
	if dashplan == "" || dashvalidate == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	raw, err := os.ReadFile(dashplan)
	if err != nil {
		return fmt.Errorf("reading blueprint: %w", err)
	}
	var bp blueprint.Blueprint
	if err := json.Unmarshal(raw, &bp); err != nil {
		return fmt.Errorf("parsing blueprint: %w", err)
	}

	v, err := bp.Select(dashvalidate, "", func(v blueprint.Validator) (blueprint.Validator, error) { return v, nil })
	if err != nil {
		return fmt.Errorf("selecting validator from %s: %w", dashplan, err)
	}

	model := cost.DefaultModel(cost.PlutusV2)
	if dashcost != "" {
		model, err = cost.LoadParametersYAML(dashcost)
		if err != nil {
			return fmt.Errorf("loading cost parameters: %w", err)
		}
	}

	prog, err := decodeValidatorProgram(v)
	if err != nil {
		return err
	}

	var args []term.Constant
	if dashredeemer != "" {
		raw, err := hex.DecodeString(dashredeemer)
		if err != nil {
			return fmt.Errorf("redeemer: invalid hex: %w", err)
		}
		d, err := flat.DecodeData(raw)
		if err != nil {
			return fmt.Errorf("redeemer: invalid CBOR Data: %w", err)
		}
		args = append(args, term.NewData(d))
	}

	evals := []script.Eval{{
		Redeemer: script.Redeemer{
			Purpose: script.Spend,
			Index:   0,
			Budget:  script.ExBudgetHint{CPU: dashcpu, Mem: dashmem},
		},
		Program: prog,
		Args:    args,
	}}

	outcomes, err := script.Run(evals, script.TxInfo{}, script.EvalOptions{
		Budget: cost.ExBudget{CPU: dashcpu, Mem: dashmem},
		Model:  model,
		Mode:   script.CollectAll,
	})
	report(outcomes)
	return err
}

func decodeValidatorProgram(v blueprint.Validator) (term.Program[term.DeBruijn], error) {
	raw, err := hex.DecodeString(v.CompiledCode)
	if err != nil {
		return term.Program[term.DeBruijn]{}, fmt.Errorf("validator %s: invalid compiledCode hex: %w", v.Title, err)
	}
	unwrapped, err := flat.UnwrapCBORBytes(raw)
	if err != nil {
		return term.Program[term.DeBruijn]{}, fmt.Errorf("validator %s: %w", v.Title, err)
	}
	prog, err := flat.DecodeProgram(unwrapped)
	if err != nil {
		return term.Program[term.DeBruijn]{}, fmt.Errorf("validator %s: %w", v.Title, err)
	}
	return prog, nil
}

func report(outcomes []script.Outcome) {
	for _, o := range outcomes {
		status := "OK"
		if o.Err != nil {
			status = "FAIL: " + o.Err.Error()
		}
		fmt.Printf("%s[%d]: %s  cpu_remaining=%d mem_remaining=%d\n",
			o.Redeemer.Purpose, o.Redeemer.Index, status, o.Result.Remaining.CPU, o.Result.Remaining.Mem)
		if !dashquiet {
			for _, line := range o.Result.Logs {
				fmt.Println("  trace:", line)
			}
		}
	}
}
